package laderr

// DispositionState represents whether a disposition is currently in force.
type DispositionState string

const (
	// StateEnabled is the default state of every disposition.
	StateEnabled DispositionState = "enabled"

	// StateDisabled is derived when an enabled capability disables the
	// disposition; once derived it holds for the rest of the run.
	StateDisabled DispositionState = "disabled"
)

// Valid reports whether the state is a member of the closed value set.
func (s DispositionState) Valid() bool {
	return s == StateEnabled || s == StateDisabled
}

// Situation classifies what a scenario models.
type Situation string

const (
	// SituationOperational models day-to-day operation with latent exposure.
	SituationOperational Situation = "operational"

	// SituationIncident models an attack in progress.
	SituationIncident Situation = "incident"
)

// Valid reports whether the situation is a member of the closed value set.
func (s Situation) Valid() bool {
	return s == SituationOperational || s == SituationIncident
}

// Status is the derived outcome of evaluating a scenario.
type Status string

const (
	// StatusResilient means the scenario withstands its modeled threats.
	StatusResilient Status = "resilient"

	// StatusVulnerable means at least one threat gets through.
	StatusVulnerable Status = "vulnerable"
)

// Valid reports whether the status is a member of the closed value set.
func (s Status) Valid() bool {
	return s == StatusResilient || s == StatusVulnerable
}
