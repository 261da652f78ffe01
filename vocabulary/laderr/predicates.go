package laderr

// Asserted predicates connect constructs supplied by the modeler.
const (
	// Capabilities links an Entity to a Capability it holds.
	Capabilities = "capabilities"

	// Vulnerabilities links an Entity to a Vulnerability it holds.
	Vulnerabilities = "vulnerabilities"

	// Exploits links an offensive Capability to the Vulnerability it attacks.
	Exploits = "exploits"

	// Exposes links a Vulnerability to the Capability it puts at risk.
	Exposes = "exposes"

	// Disables links a mitigating Capability to the Disposition it switches off.
	Disables = "disables"

	// Sustains links a Capability to the Resilience it keeps alive.
	Sustains = "sustains"

	// Components links a Scenario to a construct evaluated within it.
	Components = "components"

	// State carries the enabled/disabled value of a Disposition.
	State = "state"
)

// Resilience predicates relate a Resilience to the dispositions it covers.
const (
	// Resiliences links the owning asset Entity to a Resilience.
	Resiliences = "resiliences"

	// Preserves links a Resilience to the Capability it preserves.
	Preserves = "preserves"

	// PreservesAgainst links a Resilience to the threatening Capability it
	// preserves against.
	PreservesAgainst = "preservesAgainst"

	// PreservesDespite links a Resilience to the Vulnerability it preserves
	// despite.
	PreservesDespite = "preservesDespite"
)

// Derived predicates are produced by the derivation engine, never asserted.
const (
	// Protects holds between A and B when A can disable a vulnerability of B.
	Protects = "protects"

	// Inhibits holds between A and B when A can disable an offensive
	// capability of B.
	Inhibits = "inhibits"

	// Threatens holds between A and B when A can exploit a vulnerability of B.
	Threatens = "threatens"

	// CanDamage / PositiveDamage / SucceededToDamage mark a successful attack.
	CanDamage         = "canDamage"
	PositiveDamage    = "positiveDamage"
	SucceededToDamage = "succeededToDamage"

	// CannotDamage / NegativeDamage / FailedToDamage mark a defeated attack.
	CannotDamage   = "cannotDamage"
	NegativeDamage = "negativeDamage"
	FailedToDamage = "failedToDamage"
)

// DerivedPredicates lists every predicate the engine may add during a run.
var DerivedPredicates = []string{
	State,
	Protects,
	Inhibits,
	Threatens,
	CanDamage,
	PositiveDamage,
	SucceededToDamage,
	CannotDamage,
	NegativeDamage,
	FailedToDamage,
	Resiliences,
	Preserves,
	PreservesAgainst,
	PreservesDespite,
	Sustains,
	Components,
}
