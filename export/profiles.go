// Package export serializes enriched fact graphs to RDF.
package export

// Profile determines which type assertions are included in the export.
type Profile string

const (
	// ProfileMinimal includes only the stored construct classes.
	ProfileMinimal Profile = "minimal"

	// ProfileRoles additionally asserts the derived role classes
	// (Threat, Control, Asset) computed from relation patterns.
	ProfileRoles Profile = "roles"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// IncludeRoles indicates whether derived role classes are asserted.
	IncludeRoles bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileMinimal: {
		Name:         ProfileMinimal,
		Description:  "Stored construct classes only",
		IncludeRoles: false,
	},
	ProfileRoles: {
		Name:         ProfileRoles,
		Description:  "Stored classes plus derived Threat/Control/Asset roles",
		IncludeRoles: true,
	},
}
