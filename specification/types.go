// Package specification reads and writes the authored YAML format for
// risk-and-resilience models and converts it to and from the fact graph.
package specification

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// StringList accepts either a scalar or a sequence in YAML, so authors can
// write `scenarios: main` as well as `scenarios: [main, backup]`.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// Metadata is the top-level information of a specification document.
type Metadata struct {
	Title       string
	Description string
	Version     string
	CreatedBy   []string
	BaseURI     string
}

// Document is the YAML shape of a specification. Sections are keyed by
// construct identifier; the section key is authoritative for the ID.
type Document struct {
	Title       string     `yaml:"title,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Version     string     `yaml:"version,omitempty"`
	CreatedBy   StringList `yaml:"createdBy,omitempty"`
	BaseURI     string     `yaml:"baseURI,omitempty"`

	Scenarios       map[string]*ScenarioSpec      `yaml:"scenario,omitempty"`
	Entities        map[string]*EntitySpec        `yaml:"entity,omitempty"`
	Capabilities    map[string]*CapabilitySpec    `yaml:"capability,omitempty"`
	Vulnerabilities map[string]*VulnerabilitySpec `yaml:"vulnerability,omitempty"`
	Resiliences     map[string]*ResilienceSpec    `yaml:"resilience,omitempty"`
}

// ScenarioSpec declares a scenario and its component grouping.
type ScenarioSpec struct {
	Label       string     `yaml:"label,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Situation   string     `yaml:"situation,omitempty"`
	Status      string     `yaml:"status,omitempty"`
	Components  StringList `yaml:"components,omitempty"`
}

// EntitySpec declares a participant. The derived relation fields are
// populated when writing an enriched graph and accepted back on read.
type EntitySpec struct {
	Label       string     `yaml:"label,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Scenario    StringList `yaml:"scenario,omitempty"`
	Scenarios   StringList `yaml:"scenarios,omitempty"`

	Capabilities    StringList `yaml:"capabilities,omitempty"`
	Vulnerabilities StringList `yaml:"vulnerabilities,omitempty"`
	Resiliences     StringList `yaml:"resiliences,omitempty"`

	Protects          StringList `yaml:"protects,omitempty"`
	Inhibits          StringList `yaml:"inhibits,omitempty"`
	Threatens         StringList `yaml:"threatens,omitempty"`
	CanDamage         StringList `yaml:"canDamage,omitempty"`
	CannotDamage      StringList `yaml:"cannotDamage,omitempty"`
	PositiveDamage    StringList `yaml:"positiveDamage,omitempty"`
	NegativeDamage    StringList `yaml:"negativeDamage,omitempty"`
	SucceededToDamage StringList `yaml:"succeededToDamage,omitempty"`
	FailedToDamage    StringList `yaml:"failedToDamage,omitempty"`
}

// CapabilitySpec declares a capability disposition.
type CapabilitySpec struct {
	Label       string     `yaml:"label,omitempty"`
	Description string     `yaml:"description,omitempty"`
	State       string     `yaml:"state,omitempty"`
	Scenario    StringList `yaml:"scenario,omitempty"`
	Scenarios   StringList `yaml:"scenarios,omitempty"`

	Exploits StringList `yaml:"exploits,omitempty"`
	Disables StringList `yaml:"disables,omitempty"`
	Sustains StringList `yaml:"sustains,omitempty"`
}

// VulnerabilitySpec declares a vulnerability disposition.
type VulnerabilitySpec struct {
	Label       string     `yaml:"label,omitempty"`
	Description string     `yaml:"description,omitempty"`
	State       string     `yaml:"state,omitempty"`
	Scenario    StringList `yaml:"scenario,omitempty"`
	Scenarios   StringList `yaml:"scenarios,omitempty"`

	Exposes StringList `yaml:"exposes,omitempty"`
}

// ResilienceSpec declares a resilience. The owning asset links to it through
// the entity's resiliences list.
type ResilienceSpec struct {
	Label       string     `yaml:"label,omitempty"`
	Description string     `yaml:"description,omitempty"`
	State       string     `yaml:"state,omitempty"`
	Scenario    StringList `yaml:"scenario,omitempty"`
	Scenarios   StringList `yaml:"scenarios,omitempty"`

	Preserves        StringList `yaml:"preserves,omitempty"`
	PreservesAgainst StringList `yaml:"preservesAgainst,omitempty"`
	PreservesDespite StringList `yaml:"preservesDespite,omitempty"`
}
