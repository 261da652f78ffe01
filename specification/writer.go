package specification

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

// Write serializes a (possibly enriched) fact graph back to the authored
// YAML shape. Derived relations appear alongside asserted ones; the output
// is stable across runs because every list is emitted sorted.
func Write(g *graph.Graph, meta Metadata) ([]byte, error) {
	doc := Document{
		Title:       meta.Title,
		Description: meta.Description,
		Version:     meta.Version,
		CreatedBy:   meta.CreatedBy,
		BaseURI:     meta.BaseURI,
	}

	for _, c := range g.Constructs(laderr.ClassScenario) {
		doc.Scenarios = ensure(doc.Scenarios)
		doc.Scenarios[c.ID] = &ScenarioSpec{
			Label:       c.Label,
			Description: c.Description,
			Situation:   c.Attr(graph.AttrSituation),
			Status:      c.Attr(graph.AttrStatus),
			Components:  g.Objects(c.ID, laderr.Components),
		}
	}

	for _, c := range g.Constructs(laderr.ClassEntity) {
		doc.Entities = ensure(doc.Entities)
		doc.Entities[c.ID] = &EntitySpec{
			Label:             c.Label,
			Description:       c.Description,
			Scenarios:         g.Subjects(laderr.Components, c.ID),
			Capabilities:      g.Objects(c.ID, laderr.Capabilities),
			Vulnerabilities:   g.Objects(c.ID, laderr.Vulnerabilities),
			Resiliences:       g.Objects(c.ID, laderr.Resiliences),
			Protects:          g.Objects(c.ID, laderr.Protects),
			Inhibits:          g.Objects(c.ID, laderr.Inhibits),
			Threatens:         g.Objects(c.ID, laderr.Threatens),
			CanDamage:         g.Objects(c.ID, laderr.CanDamage),
			CannotDamage:      g.Objects(c.ID, laderr.CannotDamage),
			PositiveDamage:    g.Objects(c.ID, laderr.PositiveDamage),
			NegativeDamage:    g.Objects(c.ID, laderr.NegativeDamage),
			SucceededToDamage: g.Objects(c.ID, laderr.SucceededToDamage),
			FailedToDamage:    g.Objects(c.ID, laderr.FailedToDamage),
		}
	}

	for _, c := range g.Constructs(laderr.ClassCapability) {
		doc.Capabilities = ensure(doc.Capabilities)
		doc.Capabilities[c.ID] = &CapabilitySpec{
			Label:       c.Label,
			Description: c.Description,
			State:       declaredState(g, c.ID),
			Scenarios:   g.Subjects(laderr.Components, c.ID),
			Exploits:    g.Objects(c.ID, laderr.Exploits),
			Disables:    g.Objects(c.ID, laderr.Disables),
			Sustains:    g.Objects(c.ID, laderr.Sustains),
		}
	}

	for _, c := range g.Constructs(laderr.ClassVulnerability) {
		doc.Vulnerabilities = ensure(doc.Vulnerabilities)
		doc.Vulnerabilities[c.ID] = &VulnerabilitySpec{
			Label:       c.Label,
			Description: c.Description,
			State:       declaredState(g, c.ID),
			Scenarios:   g.Subjects(laderr.Components, c.ID),
			Exposes:     g.Objects(c.ID, laderr.Exposes),
		}
	}

	for _, c := range g.Constructs(laderr.ClassResilience) {
		doc.Resiliences = ensure(doc.Resiliences)
		doc.Resiliences[c.ID] = &ResilienceSpec{
			Label:            c.Label,
			Description:      c.Description,
			Scenarios:        g.Subjects(laderr.Components, c.ID),
			Preserves:        g.Objects(c.ID, laderr.Preserves),
			PreservesAgainst: g.Objects(c.ID, laderr.PreservesAgainst),
			PreservesDespite: g.Objects(c.ID, laderr.PreservesDespite),
		}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return data, nil
}

// WriteFile writes the serialized graph to path, creating parent directories
// as needed.
func WriteFile(g *graph.Graph, meta Metadata, path string) error {
	data, err := Write(g, meta)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write specification: %w", err)
	}
	return nil
}

// declaredState emits only the non-default state so enabled dispositions
// stay implicit, mirroring the reader.
func declaredState(g *graph.Graph, id string) string {
	if g.State(id) == laderr.StateDisabled {
		return string(laderr.StateDisabled)
	}
	return ""
}

func ensure[V any](m map[string]V) map[string]V {
	if m == nil {
		return make(map[string]V)
	}
	return m
}
