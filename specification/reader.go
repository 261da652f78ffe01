package specification

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

// DefaultScenarioID is injected when a document declares no scenario.
// The ID is fixed so reruns of the same document build the same graph.
const DefaultScenarioID = "default"

// Reader converts authored YAML documents into fact graphs.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader. A nil logger falls back to slog.Default().
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadFile reads a specification from a YAML file.
func (r *Reader) ReadFile(path string) (*graph.Graph, Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("read specification: %w", err)
	}
	g, meta, err := r.Read(data)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, meta, nil
}

// Read parses YAML bytes, applies defaults, and builds the initial fact
// graph. Structural shape problems (dangling references, bad enum values)
// are left to the validation layer.
func (r *Reader) Read(data []byte) (*graph.Graph, Metadata, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, Metadata{}, fmt.Errorf("decode yaml: %w", err)
	}
	r.applyDefaults(&doc)

	meta := Metadata{
		Title:       doc.Title,
		Description: doc.Description,
		Version:     doc.Version,
		CreatedBy:   doc.CreatedBy,
		BaseURI:     doc.BaseURI,
	}

	g := graph.New()
	allScenarios := sortedKeys(doc.Scenarios)

	for id, spec := range doc.Scenarios {
		c := graph.NewConstruct(id, laderr.ClassScenario)
		c.Label = spec.Label
		c.Description = spec.Description
		c.SetAttr(graph.AttrSituation, spec.Situation)
		c.SetAttr(graph.AttrStatus, spec.Status)
		g.AddConstruct(c)
	}

	for id, spec := range doc.Entities {
		c := graph.NewConstruct(id, laderr.ClassEntity)
		c.Label = spec.Label
		c.Description = spec.Description
		g.AddConstruct(c)
		r.attach(g, id, scenarioList(spec.Scenarios, allScenarios))
		addAll(g, id, laderr.Capabilities, spec.Capabilities)
		addAll(g, id, laderr.Vulnerabilities, spec.Vulnerabilities)
		addAll(g, id, laderr.Resiliences, spec.Resiliences)
		addAll(g, id, laderr.Protects, spec.Protects)
		addAll(g, id, laderr.Inhibits, spec.Inhibits)
		addAll(g, id, laderr.Threatens, spec.Threatens)
		addAll(g, id, laderr.CanDamage, spec.CanDamage)
		addAll(g, id, laderr.CannotDamage, spec.CannotDamage)
		addAll(g, id, laderr.PositiveDamage, spec.PositiveDamage)
		addAll(g, id, laderr.NegativeDamage, spec.NegativeDamage)
		addAll(g, id, laderr.SucceededToDamage, spec.SucceededToDamage)
		addAll(g, id, laderr.FailedToDamage, spec.FailedToDamage)
	}

	for id, spec := range doc.Capabilities {
		c := graph.NewConstruct(id, laderr.ClassCapability)
		c.Label = spec.Label
		c.Description = spec.Description
		g.AddConstruct(c)
		r.attach(g, id, scenarioList(spec.Scenarios, allScenarios))
		declareState(g, id, spec.State)
		addAll(g, id, laderr.Exploits, spec.Exploits)
		addAll(g, id, laderr.Disables, spec.Disables)
		addAll(g, id, laderr.Sustains, spec.Sustains)
	}

	for id, spec := range doc.Vulnerabilities {
		c := graph.NewConstruct(id, laderr.ClassVulnerability)
		c.Label = spec.Label
		c.Description = spec.Description
		g.AddConstruct(c)
		r.attach(g, id, scenarioList(spec.Scenarios, allScenarios))
		declareState(g, id, spec.State)
		addAll(g, id, laderr.Exposes, spec.Exposes)
	}

	for id, spec := range doc.Resiliences {
		c := graph.NewConstruct(id, laderr.ClassResilience)
		c.Label = spec.Label
		c.Description = spec.Description
		g.AddConstruct(c)
		r.attach(g, id, scenarioList(spec.Scenarios, allScenarios))
		declareState(g, id, spec.State)
		addAll(g, id, laderr.Preserves, spec.Preserves)
		addAll(g, id, laderr.PreservesAgainst, spec.PreservesAgainst)
		addAll(g, id, laderr.PreservesDespite, spec.PreservesDespite)
	}

	for id, spec := range doc.Scenarios {
		for _, comp := range spec.Components {
			g.Add(graph.Triple{Subject: id, Predicate: laderr.Components, Object: comp})
		}
	}

	return g, meta, nil
}

// applyDefaults mirrors the defaulting the original authoring format
// guarantees: every document has at least one scenario, every construct a
// label and a scenario list, scenarios a situation and an initial status.
func (r *Reader) applyDefaults(doc *Document) {
	if doc.BaseURI == "" {
		doc.BaseURI = laderr.DefaultBaseURI
	} else if u, err := url.Parse(doc.BaseURI); err != nil || u.Scheme == "" || u.Host == "" {
		r.logger.Warn("invalid base URI, using default",
			"base_uri", doc.BaseURI, "default", laderr.DefaultBaseURI)
		doc.BaseURI = laderr.DefaultBaseURI
	}

	if len(doc.Scenarios) == 0 {
		r.logger.Warn("no scenario declared, injecting default scenario",
			"scenario", DefaultScenarioID)
		doc.Scenarios = map[string]*ScenarioSpec{DefaultScenarioID: {}}
	}

	for id, spec := range doc.Scenarios {
		if spec.Label == "" {
			spec.Label = id
		}
		if spec.Situation == "" {
			spec.Situation = string(laderr.SituationOperational)
		}
		if spec.Status == "" {
			spec.Status = string(laderr.StatusVulnerable)
		}
	}

	for id, spec := range doc.Entities {
		if spec.Label == "" {
			spec.Label = id
		}
		spec.Scenarios = mergeScenarioFields(r.logger, id, spec.Scenario, spec.Scenarios)
		spec.Scenario = nil
	}
	for id, spec := range doc.Capabilities {
		if spec.Label == "" {
			spec.Label = id
		}
		spec.Scenarios = mergeScenarioFields(r.logger, id, spec.Scenario, spec.Scenarios)
		spec.Scenario = nil
	}
	for id, spec := range doc.Vulnerabilities {
		if spec.Label == "" {
			spec.Label = id
		}
		spec.Scenarios = mergeScenarioFields(r.logger, id, spec.Scenario, spec.Scenarios)
		spec.Scenario = nil
	}
	for id, spec := range doc.Resiliences {
		if spec.Label == "" {
			spec.Label = id
		}
		spec.Scenarios = mergeScenarioFields(r.logger, id, spec.Scenario, spec.Scenarios)
		spec.Scenario = nil
	}
}

// mergeScenarioFields normalizes the singular scenario field into the list
// form. When both are present the list wins.
func mergeScenarioFields(logger *slog.Logger, id string, singular, plural StringList) StringList {
	if len(plural) > 0 {
		if len(singular) > 0 {
			logger.Warn("construct declares both scenario and scenarios, ignoring scenario", "construct", id)
		}
		return plural
	}
	return singular
}

// scenarioList falls back to every declared scenario when a construct names
// none, keeping the co-occurrence invariant satisfiable by default.
func scenarioList(declared StringList, all []string) []string {
	if len(declared) > 0 {
		return declared
	}
	return all
}

func (r *Reader) attach(g *graph.Graph, id string, scenarios []string) {
	for _, s := range scenarios {
		g.Add(graph.Triple{Subject: s, Predicate: laderr.Components, Object: id})
	}
}

// declareState records a declared disabled state. Enabled is the default and
// needs no fact; the state enum is checked by validation, not here.
func declareState(g *graph.Graph, id, state string) {
	if state == string(laderr.StateDisabled) {
		g.Add(graph.Triple{Subject: id, Predicate: laderr.State, Object: state})
	}
}

func addAll(g *graph.Graph, subject, predicate string, objects StringList) {
	for _, o := range objects {
		g.Add(graph.Triple{Subject: subject, Predicate: predicate, Object: o})
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
