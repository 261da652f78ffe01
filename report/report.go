// Package report summarizes an enriched fact graph: construct counts,
// vulnerability mitigation metrics, and scenario outcomes.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

// VulnerabilityMetrics breaks down vulnerabilities by effective state and
// whether any capability exploits them.
type VulnerabilityMetrics struct {
	Total int

	EnabledExploited    int
	EnabledUnexploited  int
	DisabledExploited   int
	DisabledUnexploited int
}

// ResilienceIndex is the share of exploited vulnerabilities that have been
// disabled. 1.0 when nothing is exploited.
func (m VulnerabilityMetrics) ResilienceIndex() float64 {
	exploited := m.EnabledExploited + m.DisabledExploited
	if exploited == 0 {
		return 1.0
	}
	return float64(m.DisabledExploited) / float64(exploited)
}

// ScenarioOutcome is the derived verdict for one scenario.
type ScenarioOutcome struct {
	ID        string
	Label     string
	Situation laderr.Situation
	Status    laderr.Status
}

// Report is the analysis summary of an enriched graph.
type Report struct {
	ClassCounts     map[string]int
	Vulnerabilities VulnerabilityMetrics
	Scenarios       []ScenarioOutcome
}

// Build analyzes the graph. Scenario constructs are excluded from the class
// counts, matching the reporting convention.
func Build(g *graph.Graph) *Report {
	r := &Report{ClassCounts: make(map[string]int)}

	for _, c := range g.Constructs("") {
		for _, class := range c.Classes() {
			if class == laderr.ClassScenario {
				continue
			}
			r.ClassCounts[class]++
		}
	}

	for _, v := range g.Constructs(laderr.ClassVulnerability) {
		r.Vulnerabilities.Total++
		disabled := g.State(v.ID) == laderr.StateDisabled
		exploited := len(g.Subjects(laderr.Exploits, v.ID)) > 0
		switch {
		case disabled && exploited:
			r.Vulnerabilities.DisabledExploited++
		case disabled:
			r.Vulnerabilities.DisabledUnexploited++
		case exploited:
			r.Vulnerabilities.EnabledExploited++
		default:
			r.Vulnerabilities.EnabledUnexploited++
		}
	}

	for _, s := range g.Constructs(laderr.ClassScenario) {
		r.Scenarios = append(r.Scenarios, ScenarioOutcome{
			ID:        s.ID,
			Label:     s.Label,
			Situation: laderr.Situation(s.Attr(graph.AttrSituation)),
			Status:    laderr.Status(s.Attr(graph.AttrStatus)),
		})
	}
	sort.Slice(r.Scenarios, func(i, j int) bool { return r.Scenarios[i].ID < r.Scenarios[j].ID })

	return r
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Derivation Report\n\n")

	sb.WriteString("## Constructs\n\n")
	sb.WriteString("| Class | Count |\n|---|---|\n")
	classes := make([]string, 0, len(r.ClassCounts))
	for class := range r.ClassCounts {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", class, r.ClassCounts[class]))
	}

	m := r.Vulnerabilities
	sb.WriteString("\n## Vulnerabilities\n\n")
	sb.WriteString("| | Exploited | Unexploited |\n|---|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Enabled | %d | %d |\n", m.EnabledExploited, m.EnabledUnexploited))
	sb.WriteString(fmt.Sprintf("| Disabled | %d | %d |\n", m.DisabledExploited, m.DisabledUnexploited))
	sb.WriteString(fmt.Sprintf("\nResilience index: %.2f\n", m.ResilienceIndex()))

	sb.WriteString("\n## Scenarios\n\n")
	sb.WriteString("| Scenario | Situation | Status |\n|---|---|---|\n")
	for _, s := range r.Scenarios {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", s.ID, s.Situation, s.Status))
	}

	return sb.String()
}
