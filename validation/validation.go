// Package validation performs structural shape checks on a fact graph before
// derivation: enum membership, mandatory relation cardinality, scenario
// co-occurrence, and dangling references. The derivation core assumes these
// hold; callers reject non-conforming graphs upstream.
package validation

import (
	"fmt"
	"sort"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

// Severity ranks an issue.
type Severity string

const (
	// SeverityViolation makes the graph non-conforming.
	SeverityViolation Severity = "violation"

	// SeverityWarning flags questionable but workable input.
	SeverityWarning Severity = "warning"
)

// Issue is a single structural problem.
type Issue struct {
	Severity  Severity
	Construct string
	Message   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Construct, i.Message)
}

// Report is the outcome of validating a graph.
type Report struct {
	Issues []Issue
}

// Conforms reports whether no violations were found. Warnings do not affect
// conformance.
func (r *Report) Conforms() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityViolation {
			return false
		}
	}
	return true
}

// Validate runs every structural check and returns the collected issues
// sorted by construct.
func Validate(g *graph.Graph) *Report {
	r := &Report{}
	checkEnums(g, r)
	checkResilienceShape(g, r)
	checkCoOccurrence(g, r)
	checkDanglingTargets(g, r)
	sort.Slice(r.Issues, func(i, j int) bool {
		a, b := r.Issues[i], r.Issues[j]
		if a.Construct != b.Construct {
			return a.Construct < b.Construct
		}
		return a.Message < b.Message
	})
	return r
}

func (r *Report) violation(construct, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{SeverityViolation, construct, fmt.Sprintf(format, args...)})
}

func (r *Report) warning(construct, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{SeverityWarning, construct, fmt.Sprintf(format, args...)})
}

func checkEnums(g *graph.Graph, r *Report) {
	for _, s := range g.Constructs(laderr.ClassScenario) {
		if v := laderr.Situation(s.Attr(graph.AttrSituation)); !v.Valid() {
			r.violation(s.ID, "situation %q is not one of operational, incident", string(v))
		}
		if v := laderr.Status(s.Attr(graph.AttrStatus)); v != "" && !v.Valid() {
			r.violation(s.ID, "status %q is not one of resilient, vulnerable", string(v))
		}
	}
	for _, d := range g.Constructs(laderr.ClassDisposition) {
		for _, v := range g.Objects(d.ID, laderr.State) {
			if !laderr.DispositionState(v).Valid() {
				r.violation(d.ID, "state %q is not one of enabled, disabled", v)
			}
		}
	}
}

func checkResilienceShape(g *graph.Graph, r *Report) {
	for _, res := range g.Constructs(laderr.ClassResilience) {
		if owners := g.Subjects(laderr.Resiliences, res.ID); len(owners) != 1 {
			r.violation(res.ID, "resilience must have exactly one owning asset, has %d", len(owners))
		}
		if len(g.Objects(res.ID, laderr.Preserves)) == 0 {
			r.violation(res.ID, "resilience must preserve at least one capability")
		}
		if len(g.Objects(res.ID, laderr.PreservesAgainst)) == 0 {
			r.violation(res.ID, "resilience must preserve against at least one capability")
		}
		if len(g.Objects(res.ID, laderr.PreservesDespite)) == 0 {
			r.violation(res.ID, "resilience must preserve despite at least one vulnerability")
		}
		sustained := false
		for _, c := range g.Subjects(laderr.Sustains, res.ID) {
			if g.State(c) == laderr.StateEnabled {
				sustained = true
				break
			}
		}
		if !sustained {
			r.violation(res.ID, "resilience must be sustained by at least one enabled capability")
		}
	}
}

// checkCoOccurrence verifies that every disposition an entity references
// shares at least one scenario with that entity.
func checkCoOccurrence(g *graph.Graph, r *Report) {
	for _, e := range g.Constructs(laderr.ClassEntity) {
		scenarios := g.Subjects(laderr.Components, e.ID)
		inScenario := make(map[string]struct{}, len(scenarios))
		for _, s := range scenarios {
			inScenario[s] = struct{}{}
		}
		refs := append(g.Objects(e.ID, laderr.Capabilities), g.Objects(e.ID, laderr.Vulnerabilities)...)
		for _, d := range refs {
			shared := false
			for _, s := range g.Subjects(laderr.Components, d) {
				if _, ok := inScenario[s]; ok {
					shared = true
					break
				}
			}
			if !shared {
				r.violation(e.ID, "disposition %s shares no scenario with its owner", d)
			}
		}
	}
}

// checkDanglingTargets warns about relations pointing at undeclared
// constructs. The state predicate carries enum values, not references.
func checkDanglingTargets(g *graph.Graph, r *Report) {
	for _, t := range g.Triples() {
		if t.Predicate == laderr.State {
			continue
		}
		if g.Construct(t.Subject) == nil {
			r.warning(t.Subject, "relation %s declared on undeclared construct", t.Predicate)
		}
		if g.Construct(t.Object) == nil {
			r.warning(t.Subject, "relation %s targets undeclared construct %s", t.Predicate, t.Object)
		}
	}
}
