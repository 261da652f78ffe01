// Package derivation implements the forward-chained derivation engine: a
// dependency-ordered, fixpoint-seeking application of the eight domain rules
// over a fact graph.
package derivation

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

// Options configures a single derivation run.
type Options struct {
	// Rules is the dependency table to execute. Nil means DefaultRules().
	// The table is per-run configuration so concurrent runs stay independent.
	Rules []RuleSpec

	// MaxPasses overrides the iteration ceiling. Zero means the default
	// ceiling of len(rules) x max(1, number of constructs).
	MaxPasses int

	// Logger receives per-pass debug output. Nil means slog.Default().
	Logger *slog.Logger

	// Metrics receives run observations. Nil disables instrumentation.
	Metrics *Metrics
}

// Result is the outcome of a run. The graph is always returned, possibly
// partially enriched, together with every issue collected on the way.
type Result struct {
	// Graph is the enriched fact graph. It aliases the input graph: the
	// driver owns it exclusively for the duration of Run.
	Graph *graph.Graph

	// RunID uniquely identifies this run in logs and published messages.
	RunID string

	// Passes is the number of full passes executed.
	Passes int

	// NewFacts is the total number of facts added across all passes.
	NewFacts int

	// Converged is false when the iteration ceiling was hit first.
	Converged bool

	// Degraded is true when a structural precondition violation was found.
	Degraded bool

	// LastChanged holds the facts added by the final changing pass, for
	// diagnosing non-convergence.
	LastChanged []graph.Triple

	diags *Diagnostics
}

// Diagnostics returns the collected issues in report order.
func (r *Result) Diagnostics() []Diagnostic {
	return r.diags.All()
}

// HasDiagnostics reports whether any issue was collected.
func (r *Result) HasDiagnostics() bool {
	return !r.diags.Empty()
}

// Run executes the derivation loop to fixpoint and returns the enriched
// graph. Errors in the rule table itself (unknown dependency, cycle) are the
// only hard failures; everything found in the data is reported as a
// diagnostic instead.
func Run(g *graph.Graph, opts Options) (*Result, error) {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	ordered, err := orderRules(rules)
	if err != nil {
		return nil, fmt.Errorf("order rules: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res := &Result{
		Graph: g,
		RunID: uuid.NewString(),
		diags: newDiagnostics(),
	}

	checkStructuralPreconditions(g, res)

	ceiling := opts.MaxPasses
	if ceiling <= 0 {
		n := g.Len()
		if n < 1 {
			n = 1
		}
		ceiling = len(ordered) * n
	}

	created := make(map[string]struct{})
	for res.Passes < ceiling {
		res.Passes++

		adds := newAdditions(created)
		for _, rule := range ordered {
			rule.run(g, adds, res.diags)
		}
		changed, changedTriples := adds.merge(g)
		res.NewFacts += changed

		logger.Debug("derivation pass complete",
			"run_id", res.RunID,
			"pass", res.Passes,
			"new_facts", changed)

		if changed == 0 {
			res.Converged = true
			break
		}
		res.LastChanged = changedTriples
	}

	if !res.Converged {
		res.diags.add(NonConvergence, res.RunID,
			"iteration ceiling of %d passes reached with %d facts still changing",
			ceiling, len(res.LastChanged))
	}

	checkDamagePolarity(g, res.diags)

	if opts.Metrics != nil {
		opts.Metrics.observe(res)
	}
	logger.Info("derivation run finished",
		"run_id", res.RunID,
		"passes", res.Passes,
		"new_facts", res.NewFacts,
		"converged", res.Converged,
		"diagnostics", len(res.diags.All()))

	return res, nil
}

// checkStructuralPreconditions verifies the mandatory relations of every
// resilience already present in the input. The validation layer should have
// rejected these upstream; finding one here marks the run degraded because
// the rules assume the invariant.
func checkStructuralPreconditions(g *graph.Graph, res *Result) {
	for _, r := range g.Constructs(laderr.ClassResilience) {
		owners := g.Subjects(laderr.Resiliences, r.ID)
		if len(owners) != 1 {
			res.diags.add(StructuralPrecondition, r.ID, "resilience must have exactly one owning asset, has %d", len(owners))
			res.Degraded = true
		}
		if len(g.Objects(r.ID, laderr.Preserves)) == 0 {
			res.diags.add(StructuralPrecondition, r.ID, "resilience preserves no capability")
			res.Degraded = true
		}
		if len(g.Objects(r.ID, laderr.PreservesAgainst)) == 0 {
			res.diags.add(StructuralPrecondition, r.ID, "resilience preserves against no capability")
			res.Degraded = true
		}
		if len(g.Objects(r.ID, laderr.PreservesDespite)) == 0 {
			res.diags.add(StructuralPrecondition, r.ID, "resilience preserves despite no vulnerability")
			res.Degraded = true
		}
		if len(g.Subjects(laderr.Sustains, r.ID)) == 0 {
			res.diags.add(StructuralPrecondition, r.ID, "resilience has no sustaining capability")
			res.Degraded = true
		}
	}
}

// checkDamagePolarity reports every threat/target pair holding both damage
// polarities within one scenario. The contradiction signals conflicting
// modeling input; it is reported, never silently resolved.
func checkDamagePolarity(g *graph.Graph, diags *Diagnostics) {
	for _, s := range g.Constructs(laderr.ClassScenario) {
		comps := g.Objects(s.ID, laderr.Components)
		inScenario := make(map[string]struct{}, len(comps))
		for _, id := range comps {
			inScenario[id] = struct{}{}
		}
		for _, a := range comps {
			for _, b := range g.Objects(a, laderr.SucceededToDamage) {
				if _, ok := inScenario[b]; !ok {
					continue
				}
				if g.Has(a, laderr.FailedToDamage, b) {
					diags.add(AmbiguousDerivation, s.ID,
						"%s both succeeded and failed to damage %s", a, b)
				}
			}
		}
	}
}
