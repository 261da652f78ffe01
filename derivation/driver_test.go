package derivation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

// floodGraph models the river town: silverstream's flooding potential
// exploits riverford's weak levees. With defended=true, greenridge dam's
// water control disables the levee weakness.
func floodGraph(defended bool) *graph.Graph {
	g := graph.New()
	addEntity(g, "riverford")
	addEntity(g, "silverstream")
	addCapability(g, "riverford", "town_services")
	addCapability(g, "silverstream", "flooding_potential")
	addVulnerability(g, "riverford", "weak_levees")
	g.Add(graph.Triple{Subject: "weak_levees", Predicate: laderr.Exposes, Object: "town_services"})
	g.Add(graph.Triple{Subject: "flooding_potential", Predicate: laderr.Exploits, Object: "weak_levees"})

	components := []string{
		"riverford", "silverstream",
		"town_services", "flooding_potential", "weak_levees",
	}
	if defended {
		addEntity(g, "greenridge_dam")
		addCapability(g, "greenridge_dam", "water_control")
		g.Add(graph.Triple{Subject: "water_control", Predicate: laderr.Disables, Object: "weak_levees"})
		components = append(components, "greenridge_dam", "water_control")
	}
	addScenario(g, "default", laderr.SituationOperational, components...)
	return g
}

func TestRunUndefendedFlood(t *testing.T) {
	g := floodGraph(false)
	res := mustRun(t, g)

	assert.True(t, g.Has("silverstream", laderr.Threatens, "riverford"))
	assert.True(t, g.Has("silverstream", laderr.CanDamage, "riverford"))
	assert.True(t, g.Has("silverstream", laderr.SucceededToDamage, "riverford"))
	assert.Equal(t, string(laderr.StatusVulnerable), g.Construct("default").Attr(graph.AttrStatus))

	assert.True(t, res.Converged)
	assert.False(t, res.Degraded)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, g.Constructs(laderr.ClassResilience), "nothing mitigates, nothing to preserve")
}

func TestRunDefendedFlood(t *testing.T) {
	g := floodGraph(true)
	res := mustRun(t, g)

	assert.Equal(t, laderr.StateDisabled, g.State("weak_levees"))
	assert.True(t, g.Has("greenridge_dam", laderr.Protects, "riverford"))
	assert.True(t, g.Has("silverstream", laderr.CannotDamage, "riverford"))
	assert.False(t, g.Has("silverstream", laderr.CanDamage, "riverford"))
	assert.False(t, g.Has("silverstream", laderr.SucceededToDamage, "riverford"))
	assert.Equal(t, string(laderr.StatusResilient), g.Construct("default").Attr(graph.AttrStatus))

	resiliences := g.Constructs(laderr.ClassResilience)
	require.Len(t, resiliences, 1)
	r := resiliences[0]
	assert.True(t, g.Has("riverford", laderr.Resiliences, r.ID))
	assert.True(t, g.Has(r.ID, laderr.Preserves, "town_services"))
	assert.True(t, g.Has(r.ID, laderr.PreservesAgainst, "flooding_potential"))
	assert.True(t, g.Has(r.ID, laderr.PreservesDespite, "weak_levees"))
	assert.True(t, g.Has("water_control", laderr.Sustains, r.ID))

	assert.True(t, res.Converged)
	assert.Empty(t, res.diags.Kind(AmbiguousDerivation))
}

func TestRunDeterminism(t *testing.T) {
	g1 := floodGraph(true)
	g2 := floodGraph(true)
	mustRun(t, g1)
	mustRun(t, g2)

	assert.Equal(t, g1.Triples(), g2.Triples())

	c1 := g1.Constructs("")
	c2 := g2.Constructs("")
	require.Equal(t, len(c1), len(c2))
	for i := range c1 {
		assert.Equal(t, c1[i].ID, c2[i].ID)
	}
}

func TestRunMonotonicity(t *testing.T) {
	// Facts present after a truncated run are a subset of the full run's.
	truncated := floodGraph(true)
	res, err := Run(truncated, Options{MaxPasses: 1})
	require.NoError(t, err)
	require.False(t, res.Converged)

	full := floodGraph(true)
	mustRun(t, full)

	for _, fact := range truncated.Triples() {
		assert.True(t, full.Has(fact.Subject, fact.Predicate, fact.Object),
			"fact %s lost between passes", fact)
	}
}

func TestRunNonConvergenceDiagnostic(t *testing.T) {
	g := floodGraph(true)
	res, err := Run(g, Options{MaxPasses: 1})
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Passes)
	diags := res.diags.Kind(NonConvergence)
	require.Len(t, diags, 1)
	assert.NotEmpty(t, res.LastChanged)
}

func TestRunTerminatesWithinCeiling(t *testing.T) {
	g := floodGraph(true)
	res := mustRun(t, g)

	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.Passes, 8*g.Len())
}

func TestRunEmptyGraph(t *testing.T) {
	g := graph.New()
	res := mustRun(t, g)

	assert.True(t, res.Converged)
	assert.Equal(t, 0, res.NewFacts)
	assert.False(t, res.HasDiagnostics())
}

func TestRunStructuralPrecondition(t *testing.T) {
	g := graph.New()
	g.AddConstruct(graph.NewConstruct("bare", laderr.ClassResilience))

	res := mustRun(t, g)

	assert.True(t, res.Degraded)
	diags := res.diags.Kind(StructuralPrecondition)
	assert.NotEmpty(t, diags)
	for _, d := range diags {
		assert.Equal(t, "bare", d.Subject)
	}
}

func TestRunAmbiguousDerivation(t *testing.T) {
	// A modeler-asserted failure contradicting the derived success is
	// reported, never silently resolved.
	g := floodGraph(false)
	g.Add(graph.Triple{Subject: "silverstream", Predicate: laderr.FailedToDamage, Object: "riverford"})

	res := mustRun(t, g)

	assert.True(t, g.Has("silverstream", laderr.SucceededToDamage, "riverford"))
	diags := res.diags.Kind(AmbiguousDerivation)
	require.Len(t, diags, 1)
	assert.Equal(t, "default", diags[0].Subject)
}

func TestRunCustomRuleTable(t *testing.T) {
	g := floodGraph(false)
	rules := []RuleSpec{
		{Name: RuleThreatens, Kind: KindDerivation, run: ruleThreatens},
	}
	res, err := Run(g, Options{Rules: rules})
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.True(t, g.Has("silverstream", laderr.Threatens, "riverford"))
	assert.False(t, g.Has("silverstream", laderr.CanDamage, "riverford"),
		"rules outside the table never run")
}

func TestRunInvalidRuleTable(t *testing.T) {
	g := graph.New()
	_, err := Run(g, Options{Rules: []RuleSpec{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
	}})
	assert.Error(t, err)
}
