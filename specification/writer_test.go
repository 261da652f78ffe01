package specification

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

func enrichedGraph() (*graph.Graph, Metadata) {
	g := graph.New()

	s := graph.NewConstruct("flood", laderr.ClassScenario)
	s.Label = "flood"
	s.SetAttr(graph.AttrSituation, string(laderr.SituationIncident))
	s.SetAttr(graph.AttrStatus, string(laderr.StatusResilient))
	g.AddConstruct(s)

	a := graph.NewConstruct("riverford", laderr.ClassEntity)
	a.Label = "Riverford"
	g.AddConstruct(a)
	g.AddConstruct(graph.NewConstruct("silverstream", laderr.ClassEntity))
	g.AddConstruct(graph.NewConstruct("town_services", laderr.ClassCapability))
	g.AddConstruct(graph.NewConstruct("flooding_potential", laderr.ClassCapability))
	g.AddConstruct(graph.NewConstruct("weak_levees", laderr.ClassVulnerability))
	g.AddConstruct(graph.NewConstruct("R1", laderr.ClassResilience))

	for _, id := range []string{"riverford", "silverstream", "town_services", "flooding_potential", "weak_levees", "R1"} {
		g.Add(graph.Triple{Subject: "flood", Predicate: laderr.Components, Object: id})
	}
	g.Add(graph.Triple{Subject: "riverford", Predicate: laderr.Capabilities, Object: "town_services"})
	g.Add(graph.Triple{Subject: "riverford", Predicate: laderr.Vulnerabilities, Object: "weak_levees"})
	g.Add(graph.Triple{Subject: "riverford", Predicate: laderr.Resiliences, Object: "R1"})
	g.Add(graph.Triple{Subject: "silverstream", Predicate: laderr.Capabilities, Object: "flooding_potential"})
	g.Add(graph.Triple{Subject: "silverstream", Predicate: laderr.Threatens, Object: "riverford"})
	g.Add(graph.Triple{Subject: "silverstream", Predicate: laderr.CannotDamage, Object: "riverford"})
	g.Add(graph.Triple{Subject: "flooding_potential", Predicate: laderr.Exploits, Object: "weak_levees"})
	g.Add(graph.Triple{Subject: "weak_levees", Predicate: laderr.Exposes, Object: "town_services"})
	g.Add(graph.Triple{Subject: "weak_levees", Predicate: laderr.State, Object: string(laderr.StateDisabled)})
	g.Add(graph.Triple{Subject: "R1", Predicate: laderr.Preserves, Object: "town_services"})
	g.Add(graph.Triple{Subject: "R1", Predicate: laderr.PreservesAgainst, Object: "flooding_potential"})
	g.Add(graph.Triple{Subject: "R1", Predicate: laderr.PreservesDespite, Object: "weak_levees"})

	meta := Metadata{
		Title:   "River town flood model",
		Version: "1.0",
		BaseURI: "https://example.org/flood#",
	}
	return g, meta
}

func TestWriteRoundTrip(t *testing.T) {
	g, meta := enrichedGraph()

	data, err := Write(g, meta)
	require.NoError(t, err)

	r := NewReader(nil)
	g2, meta2, err := r.Read(data)
	require.NoError(t, err)

	assert.Equal(t, meta.Title, meta2.Title)
	assert.Equal(t, meta.BaseURI, meta2.BaseURI)

	// Every fact survives the round trip.
	for _, fact := range g.Triples() {
		assert.True(t, g2.Has(fact.Subject, fact.Predicate, fact.Object),
			"fact %s lost in round trip", fact)
	}
	assert.Equal(t, g.Len(), g2.Len())
	assert.Equal(t, string(laderr.StatusResilient), g2.Construct("flood").Attr(graph.AttrStatus))
}

func TestWriteIncludesDerivedRelations(t *testing.T) {
	g, meta := enrichedGraph()

	data, err := Write(g, meta)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "threatens:")
	assert.Contains(t, text, "cannotDamage:")
	assert.Contains(t, text, "preservesAgainst:")
	assert.Contains(t, text, "state: disabled")
	assert.NotContains(t, text, "state: enabled", "default state stays implicit")
}

func TestWriteStable(t *testing.T) {
	g, meta := enrichedGraph()

	first, err := Write(g, meta)
	require.NoError(t, err)
	second, err := Write(g, meta)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	g, meta := enrichedGraph()
	path := filepath.Join(t.TempDir(), "out", "nested", "model.enriched.yaml")

	require.NoError(t, WriteFile(g, meta, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "riverford")
}
