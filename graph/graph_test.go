package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/laderr/vocabulary/laderr"
)

func TestAddConstructIdempotent(t *testing.T) {
	g := New()

	assert.True(t, g.AddConstruct(NewConstruct("e1", laderr.ClassEntity)))
	assert.False(t, g.AddConstruct(NewConstruct("e1", laderr.ClassEntity)))
	assert.Equal(t, 1, g.Len())
}

func TestAddTripleIdempotent(t *testing.T) {
	g := New()

	fact := Triple{"e1", laderr.Capabilities, "c1"}
	assert.True(t, g.Add(fact))
	assert.False(t, g.Add(fact), "re-adding a fact must not count as progress")
	assert.Equal(t, 1, g.FactCount())
	assert.True(t, g.Has("e1", laderr.Capabilities, "c1"))
	assert.False(t, g.Has("c1", laderr.Capabilities, "e1"))
}

func TestPatternLookup(t *testing.T) {
	g := New()
	g.Add(Triple{"e1", laderr.Capabilities, "c1"})
	g.Add(Triple{"e1", laderr.Capabilities, "c2"})
	g.Add(Triple{"e2", laderr.Capabilities, "c2"})
	g.Add(Triple{"e1", laderr.Vulnerabilities, "v1"})

	assert.Equal(t, []string{"c1", "c2"}, g.Objects("e1", laderr.Capabilities))
	assert.Equal(t, []string{"e1", "e2"}, g.Subjects(laderr.Capabilities, "c2"))
	assert.Nil(t, g.Objects("e2", laderr.Vulnerabilities))
	assert.Nil(t, g.Subjects(laderr.Exploits, "v1"))
}

func TestConstructsByClass(t *testing.T) {
	g := New()
	g.AddConstruct(NewConstruct("e2", laderr.ClassEntity))
	g.AddConstruct(NewConstruct("e1", laderr.ClassEntity))
	g.AddConstruct(NewConstruct("c1", laderr.ClassCapability))
	g.AddConstruct(NewConstruct("v1", laderr.ClassVulnerability))

	entities := g.Constructs(laderr.ClassEntity)
	require.Len(t, entities, 2)
	assert.Equal(t, "e1", entities[0].ID)
	assert.Equal(t, "e2", entities[1].ID)

	// Capability and Vulnerability both count as Disposition.
	assert.Len(t, g.Constructs(laderr.ClassDisposition), 2)
	assert.Len(t, g.Constructs(""), 4)
}

func TestStateDefaultsToEnabled(t *testing.T) {
	g := New()
	g.AddConstruct(NewConstruct("c1", laderr.ClassCapability))

	assert.Equal(t, laderr.StateEnabled, g.State("c1"))

	g.Add(Triple{"c1", laderr.State, string(laderr.StateDisabled)})
	assert.Equal(t, laderr.StateDisabled, g.State("c1"))
}

func TestStateDisabledWinsOverDeclaredEnabled(t *testing.T) {
	g := New()
	g.AddConstruct(NewConstruct("c1", laderr.ClassCapability))
	g.Add(Triple{"c1", laderr.State, string(laderr.StateEnabled)})
	g.Add(Triple{"c1", laderr.State, string(laderr.StateDisabled)})

	assert.Equal(t, laderr.StateDisabled, g.State("c1"))
}

func TestFreshIDDeterministic(t *testing.T) {
	g1 := New()
	g2 := New()

	id1 := g1.FreshID("R", "asset", "cap", "attack", "vuln")
	id2 := g2.FreshID("R", "asset", "cap", "attack", "vuln")

	assert.Equal(t, id1, id2, "same seed must mint the same ID across graphs")
	assert.Len(t, id1, 9) // prefix plus 8 hex chars
	assert.NotEqual(t, id1, g1.FreshID("R", "asset", "cap", "attack", "other"))
}

func TestFreshIDAvoidsCollisions(t *testing.T) {
	g := New()
	id := g.FreshID("R", "seed")
	g.AddConstruct(NewConstruct(id, laderr.ClassResilience))

	next := g.FreshID("R", "seed")
	assert.NotEqual(t, id, next)
	assert.Nil(t, g.Construct(next))
}

func TestRoles(t *testing.T) {
	g := New()
	g.Add(Triple{"attacker", laderr.Threatens, "victim"})
	g.Add(Triple{"defender", laderr.Protects, "victim"})
	g.Add(Triple{"victim", laderr.Vulnerabilities, "v1"})

	assert.Equal(t, []string{laderr.ClassThreat}, g.Roles("attacker"))
	assert.Equal(t, []string{laderr.ClassControl}, g.Roles("defender"))
	assert.Equal(t, []string{laderr.ClassAsset}, g.Roles("victim"))
	assert.Empty(t, g.Roles("bystander"))
}

func TestRolesOverlap(t *testing.T) {
	g := New()
	g.Add(Triple{"e1", laderr.Threatens, "e2"})
	g.Add(Triple{"e1", laderr.Inhibits, "e2"})
	g.Add(Triple{"e1", laderr.Resiliences, "R1"})

	assert.Equal(t, []string{laderr.ClassThreat, laderr.ClassControl, laderr.ClassAsset}, g.Roles("e1"))
}

func TestTriplesSorted(t *testing.T) {
	g := New()
	g.Add(Triple{"b", laderr.Exploits, "v"})
	g.Add(Triple{"a", laderr.Exploits, "v"})
	g.Add(Triple{"a", laderr.Disables, "v"})

	got := g.Triples()
	require.Len(t, got, 3)
	assert.Equal(t, Triple{"a", laderr.Disables, "v"}, got[0])
	assert.Equal(t, Triple{"a", laderr.Exploits, "v"}, got[1])
	assert.Equal(t, Triple{"b", laderr.Exploits, "v"}, got[2])
}

func TestConstructClasses(t *testing.T) {
	c := NewConstruct("x", laderr.ClassEntity)

	assert.True(t, c.AddClass(laderr.ClassScenario))
	assert.False(t, c.AddClass(laderr.ClassScenario))
	assert.Equal(t, []string{laderr.ClassEntity, laderr.ClassScenario}, c.Classes())
}

func TestConstructAttrs(t *testing.T) {
	c := NewConstruct("s", laderr.ClassScenario)

	assert.Equal(t, "", c.Attr(AttrStatus))
	assert.True(t, c.SetAttr(AttrStatus, "vulnerable"))
	assert.False(t, c.SetAttr(AttrStatus, "vulnerable"), "unchanged value must not report a change")
	assert.True(t, c.SetAttr(AttrStatus, "resilient"))
	assert.Equal(t, "resilient", c.Attr(AttrStatus))
}
