package laderr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumValidity(t *testing.T) {
	assert.True(t, StateEnabled.Valid())
	assert.True(t, StateDisabled.Valid())
	assert.False(t, DispositionState("broken").Valid())
	assert.False(t, DispositionState("").Valid())

	assert.True(t, SituationOperational.Valid())
	assert.True(t, SituationIncident.Valid())
	assert.False(t, Situation("wartime").Valid())

	assert.True(t, StatusResilient.Valid())
	assert.True(t, StatusVulnerable.Valid())
	assert.False(t, Status("doomed").Valid())
}

func TestIRIs(t *testing.T) {
	assert.Equal(t, "https://w3id.org/laderr#Entity", ClassIRI(ClassEntity))
	assert.Equal(t, "https://w3id.org/laderr#threatens", PredicateIRI(Threatens))
}

func TestDerivedPredicatesComplete(t *testing.T) {
	want := []string{
		State, Protects, Inhibits, Threatens,
		CanDamage, PositiveDamage, SucceededToDamage,
		CannotDamage, NegativeDamage, FailedToDamage,
		Resiliences, Preserves, PreservesAgainst, PreservesDespite,
		Sustains, Components,
	}
	assert.ElementsMatch(t, want, DerivedPredicates)
}
