package derivation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleNames(rules []RuleSpec) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func TestDefaultRulesOrder(t *testing.T) {
	ordered, err := orderRules(DefaultRules())
	require.NoError(t, err)
	require.Len(t, ordered, 8)

	names := ruleNames(ordered)
	deps := map[string][]string{
		RuleResilience:      {RuleDisabledState},
		RuleSucceedToDamage: {RuleDisabledState},
		RuleFailedToDamage:  {RuleDisabledState},
		RuleScenarioStatus:  {RuleDisabledState, RuleSucceedToDamage},
	}
	for rule, before := range deps {
		for _, dep := range before {
			assert.Less(t, indexOf(names, dep), indexOf(names, rule),
				"%s must run after %s", rule, dep)
		}
	}
}

func TestOrderRulesStable(t *testing.T) {
	first, err := orderRules(DefaultRules())
	require.NoError(t, err)
	second, err := orderRules(DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, ruleNames(first), ruleNames(second))
}

func TestOrderRulesDuplicate(t *testing.T) {
	rules := []RuleSpec{
		{Name: "a"},
		{Name: "a"},
	}
	_, err := orderRules(rules)
	assert.ErrorContains(t, err, "duplicate rule")
}

func TestOrderRulesUnknownDependency(t *testing.T) {
	rules := []RuleSpec{
		{Name: "a", DependsOn: []string{"missing"}},
	}
	_, err := orderRules(rules)
	assert.ErrorContains(t, err, "unknown rule")
}

func TestOrderRulesCycle(t *testing.T) {
	rules := []RuleSpec{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"c"}},
		{Name: "c", DependsOn: []string{"a"}},
	}
	_, err := orderRules(rules)
	assert.ErrorContains(t, err, "cycle")
}

func TestOrderRulesChain(t *testing.T) {
	rules := []RuleSpec{
		{Name: "c", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
		{Name: "a"},
	}
	ordered, err := orderRules(rules)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ruleNames(ordered))
}
