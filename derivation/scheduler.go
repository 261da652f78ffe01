package derivation

import (
	"fmt"

	"github.com/c360studio/laderr/graph"
)

// Rule names. The table below is versioned configuration: it is passed into
// the driver explicitly so concurrent runs never share mutable state.
const (
	RuleDisabledState   = "rule_disabled_state"
	RuleProtects        = "rule_protects"
	RuleInhibits        = "rule_inhibits"
	RuleThreatens       = "rule_threatens"
	RuleResilience      = "rule_resilience"
	RuleSucceedToDamage = "rule_succeed_to_damage"
	RuleFailedToDamage  = "rule_failed_to_damage"
	RuleScenarioStatus  = "rule_scenario_status"
)

// RuleKind distinguishes rules that derive relations among existing
// constructs from the one rule that instantiates new constructs.
type RuleKind string

const (
	KindDerivation    RuleKind = "derivation"
	KindInstantiation RuleKind = "instantiation"
)

// ruleFunc evaluates the current graph snapshot and appends candidate facts
// to adds. Rules never mutate the graph directly; the driver merges all
// additions atomically at the end of the pass.
type ruleFunc func(g *graph.Graph, adds *additions, diags *Diagnostics)

// RuleSpec declares one rule and its static dependencies.
type RuleSpec struct {
	Name      string
	DependsOn []string
	Kind      RuleKind

	run ruleFunc
}

// DefaultRules returns the fixed eight-rule dependency table.
func DefaultRules() []RuleSpec {
	return []RuleSpec{
		{Name: RuleDisabledState, Kind: KindDerivation, run: ruleDisabledState},
		{Name: RuleProtects, Kind: KindDerivation, run: ruleProtects},
		{Name: RuleInhibits, Kind: KindDerivation, run: ruleInhibits},
		{Name: RuleThreatens, Kind: KindDerivation, run: ruleThreatens},
		{Name: RuleResilience, DependsOn: []string{RuleDisabledState}, Kind: KindInstantiation, run: ruleResilience},
		{Name: RuleSucceedToDamage, DependsOn: []string{RuleDisabledState}, Kind: KindDerivation, run: ruleSucceedToDamage},
		{Name: RuleFailedToDamage, DependsOn: []string{RuleDisabledState}, Kind: KindDerivation, run: ruleFailedToDamage},
		{Name: RuleScenarioStatus, DependsOn: []string{RuleDisabledState, RuleSucceedToDamage}, Kind: KindDerivation, run: ruleScenarioStatus},
	}
}

// orderRules topologically sorts the rule table. The sort is stable with
// respect to declaration order, so the execution order is deterministic.
func orderRules(rules []RuleSpec) ([]RuleSpec, error) {
	byName := make(map[string]*RuleSpec, len(rules))
	for i := range rules {
		if _, dup := byName[rules[i].Name]; dup {
			return nil, fmt.Errorf("duplicate rule %q", rules[i].Name)
		}
		byName[rules[i].Name] = &rules[i]
	}
	for _, r := range rules {
		for _, dep := range r.DependsOn {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("rule %q depends on unknown rule %q", r.Name, dep)
			}
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(rules))
	ordered := make([]RuleSpec, 0, len(rules))

	var visit func(r *RuleSpec) error
	visit = func(r *RuleSpec) error {
		switch state[r.Name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle through rule %q", r.Name)
		}
		state[r.Name] = visiting
		for _, dep := range r.DependsOn {
			if err := visit(byName[dep]); err != nil {
				return err
			}
		}
		state[r.Name] = done
		ordered = append(ordered, *r)
		return nil
	}

	for i := range rules {
		if err := visit(&rules[i]); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
