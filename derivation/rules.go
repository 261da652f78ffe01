package derivation

import (
	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

func hasClass(g *graph.Graph, id, class string) bool {
	c := g.Construct(id)
	return c != nil && c.HasClass(class)
}

func rawEnabled(g *graph.Graph, id string) bool {
	return hasClass(g, id, laderr.ClassCapability) && g.State(id) == laderr.StateEnabled
}

// effectiveState resolves the state a disposition stabilizes to: already
// disabled, or targeted by a disables relation from a capability enabled in
// the current snapshot. No rule derives new disables relations, so the
// disabler set is static and one level of lookahead matches the fixpoint.
func effectiveState(g *graph.Graph, id string) laderr.DispositionState {
	if g.State(id) == laderr.StateDisabled {
		return laderr.StateDisabled
	}
	for _, c := range g.Subjects(laderr.Disables, id) {
		if rawEnabled(g, c) {
			return laderr.StateDisabled
		}
	}
	return laderr.StateEnabled
}

func enabledCapability(g *graph.Graph, id string) bool {
	return hasClass(g, id, laderr.ClassCapability) && effectiveState(g, id) == laderr.StateEnabled
}

// ruleDisabledState derives state=disabled for any disposition targeted by a
// disables relation from an enabled capability. Disabling is monotonic: the
// fact is never retracted within a run.
func ruleDisabledState(g *graph.Graph, adds *additions, _ *Diagnostics) {
	for _, d := range g.Constructs(laderr.ClassDisposition) {
		for _, c := range g.Subjects(laderr.Disables, d.ID) {
			if rawEnabled(g, c) {
				adds.triple(d.ID, laderr.State, string(laderr.StateDisabled))
				break
			}
		}
	}
}

// ruleProtects derives A protects B when A holds an enabled capability that
// disables a vulnerability of B.
func ruleProtects(g *graph.Graph, adds *additions, _ *Diagnostics) {
	for _, a := range g.Constructs(laderr.ClassEntity) {
		for _, c := range g.Objects(a.ID, laderr.Capabilities) {
			if !enabledCapability(g, c) {
				continue
			}
			for _, v := range g.Objects(c, laderr.Disables) {
				if !hasClass(g, v, laderr.ClassVulnerability) {
					continue
				}
				for _, b := range g.Subjects(laderr.Vulnerabilities, v) {
					if a.ID != b && hasClass(g, b, laderr.ClassEntity) {
						adds.triple(a.ID, laderr.Protects, b)
					}
				}
			}
		}
	}
}

// ruleInhibits derives A inhibits B when A holds an enabled capability that
// disables an offensive capability of B (one that exploits a vulnerability).
func ruleInhibits(g *graph.Graph, adds *additions, _ *Diagnostics) {
	for _, a := range g.Constructs(laderr.ClassEntity) {
		for _, c := range g.Objects(a.ID, laderr.Capabilities) {
			if !enabledCapability(g, c) {
				continue
			}
			for _, target := range g.Objects(c, laderr.Disables) {
				if !hasClass(g, target, laderr.ClassCapability) {
					continue
				}
				if len(g.Objects(target, laderr.Exploits)) == 0 {
					continue
				}
				for _, b := range g.Subjects(laderr.Capabilities, target) {
					if a.ID != b && hasClass(g, b, laderr.ClassEntity) {
						adds.triple(a.ID, laderr.Inhibits, b)
					}
				}
			}
		}
	}
}

// ruleThreatens derives A threatens B when A holds an enabled capability that
// exploits a vulnerability of B.
func ruleThreatens(g *graph.Graph, adds *additions, _ *Diagnostics) {
	for _, a := range g.Constructs(laderr.ClassEntity) {
		for _, c := range g.Objects(a.ID, laderr.Capabilities) {
			if !enabledCapability(g, c) {
				continue
			}
			for _, v := range g.Objects(c, laderr.Exploits) {
				if !hasClass(g, v, laderr.ClassVulnerability) {
					continue
				}
				for _, b := range g.Subjects(laderr.Vulnerabilities, v) {
					if hasClass(g, b, laderr.ClassEntity) {
						adds.triple(a.ID, laderr.Threatens, b)
					}
				}
			}
		}
	}
}

// ruleResilience instantiates a Resilience for every asset whose exposed
// capability is both attacked and defended: the asset o1 owns capability c1
// and vulnerability v1, v1 exposes c1, some other entity's enabled capability
// c2 disables v1, and a third entity's capability c3 exploits v1.
//
// Identifiers are seeded by the dedup key (asset, preserves, preservesAgainst,
// preservesDespite), so reruns mint identical names. An equivalent existing
// resilience suppresses instantiation and, when it was not created by this
// run, yields a dedup notice.
func ruleResilience(g *graph.Graph, adds *additions, diags *Diagnostics) {
	for _, o1 := range g.Constructs(laderr.ClassEntity) {
		for _, v1 := range g.Objects(o1.ID, laderr.Vulnerabilities) {
			if !hasClass(g, v1, laderr.ClassVulnerability) {
				continue
			}
			for _, c1 := range g.Objects(o1.ID, laderr.Capabilities) {
				if !hasClass(g, c1, laderr.ClassCapability) || !g.Has(v1, laderr.Exposes, c1) {
					continue
				}
				for _, c2 := range g.Subjects(laderr.Disables, v1) {
					if !enabledCapability(g, c2) || !ownedByOther(g, c2, o1.ID) {
						continue
					}
					for _, c3 := range g.Subjects(laderr.Exploits, v1) {
						if !hasClass(g, c3, laderr.ClassCapability) || !ownedByOther(g, c3, o1.ID) {
							continue
						}
						if rid := findEquivalentResilience(g, o1.ID, c1, c3, v1); rid != "" {
							if !adds.createdThisRun(rid) {
								diags.add(DedupNotice, rid,
									"equivalent resilience for asset %s (preserves %s, against %s, despite %s) already exists",
									o1.ID, c1, c3, v1)
							}
							continue
						}

						id := g.FreshID("R", o1.ID, c1, c3, v1)
						if !adds.hasConstruct(id) {
							r := graph.NewConstruct(id, laderr.ClassResilience)
							r.Label = id
							adds.construct(r)
						}
						adds.triple(o1.ID, laderr.Resiliences, id)
						adds.triple(id, laderr.Preserves, c1)
						adds.triple(id, laderr.PreservesAgainst, c3)
						adds.triple(id, laderr.PreservesDespite, v1)
						adds.triple(c2, laderr.Sustains, id)
						adds.triple(id, laderr.State, string(laderr.StateEnabled))
						// Keep the scenario co-occurrence invariant for the
						// new construct.
						for _, s := range g.Subjects(laderr.Components, o1.ID) {
							adds.triple(s, laderr.Components, id)
						}
					}
				}
			}
		}
	}
}

// ownedByOther reports whether the capability belongs to at least one entity
// other than the given one.
func ownedByOther(g *graph.Graph, capability, entity string) bool {
	for _, owner := range g.Subjects(laderr.Capabilities, capability) {
		if owner != entity && hasClass(g, owner, laderr.ClassEntity) {
			return true
		}
	}
	return false
}

// findEquivalentResilience returns the ID of a resilience matching the dedup
// key (same asset and preserves/preservesAgainst/preservesDespite triple).
func findEquivalentResilience(g *graph.Graph, asset, preserves, against, despite string) string {
	for _, r := range g.Objects(asset, laderr.Resiliences) {
		if g.Has(r, laderr.Preserves, preserves) &&
			g.Has(r, laderr.PreservesAgainst, against) &&
			g.Has(r, laderr.PreservesDespite, despite) {
			return r
		}
	}
	return ""
}

// ruleSucceedToDamage derives the positive damage polarity: within a
// scenario, a threat whose enabled capability exploits a still-enabled
// vulnerability of another component succeeded to damage it. Both damage
// rules test the effective state, so exactly one polarity holds per pair
// once disabling has stabilized.
func ruleSucceedToDamage(g *graph.Graph, adds *additions, _ *Diagnostics) {
	deriveDamage(g, adds, laderr.StateEnabled,
		laderr.CanDamage, laderr.PositiveDamage, laderr.SucceededToDamage)
}

// ruleFailedToDamage derives the negative polarity: the exploited
// vulnerability has been disabled, so the attack is defeated.
func ruleFailedToDamage(g *graph.Graph, adds *additions, _ *Diagnostics) {
	deriveDamage(g, adds, laderr.StateDisabled,
		laderr.CannotDamage, laderr.NegativeDamage, laderr.FailedToDamage)
}

func deriveDamage(g *graph.Graph, adds *additions, vulnState laderr.DispositionState, facts ...string) {
	for _, s := range g.Constructs(laderr.ClassScenario) {
		comps := g.Objects(s.ID, laderr.Components)
		inScenario := make(map[string]struct{}, len(comps))
		for _, id := range comps {
			inScenario[id] = struct{}{}
		}

		for _, b := range comps {
			if !hasClass(g, b, laderr.ClassEntity) {
				continue
			}
			for _, v := range g.Objects(b, laderr.Vulnerabilities) {
				if !hasClass(g, v, laderr.ClassVulnerability) || effectiveState(g, v) != vulnState {
					continue
				}
				for _, c := range g.Subjects(laderr.Exploits, v) {
					if !enabledCapability(g, c) {
						continue
					}
					for _, a := range g.Subjects(laderr.Capabilities, c) {
						if a == b || !hasClass(g, a, laderr.ClassEntity) {
							continue
						}
						if _, ok := inScenario[a]; !ok {
							continue
						}
						for _, fact := range facts {
							adds.triple(a, fact, b)
						}
					}
				}
			}
		}
	}
}

// ruleScenarioStatus computes the derived status of every scenario. Incident
// scenarios are vulnerable iff any component succeeded to damage another.
// Operational scenarios are vulnerable iff any component entity still holds
// an enabled vulnerability; canDamage facts are deliberately not consulted
// (documented policy choice for the operational convention).
func ruleScenarioStatus(g *graph.Graph, adds *additions, _ *Diagnostics) {
	for _, s := range g.Constructs(laderr.ClassScenario) {
		comps := g.Objects(s.ID, laderr.Components)
		inScenario := make(map[string]struct{}, len(comps))
		for _, id := range comps {
			inScenario[id] = struct{}{}
		}

		vulnerable := false
		if s.Attr(graph.AttrSituation) == string(laderr.SituationIncident) {
			for _, a := range comps {
				for _, b := range g.Objects(a, laderr.SucceededToDamage) {
					if _, ok := inScenario[b]; ok {
						vulnerable = true
						break
					}
				}
				if vulnerable {
					break
				}
			}
		} else {
			for _, b := range comps {
				if !hasClass(g, b, laderr.ClassEntity) {
					continue
				}
				for _, v := range g.Objects(b, laderr.Vulnerabilities) {
					if hasClass(g, v, laderr.ClassVulnerability) && effectiveState(g, v) == laderr.StateEnabled {
						vulnerable = true
						break
					}
				}
				if vulnerable {
					break
				}
			}
		}

		if vulnerable {
			adds.status(s.ID, laderr.StatusVulnerable)
		} else {
			adds.status(s.ID, laderr.StatusResilient)
		}
	}
}
