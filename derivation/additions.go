package derivation

import (
	"sort"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

// additions accumulates the candidate facts produced by the rules of one
// pass. Rules read the graph and write here; the driver merges everything at
// the end of the pass so no rule ever observes a half-applied pass.
type additions struct {
	triples    map[graph.Triple]struct{}
	constructs map[string]*graph.Construct
	statuses   map[string]laderr.Status

	// created tracks constructs instantiated earlier in this run, across
	// passes. Used to tell a modeler-asserted duplicate from our own output.
	created map[string]struct{}
}

func newAdditions(created map[string]struct{}) *additions {
	return &additions{
		triples:    make(map[graph.Triple]struct{}),
		constructs: make(map[string]*graph.Construct),
		statuses:   make(map[string]laderr.Status),
		created:    created,
	}
}

func (a *additions) triple(subject, predicate, object string) {
	a.triples[graph.Triple{Subject: subject, Predicate: predicate, Object: object}] = struct{}{}
}

func (a *additions) construct(c *graph.Construct) {
	a.constructs[c.ID] = c
}

func (a *additions) hasConstruct(id string) bool {
	_, ok := a.constructs[id]
	return ok
}

func (a *additions) status(scenarioID string, status laderr.Status) {
	a.statuses[scenarioID] = status
}

func (a *additions) createdThisRun(id string) bool {
	_, ok := a.created[id]
	return ok
}

// merge applies the accumulated additions to the graph. Returns the number of
// genuinely new facts and the list of changed triples for diagnosis.
func (a *additions) merge(g *graph.Graph) (int, []graph.Triple) {
	changed := 0
	var changedTriples []graph.Triple

	ids := make([]string, 0, len(a.constructs))
	for id := range a.constructs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if g.AddConstruct(a.constructs[id]) {
			changed++
			a.created[id] = struct{}{}
		}
	}

	triples := make([]graph.Triple, 0, len(a.triples))
	for t := range a.triples {
		triples = append(triples, t)
	}
	sort.Slice(triples, func(i, j int) bool {
		x, y := triples[i], triples[j]
		if x.Subject != y.Subject {
			return x.Subject < y.Subject
		}
		if x.Predicate != y.Predicate {
			return x.Predicate < y.Predicate
		}
		return x.Object < y.Object
	})
	for _, t := range triples {
		if g.Add(t) {
			changed++
			changedTriples = append(changedTriples, t)
		}
	}

	scenarios := make([]string, 0, len(a.statuses))
	for id := range a.statuses {
		scenarios = append(scenarios, id)
	}
	sort.Strings(scenarios)
	for _, id := range scenarios {
		if c := g.Construct(id); c != nil && c.SetAttr(graph.AttrStatus, string(a.statuses[id])) {
			changed++
		}
	}

	return changed, changedTriples
}
