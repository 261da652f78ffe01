// Package graph implements the mutable in-memory fact graph the derivation
// engine operates on: constructs, relation triples, pattern lookup, and
// deterministic identifier generation.
package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/laderr/vocabulary/laderr"
)

// Triple is a single fact: subject and object are construct IDs (or an enum
// value for the state predicate), predicate is a vocabulary short name.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Predicate, t.Object)
}

// Graph holds constructs and facts. It exposes no deletion: during a
// derivation run the fact set only grows, which is what guarantees
// termination of the fixpoint loop.
type Graph struct {
	constructs map[string]*Construct
	triples    map[Triple]struct{}

	// out[subject][predicate] and in[object][predicate] index the triple set
	// for pattern lookup.
	out map[string]map[string]map[string]struct{}
	in  map[string]map[string]map[string]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		constructs: make(map[string]*Construct),
		triples:    make(map[Triple]struct{}),
		out:        make(map[string]map[string]map[string]struct{}),
		in:         make(map[string]map[string]map[string]struct{}),
	}
}

// AddConstruct registers a construct. Adding an already-present ID is a no-op
// that reports false, keeping fixpoint accounting honest.
func (g *Graph) AddConstruct(c *Construct) bool {
	if _, ok := g.constructs[c.ID]; ok {
		return false
	}
	g.constructs[c.ID] = c
	return true
}

// Construct returns the construct with the given ID, or nil.
func (g *Graph) Construct(id string) *Construct {
	return g.constructs[id]
}

// Constructs returns all constructs holding the given class, sorted by ID.
// An empty class returns every construct.
func (g *Graph) Constructs(class string) []*Construct {
	var out []*Construct
	for _, c := range g.constructs {
		if class == "" || c.HasClass(class) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of constructs.
func (g *Graph) Len() int {
	return len(g.constructs)
}

// FactCount returns the number of fact triples.
func (g *Graph) FactCount() int {
	return len(g.triples)
}

// Add inserts a fact. Returns true when the fact was new; re-adding an
// existing fact is a no-op and must not count as progress.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.triples[t]; ok {
		return false
	}
	g.triples[t] = struct{}{}
	index(g.out, t.Subject, t.Predicate, t.Object)
	index(g.in, t.Object, t.Predicate, t.Subject)
	return true
}

func index(m map[string]map[string]map[string]struct{}, a, p, b string) {
	preds, ok := m[a]
	if !ok {
		preds = make(map[string]map[string]struct{})
		m[a] = preds
	}
	set, ok := preds[p]
	if !ok {
		set = make(map[string]struct{})
		preds[p] = set
	}
	set[b] = struct{}{}
}

// Has reports whether the exact fact is present.
func (g *Graph) Has(subject, predicate, object string) bool {
	_, ok := g.triples[Triple{subject, predicate, object}]
	return ok
}

// Objects returns the sorted objects of all (subject, predicate, *) facts.
func (g *Graph) Objects(subject, predicate string) []string {
	return collect(g.out, subject, predicate)
}

// Subjects returns the sorted subjects of all (*, predicate, object) facts.
func (g *Graph) Subjects(predicate, object string) []string {
	return collect(g.in, object, predicate)
}

func collect(m map[string]map[string]map[string]struct{}, a, p string) []string {
	set := m[a][p]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Triples returns every fact sorted by subject, predicate, object.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.Predicate != b.Predicate {
			return a.Predicate < b.Predicate
		}
		return a.Object < b.Object
	})
	return out
}

// TriplesOf returns the sorted facts whose subject is the given construct.
func (g *Graph) TriplesOf(subject string) []Triple {
	var out []Triple
	for pred, objs := range g.out[subject] {
		for obj := range objs {
			out = append(out, Triple{subject, pred, obj})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Predicate != out[j].Predicate {
			return out[i].Predicate < out[j].Predicate
		}
		return out[i].Object < out[j].Object
	})
	return out
}

// State resolves the effective state of a disposition. A derived or declared
// disabled fact wins; anything else is enabled, the default.
func (g *Graph) State(id string) laderr.DispositionState {
	if g.Has(id, laderr.State, string(laderr.StateDisabled)) {
		return laderr.StateDisabled
	}
	return laderr.StateEnabled
}

// FreshID generates a collision-free identifier seeded by content, so two
// runs over the same input graph mint the same IDs.
func (g *Graph) FreshID(prefix string, seed ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(seed, "\x1f")))
	digest := hex.EncodeToString(sum[:])
	for n := 8; n <= len(digest); n++ {
		id := prefix + digest[:n]
		if _, taken := g.constructs[id]; !taken {
			return id
		}
	}
	// Full digest collision within one graph: disambiguate by count.
	return fmt.Sprintf("%s%s-%d", prefix, digest, len(g.constructs))
}

// IsThreat reports whether the entity threatens anything. Role classes are
// computed from relation patterns, never stored.
func (g *Graph) IsThreat(id string) bool {
	return len(g.Objects(id, laderr.Threatens)) > 0
}

// IsControl reports whether the entity protects or inhibits anything.
func (g *Graph) IsControl(id string) bool {
	return len(g.Objects(id, laderr.Protects)) > 0 || len(g.Objects(id, laderr.Inhibits)) > 0
}

// IsAsset reports whether the entity owns a vulnerability or a resilience.
func (g *Graph) IsAsset(id string) bool {
	return len(g.Objects(id, laderr.Vulnerabilities)) > 0 || len(g.Objects(id, laderr.Resiliences)) > 0
}

// Roles returns the derived role classes of an entity, in a fixed order.
func (g *Graph) Roles(id string) []string {
	var roles []string
	if g.IsThreat(id) {
		roles = append(roles, laderr.ClassThreat)
	}
	if g.IsControl(id) {
		roles = append(roles, laderr.ClassControl)
	}
	if g.IsAsset(id) {
		roles = append(roles, laderr.ClassAsset)
	}
	return roles
}
