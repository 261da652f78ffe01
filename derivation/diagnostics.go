package derivation

import (
	"fmt"
	"sort"
)

// DiagnosticKind classifies a derivation issue.
type DiagnosticKind string

const (
	// StructuralPrecondition marks input that should have been rejected
	// upstream, e.g. a resilience missing a mandatory relation. The run
	// continues best-effort but is marked degraded.
	StructuralPrecondition DiagnosticKind = "structural-precondition"

	// NonConvergence marks a run that hit the iteration ceiling before
	// reaching fixpoint.
	NonConvergence DiagnosticKind = "non-convergence"

	// AmbiguousDerivation marks a modeling contradiction: both damage
	// polarities hold for the same threat/target pair in one scenario.
	AmbiguousDerivation DiagnosticKind = "ambiguous-derivation"

	// DedupNotice records that an equivalent resilience already existed and
	// no duplicate was instantiated.
	DedupNotice DiagnosticKind = "dedup-notice"
)

// Diagnostic is a single issue collected during a run. Diagnostics are
// reported, never thrown: the driver always returns the enriched graph.
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Subject, d.Message)
}

// Diagnostics accumulates issues, deduplicating identical entries so rules
// re-evaluated across passes do not flood the report.
type Diagnostics struct {
	seen map[Diagnostic]struct{}
	list []Diagnostic
}

func newDiagnostics() *Diagnostics {
	return &Diagnostics{seen: make(map[Diagnostic]struct{})}
}

func (ds *Diagnostics) add(kind DiagnosticKind, subject, format string, args ...any) {
	d := Diagnostic{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
	if _, ok := ds.seen[d]; ok {
		return
	}
	ds.seen[d] = struct{}{}
	ds.list = append(ds.list, d)
}

// All returns the collected diagnostics sorted by kind, subject, message.
func (ds *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, len(ds.list))
	copy(out, ds.list)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Message < b.Message
	})
	return out
}

// Kind returns the diagnostics of one kind, in report order.
func (ds *Diagnostics) Kind(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds.All() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Empty reports whether no diagnostics were collected.
func (ds *Diagnostics) Empty() bool {
	return len(ds.list) == 0
}
