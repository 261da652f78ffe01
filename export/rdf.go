package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/vocabulary/laderr"
)

const (
	rdfTypeIRI   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfsLabelIRI = "http://www.w3.org/2000/01/rdf-schema#label"
	dcDescIRI    = "http://purl.org/dc/terms/description"
)

// RDFExporter exports an enriched fact graph to RDF with a configurable
// type-assertion profile.
type RDFExporter struct {
	profile  Profile
	baseURI  string
	graph    *graph.Graph
	prefixes map[string]string
}

// NewRDFExporter creates an exporter for the given graph. The base URI
// prefixes instance IRIs; empty means the vocabulary default.
func NewRDFExporter(g *graph.Graph, profile Profile, baseURI string) *RDFExporter {
	if baseURI == "" {
		baseURI = laderr.DefaultBaseURI
	}
	return &RDFExporter{
		profile:  profile,
		baseURI:  baseURI,
		graph:    g,
		prefixes: defaultPrefixes(baseURI),
	}
}

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes(baseURI string) map[string]string {
	return map[string]string{
		"rdf":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":   "http://www.w3.org/2000/01/rdf-schema#",
		"dc":     "http://purl.org/dc/terms/",
		"laderr": laderr.Namespace,
		"":       baseURI,
	}
}

// Export serializes the graph to the specified format.
func (e *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// statement is one expanded RDF triple ready for serialization.
type statement struct {
	predicateIRI string
	object       string
	literal      bool
}

// statements expands one construct into its RDF statements, type assertions
// first, in deterministic order.
func (e *RDFExporter) statements(c *graph.Construct) []statement {
	var out []statement

	classes := c.Classes()
	if Profiles[e.profile].IncludeRoles {
		classes = append(classes, e.graph.Roles(c.ID)...)
	}
	for _, class := range classes {
		out = append(out, statement{rdfTypeIRI, laderr.ClassIRI(class), false})
	}

	if c.Label != "" {
		out = append(out, statement{rdfsLabelIRI, c.Label, true})
	}
	if c.Description != "" {
		out = append(out, statement{dcDescIRI, c.Description, true})
	}

	for _, t := range e.graph.TriplesOf(c.ID) {
		pred := laderr.PredicateIRI(t.Predicate)
		if t.Predicate == laderr.State {
			// State objects are vocabulary individuals, not instance IRIs.
			out = append(out, statement{pred, laderr.Namespace + t.Object, false})
			continue
		}
		out = append(out, statement{pred, e.instanceIRI(t.Object), false})
	}
	return out
}

func (e *RDFExporter) instanceIRI(id string) string {
	return e.baseURI + id
}

// toTurtle serializes to Turtle format.
func (e *RDFExporter) toTurtle() string {
	var sb strings.Builder

	prefixNames := make([]string, 0, len(e.prefixes))
	for p := range e.prefixes {
		prefixNames = append(prefixNames, p)
	}
	sort.Strings(prefixNames)
	for _, p := range prefixNames {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", p, e.prefixes[p]))
	}
	sb.WriteString("\n")

	for _, c := range e.graph.Constructs("") {
		stmts := e.statements(c)
		if len(stmts) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("<%s>\n", e.instanceIRI(c.ID)))
		for i, st := range stmts {
			if st.predicateIRI == rdfTypeIRI {
				sb.WriteString(fmt.Sprintf("    a <%s>", st.object))
			} else {
				sb.WriteString(fmt.Sprintf("    <%s> %s", st.predicateIRI, formatTurtleObject(st)))
			}
			if i < len(stmts)-1 {
				sb.WriteString(" ;\n")
			} else {
				sb.WriteString(" .\n")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatTurtleObject(st statement) string {
	if st.literal {
		return `"` + escapeLiteral(st.object) + `"`
	}
	return fmt.Sprintf("<%s>", st.object)
}

// escapeLiteral escapes a string literal per the Turtle ECHAR grammar, shared
// with N-Triples. Control characters outside the named escapes use \uXXXX.
func escapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// toNTriples serializes to N-Triples format.
func (e *RDFExporter) toNTriples() string {
	var sb strings.Builder
	for _, c := range e.graph.Constructs("") {
		subj := e.instanceIRI(c.ID)
		for _, st := range e.statements(c) {
			sb.WriteString(fmt.Sprintf("<%s> <%s> %s .\n", subj, st.predicateIRI, formatTurtleObject(st)))
		}
	}
	return sb.String()
}

// jsonldDocument is the marshal shape of a JSON-LD export.
type jsonldDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []jsonldNode      `json:"@graph"`
}

// jsonldNode is one construct in the @graph array. Properties marshal
// flattened alongside @id and @type.
type jsonldNode struct {
	ID         string
	Types      []string
	Properties map[string]any
}

// MarshalJSON flattens the node into a single JSON object.
func (n jsonldNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Types) > 0 {
		m["@type"] = n.Types
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// jsonldRef is a node reference object.
type jsonldRef struct {
	ID string `json:"@id"`
}

// toJSONLD serializes to JSON-LD format.
func (e *RDFExporter) toJSONLD() string {
	ctx := make(map[string]string, len(e.prefixes))
	for p, iri := range e.prefixes {
		if p == "" {
			p = "@vocab"
		}
		ctx[p] = iri
	}

	doc := jsonldDocument{Context: ctx, Graph: make([]jsonldNode, 0)}
	for _, c := range e.graph.Constructs("") {
		doc.Graph = append(doc.Graph, e.jsonldNodeFor(c))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data) + "\n"
}

// jsonldNodeFor aggregates a construct's statements per predicate, so a
// predicate with several objects becomes one array-valued key rather than
// repeated keys a JSON parser would collapse.
func (e *RDFExporter) jsonldNodeFor(c *graph.Construct) jsonldNode {
	node := jsonldNode{ID: e.instanceIRI(c.ID), Properties: make(map[string]any)}
	for _, st := range e.statements(c) {
		if st.predicateIRI == rdfTypeIRI {
			node.Types = append(node.Types, st.object)
			continue
		}
		var v any
		if st.literal {
			v = st.object
		} else {
			v = jsonldRef{ID: st.object}
		}
		switch prev := node.Properties[st.predicateIRI].(type) {
		case nil:
			node.Properties[st.predicateIRI] = v
		case []any:
			node.Properties[st.predicateIRI] = append(prev, v)
		default:
			node.Properties[st.predicateIRI] = []any{prev, v}
		}
	}
	return node
}
