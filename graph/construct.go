package graph

import (
	"sort"

	"github.com/c360studio/laderr/vocabulary/laderr"
)

// Construct is a named element of the fact graph. Identity is immutable once
// created; classes and attributes only accumulate during a run.
type Construct struct {
	// ID is the unique name of the construct within the graph.
	ID string

	// Label is an optional human-readable name.
	Label string

	// Description is optional free text.
	Description string

	classes map[string]struct{}
	attrs   map[string]string
}

// NewConstruct creates a construct with the given ID and classes.
func NewConstruct(id string, classes ...string) *Construct {
	c := &Construct{
		ID:      id,
		classes: make(map[string]struct{}, len(classes)),
		attrs:   make(map[string]string),
	}
	for _, class := range classes {
		c.classes[class] = struct{}{}
	}
	return c
}

// HasClass reports whether the construct holds the given class.
// Capability and Vulnerability imply Disposition.
func (c *Construct) HasClass(class string) bool {
	if _, ok := c.classes[class]; ok {
		return true
	}
	if class == laderr.ClassDisposition {
		_, cap := c.classes[laderr.ClassCapability]
		_, vul := c.classes[laderr.ClassVulnerability]
		return cap || vul
	}
	return false
}

// AddClass adds a class to the construct's kind set. Returns true when the
// class was not already present.
func (c *Construct) AddClass(class string) bool {
	if _, ok := c.classes[class]; ok {
		return false
	}
	c.classes[class] = struct{}{}
	return true
}

// Classes returns the stored classes in sorted order.
func (c *Construct) Classes() []string {
	out := make([]string, 0, len(c.classes))
	for class := range c.classes {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// Attr returns a scalar attribute value, or "" when unset.
func (c *Construct) Attr(key string) string {
	return c.attrs[key]
}

// SetAttr sets a scalar attribute. Returns true when the value changed.
func (c *Construct) SetAttr(key, value string) bool {
	if c.attrs[key] == value {
		return false
	}
	c.attrs[key] = value
	return true
}

// Attribute keys used on constructs. Situation and Status live on Scenario
// constructs; Status is derived and may be rewritten across passes, which is
// why it is an attribute and not a fact triple.
const (
	AttrSituation = "situation"
	AttrStatus    = "status"
)
