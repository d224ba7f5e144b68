package ast

import (
	"fmt"
	"strings"
)

// Record is a serialization-friendly view of a node, used for the json and
// yaml output formats.
type Record struct {
	Kind     string               `json:"kind" yaml:"kind"`
	Text     string               `json:"text,omitempty" yaml:"text,omitempty"`
	Span     string               `json:"span,omitempty" yaml:"span,omitempty"`
	Children map[string][]*Record `json:"children,omitempty" yaml:"children,omitempty"`

	order []string
}

// Encode converts the tree rooted at n into records.
func Encode(n Node) *Record {
	r := &Record{
		Kind: kind(n),
		Text: text(n),
		Span: n.Span().String(),
	}
	for _, g := range children(n) {
		if len(g.nodes) == 0 {
			continue
		}
		if r.Children == nil {
			r.Children = map[string][]*Record{}
		}
		for _, c := range g.nodes {
			r.Children[g.name] = append(r.Children[g.name], Encode(c))
		}
		r.order = append(r.order, g.name)
	}
	return r
}

// StripSpans clears the Span of r and all of its descendants.
func (r *Record) StripSpans() *Record {
	r.Span = ""
	for _, cs := range r.Children {
		for _, c := range cs {
			c.StripSpans()
		}
	}
	return r
}

// Sexp renders r as a compact s-expression, e.g. (Equal (Apply f x) y).
func (r *Record) Sexp() string {
	if len(r.Children) == 0 {
		switch {
		case r.Kind == "StringContent":
			return fmt.Sprintf("%q", r.Text)
		case r.Text != "":
			return r.Text
		}
		return "(" + r.Kind + ")"
	}

	parts := []string{r.Kind}
	if r.Text != "" {
		parts = append(parts, r.Text)
	}
	for _, name := range r.order {
		for _, c := range r.Children[name] {
			parts = append(parts, c.Sexp())
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Sexp is shorthand for Encode(n).Sexp().
func Sexp(n Node) string {
	return Encode(n).Sexp()
}
