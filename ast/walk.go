package ast

import (
	"github.com/pontaoski/leanparse/types"
)

// group is a named, ordered run of child nodes.
type group struct {
	name  string
	nodes []Node
}

func list[T Node](xs []T) []Node {
	ret := make([]Node, len(xs))
	for i, x := range xs {
		ret[i] = x
	}
	return ret
}

func opt(n Node) []Node {
	if n == nil {
		return nil
	}
	return []Node{n}
}

func signature(sig Signature) []group {
	return []group{
		{"params", list(sig.Params)},
		{"type", opt(sig.Type)},
	}
}

func declHead(mods []*Modifier, name *DeclName, sig Signature) []group {
	gs := []group{{"modifiers", list(mods)}}
	if name != nil {
		gs = append(gs, group{"name", []Node{name}})
	}
	return append(gs, signature(sig)...)
}

// children lists the direct children of n in source order.
func children(n Node) []group {
	switch n := n.(type) {
	case *SourceFile:
		return []group{{"commands", list(n.Commands)}}
	case *HashCommand:
		return []group{{"expr", []Node{n.X}}}
	case *Open:
		return []group{{"name", []Node{n.Name}}}
	case *Namespace:
		return []group{{"name", []Node{n.Name}}, {"body", list(n.Body)}, {"end", []Node{n.EndName}}}
	case *Section:
		return []group{{"name", []Node{n.Name}}, {"body", list(n.Body)}, {"end", []Node{n.EndName}}}
	case *Def:
		return append(declHead(n.Modifiers, n.Name, n.Sig), group{"value", []Node{n.Value}})
	case *Abbrev:
		return append(declHead(n.Modifiers, n.Name, n.Sig), group{"value", []Node{n.Value}})
	case *Theorem:
		return append(declHead(n.Modifiers, n.Name, n.Sig), group{"proof", []Node{n.Proof}})
	case *Constant:
		return append(declHead(n.Modifiers, n.Name, n.Sig), group{"value", opt(n.Value)})
	case *Axiom:
		return declHead(n.Modifiers, n.Name, n.Sig)
	case *Example:
		return append(declHead(n.Modifiers, nil, n.Sig), group{"value", []Node{n.Value}})
	case *Instance:
		return append(declHead(n.Modifiers, n.Name, n.Sig),
			group{"fields", list(n.Fields)},
			group{"value", opt(n.Value)},
		)
	case *InstanceField:
		return []group{
			{"name", []Node{n.Name}},
			{"params", list(n.Params)},
			{"type", []Node{n.ReturnType}},
			{"impl", []Node{n.Impl}},
		}
	case *Inductive:
		return append(declHead(n.Modifiers, n.Name, n.Sig), group{"constructors", list(n.Constructors)})
	case *Constructor:
		return []group{{"name", []Node{n.Name}}, {"type", []Node{n.Type}}}
	case *Class:
		return append(declHead(n.Modifiers, n.Name, n.Sig),
			group{"extends", list(n.Extends)},
			group{"fields", list(n.Fields)},
		)
	case *Structure:
		return append(declHead(n.Modifiers, n.Name, n.Sig),
			group{"extends", list(n.Extends)},
			group{"fields", list(n.Fields)},
		)
	case *Field:
		return []group{
			{"name", []Node{n.Name}},
			{"params", list(n.Params)},
			{"type", opt(n.Type)},
			{"default", opt(n.Default)},
		}
	case *SimpleValue:
		return []group{{"expr", []Node{n.X}}}
	case *Equations:
		return []group{{"patterns", list(n.Patterns)}}
	case *Pattern:
		return []group{{"lhs", list(n.Lhs)}, {"rhs", []Node{n.Rhs}}}
	case *WhereBlock:
		return []group{{"fields", list(n.Fields)}}
	case *Annotated:
		return []group{{"name", []Node{n.Name}}, {"type", []Node{n.Type}}}
	case *StringLit:
		return []group{{"parts", list(n.Parts)}}
	case *Interpolation:
		return []group{{"expr", []Node{n.X}}}
	case *Apply:
		return []group{{"fn", []Node{n.Fn}}, {"args", list(n.Args)}}
	case *BinaryExpr:
		return []group{{"x", []Node{n.X}}, {"y", []Node{n.Y}}}
	case *Comparison:
		return []group{{"x", []Node{n.X}}, {"y", []Node{n.Y}}}
	case *Conditional:
		return []group{{"cond", []Node{n.Cond}}, {"then", []Node{n.Then}}, {"else", []Node{n.Else}}}
	case *Lambda:
		return []group{{"params", list(n.Params)}, {"body", []Node{n.Body}}}
	case *ElementOf:
		return []group{{"type", []Node{n.Type}}, {"field", []Node{n.Field}}}
	case *FunctionType:
		return []group{{"from", []Node{n.From}}, {"to", []Node{n.To}}}
	}
	return nil
}

// Inspect traverses the tree rooted at n in depth-first source order. If f
// returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, g := range children(n) {
		for _, c := range g.nodes {
			Inspect(c, f)
		}
	}
}

var binaryNames = map[types.TokenKind]string{
	types.PLUS:    "Add",
	types.MINUS:   "Sub",
	types.STAR:    "Mul",
	types.EQUALS:  "Equal",
	types.LESS:    "Less",
	types.GREATER: "Greater",
}

// kind names a node the way it appears in encoded output.
func kind(n Node) string {
	switch n := n.(type) {
	case *SourceFile:
		return "SourceFile"
	case *HashCommand:
		return "HashCommand"
	case *Open:
		return "Open"
	case *Namespace:
		return "Namespace"
	case *Section:
		return "Section"
	case *Def:
		return "Def"
	case *Abbrev:
		return "Abbrev"
	case *Theorem:
		return "Theorem"
	case *Constant:
		return "Constant"
	case *Axiom:
		return "Axiom"
	case *Example:
		return "Example"
	case *Instance:
		return "Instance"
	case *InstanceField:
		return "InstanceField"
	case *Inductive:
		if n.Class {
			return "ClassInductive"
		}
		return "Inductive"
	case *Constructor:
		return "Constructor"
	case *Class:
		return "Class"
	case *Structure:
		return "Structure"
	case *Field:
		return "Field"
	case *Modifier:
		return "Modifier"
	case *DeclName:
		return "DeclName"
	case *SimpleValue:
		return "SimpleValue"
	case *Equations:
		return "Equations"
	case *Pattern:
		return "Pattern"
	case *WhereBlock:
		return "WhereBlock"
	case *Annotated:
		return "Annotated"
	case *Ident:
		return "Ident"
	case *Number:
		return "Number"
	case *StringLit:
		return "String"
	case *StringContent:
		return "StringContent"
	case *Interpolation:
		return "Interpolation"
	case *Apply:
		return "Apply"
	case *BinaryExpr:
		return binaryNames[n.Op]
	case *Comparison:
		return binaryNames[n.Op]
	case *Conditional:
		return "Conditional"
	case *Lambda:
		return "Lambda"
	case *ElementOf:
		return "ElementOf"
	case *FunctionType:
		return "FunctionType"
	}
	return "Unknown"
}

// text is the literal payload of a leaf node.
func text(n Node) string {
	switch n := n.(type) {
	case *Ident:
		return n.Name
	case *Number:
		return n.Value
	case *StringContent:
		return n.Text
	case *DeclName:
		return n.String()
	case *Modifier:
		return n.Kind.String()
	case *HashCommand:
		return n.Kind.String()
	}
	return ""
}
