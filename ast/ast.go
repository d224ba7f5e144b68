// Package ast declares the syntax tree produced by the parser. Trees are
// built bottom-up and are never modified after construction.
package ast

import (
	"strings"

	"github.com/pontaoski/leanparse/types"
)

//go:generate sh -c "cd ../tool && go run . ../ast/nodes.adt ../ast/ast_gen.go ast"

type Node interface {
	Span() types.Span
}

// Loc is embedded by every node and records its source span.
type Loc struct {
	Location types.Span
}

func (l Loc) Span() types.Span { return l.Location }

type SourceFile struct {
	Loc
	Commands []Command
}

// Commands

// HashCommand is #check, #eval or #reduce followed by an expression.
type HashCommand struct {
	Loc
	Kind types.TokenKind
	X    Expression
}

type Open struct {
	Loc
	Name *Ident
}

type Namespace struct {
	Loc
	Name    *Ident
	Body    []Command
	EndName *Ident
}

type Section struct {
	Loc
	Name    *Ident
	Body    []Command
	EndName *Ident
}

// Declarations

type Modifier struct {
	Loc
	Kind types.TokenKind
}

// DeclName is a possibly dotted declaration name such as Nat.add.
type DeclName struct {
	Loc
	Parts []*Ident
}

func (d *DeclName) String() string {
	names := make([]string, len(d.Parts))
	for i, p := range d.Parts {
		names[i] = p.Name
	}
	return strings.Join(names, ".")
}

// Signature is the binder list and the optional result type of a declaration.
type Signature struct {
	Params []Param
	Type   Expression
}

type Def struct {
	Loc
	Modifiers []*Modifier
	Name      *DeclName
	Sig       Signature
	Value     DeclValue
}

type Abbrev struct {
	Loc
	Modifiers []*Modifier
	Name      *DeclName
	Sig       Signature
	Value     DeclValue
}

// Theorem's proof is restricted to a single identifier.
type Theorem struct {
	Loc
	Modifiers []*Modifier
	Name      *DeclName
	Sig       Signature
	Proof     *Ident
}

type Constant struct {
	Loc
	Modifiers []*Modifier
	Name      *DeclName
	Sig       Signature
	Value     Expression
}

type Axiom struct {
	Loc
	Modifiers []*Modifier
	Name      *DeclName
	Sig       Signature
}

type Example struct {
	Loc
	Modifiers []*Modifier
	Sig       Signature
	Value     DeclValue
}

// Instance has either Fields (where form) or Value (:= form). Name may be nil.
type Instance struct {
	Loc
	Modifiers []*Modifier
	Name      *DeclName
	Sig       Signature
	Fields    []*InstanceField
	Value     Expression
}

type InstanceField struct {
	Loc
	Name       *Ident
	Params     []Param
	ReturnType Expression
	Impl       Expression
}

// Inductive covers both `inductive` and `class inductive`.
type Inductive struct {
	Loc
	Modifiers    []*Modifier
	Class        bool
	Name         *DeclName
	Sig          Signature
	Constructors []*Constructor
}

type Constructor struct {
	Loc
	Name *Ident
	Type Expression
}

type Class struct {
	Loc
	Modifiers []*Modifier
	Name      *DeclName
	Sig       Signature
	Extends   []Expression
	Fields    []*Field
}

type Structure struct {
	Loc
	Modifiers []*Modifier
	Name      *DeclName
	Sig       Signature
	Extends   []Expression
	Fields    []*Field
}

type Field struct {
	Loc
	Name    *Ident
	Params  []Param
	Type    Expression
	Default Expression
}

// Declaration values

type SimpleValue struct {
	Loc
	X Expression
}

type Equations struct {
	Loc
	Patterns []*Pattern
}

type Pattern struct {
	Loc
	Lhs []Expression
	Rhs Expression
}

type WhereBlock struct {
	Loc
	Fields []*Field
}

// Parameters

type Annotated struct {
	Loc
	Name *Ident
	Type Expression
}

// Expressions

type Ident struct {
	Loc
	Name string
}

type Number struct {
	Loc
	Value string
}

type StringLit struct {
	Loc
	Parts []StringPart
}

type StringContent struct {
	Loc
	Text string
}

type Interpolation struct {
	Loc
	X Expression
}

// Apply is juxtaposition: Fn applied to one or more Args.
type Apply struct {
	Loc
	Fn   Expression
	Args []Expression
}

// BinaryExpr holds +, -, * and =.
type BinaryExpr struct {
	Loc
	Op types.TokenKind
	X  Expression
	Y  Expression
}

// Comparison holds < and >.
type Comparison struct {
	Loc
	Op types.TokenKind
	X  Expression
	Y  Expression
}

type Conditional struct {
	Loc
	Cond Expression
	Then Expression
	Else Expression
}

type Lambda struct {
	Loc
	Params []Param
	Body   Expression
}

// ElementOf is Type.field. Type is an *Ident or another *ElementOf.
type ElementOf struct {
	Loc
	Type  Expression
	Field *Ident
}

// FunctionType is From → To; it only occurs in type positions.
type FunctionType struct {
	Loc
	From Expression
	To   Expression
}
