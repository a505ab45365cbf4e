// Package target defines the target-neutral tree the transpiler rewrites and
// renders: a closed set of expression and statement kinds, structural
// equality that ignores source ranges, and a copying rewriter.
package target

import "github.com/vinivendra/Gryphon-sub003/pkg/dump"

// Node is implemented by every expression and statement.
type Node interface {
	SourceRange() *dump.Range
	isNode()
}

// Expr is an expression node. TypeName is the source-language type annotation
// carried from the dump, or "" when unknown.
type Expr interface {
	Node
	TypeName() string
	isExpr()
}

// Meta holds the provenance shared by all nodes.
type Meta struct {
	Range *dump.Range
}

// SourceRange returns the originating source range, or nil.
func (m Meta) SourceRange() *dump.Range { return m.Range }

func (Meta) isNode() {}

// LiteralKind classifies literal values.
type LiteralKind int

// Literal kinds.
const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
	NullLiteral
	CharLiteral
)

// Literal is a leaf constant. Value holds the literal text without quotes.
type Literal struct {
	Value string
	Type  string
	Meta
	Kind LiteralKind
}

// Identifier references a variable, parameter, function or type member by name.
type Identifier struct {
	Name string
	Type string
	Meta
}

// TypeRef names a type used as an expression. Implicit marks a receiver the
// source elided (as in ".red").
type TypeRef struct {
	Name string
	Meta
	Implicit bool
}

// Dot is a member access; Optional marks "?.".
type Dot struct {
	Receiver Expr
	Member   string
	Type     string
	Meta
	Optional bool
}

// Arg is a call or tuple argument with an optional label.
type Arg struct {
	Value Expr
	Label string
}

// Call is a function or method call. TrailingClosure marks that the last
// argument was written as a trailing closure.
type Call struct {
	Function Expr
	Type     string
	Args     []Arg
	Meta
	TrailingClosure bool
}

// Binary is an infix operation.
type Binary struct {
	Left  Expr
	Right Expr
	Op    string
	Type  string
	Meta
}

// Unary is a prefix or postfix operation.
type Unary struct {
	Operand Expr
	Op      string
	Type    string
	Meta
	Postfix bool
}

// Tuple is a (possibly labeled) tuple expression.
type Tuple struct {
	Type     string
	Elements []Arg
	Meta
}

// Array is an array literal.
type Array struct {
	Type     string
	Elements []Expr
	Meta
}

// Entry is one key/value pair of a dictionary literal.
type Entry struct {
	Key   Expr
	Value Expr
}

// Dictionary is a dictionary literal.
type Dictionary struct {
	Type    string
	Entries []Entry
	Meta
}

// Param is a function, closure or enum-case parameter.
type Param struct {
	Default Expr
	Label   string
	Name    string
	Type    string
}

// Closure is an anonymous function.
type Closure struct {
	Type   string
	Params []Param
	Body   []Stmt
	Meta
}

// Conditional is the ternary "cond ? then : else".
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
	Type string
	Meta
}

// Subscript is "receiver[index]".
type Subscript struct {
	Receiver Expr
	Index    Expr
	Type     string
	Meta
}

// CastKind selects the cast operator.
type CastKind int

// Cast kinds.
const (
	SafeCast CastKind = iota
	ForcedCast
	TypeCheck
)

// Cast is "as?", "as" or "is".
type Cast struct {
	Operand Expr
	Target  string
	Type    string
	Meta
	Kind CastKind
}

// ForceUnwrap is "operand!!".
type ForceUnwrap struct {
	Operand Expr
	Type    string
	Meta
}

// Interpolation is a string template; parts are string literals and embedded expressions.
type Interpolation struct {
	Parts []Expr
	Meta
}

// Placeholder appears only in template patterns. It matches any expression
// whose type is DeclaredType or one of its subtypes.
type Placeholder struct {
	Variable     string
	DeclaredType string
	Meta
}

// RawCode is target text emitted verbatim.
type RawCode struct {
	Text string
	Type string
	Meta
}

// Concat renders its parts back to back. It is produced by template substitution.
type Concat struct {
	Type  string
	Parts []Expr
	Meta
}

// TypeName implements Expr.
func (e *Literal) TypeName() string {
	if e.Type != "" {
		return e.Type
	}

	switch e.Kind {
	case IntLiteral:
		return "Int"
	case FloatLiteral:
		return "Double"
	case StringLiteral:
		return "String"
	case BoolLiteral:
		return "Bool"
	case CharLiteral:
		return "Character"
	case NullLiteral:
		return ""
	}

	return ""
}

// TypeName implements Expr.
func (e *Identifier) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *TypeRef) TypeName() string { return e.Name }

// TypeName implements Expr.
func (e *Dot) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Call) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Binary) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Unary) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Tuple) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Array) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Dictionary) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Closure) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Conditional) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Subscript) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Cast) TypeName() string {
	if e.Kind == TypeCheck {
		return "Bool"
	}

	return e.Type
}

// TypeName implements Expr.
func (e *ForceUnwrap) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Interpolation) TypeName() string { return "String" }

// TypeName implements Expr.
func (e *Placeholder) TypeName() string { return e.DeclaredType }

// TypeName implements Expr.
func (e *RawCode) TypeName() string { return e.Type }

// TypeName implements Expr.
func (e *Concat) TypeName() string { return e.Type }

func (*Literal) isExpr()       {}
func (*Identifier) isExpr()    {}
func (*TypeRef) isExpr()       {}
func (*Dot) isExpr()           {}
func (*Call) isExpr()          {}
func (*Binary) isExpr()        {}
func (*Unary) isExpr()         {}
func (*Tuple) isExpr()         {}
func (*Array) isExpr()         {}
func (*Dictionary) isExpr()    {}
func (*Closure) isExpr()       {}
func (*Conditional) isExpr()   {}
func (*Subscript) isExpr()     {}
func (*Cast) isExpr()          {}
func (*ForceUnwrap) isExpr()   {}
func (*Interpolation) isExpr() {}
func (*Placeholder) isExpr()   {}
func (*RawCode) isExpr()       {}
func (*Concat) isExpr()        {}
