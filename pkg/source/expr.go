package source

// DeclRef is a declref_expr.
type DeclRef struct {
	Name string
	Meta
	Typed
}

// IntegerLiteral is an integer_literal_expr.
type IntegerLiteral struct {
	Value string
	Meta
	Typed
}

// FloatLiteral is a float_literal_expr.
type FloatLiteral struct {
	Value string
	Meta
	Typed
}

// StringLiteral is a string_literal_expr.
type StringLiteral struct {
	Value string
	Meta
	Typed
}

// BooleanLiteral is a boolean_literal_expr.
type BooleanLiteral struct {
	Meta
	Typed
	Value bool
}

// NilLiteral is a nil_literal_expr.
type NilLiteral struct {
	Meta
	Typed
}

// Interpolation is a string_interpolation_expr; literal segments are StringLiterals.
type Interpolation struct {
	Parts []Expr
	Meta
	Typed
}

// Binary is a binary_expr.
type Binary struct {
	Left  Expr
	Right Expr
	Op    string
	Meta
	Typed
}

// PrefixUnary is a prefix_unary_expr.
type PrefixUnary struct {
	Operand Expr
	Op      string
	Meta
	Typed
}

// Arg is one argument of a call or tuple.
type Arg struct {
	Value    Expr
	Label    string
	Trailing bool
}

// Call is a call_expr.
type Call struct {
	Callee Expr
	Args   []Arg
	Meta
	Typed
}

// MemberRef is a member_ref_expr.
type MemberRef struct {
	Base   Expr
	Member string
	Meta
	Typed
}

// UnresolvedMember is an unresolved_member_expr, a member of the contextual type.
type UnresolvedMember struct {
	Member string
	Meta
	Typed
}

// TypeExpr is a type_expr naming a type.
type TypeExpr struct {
	Name string
	Meta
	Typed
}

// Tuple is a tuple_expr.
type Tuple struct {
	Elements []Arg
	Meta
	Typed
}

// Paren is a paren_expr.
type Paren struct {
	Inner Expr
	Meta
	Typed
}

// ArrayLiteral is an array_expr.
type ArrayLiteral struct {
	Elements []Expr
	Meta
	Typed
}

// DictionaryEntry is a key/value pair of a dictionary_expr.
type DictionaryEntry struct {
	Key   Expr
	Value Expr
}

// DictionaryLiteral is a dictionary_expr.
type DictionaryLiteral struct {
	Entries []DictionaryEntry
	Meta
	Typed
}

// Closure is a closure_expr.
type Closure struct {
	Body   *Brace
	Params []Param
	Meta
	Typed
}

// ForceValue is a force_value_expr.
type ForceValue struct {
	Operand Expr
	Meta
	Typed
}

// BindOptional is a bind_optional_expr, the "x?" inside an optional chain.
type BindOptional struct {
	Operand Expr
	Meta
	Typed
}

// OptionalEvaluation is an optional_evaluation_expr wrapping an optional chain.
type OptionalEvaluation struct {
	Inner Expr
	Meta
	Typed
}

// Ternary is a ternary_expr.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
	Meta
	Typed
}

// Subscript is a subscript_expr.
type Subscript struct {
	Base  Expr
	Index Expr
	Meta
	Typed
}

// CastKind selects the cast flavor.
type CastKind int

// Cast kinds.
const (
	IsCast CastKind = iota
	ConditionalCast
	ForcedCast
)

// Cast is an is_expr, conditional_checked_cast_expr or forced_checked_cast_expr.
type Cast struct {
	Operand Expr
	Target  string
	Meta
	Typed
	Kind CastKind
}

// Self is a self_expr.
type Self struct {
	Meta
	Typed
}

// Inout is an inout_expr ("&x").
type Inout struct {
	Operand Expr
	Meta
	Typed
}

func (*DeclRef) isExpr()            {}
func (*IntegerLiteral) isExpr()     {}
func (*FloatLiteral) isExpr()       {}
func (*StringLiteral) isExpr()      {}
func (*BooleanLiteral) isExpr()     {}
func (*NilLiteral) isExpr()         {}
func (*Interpolation) isExpr()      {}
func (*Binary) isExpr()             {}
func (*PrefixUnary) isExpr()        {}
func (*Call) isExpr()               {}
func (*MemberRef) isExpr()          {}
func (*UnresolvedMember) isExpr()   {}
func (*TypeExpr) isExpr()           {}
func (*Tuple) isExpr()              {}
func (*Paren) isExpr()              {}
func (*ArrayLiteral) isExpr()       {}
func (*DictionaryLiteral) isExpr()  {}
func (*Closure) isExpr()            {}
func (*ForceValue) isExpr()         {}
func (*BindOptional) isExpr()       {}
func (*OptionalEvaluation) isExpr() {}
func (*Ternary) isExpr()            {}
func (*Subscript) isExpr()          {}
func (*Cast) isExpr()               {}
func (*Self) isExpr()               {}
func (*Inout) isExpr()              {}
