package target

import "strconv"

// Stmt is a statement or declaration node.
type Stmt interface {
	Node
	isStmt()
}

// Condition is one clause of an if or guard condition list.
type Condition interface {
	isCondition()
}

// ExprCondition is a boolean expression clause.
type ExprCondition struct {
	Expr Expr
}

// OptionalBinding is "let name = value" inside a condition.
type OptionalBinding struct {
	Value   Expr
	Name    string
	Type    string
	Mutable bool
}

func (*ExprCondition) isCondition()   {}
func (*OptionalBinding) isCondition() {}

// Pattern is one pattern of a switch case.
type Pattern interface {
	isPattern()
}

// ExprPattern compares the subject against a value.
type ExprPattern struct {
	Expr Expr
}

// IsPattern checks the subject's runtime type.
type IsPattern struct {
	Type string
}

// EnumCasePattern matches an enum case, binding its associated values by position.
type EnumCasePattern struct {
	Enum     string
	Case     string
	Bindings []string
}

func (*ExprPattern) isPattern()     {}
func (*IsPattern) isPattern()       {}
func (*EnumCasePattern) isPattern() {}

// ClassKind selects how a type declaration is rendered.
type ClassKind int

// Type declaration kinds. Struct and Enum exist only until the passes replace them.
const (
	KindClass ClassKind = iota
	KindStruct
	KindDataClass
	KindInterface
	KindEnum
	KindEnumClass
	KindSealedClass
)

// String returns the kind name.
func (k ClassKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindDataClass:
		return "data class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindEnumClass:
		return "enum class"
	case KindSealedClass:
		return "sealed class"
	}

	return "unknown"
}

// ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	Expr Expr
	Meta
}

// VarDecl declares a variable or property. Getter holds the body of a
// computed property.
type VarDecl struct {
	Value       Expr
	Name        string
	Type        string
	Access      string
	ExtendsType string
	Annotations []string
	Getter      []Stmt
	Meta
	Mutable bool
	Static  bool
}

// Assign is "target op value" where op is "=" or a compound assignment.
type Assign struct {
	Target Expr
	Value  Expr
	Op     string
	Meta
}

// Return exits the enclosing function; Value may be nil.
type Return struct {
	Value Expr
	Meta
}

// If is a conditional statement. An Else holding a single *If renders as "else if".
type If struct {
	Conditions []Condition
	Then       []Stmt
	Else       []Stmt
	Meta
}

// Guard runs Else when any condition fails; Else must leave the scope.
type Guard struct {
	Conditions []Condition
	Else       []Stmt
	Meta
}

// While loops while Cond holds.
type While struct {
	Cond Expr
	Body []Stmt
	Meta
}

// ForEach iterates Collection binding Variable.
type ForEach struct {
	Collection Expr
	Variable   string
	Body       []Stmt
	Meta
}

// Case is one branch of a Switch. A default case has no patterns.
type Case struct {
	Patterns []Pattern
	Body     []Stmt
	Meta
	IsDefault bool
}

// Switch is a multi-way branch over Subject.
type Switch struct {
	Subject Expr
	// Binding, when set, names a val holding Subject that the cases read
	// instead of re-evaluating it.
	Binding string
	Cases   []*Case
	Meta
}

// Throw raises Value.
type Throw struct {
	Value Expr
	Meta
}

// Break leaves the enclosing loop.
type Break struct {
	Meta
}

// Continue skips to the next loop iteration.
type Continue struct {
	Meta
}

// FuncDecl declares a function, method or initializer. ExprBody, when set,
// replaces Body. Abstract functions have neither.
type FuncDecl struct {
	ExprBody    Expr
	Name        string
	ReturnType  string
	Access      string
	ExtendsType string
	Params      []Param
	Body        []Stmt
	Annotations []string
	Meta
	Abstract bool
	Static   bool
	Mutating bool
	Override bool
	IsInit   bool
}

// EnumCase is one case of an enum; Params are its associated values.
type EnumCase struct {
	RawValue Expr
	Name     string
	Params   []Param
	Meta
}

// FieldName returns the property name the payload value at index is stored
// under: its label, else its name, else "valueN".
func (c *EnumCase) FieldName(index int) string {
	if index < 0 || index >= len(c.Params) {
		return ""
	}

	param := c.Params[index]

	switch {
	case param.Label != "":
		return param.Label
	case param.Name != "":
		return param.Name
	}

	return "value" + strconv.Itoa(index+1)
}

// ClassDecl declares a class-like type. Properties become the primary
// constructor of a data class.
type ClassDecl struct {
	Name        string
	Access      string
	Inherits    []string
	Annotations []string
	Properties  []*VarDecl
	Cases       []*EnumCase
	Members     []Stmt
	Meta
	Kind ClassKind
}

// TypeAlias declares "typealias Name = Type".
type TypeAlias struct {
	Name   string
	Type   string
	Access string
	Meta
}

// File is a translated compilation unit.
type File struct {
	Name  string
	Stmts []Stmt
	Meta
}

func (*ExprStmt) isStmt()  {}
func (*VarDecl) isStmt()   {}
func (*Assign) isStmt()    {}
func (*Return) isStmt()    {}
func (*If) isStmt()        {}
func (*Guard) isStmt()     {}
func (*While) isStmt()     {}
func (*ForEach) isStmt()   {}
func (*Switch) isStmt()    {}
func (*Throw) isStmt()     {}
func (*Break) isStmt()     {}
func (*Continue) isStmt()  {}
func (*FuncDecl) isStmt()  {}
func (*EnumCase) isStmt()  {}
func (*ClassDecl) isStmt() {}
func (*TypeAlias) isStmt() {}
