// Package source holds the typed tree mirroring the front end's node kinds,
// and the builder that produces it from a decoded dump.
package source

import "github.com/vinivendra/Gryphon-sub003/pkg/dump"

// Node is implemented by every source node.
type Node interface {
	SourceRange() *dump.Range
	isNode()
}

// Stmt is anything that may appear in a brace body: statements, declarations
// and expression statements.
type Stmt interface {
	Node
	isStmt()
}

// Decl is a declaration.
type Decl interface {
	Stmt
	isDecl()
}

// Expr is an expression. TypeName is the type annotation from the dump.
type Expr interface {
	Node
	TypeName() string
	isExpr()
}

// Meta carries a node's source range.
type Meta struct {
	Range *dump.Range
}

// SourceRange returns the originating source range, or nil.
func (m Meta) SourceRange() *dump.Range { return m.Range }

func (Meta) isNode() {}

// Typed carries an expression's type annotation.
type Typed struct {
	Type string
}

// TypeName returns the type annotation.
func (t Typed) TypeName() string { return t.Type }

// File is a source_file: imports, declarations and top-level code in order.
type File struct {
	Name  string
	Items []Stmt
	Meta
}

// Import is an import_decl.
type Import struct {
	Module string
	Meta
}

// Param is one parameter of a function, closure or enum element.
type Param struct {
	Default Expr
	Label   string
	Name    string
	Type    string
}

// FuncDecl is a func_decl or constructor_decl. Body is nil for protocol requirements.
type FuncDecl struct {
	Body        *Brace
	Name        string
	ResultType  string
	Access      string
	Params      []Param
	Annotations []string
	Meta
	Static   bool
	Mutating bool
	Override bool
	IsInit   bool
}

// VarDecl is a var_decl; Value is the initializer, Getter a computed body.
type VarDecl struct {
	Value       Expr
	Getter      *Brace
	Name        string
	Type        string
	Access      string
	Annotations []string
	Meta
	IsLet  bool
	Static bool
}

// TypeKind distinguishes nominal type declarations.
type TypeKind int

// Nominal type kinds.
const (
	StructType TypeKind = iota
	ClassType
	EnumType
	ProtocolType
	ExtensionType
)

// TypeDecl is a struct, class, enum, protocol or extension declaration.
type TypeDecl struct {
	Name        string
	Access      string
	Inherits    []string
	Annotations []string
	Members     []Stmt
	Meta
	Kind TypeKind
}

// EnumCaseDecl groups the elements declared by one "case" line.
type EnumCaseDecl struct {
	Elements []*EnumElement
	Meta
}

// EnumElement is one enum case with optional associated values or raw value.
type EnumElement struct {
	RawValue Expr
	Name     string
	Params   []Param
	Meta
}

// TypeAliasDecl is a typealias_decl.
type TypeAliasDecl struct {
	Name   string
	Type   string
	Access string
	Meta
}

func (*Import) isStmt()        {}
func (*FuncDecl) isStmt()      {}
func (*VarDecl) isStmt()       {}
func (*TypeDecl) isStmt()      {}
func (*EnumCaseDecl) isStmt()  {}
func (*TypeAliasDecl) isStmt() {}

func (*Import) isDecl()        {}
func (*FuncDecl) isDecl()      {}
func (*VarDecl) isDecl()       {}
func (*TypeDecl) isDecl()      {}
func (*EnumCaseDecl) isDecl()  {}
func (*TypeAliasDecl) isDecl() {}

// Brace is a brace_stmt.
type Brace struct {
	Items []Stmt
	Meta
}

// Return is a return_stmt; Value may be nil.
type Return struct {
	Value Expr
	Meta
}

// Condition is a clause of an if/guard/while condition list.
type Condition interface {
	isCondition()
}

// CondExpr is a boolean clause.
type CondExpr struct {
	Expr Expr
}

// CondBinding is an optional binding "let name = value".
type CondBinding struct {
	Value Expr
	Name  string
	Type  string
	IsVar bool
}

func (*CondExpr) isCondition()    {}
func (*CondBinding) isCondition() {}

// If is an if_stmt. Else is nil, a *Brace or an *If.
type If struct {
	Else       Stmt
	Then       *Brace
	Conditions []Condition
	Meta
}

// Guard is a guard_stmt.
type Guard struct {
	Else       *Brace
	Conditions []Condition
	Meta
}

// While is a while_stmt.
type While struct {
	Cond Expr
	Body *Brace
	Meta
}

// ForEach is a for_each_stmt.
type ForEach struct {
	Collection Expr
	Body       *Brace
	Variable   string
	Meta
}

// CasePattern is one label of a case_stmt.
type CasePattern interface {
	isCasePattern()
}

// PatternExpr compares against a value.
type PatternExpr struct {
	Expr Expr
}

// PatternEnumElement matches ".name(let a, let b)".
type PatternEnumElement struct {
	Enum     string
	Case     string
	Bindings []string
}

// PatternIs matches "is Type".
type PatternIs struct {
	Type string
}

func (*PatternExpr) isCasePattern()        {}
func (*PatternEnumElement) isCasePattern() {}
func (*PatternIs) isCasePattern()          {}

// Case is a case_stmt; a default case has no patterns.
type Case struct {
	Body     *Brace
	Patterns []CasePattern
	Meta
	IsDefault bool
}

// Switch is a switch_stmt.
type Switch struct {
	Subject Expr
	Cases   []*Case
	Meta
}

// Break is a break_stmt.
type Break struct {
	Meta
}

// Continue is a continue_stmt.
type Continue struct {
	Meta
}

// Throw is a throw_stmt.
type Throw struct {
	Value Expr
	Meta
}

// Assign is an assign_expr in statement position, or a compound assignment.
type Assign struct {
	Dest  Expr
	Value Expr
	Op    string
	Meta
}

// ExprStmt is an expression in statement position.
type ExprStmt struct {
	Expr Expr
	Meta
}

func (*Brace) isStmt()    {}
func (*Return) isStmt()   {}
func (*If) isStmt()       {}
func (*Guard) isStmt()    {}
func (*While) isStmt()    {}
func (*ForEach) isStmt()  {}
func (*Switch) isStmt()   {}
func (*Break) isStmt()    {}
func (*Continue) isStmt() {}
func (*Throw) isStmt()    {}
func (*Assign) isStmt()   {}
func (*ExprStmt) isStmt() {}
