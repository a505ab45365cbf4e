// Package lower maps the source tree onto the target vocabulary. It drops
// imports and grouping parentheses, translates "self" to "this", flattens
// extensions into receiver-qualified declarations and, for every call and
// member reference, gives the template catalogue the first chance to
// replace the node.
package lower

import (
	"errors"
	"fmt"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
	"github.com/vinivendra/Gryphon-sub003/pkg/source"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// ErrUnsupportedNode is returned for source nodes that have no target form
// in the position they appear in.
var ErrUnsupportedNode = errors.New("unsupported node")

// Templates replaces call-like expressions. Apply reports false when no
// template applies; that is not an error.
type Templates interface {
	Apply(candidate target.Expr) (target.Expr, bool)
}

// Lowerer converts source trees. A nil Templates lowers structurally only.
type Lowerer struct {
	Templates Templates
}

// File lowers a whole compilation unit.
func (l *Lowerer) File(file *source.File) (*target.File, error) {
	stmts, err := l.stmts(file.Items)
	if err != nil {
		return nil, err
	}

	return &target.File{Name: file.Name, Stmts: stmts, Meta: target.Meta{Range: file.Range}}, nil
}

// Expr lowers a single expression.
func (l *Lowerer) Expr(expr source.Expr) (target.Expr, error) {
	return l.expr(expr)
}

// UnsupportedNodeError carries the source range of a node that could not be
// lowered where it appears.
type UnsupportedNodeError struct {
	Range   *dump.Range
	Node    string
	Context string
}

// Error implements error.
func (e *UnsupportedNodeError) Error() string {
	msg := fmt.Sprintf("%s: %s in %s", ErrUnsupportedNode, e.Node, e.Context)
	if e.Range.IsValid() {
		msg += " at " + e.Range.String()
	}

	return msg
}

// Unwrap returns ErrUnsupportedNode.
func (e *UnsupportedNodeError) Unwrap() error {
	return ErrUnsupportedNode
}

func unsupportedNode(node source.Node, context string) error {
	return &UnsupportedNodeError{Node: fmt.Sprintf("%T", node), Context: context, Range: node.SourceRange()}
}

func (l *Lowerer) stmts(items []source.Stmt) ([]target.Stmt, error) {
	out := make([]target.Stmt, 0, len(items))

	for _, item := range items {
		lowered, err := l.stmt(item)
		if err != nil {
			return nil, err
		}

		out = append(out, lowered...)
	}

	return out, nil
}

func (l *Lowerer) brace(brace *source.Brace) ([]target.Stmt, error) {
	if brace == nil {
		return nil, nil
	}

	stmts, err := l.stmts(brace.Items)
	if err != nil {
		return nil, err
	}

	if stmts == nil {
		stmts = []target.Stmt{}
	}

	return stmts, nil
}

//nolint:cyclop,funlen,gocyclo // one branch per statement kind.
func (l *Lowerer) stmt(item source.Stmt) ([]target.Stmt, error) {
	m := target.Meta{Range: item.SourceRange()}

	switch s := item.(type) {
	case *source.Import:
		return nil, nil
	case *source.FuncDecl:
		decl, err := l.funcDecl(s, "")
		if err != nil {
			return nil, err
		}

		return []target.Stmt{decl}, nil
	case *source.VarDecl:
		decl, err := l.varDecl(s, "")
		if err != nil {
			return nil, err
		}

		return []target.Stmt{decl}, nil
	case *source.TypeDecl:
		return l.typeDecl(s)
	case *source.EnumCaseDecl:
		return nil, unsupportedNode(s, "a non-enum scope")
	case *source.TypeAliasDecl:
		return []target.Stmt{&target.TypeAlias{Name: s.Name, Type: s.Type, Access: s.Access, Meta: m}}, nil
	case *source.Brace:
		return l.brace(s)
	case *source.Return:
		value, err := l.optionalExpr(s.Value)

		return []target.Stmt{&target.Return{Value: value, Meta: m}}, err
	case *source.If:
		stmt, err := l.ifStmt(s)
		if err != nil {
			return nil, err
		}

		return []target.Stmt{stmt}, nil
	case *source.Guard:
		conds, err := l.conditions(s.Conditions)
		if err != nil {
			return nil, err
		}

		body, err := l.brace(s.Else)

		return []target.Stmt{&target.Guard{Conditions: conds, Else: body, Meta: m}}, err
	case *source.While:
		cond, err := l.expr(s.Cond)
		if err != nil {
			return nil, err
		}

		body, err := l.brace(s.Body)

		return []target.Stmt{&target.While{Cond: cond, Body: body, Meta: m}}, err
	case *source.ForEach:
		collection, err := l.expr(s.Collection)
		if err != nil {
			return nil, err
		}

		body, err := l.brace(s.Body)

		return []target.Stmt{&target.ForEach{Collection: collection, Variable: s.Variable, Body: body, Meta: m}}, err
	case *source.Switch:
		stmt, err := l.switchStmt(s)
		if err != nil {
			return nil, err
		}

		return []target.Stmt{stmt}, nil
	case *source.Break:
		return []target.Stmt{&target.Break{Meta: m}}, nil
	case *source.Continue:
		return []target.Stmt{&target.Continue{Meta: m}}, nil
	case *source.Throw:
		value, err := l.expr(s.Value)

		return []target.Stmt{&target.Throw{Value: value, Meta: m}}, err
	case *source.Assign:
		dest, err := l.expr(s.Dest)
		if err != nil {
			return nil, err
		}

		value, err := l.expr(s.Value)

		return []target.Stmt{&target.Assign{Target: dest, Value: value, Op: s.Op, Meta: m}}, err
	case *source.ExprStmt:
		expr, err := l.expr(s.Expr)

		return []target.Stmt{&target.ExprStmt{Expr: expr, Meta: m}}, err
	}

	return nil, unsupportedNode(item, "statement position")
}

func (l *Lowerer) funcDecl(decl *source.FuncDecl, extends string) (*target.FuncDecl, error) {
	params, err := l.params(decl.Params)
	if err != nil {
		return nil, err
	}

	body, err := l.brace(decl.Body)
	if err != nil {
		return nil, err
	}

	return &target.FuncDecl{
		Name:        decl.Name,
		ReturnType:  decl.ResultType,
		Access:      decl.Access,
		ExtendsType: extends,
		Params:      params,
		Body:        body,
		Annotations: decl.Annotations,
		Meta:        target.Meta{Range: decl.Range},
		Abstract:    decl.Body == nil,
		Static:      decl.Static,
		Mutating:    decl.Mutating,
		Override:    decl.Override,
		IsInit:      decl.IsInit,
	}, nil
}

func (l *Lowerer) varDecl(decl *source.VarDecl, extends string) (*target.VarDecl, error) {
	value, err := l.optionalExpr(decl.Value)
	if err != nil {
		return nil, err
	}

	var getter []target.Stmt

	if decl.Getter != nil {
		getter, err = l.brace(decl.Getter)
		if err != nil {
			return nil, err
		}
	}

	return &target.VarDecl{
		Value:       value,
		Name:        decl.Name,
		Type:        decl.Type,
		Access:      decl.Access,
		ExtendsType: extends,
		Annotations: decl.Annotations,
		Getter:      getter,
		Meta:        target.Meta{Range: decl.Range},
		Mutable:     !decl.IsLet,
		Static:      decl.Static,
	}, nil
}

func (l *Lowerer) typeDecl(decl *source.TypeDecl) ([]target.Stmt, error) {
	if decl.Kind == source.ExtensionType {
		return l.extension(decl)
	}

	class := &target.ClassDecl{
		Name:        decl.Name,
		Access:      decl.Access,
		Inherits:    decl.Inherits,
		Annotations: decl.Annotations,
		Meta:        target.Meta{Range: decl.Range},
	}

	switch decl.Kind {
	case source.StructType:
		class.Kind = target.KindStruct
	case source.ClassType:
		class.Kind = target.KindClass
	case source.EnumType:
		class.Kind = target.KindEnum
	case source.ProtocolType:
		class.Kind = target.KindInterface
	}

	for _, member := range decl.Members {
		if cases, ok := member.(*source.EnumCaseDecl); ok && decl.Kind == source.EnumType {
			for _, element := range cases.Elements {
				enumCase, err := l.enumCase(element)
				if err != nil {
					return nil, err
				}

				class.Cases = append(class.Cases, enumCase)
			}

			continue
		}

		lowered, err := l.stmt(member)
		if err != nil {
			return nil, err
		}

		class.Members = append(class.Members, lowered...)
	}

	return []target.Stmt{class}, nil
}

// extension flattens "extension T { ... }" into members qualified by T.
func (l *Lowerer) extension(decl *source.TypeDecl) ([]target.Stmt, error) {
	out := make([]target.Stmt, 0, len(decl.Members))

	for _, member := range decl.Members {
		switch m := member.(type) {
		case *source.FuncDecl:
			fn, err := l.funcDecl(m, decl.Name)
			if err != nil {
				return nil, err
			}

			out = append(out, fn)
		case *source.VarDecl:
			v, err := l.varDecl(m, decl.Name)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		default:
			lowered, err := l.stmt(member)
			if err != nil {
				return nil, err
			}

			out = append(out, lowered...)
		}
	}

	return out, nil
}

func (l *Lowerer) enumCase(element *source.EnumElement) (*target.EnumCase, error) {
	params, err := l.params(element.Params)
	if err != nil {
		return nil, err
	}

	raw, err := l.optionalExpr(element.RawValue)
	if err != nil {
		return nil, err
	}

	return &target.EnumCase{
		RawValue: raw,
		Name:     element.Name,
		Params:   params,
		Meta:     target.Meta{Range: element.Range},
	}, nil
}

func (l *Lowerer) params(params []source.Param) ([]target.Param, error) {
	if params == nil {
		return nil, nil
	}

	out := make([]target.Param, 0, len(params))

	for _, param := range params {
		def, err := l.optionalExpr(param.Default)
		if err != nil {
			return nil, err
		}

		out = append(out, target.Param{Default: def, Label: param.Label, Name: param.Name, Type: param.Type})
	}

	return out, nil
}

func (l *Lowerer) ifStmt(stmt *source.If) (*target.If, error) {
	conds, err := l.conditions(stmt.Conditions)
	if err != nil {
		return nil, err
	}

	then, err := l.brace(stmt.Then)
	if err != nil {
		return nil, err
	}

	out := &target.If{Conditions: conds, Then: then, Meta: target.Meta{Range: stmt.Range}}

	switch e := stmt.Else.(type) {
	case nil:
	case *source.Brace:
		out.Else, err = l.brace(e)
	case *source.If:
		var elseIf *target.If

		elseIf, err = l.ifStmt(e)
		out.Else = []target.Stmt{elseIf}
	default:
		err = unsupportedNode(e, "else branch")
	}

	return out, err
}

func (l *Lowerer) conditions(conds []source.Condition) ([]target.Condition, error) {
	out := make([]target.Condition, 0, len(conds))

	for _, cond := range conds {
		switch c := cond.(type) {
		case *source.CondExpr:
			expr, err := l.expr(c.Expr)
			if err != nil {
				return nil, err
			}

			out = append(out, &target.ExprCondition{Expr: expr})
		case *source.CondBinding:
			value, err := l.expr(c.Value)
			if err != nil {
				return nil, err
			}

			out = append(out, &target.OptionalBinding{Value: value, Name: c.Name, Type: c.Type, Mutable: c.IsVar})
		}
	}

	return out, nil
}

func (l *Lowerer) switchStmt(stmt *source.Switch) (*target.Switch, error) {
	subject, err := l.expr(stmt.Subject)
	if err != nil {
		return nil, err
	}

	out := &target.Switch{Subject: subject, Meta: target.Meta{Range: stmt.Range}}

	for _, c := range stmt.Cases {
		body, err := l.brace(c.Body)
		if err != nil {
			return nil, err
		}

		lowered := &target.Case{Body: body, IsDefault: c.IsDefault, Meta: target.Meta{Range: c.Range}}

		for _, pattern := range c.Patterns {
			switch p := pattern.(type) {
			case *source.PatternExpr:
				expr, err := l.expr(p.Expr)
				if err != nil {
					return nil, err
				}

				lowered.Patterns = append(lowered.Patterns, &target.ExprPattern{Expr: expr})
			case *source.PatternEnumElement:
				lowered.Patterns = append(lowered.Patterns, &target.EnumCasePattern{
					Enum: p.Enum, Case: p.Case, Bindings: p.Bindings,
				})
			case *source.PatternIs:
				lowered.Patterns = append(lowered.Patterns, &target.IsPattern{Type: p.Type})
			}
		}

		out.Cases = append(out.Cases, lowered)
	}

	return out, nil
}

func rangeOf(node source.Node) target.Meta {
	var rng *dump.Range
	if node != nil {
		rng = node.SourceRange()
	}

	return target.Meta{Range: rng}
}
