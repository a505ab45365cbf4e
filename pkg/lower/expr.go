package lower

import (
	"strings"

	"github.com/vinivendra/Gryphon-sub003/pkg/source"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// ThisName is what "self" lowers to.
const ThisName = "this"

func (l *Lowerer) optionalExpr(expr source.Expr) (target.Expr, error) {
	if expr == nil {
		return nil, nil
	}

	return l.expr(expr)
}

//nolint:cyclop,funlen,gocyclo // one branch per expression kind.
func (l *Lowerer) expr(expr source.Expr) (target.Expr, error) {
	if expr == nil {
		return nil, ErrUnsupportedNode
	}

	m := rangeOf(expr)
	typ := expr.TypeName()

	switch e := expr.(type) {
	case *source.DeclRef:
		return &target.Identifier{Name: e.Name, Type: typ, Meta: m}, nil
	case *source.Self:
		return &target.Identifier{Name: ThisName, Type: typ, Meta: m}, nil
	case *source.IntegerLiteral:
		return &target.Literal{Value: e.Value, Type: typ, Kind: target.IntLiteral, Meta: m}, nil
	case *source.FloatLiteral:
		return &target.Literal{Value: e.Value, Type: typ, Kind: target.FloatLiteral, Meta: m}, nil
	case *source.StringLiteral:
		kind := target.StringLiteral
		if typ == "Character" {
			kind = target.CharLiteral
		}

		return &target.Literal{Value: e.Value, Type: typ, Kind: kind, Meta: m}, nil
	case *source.BooleanLiteral:
		value := "false"
		if e.Value {
			value = "true"
		}

		return &target.Literal{Value: value, Type: typ, Kind: target.BoolLiteral, Meta: m}, nil
	case *source.NilLiteral:
		return &target.Literal{Value: "null", Type: typ, Kind: target.NullLiteral, Meta: m}, nil
	case *source.Interpolation:
		parts, err := l.exprs(e.Parts)

		return &target.Interpolation{Parts: parts, Meta: m}, err
	case *source.Binary:
		left, err := l.expr(e.Left)
		if err != nil {
			return nil, err
		}

		right, err := l.expr(e.Right)

		return &target.Binary{Left: left, Right: right, Op: e.Op, Type: typ, Meta: m}, err
	case *source.PrefixUnary:
		operand, err := l.expr(e.Operand)

		return &target.Unary{Operand: operand, Op: e.Op, Type: typ, Meta: m}, err
	case *source.Call:
		return l.call(e, typ, m)
	case *source.MemberRef:
		return l.memberRef(e, typ, m)
	case *source.UnresolvedMember:
		receiver := &target.TypeRef{Name: contextualType(typ), Implicit: true, Meta: m}

		return l.templated(&target.Dot{Receiver: receiver, Member: e.Member, Type: typ, Meta: m}), nil
	case *source.TypeExpr:
		return &target.TypeRef{Name: e.Name, Meta: m}, nil
	case *source.Tuple:
		elements, err := l.args(e.Elements)

		return &target.Tuple{Elements: elements, Type: typ, Meta: m}, err
	case *source.Paren:
		return l.expr(e.Inner)
	case *source.ArrayLiteral:
		elements, err := l.exprs(e.Elements)

		return &target.Array{Elements: elements, Type: typ, Meta: m}, err
	case *source.DictionaryLiteral:
		return l.dictionary(e, typ, m)
	case *source.Closure:
		params, err := l.params(e.Params)
		if err != nil {
			return nil, err
		}

		body, err := l.brace(e.Body)

		return &target.Closure{Params: params, Body: body, Type: typ, Meta: m}, err
	case *source.ForceValue:
		operand, err := l.expr(e.Operand)

		return &target.ForceUnwrap{Operand: operand, Type: typ, Meta: m}, err
	case *source.BindOptional:
		return l.expr(e.Operand)
	case *source.OptionalEvaluation:
		return l.expr(e.Inner)
	case *source.Ternary:
		return l.ternary(e, typ, m)
	case *source.Subscript:
		receiver, err := l.expr(e.Base)
		if err != nil {
			return nil, err
		}

		index, err := l.expr(e.Index)

		return &target.Subscript{Receiver: receiver, Index: index, Type: typ, Meta: m}, err
	case *source.Cast:
		operand, err := l.expr(e.Operand)

		return &target.Cast{Operand: operand, Target: e.Target, Type: typ, Kind: castKind(e.Kind), Meta: m}, err
	case *source.Inout:
		return l.expr(e.Operand)
	}

	return nil, unsupportedNode(expr, "expression position")
}

func (l *Lowerer) exprs(exprs []source.Expr) ([]target.Expr, error) {
	out := make([]target.Expr, 0, len(exprs))

	for _, expr := range exprs {
		lowered, err := l.expr(expr)
		if err != nil {
			return nil, err
		}

		out = append(out, lowered)
	}

	return out, nil
}

func (l *Lowerer) args(args []source.Arg) ([]target.Arg, error) {
	out := make([]target.Arg, 0, len(args))

	for _, arg := range args {
		value, err := l.expr(arg.Value)
		if err != nil {
			return nil, err
		}

		out = append(out, target.Arg{Value: value, Label: arg.Label})
	}

	return out, nil
}

func (l *Lowerer) call(call *source.Call, typ string, m target.Meta) (target.Expr, error) {
	function, err := l.expr(call.Callee)
	if err != nil {
		return nil, err
	}

	args, err := l.args(call.Args)
	if err != nil {
		return nil, err
	}

	trailing := len(call.Args) > 0 && call.Args[len(call.Args)-1].Trailing

	return l.templated(&target.Call{Function: function, Args: args, Type: typ, TrailingClosure: trailing, Meta: m}), nil
}

// memberRef lowers "base.member"; a base wrapped in bind_optional_expr makes
// the access optional ("base?.member").
func (l *Lowerer) memberRef(ref *source.MemberRef, typ string, m target.Meta) (target.Expr, error) {
	base := ref.Base
	optional := false

	if bind, ok := base.(*source.BindOptional); ok {
		base, optional = bind.Operand, true
	}

	receiver, err := l.expr(base)
	if err != nil {
		return nil, err
	}

	dot := &target.Dot{Receiver: receiver, Member: ref.Member, Type: typ, Optional: optional, Meta: m}

	return l.templated(dot), nil
}

func (l *Lowerer) dictionary(dict *source.DictionaryLiteral, typ string, m target.Meta) (target.Expr, error) {
	out := &target.Dictionary{Type: typ, Meta: m}

	for _, entry := range dict.Entries {
		key, err := l.expr(entry.Key)
		if err != nil {
			return nil, err
		}

		value, err := l.expr(entry.Value)
		if err != nil {
			return nil, err
		}

		out.Entries = append(out.Entries, target.Entry{Key: key, Value: value})
	}

	return out, nil
}

func (l *Lowerer) ternary(ternary *source.Ternary, typ string, m target.Meta) (target.Expr, error) {
	cond, err := l.expr(ternary.Cond)
	if err != nil {
		return nil, err
	}

	then, err := l.expr(ternary.Then)
	if err != nil {
		return nil, err
	}

	otherwise, err := l.expr(ternary.Else)

	return &target.Conditional{Cond: cond, Then: then, Else: otherwise, Type: typ, Meta: m}, err
}

// templated offers expr to the catalogue and returns the replacement when one applies.
func (l *Lowerer) templated(expr target.Expr) target.Expr {
	if l.Templates == nil {
		return expr
	}

	if replaced, ok := l.Templates.Apply(expr); ok {
		return replaced
	}

	return expr
}

func castKind(kind source.CastKind) target.CastKind {
	switch kind {
	case source.IsCast:
		return target.TypeCheck
	case source.ForcedCast:
		return target.ForcedCast
	case source.ConditionalCast:
		return target.SafeCast
	}

	return target.SafeCast
}

// contextualType recovers the type an implicit member belongs to from the
// member's own type: "Color", "Color?" or "(Double) -> Shape".
func contextualType(typ string) string {
	if result, ok := source.ResultType(typ); ok {
		typ = result
	}

	typ = strings.TrimSuffix(typ, ".Type")
	typ = strings.TrimSuffix(typ, "?")

	return typ
}
