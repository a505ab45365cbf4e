package codegen

import (
	"strings"

	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// Kotlin operator precedence, loosest first.
const (
	precLowest = iota
	precConditional
	precAssign
	precOr
	precAnd
	precEquality
	precComparison
	precNamedCheck
	precElvis
	precInfix
	precRange
	precAdditive
	precMultiplicative
	precCast
	precPrefix
	precPostfix
)

var binaryPrecedence = map[string]int{
	"||":    precOr,
	"&&":    precAnd,
	"==":    precEquality,
	"!=":    precEquality,
	"===":   precEquality,
	"!==":   precEquality,
	"<":     precComparison,
	">":     precComparison,
	"<=":    precComparison,
	">=":    precComparison,
	"in":    precNamedCheck,
	"!in":   precNamedCheck,
	"?:":    precElvis,
	"until": precInfix,
	"and":   precInfix,
	"or":    precInfix,
	"xor":   precInfix,
	"shl":   precInfix,
	"shr":   precInfix,
	"..":    precRange,
	"+":     precAdditive,
	"-":     precAdditive,
	"*":     precMultiplicative,
	"/":     precMultiplicative,
	"%":     precMultiplicative,
}

// precedence returns how tightly expr binds when printed.
func precedence(expr target.Expr) int {
	switch e := expr.(type) {
	case *target.Binary:
		if prec, ok := binaryPrecedence[e.Op]; ok {
			return prec
		}

		return precInfix
	case *target.Unary:
		if e.Postfix {
			return precPostfix
		}

		return precPrefix
	case *target.Cast:
		if e.Kind == target.TypeCheck {
			return precNamedCheck
		}

		return precCast
	case *target.Conditional:
		return precConditional
	case *target.Concat:
		if len(e.Parts) == 1 {
			return precedence(e.Parts[0])
		}
	}

	return precPostfix
}

// expr renders expr, parenthesized when it binds looser than minPrec.
func (g *generator) expr(expr target.Expr, minPrec int) *Translation {
	out := NewTranslation(nil)
	if expr == nil {
		return out
	}

	if precedence(expr) < minPrec {
		return out.Append("(").AppendTranslation(g.expr(expr, precLowest)).Append(")")
	}

	switch e := expr.(type) {
	case *target.Literal:
		return out.Append(literal(e))
	case *target.Identifier:
		return out.Append(e.Name)
	case *target.TypeRef:
		return out.Append(kotlinType(e.Name))
	case *target.Dot:
		return g.dot(e)
	case *target.Call:
		return g.call(e)
	case *target.Binary:
		prec := precedence(e)

		return out.AppendTranslation(g.expr(e.Left, prec)).
			Append(" ", e.Op, " ").
			AppendTranslation(g.expr(e.Right, prec+1))
	case *target.Unary:
		if e.Postfix {
			return out.AppendTranslation(g.expr(e.Operand, precPostfix)).Append(e.Op)
		}

		return out.Append(e.Op).AppendTranslation(g.expr(e.Operand, precPrefix))
	case *target.Tuple:
		return g.tuple(e)
	case *target.Array:
		return out.Append("mutableListOf(").AppendTranslations(g.exprs(e.Elements), ", ").Append(")")
	case *target.Dictionary:
		entries := make([]*Translation, 0, len(e.Entries))
		for _, entry := range e.Entries {
			entries = append(entries, NewTranslation(nil).
				AppendTranslation(g.expr(entry.Key, precInfix+1)).
				Append(" to ").
				AppendTranslation(g.expr(entry.Value, precInfix+1)))
		}

		return out.Append("mutableMapOf(").AppendTranslations(entries, ", ").Append(")")
	case *target.Closure:
		return g.closure(e)
	case *target.Conditional:
		return out.Append("if (").AppendTranslation(g.expr(e.Cond, precLowest)).Append(") ").
			AppendTranslation(g.expr(e.Then, precLowest)).Append(" else ").
			AppendTranslation(g.expr(e.Else, precLowest))
	case *target.Subscript:
		return out.AppendTranslation(g.expr(e.Receiver, precPostfix)).Append("[").
			AppendTranslation(g.expr(e.Index, precLowest)).Append("]")
	case *target.Cast:
		op := map[target.CastKind]string{target.SafeCast: " as? ", target.ForcedCast: " as ", target.TypeCheck: " is "}[e.Kind]

		return out.AppendTranslation(g.expr(e.Operand, precCast)).Append(op, kotlinType(e.Target))
	case *target.ForceUnwrap:
		return out.AppendTranslation(g.expr(e.Operand, precPostfix)).Append("!!")
	case *target.Interpolation:
		return g.interpolation(e)
	case *target.Placeholder:
		return out.Append(e.Variable)
	case *target.RawCode:
		return out.Append(e.Text)
	case *target.Concat:
		for idx, part := range e.Parts {
			minPrec := precLowest
			if idx+1 < len(e.Parts) && startsPostfix(e.Parts[idx+1]) {
				minPrec = precPostfix
			}

			out.AppendTranslation(g.expr(part, minPrec))
		}

		return out
	}

	return out
}

// startsPostfix reports whether expr is template text continuing the previous
// part with a member access, call or subscript.
func startsPostfix(expr target.Expr) bool {
	raw, ok := expr.(*target.RawCode)

	return ok && raw.Text != "" && strings.ContainsRune(".?![(", rune(raw.Text[0]))
}

func (g *generator) exprs(exprs []target.Expr) []*Translation {
	out := make([]*Translation, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, g.expr(expr, precLowest))
	}

	return out
}

func (g *generator) dot(e *target.Dot) *Translation {
	out := NewTranslation(nil)

	if ref, ok := e.Receiver.(*target.TypeRef); ok && ref.Implicit && ref.Name == "" {
		return out.Append(e.Member)
	}

	op := "."
	if e.Optional {
		op = "?."
	}

	return out.AppendTranslation(g.expr(e.Receiver, precPostfix)).Append(op, e.Member)
}

func (g *generator) call(e *target.Call) *Translation {
	out := NewTranslation(nil).AppendTranslation(g.expr(e.Function, precPostfix))

	args := e.Args

	var trailing *target.Closure

	if e.TrailingClosure && len(args) > 0 {
		if closure, ok := args[len(args)-1].Value.(*target.Closure); ok {
			trailing = closure
			args = args[:len(args)-1]
		}
	}

	if trailing == nil || len(args) > 0 {
		rendered := make([]*Translation, 0, len(args))

		for _, arg := range args {
			item := NewTranslation(nil)
			if arg.Label != "" {
				item.Append(arg.Label, " = ")
			}

			rendered = append(rendered, item.AppendTranslation(g.expr(arg.Value, precLowest)))
		}

		out.Append("(").AppendTranslations(rendered, ", ").Append(")")
	}

	if trailing != nil {
		out.Append(" ").AppendTranslation(g.closure(trailing))
	}

	return out
}

// tuple renders tuples as Kotlin pairs and triples.
func (g *generator) tuple(e *target.Tuple) *Translation {
	values := make([]target.Expr, 0, len(e.Elements))
	for _, element := range e.Elements {
		values = append(values, element.Value)
	}

	out := NewTranslation(nil)

	switch len(values) {
	case 0:
		return out.Append("Unit")
	case 1:
		return g.expr(values[0], precLowest)
	case 2:
		out.Append("Pair(")
	case 3:
		out.Append("Triple(")
	default:
		out.Append("listOf(")
	}

	return out.AppendTranslations(g.exprs(values), ", ").Append(")")
}

func (g *generator) closure(e *target.Closure) *Translation {
	out := NewTranslation(nil).Append("{")

	if len(e.Params) > 0 {
		names := make([]string, 0, len(e.Params))
		for _, param := range e.Params {
			names = append(names, param.Name)
		}

		out.Append(" ", strings.Join(names, ", "), " ->")
	}

	if len(e.Body) == 1 {
		if stmt, ok := e.Body[0].(*target.ExprStmt); ok {
			return out.Append(" ").AppendTranslation(g.statement(stmt)).Append(" }")
		}
	}

	if len(e.Body) == 0 {
		return out.Append(" }")
	}

	out.Append("\n")
	g.depth++
	out.AppendTranslation(g.block(e.Body))
	g.depth--

	return out.Append(g.indentation(), "}")
}

func (g *generator) interpolation(e *target.Interpolation) *Translation {
	out := NewTranslation(nil).Append(`"`)

	for _, part := range e.Parts {
		if lit, ok := part.(*target.Literal); ok && lit.Kind == target.StringLiteral {
			out.Append(escapeString(lit.Value))

			continue
		}

		out.Append("${").AppendTranslation(g.expr(part, precLowest)).Append("}")
	}

	return out.Append(`"`)
}

func literal(e *target.Literal) string {
	switch e.Kind {
	case target.StringLiteral:
		return `"` + escapeString(e.Value) + `"`
	case target.CharLiteral:
		return "'" + e.Value + "'"
	case target.NullLiteral:
		return "null"
	case target.IntLiteral, target.FloatLiteral, target.BoolLiteral:
		return e.Value
	}

	return e.Value
}

// escapeString escapes template markers, which Kotlin would otherwise expand.
func escapeString(text string) string {
	return strings.ReplaceAll(text, "$", `\$`)
}
