// Package template implements the structural template matching engine: a
// pattern tree with typed placeholders is matched against a candidate target
// expression and, on success, a replacement is built from the bindings.
package template

import (
	"slices"

	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// Bindings maps placeholder variables to the candidate subtrees they matched.
type Bindings map[string]target.Expr

// merge adds other into b, failing when a variable is already bound to a
// structurally different subtree.
func (b Bindings) merge(other Bindings) bool {
	for name, value := range other {
		if existing, ok := b[name]; ok {
			if !target.EqualExpr(existing, value) {
				return false
			}

			continue
		}

		b[name] = value
	}

	return true
}

// Match reports whether candidate matches pattern. Ranges are ignored. A
// placeholder in pattern matches any candidate whose type is its declared
// type or a subtype of it according to subtypes. The returned bindings are
// only meaningful when ok is true; no match is never reported as an empty map.
func Match(candidate, pattern target.Expr, subtypes *SubtypeTable) (Bindings, bool) {
	m := matcher{subtypes: subtypes, bindings: make(Bindings)}
	if !m.expr(candidate, pattern) {
		return nil, false
	}

	return m.bindings, true
}

type matcher struct {
	subtypes *SubtypeTable
	bindings Bindings
}

func (m *matcher) bind(name string, value target.Expr) bool {
	return m.bindings.merge(Bindings{name: value})
}

//nolint:cyclop,funlen,gocognit,gocyclo // one branch per expression kind.
func (m *matcher) expr(candidate, pattern target.Expr) bool {
	if candidate == nil || pattern == nil {
		return candidate == nil && pattern == nil
	}

	if placeholder, ok := pattern.(*target.Placeholder); ok {
		return m.placeholder(candidate, placeholder)
	}

	candidate, pattern = explicitType(candidate), explicitType(pattern)

	switch p := pattern.(type) {
	case *target.Literal:
		c, ok := candidate.(*target.Literal)

		return ok && c.Kind == p.Kind && c.Value == p.Value
	case *target.Identifier:
		c, ok := candidate.(*target.Identifier)

		return ok && c.Name == p.Name
	case *target.TypeRef:
		c, ok := candidate.(*target.TypeRef)

		return ok && c.Name == p.Name
	case *target.Dot:
		c, ok := candidate.(*target.Dot)

		return ok && c.Member == p.Member && c.Optional == p.Optional && m.expr(c.Receiver, p.Receiver)
	case *target.Call:
		c, ok := candidate.(*target.Call)

		return ok && m.expr(c.Function, p.Function) && m.callArgs(c, p)
	case *target.Binary:
		c, ok := candidate.(*target.Binary)

		return ok && c.Op == p.Op && m.expr(c.Left, p.Left) && m.expr(c.Right, p.Right)
	case *target.Unary:
		c, ok := candidate.(*target.Unary)

		return ok && c.Op == p.Op && c.Postfix == p.Postfix && m.expr(c.Operand, p.Operand)
	case *target.Tuple:
		c, ok := candidate.(*target.Tuple)

		return ok && m.args(c.Elements, p.Elements, false)
	case *target.Array:
		c, ok := candidate.(*target.Array)

		return ok && m.exprs(c.Elements, p.Elements)
	case *target.Dictionary:
		c, ok := candidate.(*target.Dictionary)
		if !ok || len(c.Entries) != len(p.Entries) {
			return false
		}

		for idx := range p.Entries {
			if !m.expr(c.Entries[idx].Key, p.Entries[idx].Key) || !m.expr(c.Entries[idx].Value, p.Entries[idx].Value) {
				return false
			}
		}

		return true
	case *target.Closure:
		c, ok := candidate.(*target.Closure)

		return ok && target.EqualParams(c.Params, p.Params) && m.body(c.Body, p.Body)
	case *target.Conditional:
		c, ok := candidate.(*target.Conditional)

		return ok && m.expr(c.Cond, p.Cond) && m.expr(c.Then, p.Then) && m.expr(c.Else, p.Else)
	case *target.Subscript:
		c, ok := candidate.(*target.Subscript)

		return ok && m.expr(c.Receiver, p.Receiver) && m.expr(c.Index, p.Index)
	case *target.Cast:
		c, ok := candidate.(*target.Cast)

		return ok && c.Kind == p.Kind && canonicalType(c.Target) == canonicalType(p.Target) &&
			m.expr(c.Operand, p.Operand)
	case *target.ForceUnwrap:
		c, ok := candidate.(*target.ForceUnwrap)

		return ok && m.expr(c.Operand, p.Operand)
	case *target.Interpolation:
		c, ok := candidate.(*target.Interpolation)

		return ok && m.exprs(c.Parts, p.Parts)
	case *target.RawCode:
		c, ok := candidate.(*target.RawCode)

		return ok && c.Text == p.Text
	case *target.Concat:
		c, ok := candidate.(*target.Concat)

		return ok && m.exprs(c.Parts, p.Parts)
	}

	return false
}

func (m *matcher) placeholder(candidate target.Expr, p *target.Placeholder) bool {
	candidateType := candidate.TypeName()
	if other, ok := candidate.(*target.Placeholder); ok {
		candidateType = other.DeclaredType
	}

	if !m.subtypes.IsSubtype(candidateType, p.DeclaredType) {
		return false
	}

	return m.bind(p.Variable, candidate)
}

func (m *matcher) exprs(candidates, patterns []target.Expr) bool {
	if len(candidates) != len(patterns) {
		return false
	}

	for idx := range patterns {
		if !m.expr(candidates[idx], patterns[idx]) {
			return false
		}
	}

	return true
}

// callArgs compares arguments pairwise. When either call was written with a
// trailing closure the label of the last argument is not compared.
func (m *matcher) callArgs(candidate, pattern *target.Call) bool {
	return m.args(candidate.Args, pattern.Args, candidate.TrailingClosure || pattern.TrailingClosure)
}

func (m *matcher) args(candidates, patterns []target.Arg, looseLast bool) bool {
	if len(candidates) != len(patterns) {
		return false
	}

	for idx := range patterns {
		last := idx == len(patterns)-1
		if candidates[idx].Label != patterns[idx].Label && !(looseLast && last) {
			return false
		}

		if !m.expr(candidates[idx].Value, patterns[idx].Value) {
			return false
		}
	}

	return true
}

// body matches closure bodies. Single expression bodies are matched
// recursively so placeholders inside them bind; anything else must be equal.
func (m *matcher) body(candidates, patterns []target.Stmt) bool {
	candidateExpr, candidateOK := singleExpression(candidates)
	patternExpr, patternOK := singleExpression(patterns)

	if candidateOK && patternOK {
		return m.expr(candidateExpr, patternExpr)
	}

	return target.EqualStmts(candidates, patterns)
}

func singleExpression(body []target.Stmt) (target.Expr, bool) {
	if len(body) != 1 {
		return nil, false
	}

	switch stmt := body[0].(type) {
	case *target.Return:
		return stmt.Value, stmt.Value != nil
	case *target.ExprStmt:
		return stmt.Expr, true
	}

	return nil, false
}

// explicitType rewrites an implicit type reference to the explicit form so
// ".red" and "Color.red" compare equal.
func explicitType(expr target.Expr) target.Expr {
	if ref, ok := expr.(*target.TypeRef); ok && ref.Implicit {
		return &target.TypeRef{Name: ref.Name, Meta: ref.Meta}
	}

	return expr
}

// Variables returns the placeholder variables of pattern in first-use order.
func Variables(pattern target.Expr) []string {
	var names []string

	target.InspectExpr(pattern, func(node target.Node) bool {
		if p, ok := node.(*target.Placeholder); ok && !slices.Contains(names, p.Variable) {
			names = append(names, p.Variable)
		}

		return true
	})

	return names
}
