package passes

import (
	"slices"

	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// elvis is Kotlin's null-coalescing operator.
const elvis = "?:"

// desugarGuards rewrites "guard let x = e else { return }" into
// "val x = e ?: return" and every other guard into "if (failed) { else }".
func desugarGuards(file *target.File, _ diag.Reporter) *target.File {
	return target.Rewriter{Stmt: func(stmt target.Stmt) []target.Stmt {
		guard, ok := stmt.(*target.Guard)
		if !ok {
			return []target.Stmt{stmt}
		}

		return desugarGuard(guard)
	}}.File(file)
}

func desugarGuard(guard *target.Guard) []target.Stmt {
	var (
		bindings []*target.OptionalBinding
		checks   []target.Expr
	)

	for _, cond := range guard.Conditions {
		switch c := cond.(type) {
		case *target.OptionalBinding:
			bindings = append(bindings, c)
		case *target.ExprCondition:
			checks = append(checks, c.Expr)
		}
	}

	if len(bindings) == 1 && len(checks) == 0 && len(guard.Else) == 1 && isJump(guard.Else[0]) {
		binding := bindings[0]

		return []target.Stmt{&target.VarDecl{
			Name:    binding.Name,
			Type:    binding.Type,
			Mutable: binding.Mutable,
			Meta:    guard.Meta,
			Value: &target.Binary{
				Left:  binding.Value,
				Right: jumpExpr(guard.Else[0]),
				Op:    elvis,
				Type:  binding.Type,
			},
		}}
	}

	out := make([]target.Stmt, 0, len(bindings)+1)

	var failed target.Expr

	for _, binding := range bindings {
		out = append(out, &target.VarDecl{Name: binding.Name, Value: binding.Value, Mutable: binding.Mutable, Meta: guard.Meta})
		failed = joinBool(failed, "||", &target.Binary{
			Left:  &target.Identifier{Name: binding.Name, Type: binding.Type + "?"},
			Right: nullLiteral(),
			Op:    "==",
			Type:  "Bool",
		})
	}

	if len(checks) > 0 {
		var all target.Expr
		for _, check := range checks {
			all = joinBool(all, "&&", check)
		}

		failed = joinBool(failed, "||", &target.Unary{Operand: all, Op: "!", Type: "Bool"})
	}

	return append(out, &target.If{
		Conditions: []target.Condition{&target.ExprCondition{Expr: failed}},
		Then:       guard.Else,
		Meta:       guard.Meta,
	})
}

// joinBool appends next to acc with op.
func joinBool(acc target.Expr, op string, next target.Expr) target.Expr {
	if acc == nil {
		return next
	}

	return &target.Binary{Left: acc, Right: next, Op: op, Type: "Bool"}
}

// jumpExpr renders a jump statement in expression position.
func jumpExpr(stmt target.Stmt) target.Expr {
	switch s := stmt.(type) {
	case *target.Return:
		if s.Value == nil {
			return &target.RawCode{Text: "return", Meta: s.Meta}
		}

		return &target.Concat{Parts: []target.Expr{&target.RawCode{Text: "return "}, s.Value}, Meta: s.Meta}
	case *target.Throw:
		return &target.Concat{Parts: []target.Expr{&target.RawCode{Text: "throw "}, s.Value}, Meta: s.Meta}
	case *target.Break:
		return &target.RawCode{Text: "break", Meta: s.Meta}
	case *target.Continue:
		return &target.RawCode{Text: "continue", Meta: s.Meta}
	}

	return &target.RawCode{Text: "return"}
}

// lowerOptionalBindings rewrites "if let x = e" into a "val x = e" scoped to
// the branch that checks "x != null". Conditions before a binding stay in an
// outer if so they still short-circuit the binding's initializer. A leading
// binding is declared next to its if only when no sibling in the block
// declares the same name; otherwise the pair is wrapped in "run { }".
func lowerOptionalBindings(file *target.File, _ diag.Reporter) *target.File {
	return target.Rewriter{Block: lowerBindingsInBlock}.File(file)
}

func lowerBindingsInBlock(stmts []target.Stmt) []target.Stmt {
	if !slices.ContainsFunc(stmts, hasBinding) {
		return stmts
	}

	declared := make(map[string]int)

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *target.VarDecl:
			declared[s.Name]++
		case *target.If:
			if binding := leadingBinding(s); binding != nil {
				declared[binding.Name]++
			}
		}
	}

	out := make([]target.Stmt, 0, len(stmts))

	for _, stmt := range stmts {
		ifStmt, ok := stmt.(*target.If)
		if !ok || !hasBinding(stmt) {
			out = append(out, stmt)

			continue
		}

		lowered := bindConditions(ifStmt.Conditions, ifStmt.Then, ifStmt.Else, ifStmt.Meta)

		if binding := leadingBinding(ifStmt); binding != nil && declared[binding.Name] > 1 {
			lowered = []target.Stmt{runBlock(lowered, ifStmt.Meta)}
		}

		out = append(out, lowered...)
	}

	return out
}

// bindConditions splits conds at the first binding. The result starts with
// the binding's declaration only when the binding came first.
func bindConditions(conds []target.Condition, then, els []target.Stmt, meta target.Meta) []target.Stmt {
	idx := slices.IndexFunc(conds, func(cond target.Condition) bool {
		_, ok := cond.(*target.OptionalBinding)

		return ok
	})

	if idx < 0 {
		return []target.Stmt{&target.If{Conditions: conds, Then: then, Else: els, Meta: meta}}
	}

	binding := conds[idx].(*target.OptionalBinding)
	decl := &target.VarDecl{
		Name:    binding.Name,
		Value:   binding.Value,
		Mutable: binding.Mutable,
		Meta:    meta,
	}
	check := &target.ExprCondition{Expr: &target.Binary{
		Left:  &target.Identifier{Name: binding.Name, Type: binding.Type + "?"},
		Right: nullLiteral(),
		Op:    "!=",
		Type:  "Bool",
	}}

	rest := append([]target.Condition{check}, conds[idx+1:]...)

	if idx == 0 {
		return append([]target.Stmt{decl}, bindConditions(rest, then, els, meta)...)
	}

	inner := append([]target.Stmt{decl}, bindConditions(rest, then, target.CloneStmts(els), meta)...)

	return []target.Stmt{&target.If{Conditions: conds[:idx], Then: inner, Else: els, Meta: meta}}
}

func hasBinding(stmt target.Stmt) bool {
	ifStmt, ok := stmt.(*target.If)
	if !ok {
		return false
	}

	return slices.ContainsFunc(ifStmt.Conditions, func(cond target.Condition) bool {
		_, ok := cond.(*target.OptionalBinding)

		return ok
	})
}

func leadingBinding(ifStmt *target.If) *target.OptionalBinding {
	if len(ifStmt.Conditions) == 0 {
		return nil
	}

	binding, _ := ifStmt.Conditions[0].(*target.OptionalBinding)

	return binding
}

// runBlock wraps stmts in Kotlin's "run { }" to give them their own scope.
func runBlock(stmts []target.Stmt, meta target.Meta) target.Stmt {
	return &target.ExprStmt{Expr: &target.Call{
		Function:        &target.Identifier{Name: "run"},
		Args:            []target.Arg{{Value: &target.Closure{Body: stmts, Meta: meta}}},
		TrailingClosure: true,
		Meta:            meta,
	}, Meta: meta}
}
