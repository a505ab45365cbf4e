package target

// Inspect visits stmts and every node below them in pre-order. Returning
// false from fn skips the children of the visited node.
func Inspect(stmts []Stmt, fn func(Node) bool) {
	for _, stmt := range stmts {
		inspect(stmt, fn)
	}
}

// InspectExpr visits expr and every node below it in pre-order.
func InspectExpr(expr Expr, fn func(Node) bool) {
	inspect(expr, fn)
}

//nolint:cyclop,funlen,gocognit // one branch per node kind.
func inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *ExprStmt:
		inspectExprs(fn, n.Expr)
	case *VarDecl:
		inspectExprs(fn, n.Value)
		Inspect(n.Getter, fn)
	case *Assign:
		inspectExprs(fn, n.Target, n.Value)
	case *Return:
		inspectExprs(fn, n.Value)
	case *If:
		inspectConditions(n.Conditions, fn)
		Inspect(n.Then, fn)
		Inspect(n.Else, fn)
	case *Guard:
		inspectConditions(n.Conditions, fn)
		Inspect(n.Else, fn)
	case *While:
		inspectExprs(fn, n.Cond)
		Inspect(n.Body, fn)
	case *ForEach:
		inspectExprs(fn, n.Collection)
		Inspect(n.Body, fn)
	case *Switch:
		inspectExprs(fn, n.Subject)

		for _, c := range n.Cases {
			inspect(c, fn)
		}
	case *Case:
		for _, pattern := range n.Patterns {
			if p, ok := pattern.(*ExprPattern); ok {
				inspectExprs(fn, p.Expr)
			}
		}

		Inspect(n.Body, fn)
	case *Throw:
		inspectExprs(fn, n.Value)
	case *FuncDecl:
		inspectParams(n.Params, fn)
		Inspect(n.Body, fn)
		inspectExprs(fn, n.ExprBody)
	case *EnumCase:
		inspectParams(n.Params, fn)
		inspectExprs(fn, n.RawValue)
	case *ClassDecl:
		for _, prop := range n.Properties {
			inspect(prop, fn)
		}

		for _, c := range n.Cases {
			inspect(c, fn)
		}

		Inspect(n.Members, fn)
	case *Dot:
		inspectExprs(fn, n.Receiver)
	case *Call:
		inspectExprs(fn, n.Function)
		inspectArgs(n.Args, fn)
	case *Binary:
		inspectExprs(fn, n.Left, n.Right)
	case *Unary:
		inspectExprs(fn, n.Operand)
	case *Tuple:
		inspectArgs(n.Elements, fn)
	case *Array:
		inspectExprs(fn, n.Elements...)
	case *Dictionary:
		for _, entry := range n.Entries {
			inspectExprs(fn, entry.Key, entry.Value)
		}
	case *Closure:
		inspectParams(n.Params, fn)
		Inspect(n.Body, fn)
	case *Conditional:
		inspectExprs(fn, n.Cond, n.Then, n.Else)
	case *Subscript:
		inspectExprs(fn, n.Receiver, n.Index)
	case *Cast:
		inspectExprs(fn, n.Operand)
	case *ForceUnwrap:
		inspectExprs(fn, n.Operand)
	case *Interpolation:
		inspectExprs(fn, n.Parts...)
	case *Concat:
		inspectExprs(fn, n.Parts...)
	}
}

func inspectExprs(fn func(Node) bool, exprs ...Expr) {
	for _, expr := range exprs {
		if expr != nil {
			inspect(expr, fn)
		}
	}
}

func inspectArgs(args []Arg, fn func(Node) bool) {
	for _, arg := range args {
		inspectExprs(fn, arg.Value)
	}
}

func inspectParams(params []Param, fn func(Node) bool) {
	for _, param := range params {
		inspectExprs(fn, param.Default)
	}
}

func inspectConditions(conds []Condition, fn func(Node) bool) {
	for _, cond := range conds {
		switch c := cond.(type) {
		case *ExprCondition:
			inspectExprs(fn, c.Expr)
		case *OptionalBinding:
			inspectExprs(fn, c.Value)
		}
	}
}
