package target

// Rewriter copies a tree bottom-up. Each hook receives a fresh copy whose
// children were already rewritten, and may modify or replace it. The output
// shares no nodes with the input. Nil hooks keep nodes unchanged.
//
// Block sees every rewritten statement list, including the file itself, after
// its statements went through Stmt, so it can reason about sibling names.
type Rewriter struct {
	Expr  func(Expr) Expr
	Stmt  func(Stmt) []Stmt
	Block func([]Stmt) []Stmt
}

// File rewrites every top-level statement of file.
func (r Rewriter) File(file *File) *File {
	if file == nil {
		return nil
	}

	out := *file
	out.Stmts = r.Stmts(file.Stmts)

	return &out
}

// Stmts rewrites a statement list; a hook may expand one statement into several.
func (r Rewriter) Stmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}

	out := make([]Stmt, 0, len(stmts))

	for _, stmt := range stmts {
		out = append(out, r.Statement(stmt)...)
	}

	if r.Block != nil {
		return r.Block(out)
	}

	return out
}

// Statement rewrites one statement.
func (r Rewriter) Statement(stmt Stmt) []Stmt {
	if stmt == nil {
		return nil
	}

	copied := r.copyStmt(stmt)

	if r.Stmt == nil {
		return []Stmt{copied}
	}

	return r.Stmt(copied)
}

// Expression rewrites one expression. Nil stays nil.
func (r Rewriter) Expression(expr Expr) Expr {
	if expr == nil {
		return nil
	}

	copied := r.copyExpr(expr)

	if r.Expr == nil {
		return copied
	}

	return r.Expr(copied)
}

//nolint:cyclop,funlen // one branch per statement kind.
func (r Rewriter) copyStmt(stmt Stmt) Stmt {
	switch s := stmt.(type) {
	case *ExprStmt:
		out := *s
		out.Expr = r.Expression(s.Expr)

		return &out
	case *VarDecl:
		return r.varDecl(s)
	case *Assign:
		out := *s
		out.Target = r.Expression(s.Target)
		out.Value = r.Expression(s.Value)

		return &out
	case *Return:
		out := *s
		out.Value = r.Expression(s.Value)

		return &out
	case *If:
		out := *s
		out.Conditions = r.conditions(s.Conditions)
		out.Then = r.Stmts(s.Then)
		out.Else = r.Stmts(s.Else)

		return &out
	case *Guard:
		out := *s
		out.Conditions = r.conditions(s.Conditions)
		out.Else = r.Stmts(s.Else)

		return &out
	case *While:
		out := *s
		out.Cond = r.Expression(s.Cond)
		out.Body = r.Stmts(s.Body)

		return &out
	case *ForEach:
		out := *s
		out.Collection = r.Expression(s.Collection)
		out.Body = r.Stmts(s.Body)

		return &out
	case *Switch:
		out := *s
		out.Subject = r.Expression(s.Subject)
		out.Cases = make([]*Case, len(s.Cases))

		for idx, c := range s.Cases {
			out.Cases[idx] = r.switchCase(c)
		}

		return &out
	case *Throw:
		out := *s
		out.Value = r.Expression(s.Value)

		return &out
	case *Break:
		out := *s

		return &out
	case *Continue:
		out := *s

		return &out
	case *FuncDecl:
		out := *s
		out.Params = r.params(s.Params)
		out.Body = r.Stmts(s.Body)
		out.ExprBody = r.Expression(s.ExprBody)
		out.Annotations = cloneStrings(s.Annotations)

		return &out
	case *EnumCase:
		return r.enumCase(s)
	case *ClassDecl:
		out := *s
		out.Inherits = cloneStrings(s.Inherits)
		out.Annotations = cloneStrings(s.Annotations)
		out.Members = r.Stmts(s.Members)

		if s.Properties != nil {
			out.Properties = make([]*VarDecl, len(s.Properties))
			for idx, prop := range s.Properties {
				out.Properties[idx] = r.varDecl(prop)
			}
		}

		if s.Cases != nil {
			out.Cases = make([]*EnumCase, len(s.Cases))
			for idx, c := range s.Cases {
				out.Cases[idx] = r.enumCase(c)
			}
		}

		return &out
	case *TypeAlias:
		out := *s

		return &out
	}

	panic("target: unhandled statement kind")
}

//nolint:cyclop,funlen // one branch per expression kind.
func (r Rewriter) copyExpr(expr Expr) Expr {
	switch e := expr.(type) {
	case *Literal:
		out := *e

		return &out
	case *Identifier:
		out := *e

		return &out
	case *TypeRef:
		out := *e

		return &out
	case *Dot:
		out := *e
		out.Receiver = r.Expression(e.Receiver)

		return &out
	case *Call:
		out := *e
		out.Function = r.Expression(e.Function)
		out.Args = r.args(e.Args)

		return &out
	case *Binary:
		out := *e
		out.Left = r.Expression(e.Left)
		out.Right = r.Expression(e.Right)

		return &out
	case *Unary:
		out := *e
		out.Operand = r.Expression(e.Operand)

		return &out
	case *Tuple:
		out := *e
		out.Elements = r.args(e.Elements)

		return &out
	case *Array:
		out := *e
		out.Elements = r.exprs(e.Elements)

		return &out
	case *Dictionary:
		out := *e
		out.Entries = make([]Entry, len(e.Entries))

		for idx, entry := range e.Entries {
			out.Entries[idx] = Entry{Key: r.Expression(entry.Key), Value: r.Expression(entry.Value)}
		}

		return &out
	case *Closure:
		out := *e
		out.Params = r.params(e.Params)
		out.Body = r.Stmts(e.Body)

		return &out
	case *Conditional:
		out := *e
		out.Cond = r.Expression(e.Cond)
		out.Then = r.Expression(e.Then)
		out.Else = r.Expression(e.Else)

		return &out
	case *Subscript:
		out := *e
		out.Receiver = r.Expression(e.Receiver)
		out.Index = r.Expression(e.Index)

		return &out
	case *Cast:
		out := *e
		out.Operand = r.Expression(e.Operand)

		return &out
	case *ForceUnwrap:
		out := *e
		out.Operand = r.Expression(e.Operand)

		return &out
	case *Interpolation:
		out := *e
		out.Parts = r.exprs(e.Parts)

		return &out
	case *Placeholder:
		out := *e

		return &out
	case *RawCode:
		out := *e

		return &out
	case *Concat:
		out := *e
		out.Parts = r.exprs(e.Parts)

		return &out
	}

	panic("target: unhandled expression kind")
}

func (r Rewriter) varDecl(decl *VarDecl) *VarDecl {
	out := *decl
	out.Value = r.Expression(decl.Value)
	out.Getter = r.Stmts(decl.Getter)
	out.Annotations = cloneStrings(decl.Annotations)

	return &out
}

func (r Rewriter) enumCase(c *EnumCase) *EnumCase {
	out := *c
	out.Params = r.params(c.Params)
	out.RawValue = r.Expression(c.RawValue)

	return &out
}

func (r Rewriter) switchCase(c *Case) *Case {
	out := *c
	out.Body = r.Stmts(c.Body)

	if c.Patterns != nil {
		out.Patterns = make([]Pattern, len(c.Patterns))

		for idx, pattern := range c.Patterns {
			switch p := pattern.(type) {
			case *ExprPattern:
				out.Patterns[idx] = &ExprPattern{Expr: r.Expression(p.Expr)}
			case *IsPattern:
				copied := *p
				out.Patterns[idx] = &copied
			case *EnumCasePattern:
				copied := *p
				copied.Bindings = cloneStrings(p.Bindings)
				out.Patterns[idx] = &copied
			}
		}
	}

	return &out
}

func (r Rewriter) conditions(conds []Condition) []Condition {
	if conds == nil {
		return nil
	}

	out := make([]Condition, len(conds))

	for idx, cond := range conds {
		switch c := cond.(type) {
		case *ExprCondition:
			out[idx] = &ExprCondition{Expr: r.Expression(c.Expr)}
		case *OptionalBinding:
			copied := *c
			copied.Value = r.Expression(c.Value)
			out[idx] = &copied
		}
	}

	return out
}

func (r Rewriter) exprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}

	out := make([]Expr, len(exprs))
	for idx, expr := range exprs {
		out[idx] = r.Expression(expr)
	}

	return out
}

func (r Rewriter) args(args []Arg) []Arg {
	if args == nil {
		return nil
	}

	out := make([]Arg, len(args))
	for idx, arg := range args {
		out[idx] = Arg{Label: arg.Label, Value: r.Expression(arg.Value)}
	}

	return out
}

func (r Rewriter) params(params []Param) []Param {
	if params == nil {
		return nil
	}

	out := make([]Param, len(params))
	for idx, param := range params {
		out[idx] = param
		out[idx].Default = r.Expression(param.Default)
	}

	return out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}

	return append([]string(nil), values...)
}

// Clone returns a deep copy of expr.
func Clone(expr Expr) Expr {
	return Rewriter{}.Expression(expr)
}

// CloneStmts returns a deep copy of stmts.
func CloneStmts(stmts []Stmt) []Stmt {
	return Rewriter{}.Stmts(stmts)
}
