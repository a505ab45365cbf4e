package target

import "slices"

// Equal reports structural equality of two nodes. Source ranges and type
// annotations on expressions are ignored; declared types in declarations,
// casts and placeholders are compared.
func Equal(left, right Node) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	if leftExpr, ok := left.(Expr); ok {
		rightExpr, ok := right.(Expr)

		return ok && EqualExpr(leftExpr, rightExpr)
	}

	leftStmt, ok := left.(Stmt)
	if !ok {
		return false
	}

	rightStmt, ok := right.(Stmt)

	return ok && equalStmt(leftStmt, rightStmt)
}

// EqualExpr reports structural equality of two expressions.
//
//nolint:cyclop,funlen,gocognit,gocyclo // one branch per expression kind.
func EqualExpr(left, right Expr) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	switch l := left.(type) {
	case *Literal:
		r, ok := right.(*Literal)

		return ok && l.Kind == r.Kind && l.Value == r.Value
	case *Identifier:
		r, ok := right.(*Identifier)

		return ok && l.Name == r.Name
	case *TypeRef:
		r, ok := right.(*TypeRef)

		return ok && l.Name == r.Name && l.Implicit == r.Implicit
	case *Dot:
		r, ok := right.(*Dot)

		return ok && l.Member == r.Member && l.Optional == r.Optional && EqualExpr(l.Receiver, r.Receiver)
	case *Call:
		r, ok := right.(*Call)

		return ok && l.TrailingClosure == r.TrailingClosure &&
			EqualExpr(l.Function, r.Function) && equalArgs(l.Args, r.Args)
	case *Binary:
		r, ok := right.(*Binary)

		return ok && l.Op == r.Op && EqualExpr(l.Left, r.Left) && EqualExpr(l.Right, r.Right)
	case *Unary:
		r, ok := right.(*Unary)

		return ok && l.Op == r.Op && l.Postfix == r.Postfix && EqualExpr(l.Operand, r.Operand)
	case *Tuple:
		r, ok := right.(*Tuple)

		return ok && equalArgs(l.Elements, r.Elements)
	case *Array:
		r, ok := right.(*Array)

		return ok && equalExprs(l.Elements, r.Elements)
	case *Dictionary:
		r, ok := right.(*Dictionary)

		return ok && slices.EqualFunc(l.Entries, r.Entries, func(a, b Entry) bool {
			return EqualExpr(a.Key, b.Key) && EqualExpr(a.Value, b.Value)
		})
	case *Closure:
		r, ok := right.(*Closure)

		return ok && EqualParams(l.Params, r.Params) && EqualStmts(l.Body, r.Body)
	case *Conditional:
		r, ok := right.(*Conditional)

		return ok && EqualExpr(l.Cond, r.Cond) && EqualExpr(l.Then, r.Then) && EqualExpr(l.Else, r.Else)
	case *Subscript:
		r, ok := right.(*Subscript)

		return ok && EqualExpr(l.Receiver, r.Receiver) && EqualExpr(l.Index, r.Index)
	case *Cast:
		r, ok := right.(*Cast)

		return ok && l.Kind == r.Kind && l.Target == r.Target && EqualExpr(l.Operand, r.Operand)
	case *ForceUnwrap:
		r, ok := right.(*ForceUnwrap)

		return ok && EqualExpr(l.Operand, r.Operand)
	case *Interpolation:
		r, ok := right.(*Interpolation)

		return ok && equalExprs(l.Parts, r.Parts)
	case *Placeholder:
		r, ok := right.(*Placeholder)

		return ok && l.Variable == r.Variable && l.DeclaredType == r.DeclaredType
	case *RawCode:
		r, ok := right.(*RawCode)

		return ok && l.Text == r.Text
	case *Concat:
		r, ok := right.(*Concat)

		return ok && equalExprs(l.Parts, r.Parts)
	}

	return false
}

// EqualStmts reports pairwise structural equality of two statement lists.
func EqualStmts(left, right []Stmt) bool {
	return slices.EqualFunc(left, right, equalStmt)
}

// EqualParams reports equality of two parameter lists.
func EqualParams(left, right []Param) bool {
	return slices.EqualFunc(left, right, func(a, b Param) bool {
		return a.Label == b.Label && a.Name == b.Name && a.Type == b.Type && EqualExpr(a.Default, b.Default)
	})
}

//nolint:cyclop,funlen,gocognit,gocyclo // one branch per statement kind.
func equalStmt(left, right Stmt) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	switch l := left.(type) {
	case *ExprStmt:
		r, ok := right.(*ExprStmt)

		return ok && EqualExpr(l.Expr, r.Expr)
	case *VarDecl:
		r, ok := right.(*VarDecl)

		return ok && equalVarDecl(l, r)
	case *Assign:
		r, ok := right.(*Assign)

		return ok && l.Op == r.Op && EqualExpr(l.Target, r.Target) && EqualExpr(l.Value, r.Value)
	case *Return:
		r, ok := right.(*Return)

		return ok && EqualExpr(l.Value, r.Value)
	case *If:
		r, ok := right.(*If)

		return ok && equalConditions(l.Conditions, r.Conditions) &&
			EqualStmts(l.Then, r.Then) && EqualStmts(l.Else, r.Else)
	case *Guard:
		r, ok := right.(*Guard)

		return ok && equalConditions(l.Conditions, r.Conditions) && EqualStmts(l.Else, r.Else)
	case *While:
		r, ok := right.(*While)

		return ok && EqualExpr(l.Cond, r.Cond) && EqualStmts(l.Body, r.Body)
	case *ForEach:
		r, ok := right.(*ForEach)

		return ok && l.Variable == r.Variable && EqualExpr(l.Collection, r.Collection) && EqualStmts(l.Body, r.Body)
	case *Switch:
		r, ok := right.(*Switch)

		return ok && l.Binding == r.Binding && EqualExpr(l.Subject, r.Subject) &&
			slices.EqualFunc(l.Cases, r.Cases, equalCase)
	case *Throw:
		r, ok := right.(*Throw)

		return ok && EqualExpr(l.Value, r.Value)
	case *Break:
		_, ok := right.(*Break)

		return ok
	case *Continue:
		_, ok := right.(*Continue)

		return ok
	case *FuncDecl:
		r, ok := right.(*FuncDecl)

		return ok && l.Name == r.Name && l.ReturnType == r.ReturnType && l.Access == r.Access &&
			l.ExtendsType == r.ExtendsType && l.Abstract == r.Abstract && l.Static == r.Static &&
			l.Mutating == r.Mutating && l.Override == r.Override && l.IsInit == r.IsInit &&
			slices.Equal(l.Annotations, r.Annotations) && EqualParams(l.Params, r.Params) &&
			EqualStmts(l.Body, r.Body) && EqualExpr(l.ExprBody, r.ExprBody)
	case *EnumCase:
		r, ok := right.(*EnumCase)

		return ok && equalEnumCase(l, r)
	case *ClassDecl:
		r, ok := right.(*ClassDecl)

		return ok && l.Name == r.Name && l.Kind == r.Kind && l.Access == r.Access &&
			slices.Equal(l.Inherits, r.Inherits) && slices.Equal(l.Annotations, r.Annotations) &&
			slices.EqualFunc(l.Properties, r.Properties, equalVarDecl) &&
			slices.EqualFunc(l.Cases, r.Cases, equalEnumCase) && EqualStmts(l.Members, r.Members)
	case *TypeAlias:
		r, ok := right.(*TypeAlias)

		return ok && l.Name == r.Name && l.Type == r.Type && l.Access == r.Access
	}

	return false
}

func equalVarDecl(l, r *VarDecl) bool {
	return l.Name == r.Name && l.Type == r.Type && l.Mutable == r.Mutable && l.Static == r.Static &&
		l.Access == r.Access && l.ExtendsType == r.ExtendsType &&
		slices.Equal(l.Annotations, r.Annotations) && EqualExpr(l.Value, r.Value) && EqualStmts(l.Getter, r.Getter)
}

func equalEnumCase(l, r *EnumCase) bool {
	return l.Name == r.Name && EqualParams(l.Params, r.Params) && EqualExpr(l.RawValue, r.RawValue)
}

func equalCase(l, r *Case) bool {
	return l.IsDefault == r.IsDefault && EqualStmts(l.Body, r.Body) &&
		slices.EqualFunc(l.Patterns, r.Patterns, equalPattern)
}

func equalPattern(left, right Pattern) bool {
	switch l := left.(type) {
	case *ExprPattern:
		r, ok := right.(*ExprPattern)

		return ok && EqualExpr(l.Expr, r.Expr)
	case *IsPattern:
		r, ok := right.(*IsPattern)

		return ok && l.Type == r.Type
	case *EnumCasePattern:
		r, ok := right.(*EnumCasePattern)

		return ok && l.Enum == r.Enum && l.Case == r.Case && slices.Equal(l.Bindings, r.Bindings)
	}

	return false
}

func equalConditions(left, right []Condition) bool {
	return slices.EqualFunc(left, right, func(a, b Condition) bool {
		switch l := a.(type) {
		case *ExprCondition:
			r, ok := b.(*ExprCondition)

			return ok && EqualExpr(l.Expr, r.Expr)
		case *OptionalBinding:
			r, ok := b.(*OptionalBinding)

			return ok && l.Name == r.Name && l.Type == r.Type && l.Mutable == r.Mutable && EqualExpr(l.Value, r.Value)
		}

		return false
	})
}

func equalArgs(left, right []Arg) bool {
	return slices.EqualFunc(left, right, func(a, b Arg) bool {
		return a.Label == b.Label && EqualExpr(a.Value, b.Value)
	})
}

func equalExprs(left, right []Expr) bool {
	return slices.EqualFunc(left, right, EqualExpr)
}
