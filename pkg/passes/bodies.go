package passes

import (
	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// flattenBodies turns closures whose body is a single "return e" into a
// lambda ending in e, and functions with such a body into expression-bodied
// functions.
func flattenBodies(file *target.File, _ diag.Reporter) *target.File {
	return target.Rewriter{
		Expr: func(expr target.Expr) target.Expr {
			closure, ok := expr.(*target.Closure)
			if !ok {
				return expr
			}

			if value, ok := singleReturn(closure.Body); ok {
				closure.Body = []target.Stmt{&target.ExprStmt{Expr: value, Meta: closure.Body[0].(*target.Return).Meta}}
			}

			return closure
		},
		Stmt: func(stmt target.Stmt) []target.Stmt {
			fn, ok := stmt.(*target.FuncDecl)
			if !ok || fn.IsInit || fn.Abstract {
				return []target.Stmt{stmt}
			}

			if value, ok := singleReturn(fn.Body); ok {
				fn.ExprBody = value
				fn.Body = nil
			}

			return []target.Stmt{fn}
		},
	}.File(file)
}

func singleReturn(body []target.Stmt) (target.Expr, bool) {
	if len(body) != 1 {
		return nil, false
	}

	ret, ok := body[0].(*target.Return)
	if !ok || ret.Value == nil {
		return nil, false
	}

	return ret.Value, true
}

// kotlinOperators maps source operators to their Kotlin spelling.
var kotlinOperators = map[string]string{
	"??":  elvis,
	"...": "..",
	"..<": "until",
	"&":   "and",
	"|":   "or",
	"^":   "xor",
	"<<":  "shl",
	">>":  "shr",
}

// translateOperators renames operators that Kotlin spells differently.
func translateOperators(file *target.File, _ diag.Reporter) *target.File {
	return target.Rewriter{Expr: func(expr target.Expr) target.Expr {
		if binary, ok := expr.(*target.Binary); ok {
			if op, found := kotlinOperators[binary.Op]; found {
				binary.Op = op
			}
		}

		return expr
	}}.File(file)
}
