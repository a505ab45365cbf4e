package passes

import (
	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// MainFunction is the entry point top-level statements are moved into.
const MainFunction = "main"

// wrapTopLevelStatements moves top-level statements into
// "fun main(args: Array<String>)". Declarations stay at the top level.
func wrapTopLevelStatements(file *target.File, _ diag.Reporter) *target.File {
	out := target.Rewriter{}.File(file)

	var (
		decls []target.Stmt
		body  []target.Stmt
	)

	for _, stmt := range out.Stmts {
		switch stmt.(type) {
		case *target.FuncDecl, *target.ClassDecl, *target.TypeAlias, *target.VarDecl:
			decls = append(decls, stmt)
		default:
			body = append(body, stmt)
		}
	}

	if len(body) == 0 {
		return out
	}

	out.Stmts = append(decls, &target.FuncDecl{
		Name:   MainFunction,
		Params: []target.Param{{Name: "args", Type: "Array<String>"}},
		Body:   body,
	})

	return out
}
