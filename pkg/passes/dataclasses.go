package passes

import (
	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// valueTypesToDataClasses turns structs into data classes whose stored
// properties form the primary constructor. Kotlin has no mutating methods,
// so each one is reported and emitted as an ordinary method.
func valueTypesToDataClasses(file *target.File, reporter diag.Reporter) *target.File {
	return target.Rewriter{Stmt: func(stmt target.Stmt) []target.Stmt {
		class, ok := stmt.(*target.ClassDecl)
		if !ok || class.Kind != target.KindStruct {
			return []target.Stmt{stmt}
		}

		members := make([]target.Stmt, 0, len(class.Members))

		for _, member := range class.Members {
			switch m := member.(type) {
			case *target.VarDecl:
				if m.Getter == nil && !m.Static {
					class.Properties = append(class.Properties, m)

					continue
				}
			case *target.FuncDecl:
				if m.Mutating {
					reporter.Warn(diag.StagePass, m.Range,
						"mutating method %q of value type %s is translated as an ordinary method", m.Name, class.Name)

					m.Mutating = false
				}
			}

			members = append(members, member)
		}

		class.Members = members
		class.Kind = target.KindDataClass

		// Kotlin rejects data classes without constructor properties.
		if len(class.Properties) == 0 {
			class.Kind = target.KindClass
		}

		return []target.Stmt{class}
	}}.File(file)
}
