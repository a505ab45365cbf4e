package passes

import (
	"slices"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// enumsToSealedClasses decides how each enum is rendered: a sealed class
// when any case carries associated values, an enum class otherwise.
func enumsToSealedClasses(file *target.File, _ diag.Reporter) *target.File {
	return target.Rewriter{Stmt: func(stmt target.Stmt) []target.Stmt {
		class, ok := stmt.(*target.ClassDecl)
		if !ok || class.Kind != target.KindEnum {
			return []target.Stmt{stmt}
		}

		class.Kind = target.KindEnumClass

		for _, c := range class.Cases {
			if len(c.Params) > 0 {
				class.Kind = target.KindSealedClass

				break
			}
		}

		return []target.Stmt{class}
	}}.File(file)
}

func isEnumKind(kind target.ClassKind) bool {
	return kind == target.KindEnum || kind == target.KindEnumClass || kind == target.KindSealedClass
}

// enumTable indexes the enums declared in a unit.
type enumTable map[string]*target.ClassDecl

func collectEnums(stmts []target.Stmt) enumTable {
	enums := enumTable{}

	target.Inspect(stmts, func(node target.Node) bool {
		if class, ok := node.(*target.ClassDecl); ok && isEnumKind(class.Kind) {
			enums[class.Name] = class
		}

		return true
	})

	return enums
}

func (t enumTable) enumCase(enum, name string) (*target.EnumCase, bool) {
	class, ok := t[enum]
	if !ok {
		return nil, false
	}

	for _, c := range class.Cases {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// receiverName returns the type name a member access goes through, if the
// receiver names a type.
func receiverName(expr target.Expr) (string, bool) {
	switch r := expr.(type) {
	case *target.TypeRef:
		return r.Name, true
	case *target.Identifier:
		return r.Name, true
	}

	return "", false
}

// capitalizeEnumCases renames the cases of every enum declared in the unit,
// together with every reference to them: qualified, implicit and in switch
// patterns. Patterns that elide the enum name take it from the subject.
func capitalizeEnumCases(file *target.File, _ diag.Reporter) *target.File {
	enums := collectEnums(file.Stmts)

	return target.Rewriter{
		Expr: func(expr target.Expr) target.Expr {
			dot, ok := expr.(*target.Dot)
			if !ok {
				return expr
			}

			if enum, ok := receiverName(dot.Receiver); ok {
				if _, found := enums.enumCase(enum, dot.Member); found {
					dot.Member = strcase.ToCamel(dot.Member)
				}
			}

			return dot
		},
		Stmt: func(stmt target.Stmt) []target.Stmt {
			switch s := stmt.(type) {
			case *target.ClassDecl:
				if isEnumKind(s.Kind) {
					for _, c := range s.Cases {
						c.Name = strcase.ToCamel(c.Name)
					}
				}
			case *target.Switch:
				for _, c := range s.Cases {
					for _, pattern := range c.Patterns {
						if p, ok := pattern.(*target.EnumCasePattern); ok {
							if p.Enum == "" {
								p.Enum = strings.TrimSuffix(s.Subject.TypeName(), "?")
							}

							if _, found := enums.enumCase(p.Enum, p.Case); found {
								p.Case = strcase.ToCamel(p.Case)
							}
						}
					}
				}
			}

			return []target.Stmt{stmt}
		},
	}.File(file)
}

// switchToIsChecks rewrites case patterns over enums. Cases of a sealed
// class become "is" checks whose bindings are read back from the subject;
// cases of an enum class become value comparisons.
func switchToIsChecks(file *target.File, reporter diag.Reporter) *target.File {
	enums := collectEnums(file.Stmts)

	return target.Rewriter{Stmt: func(stmt target.Stmt) []target.Stmt {
		sw, ok := stmt.(*target.Switch)
		if !ok {
			return []target.Stmt{stmt}
		}

		subject := sw.Subject
		if _, named := subject.(*target.Identifier); !named && readsAssociatedValues(sw) {
			sw.Binding = unusedName(sw, "subject")
			subject = &target.Identifier{Name: sw.Binding}
		}

		for _, c := range sw.Cases {
			var prologue []target.Stmt

			for idx, pattern := range c.Patterns {
				p, ok := pattern.(*target.EnumCasePattern)
				if !ok {
					continue
				}

				replacement, bindings := enumPattern(p, subject, enums, c, reporter)
				c.Patterns[idx] = replacement
				prologue = append(prologue, bindings...)
			}

			if len(prologue) > 0 {
				c.Body = append(prologue, c.Body...)
			}
		}

		return []target.Stmt{sw}
	}}.File(file)
}

func enumPattern(
	p *target.EnumCasePattern, subject target.Expr, enums enumTable, c *target.Case, reporter diag.Reporter,
) (target.Pattern, []target.Stmt) {
	class, known := enums[p.Enum]
	sealed := known && class.Kind == target.KindSealedClass

	if !sealed && len(p.Bindings) == 0 {
		receiver := &target.TypeRef{Name: p.Enum, Implicit: p.Enum == ""}

		return &target.ExprPattern{Expr: &target.Dot{Receiver: receiver, Member: p.Case, Type: p.Enum}}, nil
	}

	check := &target.IsPattern{Type: p.Enum + "." + p.Case}

	enumCase, found := enums.enumCase(p.Enum, p.Case)
	if !found {
		reporter.Warn(diag.StagePass, c.Range, "cannot resolve the associated values of %s.%s", p.Enum, p.Case)

		return check, nil
	}

	var prologue []target.Stmt

	for idx, binding := range p.Bindings {
		if binding == "" || binding == "_" {
			continue
		}

		field := enumCase.FieldName(idx)
		if field == "" {
			reporter.Warn(diag.StagePass, c.Range, "%s.%s has no associated value at position %d", p.Enum, p.Case, idx+1)

			continue
		}

		prologue = append(prologue, &target.VarDecl{
			Name:  binding,
			Value: &target.Dot{Receiver: target.Clone(subject), Member: field},
			Meta:  c.Meta,
		})
	}

	return check, prologue
}

func readsAssociatedValues(sw *target.Switch) bool {
	for _, c := range sw.Cases {
		for _, pattern := range c.Patterns {
			p, ok := pattern.(*target.EnumCasePattern)
			if !ok {
				continue
			}

			if slices.ContainsFunc(p.Bindings, func(b string) bool { return b != "" && b != "_" }) {
				return true
			}
		}
	}

	return false
}

// unusedName returns base, or base with the smallest numeric suffix, such
// that no identifier or declaration inside sw already uses it.
func unusedName(sw *target.Switch, base string) string {
	used := make(map[string]bool)

	target.Inspect([]target.Stmt{sw}, func(node target.Node) bool {
		switch n := node.(type) {
		case *target.Identifier:
			used[n.Name] = true
		case *target.VarDecl:
			used[n.Name] = true
		}

		return true
	})

	for _, c := range sw.Cases {
		for _, pattern := range c.Patterns {
			if p, ok := pattern.(*target.EnumCasePattern); ok {
				for _, b := range p.Bindings {
					used[b] = true
				}
			}
		}
	}

	name := base
	for idx := 1; used[name]; idx++ {
		name = base + strconv.Itoa(idx)
	}

	return name
}
