package passes

import (
	"slices"

	"github.com/vinivendra/Gryphon-sub003/pkg/diag"
	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// Kotlin visibility modifiers. Public is Kotlin's default and is left
// unwritten, as is the source's default internal level.
const (
	AccessPrivate   = "private"
	AccessProtected = "protected"
	AccessInternal  = "internal"
	AccessPublic    = ""
)

const protectedAnnotation = "protected"

// accessRank orders source visibilities from most to least restrictive.
var accessRank = map[string]int{
	"private":     0,
	"fileprivate": 0,
	"protected":   1,
	"internal":    2,
	"public":      3,
	"open":        3,
	"":            3,
}

// computeAccessLevels gives every declaration the most restrictive of its
// own visibility and that of its enclosing declarations. A "protected"
// annotation overrides the declared level. Top-level protected declarations
// are degraded to internal with a warning. Locals carry no modifier.
func computeAccessLevels(file *target.File, reporter diag.Reporter) *target.File {
	out := target.Rewriter{}.File(file)

	for _, stmt := range out.Stmts {
		applyAccess(stmt, "public", true, reporter)
	}

	return out
}

type declaration struct {
	rng         *dump.Range
	annotations *[]string
	access      *string
	name        string
}

func applyAccess(stmt target.Stmt, enclosing string, topLevel bool, reporter diag.Reporter) {
	switch s := stmt.(type) {
	case *target.ClassDecl:
		level := resolveAccess(declaration{s.Range, &s.Annotations, &s.Access, s.Name}, enclosing, topLevel, reporter)

		for _, prop := range s.Properties {
			resolveAccess(declaration{prop.Range, &prop.Annotations, &prop.Access, prop.Name}, level, false, reporter)
			clearLocalAccess(prop.Getter)
		}

		for _, member := range s.Members {
			applyAccess(member, level, false, reporter)
		}
	case *target.FuncDecl:
		resolveAccess(declaration{s.Range, &s.Annotations, &s.Access, s.Name}, enclosing, topLevel, reporter)
		clearLocalAccess(s.Body)
	case *target.VarDecl:
		resolveAccess(declaration{s.Range, &s.Annotations, &s.Access, s.Name}, enclosing, topLevel, reporter)
		clearLocalAccess(s.Getter)
	case *target.TypeAlias:
		resolveAccess(declaration{s.Range, nil, &s.Access, s.Name}, enclosing, topLevel, reporter)
	default:
		clearLocalAccess([]target.Stmt{stmt})
	}
}

// resolveAccess writes the Kotlin modifier of decl and returns its effective
// source level for use by nested declarations.
func resolveAccess(decl declaration, enclosing string, topLevel bool, reporter diag.Reporter) string {
	own := *decl.access

	if decl.annotations != nil && slices.Contains(*decl.annotations, protectedAnnotation) {
		own = protectedAnnotation
		*decl.annotations = slices.DeleteFunc(*decl.annotations, func(a string) bool { return a == protectedAnnotation })
	}

	if _, known := accessRank[own]; !known {
		own = AccessInternal
	}

	if topLevel && own == protectedAnnotation {
		reporter.Warn(diag.StagePass, decl.rng, "top-level declaration %q cannot be protected; using internal", decl.name)

		*decl.access = AccessInternal

		return AccessInternal
	}

	level := enclosing
	if accessRank[own] < accessRank[enclosing] {
		level = own
	}

	switch accessRank[level] {
	case 0:
		*decl.access = AccessPrivate
	case 1:
		*decl.access = AccessProtected
	default:
		*decl.access = AccessPublic
	}

	return level
}

// clearLocalAccess strips modifiers from declarations inside bodies.
func clearLocalAccess(body []target.Stmt) {
	target.Inspect(body, func(node target.Node) bool {
		switch n := node.(type) {
		case *target.VarDecl:
			n.Access = ""
		case *target.FuncDecl:
			n.Access = ""
		case *target.ClassDecl:
			n.Access = ""
		}

		return true
	})
}
