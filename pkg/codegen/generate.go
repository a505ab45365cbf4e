package codegen

import (
	"slices"
	"strings"

	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// DefaultIndent is the indentation unit used when none is configured.
const DefaultIndent = "    "

// Result is the generated text and its position map.
type Result struct {
	Text string
	Map  []MapEntry
}

// Generate renders file as Kotlin. Every statement, declaration, enum case
// and switch case that carries a source range produces one map entry.
func Generate(file *target.File, indent string) Result {
	if indent == "" {
		indent = DefaultIndent
	}

	g := newGenerator(file, indent)

	root := NewTranslation(nil)
	if file != nil {
		root.AppendTranslation(g.declarations(file.Stmts))
	}

	text, entries := root.Resolve()

	return Result{Text: text, Map: entries}
}

// Translate renders file into its translation tree without resolving it.
func Translate(file *target.File, indent string) *Translation {
	if indent == "" {
		indent = DefaultIndent
	}

	if file == nil {
		return NewTranslation(nil)
	}

	return newGenerator(file, indent).declarations(file.Stmts)
}

// Expr renders a single expression without a surrounding file. Declaration
// kinds are unknown, so class-dependent spellings fall back to defaults.
func Expr(expr target.Expr) string {
	return newGenerator(nil, DefaultIndent).expr(expr, precLowest).String()
}

type generator struct {
	kinds      map[string]target.ClassKind
	extended   map[string]bool
	overridden map[string]bool
	indent     string
	depth      int
}

func newGenerator(file *target.File, indent string) *generator {
	g := &generator{
		indent:     indent,
		kinds:      map[string]target.ClassKind{},
		extended:   map[string]bool{},
		overridden: map[string]bool{},
	}

	if file == nil {
		return g
	}

	target.Inspect(file.Stmts, func(node target.Node) bool {
		switch n := node.(type) {
		case *target.ClassDecl:
			g.kinds[n.Name] = n.Kind

			for _, super := range n.Inherits {
				g.extended[super] = true
			}
		case *target.FuncDecl:
			if n.Override {
				g.overridden[n.Name] = true
			}
		}

		return true
	})

	return g
}

func (g *generator) indentation() string {
	return strings.Repeat(g.indent, g.depth)
}

// block renders one statement per line at the current depth.
func (g *generator) block(stmts []target.Stmt) *Translation {
	out := NewTranslation(nil)

	for _, stmt := range stmts {
		out.Append(g.indentation()).AppendTranslation(g.statement(stmt)).Append("\n")
	}

	return out
}

// nested renders stmts one level deeper.
func (g *generator) nested(stmts []target.Stmt) *Translation {
	g.depth++
	defer func() { g.depth-- }()

	return g.block(stmts)
}

// declarations renders a block, separating functions and types from their
// neighbours with a blank line.
func (g *generator) declarations(stmts []target.Stmt) *Translation {
	out := NewTranslation(nil)

	for idx, stmt := range stmts {
		if idx > 0 && (isBlockDecl(stmt) || isBlockDecl(stmts[idx-1])) {
			out.Append("\n")
		}

		out.Append(g.indentation()).AppendTranslation(g.statement(stmt)).Append("\n")
	}

	return out
}

func isBlockDecl(stmt target.Stmt) bool {
	switch stmt.(type) {
	case *target.FuncDecl, *target.ClassDecl:
		return true
	}

	return false
}

// braces renders " {", the body one level deeper and the closing brace.
func (g *generator) braces(out *Translation, body []target.Stmt) *Translation {
	if len(body) == 0 {
		return out.Append(" {}")
	}

	return out.Append(" {\n").AppendTranslation(g.nested(body)).Append(g.indentation(), "}")
}

//nolint:cyclop,funlen // one branch per statement kind.
func (g *generator) statement(stmt target.Stmt) *Translation {
	out := NewTranslation(stmt.SourceRange())

	switch s := stmt.(type) {
	case *target.ExprStmt:
		return out.AppendTranslation(g.expr(s.Expr, precLowest))
	case *target.VarDecl:
		return g.varDecl(out, s)
	case *target.Assign:
		return out.AppendTranslation(g.expr(s.Target, precAssign+1)).
			Append(" ", s.Op, " ").
			AppendTranslation(g.expr(s.Value, precLowest))
	case *target.Return:
		out.Append("return")
		if s.Value != nil {
			out.Append(" ").AppendTranslation(g.expr(s.Value, precLowest))
		}

		return out
	case *target.If:
		return g.ifStmt(out, s)
	case *target.Guard:
		out.Append("if (!(").AppendTranslation(g.conditions(s.Conditions)).Append("))")

		return g.braces(out, s.Else)
	case *target.While:
		out.Append("while (").AppendTranslation(g.expr(s.Cond, precLowest)).Append(")")

		return g.braces(out, s.Body)
	case *target.ForEach:
		out.Append("for (", s.Variable, " in ").AppendTranslation(g.expr(s.Collection, precLowest)).Append(")")

		return g.braces(out, s.Body)
	case *target.Switch:
		return g.switchStmt(out, s)
	case *target.Throw:
		return out.Append("throw ").AppendTranslation(g.expr(s.Value, precLowest))
	case *target.Break:
		return out.Append("break")
	case *target.Continue:
		return out.Append("continue")
	case *target.FuncDecl:
		return g.function(out, s, false)
	case *target.EnumCase:
		return out.Append(s.Name)
	case *target.ClassDecl:
		return g.class(out, s)
	case *target.TypeAlias:
		return out.Append(modifier(s.Access), "typealias ", s.Name, " = ", kotlinType(s.Type))
	}

	return out
}

func modifier(access string) string {
	if access == "" {
		return ""
	}

	return access + " "
}

func (g *generator) varDecl(out *Translation, s *target.VarDecl) *Translation {
	keyword := "val"
	if s.Mutable && s.Getter == nil {
		keyword = "var"
	}

	out.Append(modifier(s.Access), keyword, " ")

	if s.ExtendsType != "" {
		out.Append(kotlinType(s.ExtendsType), ".")
	}

	out.Append(s.Name)

	if s.Type != "" && needsType(s) {
		out.Append(": ", kotlinType(s.Type))
	}

	if s.Value != nil {
		out.Append(" = ").AppendTranslation(g.expr(s.Value, precLowest))
	}

	if s.Getter == nil {
		return out
	}

	g.depth++
	defer func() { g.depth-- }()

	out.Append("\n", g.indentation(), "get()")

	if len(s.Getter) == 1 {
		if ret, ok := s.Getter[0].(*target.Return); ok && ret.Value != nil {
			return out.Append(" = ").AppendTranslation(g.expr(ret.Value, precLowest))
		}
	}

	return g.braces(out, s.Getter)
}

// needsType reports whether Kotlin cannot infer the declared type.
func needsType(s *target.VarDecl) bool {
	if s.Value == nil || strings.HasSuffix(s.Type, "?") {
		return true
	}

	switch v := s.Value.(type) {
	case *target.Array:
		return len(v.Elements) == 0
	case *target.Dictionary:
		return len(v.Entries) == 0
	case *target.Literal:
		return v.Kind == target.NullLiteral
	}

	return false
}

func (g *generator) conditions(conds []target.Condition) *Translation {
	parts := make([]*Translation, 0, len(conds))

	for _, cond := range conds {
		switch c := cond.(type) {
		case *target.ExprCondition:
			minPrec := precLowest
			if len(conds) > 1 {
				minPrec = precAnd
			}

			parts = append(parts, g.expr(c.Expr, minPrec))
		case *target.OptionalBinding:
			parts = append(parts, NewTranslation(nil).
				AppendTranslation(g.expr(c.Value, precEquality+1)).Append(" != null"))
		}
	}

	return NewTranslation(nil).AppendTranslations(parts, " && ")
}

func (g *generator) ifStmt(out *Translation, s *target.If) *Translation {
	out.Append("if (").AppendTranslation(g.conditions(s.Conditions)).Append(")")
	g.braces(out, s.Then)

	if len(s.Else) == 0 {
		return out
	}

	if elseIf, ok := s.Else[0].(*target.If); ok && len(s.Else) == 1 {
		return out.Append(" else ").AppendTranslation(g.statement(elseIf))
	}

	out.Append(" else")

	return g.braces(out, s.Else)
}

func (g *generator) switchStmt(out *Translation, s *target.Switch) *Translation {
	out.Append("when (")

	if s.Binding != "" {
		out.Append("val ", s.Binding, " = ")
	}

	out.AppendTranslation(g.expr(s.Subject, precLowest)).Append(") {\n")

	g.depth++

	for _, c := range s.Cases {
		out.Append(g.indentation()).AppendTranslation(g.switchCase(c)).Append("\n")
	}

	g.depth--

	return out.Append(g.indentation(), "}")
}

func (g *generator) switchCase(c *target.Case) *Translation {
	out := NewTranslation(c.Range)

	if c.IsDefault || len(c.Patterns) == 0 {
		out.Append("else")
	} else {
		patterns := make([]*Translation, 0, len(c.Patterns))
		for _, pattern := range c.Patterns {
			patterns = append(patterns, g.pattern(pattern))
		}

		out.AppendTranslations(patterns, ", ")
	}

	out.Append(" ->")

	// A case ends at its last statement; a trailing break would leave the
	// enclosing loop instead.
	body := c.Body
	if len(body) > 0 {
		if _, ok := body[len(body)-1].(*target.Break); ok {
			body = body[:len(body)-1]
		}
	}

	if len(body) == 1 && isSimple(body[0]) {
		return out.Append(" ").AppendTranslation(g.statement(body[0]))
	}

	return g.braces(out, body)
}

func isSimple(stmt target.Stmt) bool {
	switch stmt.(type) {
	case *target.ExprStmt, *target.Return, *target.Assign, *target.Throw, *target.Continue:
		return true
	}

	return false
}

func (g *generator) pattern(pattern target.Pattern) *Translation {
	out := NewTranslation(nil)

	switch p := pattern.(type) {
	case *target.ExprPattern:
		return g.expr(p.Expr, precNamedCheck+1)
	case *target.IsPattern:
		return out.Append("is ", p.Type)
	case *target.EnumCasePattern:
		if p.Enum == "" {
			return out.Append(p.Case)
		}

		return out.Append(p.Enum, ".", p.Case)
	}

	return out
}

func (g *generator) params(params []target.Param) *Translation {
	rendered := make([]*Translation, 0, len(params))

	for _, param := range params {
		item := NewTranslation(nil).Append(param.Name)
		if param.Type != "" {
			item.Append(": ", kotlinType(param.Type))
		}

		if param.Default != nil {
			item.Append(" = ").AppendTranslation(g.expr(param.Default, precLowest))
		}

		rendered = append(rendered, item)
	}

	return NewTranslation(nil).AppendTranslations(rendered, ", ")
}

func (g *generator) function(out *Translation, s *target.FuncDecl, open bool) *Translation {
	out.Append(modifier(s.Access))

	if s.Override {
		out.Append("override ")
	} else if open {
		out.Append("open ")
	}

	if s.IsInit {
		out.Append("constructor(").AppendTranslation(g.params(s.Params)).Append(")")

		return g.braces(out, s.Body)
	}

	out.Append("fun ")

	if s.ExtendsType != "" {
		out.Append(kotlinType(s.ExtendsType), ".")
	}

	out.Append(s.Name, "(").AppendTranslation(g.params(s.Params)).Append(")")

	if !isVoid(s.ReturnType) {
		out.Append(": ", kotlinType(s.ReturnType))
	}

	switch {
	case s.ExprBody != nil:
		return out.Append(" = ").AppendTranslation(g.expr(s.ExprBody, precLowest))
	case s.Abstract:
		return out
	}

	return g.braces(out, s.Body)
}

// rawValueTypes are the inherited types that give an enum its raw values.
var rawValueTypes = []string{"Int", "String", "Double", "Float", "Character", "Bool"}

func (g *generator) class(out *Translation, s *target.ClassDecl) *Translation {
	out.Append(modifier(s.Access))

	inherits := s.Inherits
	rawType := ""

	switch s.Kind {
	case target.KindDataClass:
		out.Append("data class ", s.Name, "(").AppendTranslation(g.properties(s.Properties)).Append(")")
	case target.KindClass, target.KindStruct:
		if g.extended[s.Name] {
			out.Append("open ")
		}

		out.Append("class ", s.Name)
	case target.KindInterface:
		out.Append("interface ", s.Name)
	case target.KindEnum, target.KindEnumClass:
		out.Append("enum class ", s.Name)

		if len(inherits) > 0 && slices.Contains(rawValueTypes, inherits[0]) && hasRawValues(s.Cases) {
			rawType, inherits = inherits[0], inherits[1:]

			out.Append("(val rawValue: ", kotlinType(rawType), ")")
		}
	case target.KindSealedClass:
		out.Append("sealed class ", s.Name)
	}

	if len(inherits) > 0 {
		supers := make([]string, 0, len(inherits))
		for _, super := range inherits {
			supers = append(supers, g.superType(super))
		}

		out.Append(": ", strings.Join(supers, ", "))
	}

	var instance, static []target.Stmt

	for _, member := range s.Members {
		if isStatic(member) {
			static = append(static, member)
		} else {
			instance = append(instance, member)
		}
	}

	if len(s.Cases) == 0 && len(instance) == 0 && len(static) == 0 {
		return out
	}

	out.Append(" {\n")
	g.depth++

	switch s.Kind {
	case target.KindSealedClass:
		for _, c := range s.Cases {
			out.Append(g.indentation()).AppendTranslation(g.sealedCase(c, s.Name)).Append("\n")
		}
	case target.KindEnum, target.KindEnumClass:
		g.enumEntries(out, s.Cases, len(instance)+len(static) > 0)
	}

	if len(s.Cases) > 0 && len(instance)+len(static) > 0 {
		out.Append("\n")
	}

	out.AppendTranslation(g.members(instance, s))

	if len(static) > 0 {
		if len(instance) > 0 {
			out.Append("\n")
		}

		out.Append(g.indentation(), "companion object {\n")
		g.depth++
		out.AppendTranslation(g.members(static, s))
		g.depth--
		out.Append(g.indentation(), "}\n")
	}

	g.depth--

	return out.Append(g.indentation(), "}")
}

func (g *generator) superType(name string) string {
	kind, declared := g.kinds[name]
	if declared && (kind == target.KindClass || kind == target.KindSealedClass) {
		return kotlinType(name) + "()"
	}

	return kotlinType(name)
}

func hasRawValues(cases []*target.EnumCase) bool {
	return slices.ContainsFunc(cases, func(c *target.EnumCase) bool { return c.RawValue != nil })
}

func isStatic(stmt target.Stmt) bool {
	switch s := stmt.(type) {
	case *target.FuncDecl:
		return s.Static
	case *target.VarDecl:
		return s.Static
	}

	return false
}

// members renders the body of a class. Methods of an open class that a
// subclass overrides are marked open.
func (g *generator) members(stmts []target.Stmt, class *target.ClassDecl) *Translation {
	out := NewTranslation(nil)
	open := class.Kind == target.KindClass && g.extended[class.Name]

	for idx, stmt := range stmts {
		if idx > 0 && (isBlockDecl(stmt) || isBlockDecl(stmts[idx-1])) {
			out.Append("\n")
		}

		out.Append(g.indentation())

		if fn, ok := stmt.(*target.FuncDecl); ok {
			out.AppendTranslation(g.function(NewTranslation(fn.Range), fn, open && g.overridden[fn.Name]))
		} else {
			out.AppendTranslation(g.statement(stmt))
		}

		out.Append("\n")
	}

	return out
}

func (g *generator) properties(props []*target.VarDecl) *Translation {
	rendered := make([]*Translation, 0, len(props))

	for _, prop := range props {
		keyword := "val "
		if prop.Mutable {
			keyword = "var "
		}

		item := NewTranslation(prop.Range).Append(modifier(prop.Access), keyword, prop.Name, ": ", kotlinType(prop.Type))
		if prop.Value != nil {
			item.Append(" = ").AppendTranslation(g.expr(prop.Value, precLowest))
		}

		rendered = append(rendered, item)
	}

	return NewTranslation(nil).AppendTranslations(rendered, ", ")
}

// sealedCase renders one case of a sealed class as a subclass.
func (g *generator) sealedCase(c *target.EnumCase, parent string) *Translation {
	out := NewTranslation(c.Range)

	if len(c.Params) == 0 {
		return out.Append("object ", c.Name, ": ", parent, "()")
	}

	fields := make([]string, 0, len(c.Params))
	for idx, param := range c.Params {
		fields = append(fields, "val "+c.FieldName(idx)+": "+kotlinType(param.Type))
	}

	return out.Append("class ", c.Name, "(", strings.Join(fields, ", "), "): ", parent, "()")
}

// enumEntries renders the entries of an enum class, ending the list with a
// semicolon when members follow.
func (g *generator) enumEntries(out *Translation, cases []*target.EnumCase, hasMembers bool) {
	if len(cases) == 0 {
		if hasMembers {
			out.Append(g.indentation(), ";\n")
		}

		return
	}

	entries := NewTranslation(nil)

	for _, c := range cases {
		entry := NewTranslation(c.Range).Append(c.Name)
		if c.RawValue != nil {
			entry.Append("(").AppendTranslation(g.expr(c.RawValue, precLowest)).Append(")")
		}

		entries.Append(g.indentation()).AppendTranslation(entry).Append(",\n")
	}

	entries.DropLast(",\n")

	if hasMembers {
		entries.Append(";\n")
	} else {
		entries.Append("\n")
	}

	out.AppendTranslation(entries)
}
