package template

import (
	"slices"
	"strings"

	"github.com/coregx/coregex"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
)

// Expr is a replacement tree. It is built into a target expression once the
// pattern has matched and the bindings are known.
type Expr interface {
	build(bindings Bindings) target.Expr
	vars() []string
}

// Literal is target text emitted verbatim.
type Literal struct {
	Text string
}

// Var is substituted by a copy of the subtree bound to Name.
type Var struct {
	Name string
}

// Dot is "receiver.member".
type Dot struct {
	Receiver Expr
	Member   string
}

// CallArg is one argument of a replacement call.
type CallArg struct {
	Value Expr
	Label string
}

// Call is "function(args)".
type Call struct {
	Function Expr
	Args     []CallArg
}

// Concatenation renders its parts back to back.
type Concatenation struct {
	Parts []Expr
}

func (e Literal) build(Bindings) target.Expr {
	return &target.RawCode{Text: e.Text}
}

func (e Var) build(bindings Bindings) target.Expr {
	bound, ok := bindings[e.Name]
	if !ok {
		return &target.RawCode{Text: e.Name}
	}

	return target.Clone(bound)
}

func (e Dot) build(bindings Bindings) target.Expr {
	return &target.Dot{Receiver: e.Receiver.build(bindings), Member: e.Member}
}

func (e Call) build(bindings Bindings) target.Expr {
	call := &target.Call{Function: e.Function.build(bindings)}

	for _, arg := range e.Args {
		call.Args = append(call.Args, target.Arg{Label: arg.Label, Value: arg.Value.build(bindings)})
	}

	return call
}

func (e Concatenation) build(bindings Bindings) target.Expr {
	concat := &target.Concat{}

	for _, part := range e.Parts {
		concat.Parts = append(concat.Parts, part.build(bindings))
	}

	return concat
}

func (Literal) vars() []string { return nil }

func (e Var) vars() []string { return []string{e.Name} }

func (e Dot) vars() []string { return e.Receiver.vars() }

func (e Call) vars() []string {
	names := e.Function.vars()
	for _, arg := range e.Args {
		names = append(names, arg.Value.vars()...)
	}

	return names
}

func (e Concatenation) vars() []string {
	var names []string
	for _, part := range e.Parts {
		names = append(names, part.vars()...)
	}

	return names
}

// Build instantiates replacement with bindings. The result carries the type
// and source range of the matched candidate so later stages still see them.
func Build(replacement Expr, bindings Bindings, candidate target.Expr) target.Expr {
	out := replacement.build(bindings)

	var (
		typeName string
		rng      *dump.Range
	)

	if candidate != nil {
		typeName, rng = candidate.TypeName(), candidate.SourceRange()
	}

	switch e := out.(type) {
	case *target.RawCode:
		e.Type, e.Range = typeName, rng
	case *target.Concat:
		e.Type, e.Range = typeName, rng
	case *target.Dot:
		e.Type, e.Range = typeName, rng
	case *target.Call:
		e.Type, e.Range = typeName, rng
	}

	return out
}

var placeholderName = mustCompile(`_[A-Za-z0-9_]+`)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic("template: invalid pattern " + pattern + ": " + err.Error())
	}

	return re
}

// ParseReplacement splits a replacement string into literal text and
// references to vars. Underscore words that are not in vars, or that are
// glued to a preceding identifier character, stay literal.
func ParseReplacement(text string, vars []string) Expr {
	var (
		parts   []Expr
		literal strings.Builder
	)

	flush := func() {
		if literal.Len() > 0 {
			parts = append(parts, Literal{Text: literal.String()})
			literal.Reset()
		}
	}

	last := 0

	for _, loc := range placeholderName.FindAllStringIndex(text, -1) {
		name := text[loc[0]:loc[1]]
		if !slices.Contains(vars, name) || (loc[0] > 0 && isIdentByte(text[loc[0]-1])) {
			continue
		}

		literal.WriteString(text[last:loc[0]])
		flush()
		parts = append(parts, Var{Name: name})
		last = loc[1]
	}

	literal.WriteString(text[last:])
	flush()

	switch len(parts) {
	case 0:
		return Literal{}
	case 1:
		return parts[0]
	}

	return Concatenation{Parts: parts}
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
