package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
	"github.com/vinivendra/Gryphon-sub003/pkg/lower"
	"github.com/vinivendra/Gryphon-sub003/pkg/source"
	"github.com/vinivendra/Gryphon-sub003/pkg/target"
	"github.com/vinivendra/Gryphon-sub003/pkg/template"
)

// expr lowers a dump expression without consulting any catalogue.
func expr(t *testing.T, text string) target.Expr {
	t.Helper()

	node, err := dump.Decode(text)
	require.NoError(t, err)

	built, err := source.BuildExpr(node)
	require.NoError(t, err)

	lowered, err := (&lower.Lowerer{}).Expr(built)
	require.NoError(t, err)

	return lowered
}

func pattern(t *testing.T, text string) target.Expr {
	t.Helper()

	compiled, err := template.CompilePattern(text)
	require.NoError(t, err)

	return compiled
}

func TestMatch_Reflexive(t *testing.T) {
	t.Parallel()

	exprs := []string{
		`(integer_literal_expr value=1)`,
		`(call_expr (declref_expr decl=main.(file).f(_:)) (argument_list (argument (string_literal_expr value=hi))))`,
		`(member_ref_expr decl=main.(file).P.x (declref_expr type=P decl=p))`,
		`(array_expr type='[Int]' (integer_literal_expr value=1) (integer_literal_expr value=2))`,
		`(binary_expr operator=+ (declref_expr decl=a) (integer_literal_expr value=2))`,
	}

	for _, text := range exprs {
		e := expr(t, text)

		bindings, ok := template.Match(e, e, template.NewSubtypeTable())
		require.True(t, ok, text)
		assert.NotNil(t, bindings)
		assert.Empty(t, bindings)
	}
}

func TestMatch_PlaceholderIsAsymmetric(t *testing.T) {
	t.Parallel()

	pat := pattern(t, `(member_ref_expr decl=Swift.Array.first (declref_expr type='[Any]' decl=_array))`)
	candidate := expr(t, `(member_ref_expr decl=Swift.Array.first (declref_expr type='[Int]' decl=numbers))`)

	bindings, ok := template.Match(candidate, pat, template.NewSubtypeTable())
	require.True(t, ok)
	assert.True(t, target.EqualExpr(&target.Identifier{Name: "numbers"}, bindings["_array"]))

	_, ok = template.Match(pat, candidate, template.NewSubtypeTable())
	assert.False(t, ok)
}

func TestMatch_PlaceholderTypeMustBeSubtype(t *testing.T) {
	t.Parallel()

	pat := pattern(t, `(member_ref_expr decl=Swift.Array.first (declref_expr type='[Any]' decl=_array))`)
	candidate := expr(t, `(member_ref_expr decl=Swift.String.first (declref_expr type=String decl=name))`)

	bindings, ok := template.Match(candidate, pat, template.NewSubtypeTable())
	assert.False(t, ok)
	assert.Nil(t, bindings)
}

func TestMatch_CompositionalBindings(t *testing.T) {
	t.Parallel()

	pat := pattern(t, `(binary_expr operator=+ (declref_expr type=Int decl=_a) (declref_expr type=Int decl=_a))`)

	same := expr(t, `(binary_expr operator=+ (declref_expr type=Int decl=x) (declref_expr type=Int decl=x))`)
	bindings, ok := template.Match(same, pat, nil)
	require.True(t, ok)
	assert.Len(t, bindings, 1)

	different := expr(t, `(binary_expr operator=+ (declref_expr type=Int decl=x) (declref_expr type=Int decl=y))`)
	_, ok = template.Match(different, pat, nil)
	assert.False(t, ok)

	pair := pattern(t, `(binary_expr operator=+ (declref_expr type=Int decl=_a) (declref_expr type=Int decl=_b))`)
	bindings, ok = template.Match(different, pair, nil)
	require.True(t, ok)
	assert.Len(t, bindings, 2)
	assert.True(t, target.EqualExpr(&target.Identifier{Name: "y"}, bindings["_b"]))
}

func TestMatch_ArityAndKind(t *testing.T) {
	t.Parallel()

	pat := pattern(t, `(call_expr (declref_expr decl=f) (argument_list (argument (declref_expr decl=_x))))`)

	_, ok := template.Match(expr(t, `(call_expr (declref_expr decl=f) (argument_list))`), pat, nil)
	assert.False(t, ok)

	_, ok = template.Match(expr(t, `(call_expr (declref_expr decl=g) (argument_list (argument (integer_literal_expr value=1))))`), pat, nil)
	assert.False(t, ok)

	bindings, ok := template.Match(expr(t, `(call_expr (declref_expr decl=f) (argument_list (argument (integer_literal_expr value=1))))`), pat, nil)
	require.True(t, ok)
	assert.True(t, target.EqualExpr(&target.Literal{Value: "1"}, bindings["_x"]))
}

func TestMatch_TrailingClosureLabelIsInterchangeable(t *testing.T) {
	t.Parallel()

	pat := &target.Call{
		Function: &target.Dot{Receiver: &target.Placeholder{Variable: "_array", DeclaredType: "[Any]"}, Member: "map"},
		Args: []target.Arg{{
			Label: "transform",
			Value: &target.Placeholder{Variable: "_fn", DeclaredType: "Any"},
		}},
	}

	closure := &target.Closure{Body: []target.Stmt{&target.Return{Value: &target.Literal{Value: "1"}}}}
	candidate := &target.Call{
		Function:        &target.Dot{Receiver: &target.Identifier{Name: "xs", Type: "[Int]"}, Member: "map"},
		Args:            []target.Arg{{Value: closure}},
		TrailingClosure: true,
	}

	bindings, ok := template.Match(candidate, pat, nil)
	require.True(t, ok)
	assert.Same(t, closure, bindings["_fn"])

	candidate.TrailingClosure = false
	_, ok = template.Match(candidate, pat, nil)
	assert.False(t, ok)
}

func TestMatch_ImplicitTypeReference(t *testing.T) {
	t.Parallel()

	pat := &target.Dot{Receiver: &target.TypeRef{Name: "Color"}, Member: "red"}
	implicit := &target.Dot{Receiver: &target.TypeRef{Name: "Color", Implicit: true}, Member: "red"}
	byIdentifier := &target.Dot{Receiver: &target.Identifier{Name: "Color"}, Member: "red"}

	_, ok := template.Match(implicit, pat, nil)
	assert.True(t, ok)

	_, ok = template.Match(byIdentifier, pat, nil)
	assert.False(t, ok, "a value named like the type is not the type")

	_, ok = template.Match(&target.Identifier{Name: "Color"}, &target.TypeRef{Name: "Color"}, nil)
	assert.False(t, ok)

	_, ok = template.Match(&target.TypeRef{Name: "Color"}, &target.Identifier{Name: "Color"}, nil)
	assert.False(t, ok)

	_, ok = template.Match(&target.Dot{Receiver: &target.TypeRef{Name: "Shade", Implicit: true}, Member: "red"}, pat, nil)
	assert.False(t, ok)
}

func TestMatch_ClosureBodies(t *testing.T) {
	t.Parallel()

	pat := &target.Closure{
		Params: []target.Param{{Name: "x"}},
		Body:   []target.Stmt{&target.Return{Value: &target.Placeholder{Variable: "_body", DeclaredType: "Any"}}},
	}
	candidate := &target.Closure{
		Params: []target.Param{{Name: "x"}},
		Body:   []target.Stmt{&target.ExprStmt{Expr: &target.Identifier{Name: "x", Type: "Int"}}},
	}

	bindings, ok := template.Match(candidate, pat, nil)
	require.True(t, ok)
	assert.True(t, target.EqualExpr(&target.Identifier{Name: "x"}, bindings["_body"]))

	candidate.Params[0].Name = "y"
	_, ok = template.Match(candidate, pat, nil)
	assert.False(t, ok)
}

func TestVariables(t *testing.T) {
	t.Parallel()

	pat := pattern(t, `(binary_expr operator=+ (declref_expr decl=_b) (binary_expr operator=* (declref_expr decl=_a) (declref_expr decl=_b)))`)

	assert.Equal(t, []string{"_b", "_a"}, template.Variables(pat))
}
