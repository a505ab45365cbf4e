package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
	"github.com/vinivendra/Gryphon-sub003/pkg/source"
)

func build(t *testing.T, text string) *source.File {
	t.Helper()

	root, err := dump.Decode(text)
	require.NoError(t, err)

	file, err := source.Build(root)
	require.NoError(t, err)

	return file
}

func TestBuild_TopLevelCode(t *testing.T) {
	t.Parallel()

	file := build(t, `
(source_file "main.swift"
  (import_decl "Foundation")
  (top_level_code_decl
    (brace_stmt
      (call_expr type='()' range=[/src/main.swift:2:1 - line:2:12]
        (declref_expr type='(Any) -> ()' decl=Swift.(file).print(_:))
        (argument_list
          (argument
            (string_literal_expr type='String' value="hello")))))))`)

	assert.Equal(t, "main.swift", file.Name)
	require.Len(t, file.Items, 2)

	imp, ok := file.Items[0].(*source.Import)
	require.True(t, ok)
	assert.Equal(t, "Foundation", imp.Module)

	stmt, ok := file.Items[1].(*source.ExprStmt)
	require.True(t, ok)

	call, ok := stmt.Expr.(*source.Call)
	require.True(t, ok)
	assert.Equal(t, "()", call.TypeName())
	assert.Equal(t, 2, call.SourceRange().StartLine)

	callee, ok := call.Callee.(*source.DeclRef)
	require.True(t, ok)
	assert.Equal(t, "print", callee.Name)

	require.Len(t, call.Args, 1)
	assert.Equal(t, "hello", call.Args[0].Value.(*source.StringLiteral).Value)
}

func TestBuild_FuncDecl(t *testing.T) {
	t.Parallel()

	file := build(t, `
(source_file "a.swift"
  (func_decl "add(_:to:)" interface type='(Int, Int) -> Int' access=internal annotations='protected'
    (parameter_list
      (parameter "a" type='Int')
      (parameter "b" apiName=to type='Int'
        (integer_literal_expr type='Int' value=1)))
    (brace_stmt
      (return_stmt
        (binary_expr type='Int' "+"
          (declref_expr type='Int' decl=a.(file).add(_:to:).a@/a.swift:1:10)
          (declref_expr type='Int' decl=a.(file).add(_:to:).b@/a.swift:1:20))))))`)

	require.Len(t, file.Items, 1)

	fn, ok := file.Items[0].(*source.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, "Int", fn.ResultType)
	assert.Equal(t, "internal", fn.Access)
	assert.Equal(t, []string{"protected"}, fn.Annotations)

	require.Len(t, fn.Params, 2)
	assert.Equal(t, source.Param{Name: "a", Type: "Int"}, fn.Params[0])
	assert.Equal(t, "to", fn.Params[1].Label)
	assert.NotNil(t, fn.Params[1].Default)

	ret, ok := fn.Body.Items[0].(*source.Return)
	require.True(t, ok)

	sum, ok := ret.Value.(*source.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", sum.Op)
	assert.Equal(t, "a", sum.Left.(*source.DeclRef).Name)
	assert.Equal(t, "b", sum.Right.(*source.DeclRef).Name)
}

func TestBuild_FuncDeclRequiresAttributes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		attribute string
	}{
		{
			name:      "no access",
			input:     `(source_file (func_decl "f()" result type='()' (brace_stmt)))`,
			attribute: "access",
		},
		{
			name:      "no result type",
			input:     `(source_file (func_decl "f()" access=internal (brace_stmt)))`,
			attribute: "result type",
		},
		{
			name:      "no body",
			input:     `(source_file (func_decl "f()" result type='()' access=internal))`,
			attribute: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := dump.Decode(tt.input)
			require.NoError(t, err)

			_, err = source.Build(root)
			require.ErrorIs(t, err, source.ErrMissingAttribute)

			var missing *source.MissingAttributeError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "func_decl", missing.Node)
			assert.Equal(t, tt.attribute, missing.Attribute)
		})
	}
}

func TestBuild_ProtocolRequirementsHaveNoBody(t *testing.T) {
	t.Parallel()

	file := build(t, `
(source_file
  (protocol_decl "Shape" access=public inherits='Equatable, Hashable'
    (func_decl "area()" result type='Double' access=public)))`)

	proto, ok := file.Items[0].(*source.TypeDecl)
	require.True(t, ok)
	assert.Equal(t, source.ProtocolType, proto.Kind)
	assert.Equal(t, []string{"Equatable", "Hashable"}, proto.Inherits)

	fn := proto.Members[0].(*source.FuncDecl)
	assert.Nil(t, fn.Body)
}

func TestBuild_UnsupportedConstruct(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(source_file
  (top_level_code_decl
    (brace_stmt
      (mystery_expr type='Int' range=[/a.swift:4:2 - line:4:9]))))`)
	require.NoError(t, err)

	_, err = source.Build(root)
	require.ErrorIs(t, err, source.ErrUnsupportedConstruct)

	var unsupported *source.UnsupportedConstructError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "mystery_expr", unsupported.Name)
	assert.Equal(t, 4, unsupported.Range.StartLine)
	assert.Contains(t, unsupported.Error(), "/a.swift:4:2-4:9")
}

func TestBuild_ControlFlow(t *testing.T) {
	t.Parallel()

	file := build(t, `
(source_file
  (top_level_code_decl
    (brace_stmt
      (if_stmt
        (pattern_let "x" type='Int'
          (declref_expr type='Int?' decl=main.(file).maybe))
        (binary_expr type='Bool' ">"
          (declref_expr type='Int' decl=main.(file).x)
          (integer_literal_expr type='Int' value=0))
        (brace_stmt
          (break_stmt))
        (if_stmt
          (boolean_literal_expr type='Bool' value=true)
          (brace_stmt
            (continue_stmt))))
      (guard_stmt
        (declref_expr type='Bool' decl=main.(file).ok)
        (brace_stmt
          (return_stmt)))
      (for_each_stmt
        (pattern_named "item")
        (declref_expr type='[Int]' decl=main.(file).items)
        (brace_stmt))
      (while_stmt
        (boolean_literal_expr type='Bool' value=false)
        (brace_stmt))
      (assign_expr
        (declref_expr decl=main.(file).x)
        (integer_literal_expr value=2))
      (binary_expr "+="
        (declref_expr decl=main.(file).x)
        (integer_literal_expr value=3)))))`)

	require.Len(t, file.Items, 6)

	ifStmt := file.Items[0].(*source.If)
	require.Len(t, ifStmt.Conditions, 2)

	binding := ifStmt.Conditions[0].(*source.CondBinding)
	assert.Equal(t, "x", binding.Name)
	assert.Equal(t, "maybe", binding.Value.(*source.DeclRef).Name)

	_, isElseIf := ifStmt.Else.(*source.If)
	assert.True(t, isElseIf)

	assert.IsType(t, &source.Guard{}, file.Items[1])
	assert.Equal(t, "item", file.Items[2].(*source.ForEach).Variable)
	assert.IsType(t, &source.While{}, file.Items[3])
	assert.Equal(t, "=", file.Items[4].(*source.Assign).Op)
	assert.Equal(t, "+=", file.Items[5].(*source.Assign).Op)
}

func TestBuild_SwitchAndEnum(t *testing.T) {
	t.Parallel()

	file := build(t, `
(source_file
  (enum_decl "Shape" access=internal
    (enum_case_decl
      (enum_element_decl "circle(radius:)"
        (parameter_list
          (parameter "radius" apiName=radius type='Double')))
      (enum_element_decl "empty")))
  (top_level_code_decl
    (brace_stmt
      (switch_stmt
        (declref_expr type='Shape' decl=main.(file).s)
        (case_stmt
          (pattern_enum_element ".circle" type='Shape'
            (pattern_named "r"))
          (brace_stmt))
        (case_stmt default
          (brace_stmt))))))`)

	enum := file.Items[0].(*source.TypeDecl)
	assert.Equal(t, source.EnumType, enum.Kind)

	cases := enum.Members[0].(*source.EnumCaseDecl)
	require.Len(t, cases.Elements, 2)
	assert.Equal(t, "circle", cases.Elements[0].Name)
	assert.Equal(t, "radius", cases.Elements[0].Params[0].Label)

	sw := file.Items[1].(*source.Switch)
	require.Len(t, sw.Cases, 2)

	pattern := sw.Cases[0].Patterns[0].(*source.PatternEnumElement)
	assert.Equal(t, &source.PatternEnumElement{Enum: "Shape", Case: "circle", Bindings: []string{"r"}}, pattern)
	assert.True(t, sw.Cases[1].IsDefault)
}

func TestBuild_Expressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, expr source.Expr)
	}{
		{
			name:  "optional chain",
			input: `(optional_evaluation_expr type='Int?' (member_ref_expr type='Int' decl=Swift.(file).Array.count (bind_optional_expr (declref_expr type='[Int]?' decl=main.(file).xs))))`,
			check: func(t *testing.T, expr source.Expr) {
				t.Helper()

				member := expr.(*source.OptionalEvaluation).Inner.(*source.MemberRef)
				assert.Equal(t, "count", member.Member)
				assert.IsType(t, &source.BindOptional{}, member.Base)
			},
		},
		{
			name:  "implicit member",
			input: `(unresolved_member_expr type='Color' ".red")`,
			check: func(t *testing.T, expr source.Expr) {
				t.Helper()

				assert.Equal(t, "red", expr.(*source.UnresolvedMember).Member)
				assert.Equal(t, "Color", expr.TypeName())
			},
		},
		{
			name:  "trailing closure",
			input: `(call_expr type='[Int]' (member_ref_expr decl=Swift.(file).Array.map (declref_expr type='[Int]' decl=main.(file).xs)) (argument_list (argument trailing (closure_expr type='(Int) -> Int' (parameter_list (parameter "x" type='Int')) (declref_expr type='Int' decl=main.(file).x)))))`,
			check: func(t *testing.T, expr source.Expr) {
				t.Helper()

				call := expr.(*source.Call)
				require.Len(t, call.Args, 1)
				assert.True(t, call.Args[0].Trailing)

				closure := call.Args[0].Value.(*source.Closure)
				assert.IsType(t, &source.Return{}, closure.Body.Items[0])
			},
		},
		{
			name:  "conditional cast",
			input: `(conditional_checked_cast_expr type='Int?' (declref_expr type='Any' decl=main.(file).v))`,
			check: func(t *testing.T, expr source.Expr) {
				t.Helper()

				cast := expr.(*source.Cast)
				assert.Equal(t, "Int", cast.Target)
				assert.Equal(t, source.ConditionalCast, cast.Kind)
			},
		},
		{
			name:  "dictionary pairs",
			input: `(dictionary_expr type='[String : Int]' (tuple_expr (string_literal_expr value="a") (integer_literal_expr value=1)))`,
			check: func(t *testing.T, expr source.Expr) {
				t.Helper()

				dict := expr.(*source.DictionaryLiteral)
				require.Len(t, dict.Entries, 1)
				assert.Equal(t, "a", dict.Entries[0].Key.(*source.StringLiteral).Value)
			},
		},
		{
			name:  "transparent wrappers",
			input: `(load_expr type='Int' (inject_into_optional (declref_expr type='Int' decl=main.(file).n)))`,
			check: func(t *testing.T, expr source.Expr) {
				t.Helper()

				assert.Equal(t, "n", expr.(*source.DeclRef).Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := dump.Decode(tt.input)
			require.NoError(t, err)

			expr, err := source.BuildExpr(root)
			require.NoError(t, err)
			tt.check(t, expr)
		})
	}
}

func TestDeclName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"main.(file).Point.move(by:).x@/tmp/my dir/a.swift:3:7": "x",
		"main.(file).f(_:)":                                     "f",
		"print":                                                 "print",
		"Swift.(file).Array.count":                              "count",
	}

	for path, want := range tests {
		assert.Equal(t, want, source.DeclName(path), path)
	}
}

func TestResultTypeAndList(t *testing.T) {
	t.Parallel()

	result, ok := source.ResultType("(Point) -> (Int) -> [String : Int]")
	require.True(t, ok)
	assert.Equal(t, "[String : Int]", result)

	_, ok = source.ResultType("Int")
	assert.False(t, ok)

	assert.Equal(t, []string{"A", "B<C, D>", "E"}, source.ParseList(`A, B<C, D>, 'E'`))
	assert.Empty(t, source.ParseList(""))
}
