package dump_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

func TestDecode_Attributes(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(var_decl "x" 'Int' let type='Int' access=private [bracket body] ` +
		`interface type='(Int) -> Int' range=[/tmp/a.swift:1:5 - line:1:14])`)
	require.NoError(t, err)

	assert.Equal(t, "var_decl", root.Name)
	assert.Equal(t, []string{"x", "Int", "let", "bracket body"}, root.Standalone)
	assert.Equal(t, "Int", root.Keyed["type"])
	assert.Equal(t, "private", root.Keyed["access"])
	assert.Equal(t, "(Int) -> Int", root.Keyed["interface type"])
	assert.NotContains(t, root.Keyed, "range")

	require.NotNil(t, root.Range)
	assert.Equal(t, dump.Range{File: "/tmp/a.swift", StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 14}, *root.Range)
}

func TestDecode_Children(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`
(source_file "a.swift"
  (top_level_code_decl
    (brace_stmt implicit
      (call_expr type='()'))))`)
	require.NoError(t, err)

	assert.Equal(t, "source_file", root.Name)
	require.Len(t, root.Children, 1)

	brace := root.Children[0].Child("brace_stmt")
	require.NotNil(t, brace)
	assert.True(t, brace.HasFlag("implicit"))
	assert.Equal(t, "()", brace.Children[0].AttrOr("type", ""))
	assert.Equal(t, 4, brace.Pos.Line)
}

func TestDecode_DeclarationPathWithParentheses(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(declref_expr type='Int' decl=main.(file).Point.move(by:).x@/tmp/my dir/a.swift:3:7 function_ref=unapplied)`)
	require.NoError(t, err)

	assert.Equal(t, "main.(file).Point.move(by:).x@/tmp/my dir/a.swift:3:7", root.Keyed["decl"])
	assert.Equal(t, "unapplied", root.Keyed["function_ref"])
}

func TestDecode_LocationWithSpaces(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(pattern_named location=/path/to file with spaces/a.swift:12:5 "x")`)
	require.NoError(t, err)

	assert.Equal(t, "/path/to file with spaces/a.swift:12:5", root.Keyed["location"])
	assert.Equal(t, []string{"x"}, root.Standalone)

	loc, ok := dump.ParseLocation(root.Keyed["location"])
	require.True(t, ok)
	assert.Equal(t, dump.Location{File: "/path/to file with spaces/a.swift", Line: 12, Column: 5}, loc)
}

func TestDecode_ComposedKeyPrecedence(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(func_decl "f" result type=Int interface type='() -> Int')`)
	require.NoError(t, err)

	assert.Equal(t, "Int", root.Keyed["result type"])
	assert.Equal(t, "() -> Int", root.Keyed["interface type"])
	assert.Equal(t, []string{"f"}, root.Standalone)
}

func TestDecode_LineJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "deeper continuation is joined",
			input: "(decl long_ident\n          ifier)",
			want:  []string{"long_identifier"},
		},
		{
			name:  "same indentation ends the token",
			input: "(decl first\n second)",
			want:  []string{"first", "second"},
		},
		{
			name:  "child on next line is not joined",
			input: "(decl first\n               (child))",
			want:  []string{"first"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := dump.Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, root.Standalone)
		})
	}
}

func TestDecode_EmptyKeyValue(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(call_expr arg_labels= nothrow)`)
	require.NoError(t, err)

	value, ok := root.Attr("arg_labels")
	assert.True(t, ok)
	assert.Empty(t, value)
	assert.True(t, root.HasFlag("nothrow"))
}

func TestDecode_EscapedStrings(t *testing.T) {
	t.Parallel()

	root, err := dump.Decode(`(string_literal_expr value="say \"hi\"\n")`)
	require.NoError(t, err)

	assert.Equal(t, "say \"hi\"\n", root.Keyed["value"])
}

func TestDecode_MissingCloseParen(t *testing.T) {
	t.Parallel()

	_, err := dump.Decode("(source_file\n  (call_expr type='()'\n    (declref_expr decl=print)")
	require.Error(t, err)
	require.ErrorIs(t, err, dump.ErrMalformedInput)

	var malformed *dump.MalformedTreeError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, dump.ReasonMissingClose, malformed.Reason)
	assert.Equal(t, "decl=print", malformed.LastToken)
	assert.Equal(t, 3, malformed.Pos.Line)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{name: "empty", input: "   ", reason: dump.ReasonExpectedOpen},
		{name: "no paren", input: "source_file", reason: dump.ReasonExpectedOpen},
		{name: "missing name", input: "( )", reason: dump.ReasonMissingName},
		{name: "unterminated string", input: `(a "abc)`, reason: dump.ReasonUnterminatedString},
		{name: "unterminated bracket", input: `(a [abc)`, reason: dump.ReasonUnterminatedBrack},
		{name: "trailing content", input: `(a) (b)`, reason: dump.ReasonTrailingContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := dump.Decode(tt.input)

			var malformed *dump.MalformedTreeError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.reason, malformed.Reason)
		})
	}
}

func TestDecode_IterationCap(t *testing.T) {
	t.Parallel()

	decoder := &dump.Decoder{MaxIterations: 3}

	_, err := decoder.Decode(`(a b c d e f g)`)

	var malformed *dump.MalformedTreeError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, dump.ReasonIterationCap, malformed.Reason)
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	rng, ok := dump.ParseRange("/a b/c.swift:2:3 - line:4:10")
	require.True(t, ok)
	assert.Equal(t, &dump.Range{File: "/a b/c.swift", StartLine: 2, StartCol: 3, EndLine: 4, EndCol: 10}, rng)

	_, ok = dump.ParseRange("not a range")
	assert.False(t, ok)
}
