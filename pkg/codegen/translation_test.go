package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinivendra/Gryphon-sub003/pkg/codegen"
	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

func TestTranslation_AppendAndString(t *testing.T) {
	t.Parallel()

	inner := codegen.NewTranslation(nil).Append("b", "", "c")
	tr := codegen.NewTranslation(nil).Append("a").AppendTranslation(inner).AppendTranslation(nil)

	assert.Equal(t, "abc", tr.String())
	assert.False(t, tr.IsEmpty())
	assert.True(t, codegen.NewTranslation(nil).AppendTranslation(codegen.NewTranslation(nil)).IsEmpty())
}

func TestTranslation_AppendTranslationsSkipsEmpty(t *testing.T) {
	t.Parallel()

	children := []*codegen.Translation{
		codegen.NewTranslation(nil).Append("x"),
		codegen.NewTranslation(nil),
		codegen.NewTranslation(nil).Append("y"),
	}

	assert.Equal(t, "x, y", codegen.NewTranslation(nil).AppendTranslations(children, ", ").String())
}

func TestTranslation_DropLastUndoesAppend(t *testing.T) {
	t.Parallel()

	bases := map[string]func() *codegen.Translation{
		"empty": func() *codegen.Translation { return codegen.NewTranslation(nil) },
		"flat":  func() *codegen.Translation { return codegen.NewTranslation(nil).Append("val x") },
		"trailing empty child": func() *codegen.Translation {
			return codegen.NewTranslation(nil).
				Append("val x").
				AppendTranslation(codegen.NewTranslation(nil).Append(" = 1")).
				AppendTranslation(codegen.NewTranslation(nil))
		},
	}

	for name, build := range bases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, suffix := range []string{", ", "\n", " ?: 0"} {
				tr := build()
				before := tr.String()

				tr.Append(suffix)
				require.True(t, tr.DropLast(suffix))
				assert.Equal(t, before, tr.String())
			}
		})
	}
}

func TestTranslation_DropLastAcrossFragments(t *testing.T) {
	t.Parallel()

	tr := codegen.NewTranslation(nil).
		Append("ab").
		AppendTranslation(codegen.NewTranslation(nil).Append("cd")).
		AppendTranslation(codegen.NewTranslation(nil))

	assert.False(t, tr.DropLast("zz"))
	assert.Equal(t, "abcd", tr.String())

	assert.True(t, tr.DropLast("bcd"))
	assert.Equal(t, "a", tr.String())
}

func TestTranslation_ResolveInnermostFirst(t *testing.T) {
	t.Parallel()

	outerRange := &dump.Range{StartLine: 1, StartCol: 1, EndLine: 3, EndCol: 2}
	innerRange := &dump.Range{StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 15}

	inner := codegen.NewTranslation(innerRange).Append(`println("hi")`)
	outer := codegen.NewTranslation(outerRange).Append("if (a) {\n    ").AppendTranslation(inner).Append("\n}")

	text, entries := codegen.NewTranslation(nil).AppendTranslation(outer).Resolve()

	assert.Equal(t, "if (a) {\n    println(\"hi\")\n}", text)
	require.Len(t, entries, 2)

	assert.Equal(t, *innerRange, entries[0].Original)
	assert.Equal(t, codegen.Position{Line: 2, Column: 5}, entries[0].Start)
	assert.Equal(t, codegen.Position{Line: 2, Column: 18}, entries[0].End)
	assert.Equal(t, len(`println("hi")`), entries[0].Length)
	assert.Equal(t, `println("hi")`, text[entries[0].Offset:entries[0].Offset+entries[0].Length])

	assert.Equal(t, *outerRange, entries[1].Original)
	assert.Equal(t, codegen.Position{Line: 1, Column: 1}, entries[1].Start)
	assert.Equal(t, codegen.Position{Line: 3, Column: 2}, entries[1].End)
	assert.Equal(t, len(text), entries[1].Length)
}

func TestFormatMap(t *testing.T) {
	t.Parallel()

	entries := []codegen.MapEntry{{
		Original: dump.Range{StartLine: 3, StartCol: 1, EndLine: 3, EndCol: 9},
		Start:    codegen.Position{Line: 1, Column: 1},
		End:      codegen.Position{Line: 1, Column: 10},
	}}

	assert.Equal(t, "1:1:1:10:3:1:3:9\n", codegen.FormatMap(entries))
	assert.Empty(t, codegen.FormatMap(nil))
}
