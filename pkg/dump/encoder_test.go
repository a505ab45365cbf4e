package dump_test

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinivendra/Gryphon-sub003/pkg/dump"
)

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`(source_file "a.swift")`,
		`(func_decl "f(x:)" interface type='(Int) -> Int' access=internal range=[/tmp/a b.swift:1:1 - line:3:2]
  (parameter_list
    (parameter "x" type='Int'))
  (brace_stmt
    (return_stmt
      (declref_expr type='Int' decl=main.(file).f(x:).x@/tmp/a.swift:1:8))))`,
		`(string_literal_expr value="quote \" and\nnewline" [x y] interface)`,
		`(pattern_named location=/path/to file with spaces:2:3 "x" arg_labels=)`,
	}

	for idx, input := range inputs {
		t.Run(strconv.Itoa(idx), func(t *testing.T) {
			t.Parallel()

			original, err := dump.Decode(input)
			require.NoError(t, err)

			encoded := dump.Encode(original)

			decoded, err := dump.Decode(encoded)
			require.NoError(t, err, encoded)
			assert.True(t, dump.Equal(original, decoded), "round trip changed the tree:\n%s", encoded)
			assert.Equal(t, encoded, dump.Encode(decoded))
		})
	}
}

func TestEncode_RoundTripGenerated(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))

	for iteration := range 200 {
		tree := randomNode(rng, 0)
		encoded := dump.Encode(tree)

		decoded, err := dump.Decode(encoded)
		require.NoError(t, err, "iteration %d:\n%s", iteration, encoded)
		require.True(t, dump.Equal(tree, decoded), "iteration %d:\n%s", iteration, encoded)
	}
}

var (
	generatedNames  = []string{"call_expr", "brace_stmt", "declref_expr", "x", "a.b"}
	generatedAtoms  = []string{"x", "implicit", "a b", "quote\"d", "", "(paren)", "line\nbreak", "interface", "k=v", "[br]", "-", "@"}
	generatedKeys   = []string{"type", "decl", "location", "access", "interface type", "result type", "captured type", "arg_labels"}
	generatedValues = []string{"Int", "'(Int) -> Int'", "/tmp/a b.swift:3:4", "main.(file).f(x:)", "", "a@/x y.swift:1:2", "plain"}
)

func randomNode(rng *rand.Rand, depth int) *dump.Node {
	node := &dump.Node{Name: generatedNames[rng.IntN(len(generatedNames))]}

	for range rng.IntN(3) {
		node.Standalone = append(node.Standalone, generatedAtoms[rng.IntN(len(generatedAtoms))])
	}

	for range rng.IntN(3) {
		if node.Keyed == nil {
			node.Keyed = make(map[string]string)
		}

		node.Keyed[generatedKeys[rng.IntN(len(generatedKeys))]] = generatedValues[rng.IntN(len(generatedValues))]
	}

	if rng.IntN(2) == 0 {
		line := 1 + rng.IntN(50)
		node.Range = &dump.Range{File: "/src/unit file.swift", StartLine: line, StartCol: 1 + rng.IntN(9), EndLine: line + rng.IntN(3), EndCol: 1 + rng.IntN(40)}
	}

	if depth < 3 {
		for range rng.IntN(3) {
			node.Children = append(node.Children, randomNode(rng, depth+1))
		}
	}

	return node
}
