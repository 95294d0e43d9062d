package mutagens

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mordant-dev/mordant/internal/model"
)

func inspect(t *testing.T, mutator Mutator, src string) []Candidate {
	t.Helper()

	content := []byte(src)
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, "src.go", content, parser.ParseComments)
	require.NoError(t, err)

	return mutator.Inspect(file, fset, content)
}

func TestArithmetic_GeneratesAllAlternatives(t *testing.T) {
	src := `package p

func add(a, b int) int { return a + b }
`

	candidates := inspect(t, Arithmetic{}, src)

	// One site, four alternative operators.
	require.Len(t, candidates, 4)

	for _, candidate := range candidates {
		require.Equal(t, m.MutationArithmetic, candidate.Type)
		require.Equal(t, "+", candidate.Original)
		require.NotEqual(t, "+", candidate.Mutated)
		require.Equal(t, 3, candidate.Line)
	}
}

func TestArithmetic_MutatedCodeIsSpliced(t *testing.T) {
	src := `package p

func sub(a, b int) int { return a - b }
`

	candidates := inspect(t, Arithmetic{}, src)
	require.NotEmpty(t, candidates)

	found := false

	for _, candidate := range candidates {
		if candidate.Mutated == "*" {
			require.Contains(t, string(candidate.MutatedCode), "a * b")
			require.NotContains(t, string(candidate.MutatedCode), "a - b")
			found = true
		}
	}

	require.True(t, found)
}

func TestArithmetic_IgnoresNonArithmeticOperators(t *testing.T) {
	src := `package p

func cmp(a, b int) bool { return a == b }
`

	require.Empty(t, inspect(t, Arithmetic{}, src))
}

func TestComparison_BoundaryAlternatives(t *testing.T) {
	cases := []struct {
		src      string
		original string
		mutated  string
	}{
		{`package p; func f(a, b int) bool { return a < b }`, "<", "<="},
		{`package p; func f(a, b int) bool { return a <= b }`, "<=", "<"},
		{`package p; func f(a, b int) bool { return a > b }`, ">", ">="},
		{`package p; func f(a, b int) bool { return a >= b }`, ">=", ">"},
		{`package p; func f(a, b int) bool { return a == b }`, "==", "!="},
		{`package p; func f(a, b int) bool { return a != b }`, "!=", "=="},
	}

	for _, tc := range cases {
		candidates := inspect(t, Comparison{}, tc.src)

		require.Len(t, candidates, 1, tc.src)
		require.Equal(t, tc.original, candidates[0].Original)
		require.Equal(t, tc.mutated, candidates[0].Mutated)
	}
}

func TestBoolean_FlipsLiterals(t *testing.T) {
	src := `package p

var enabled = true

func f() bool { return false }
`

	candidates := inspect(t, Boolean{}, src)
	require.Len(t, candidates, 2)

	require.Equal(t, "true", candidates[0].Original)
	require.Equal(t, "false", candidates[0].Mutated)
	require.Contains(t, string(candidates[0].MutatedCode), "var enabled = false")

	require.Equal(t, "false", candidates[1].Original)
	require.Equal(t, "true", candidates[1].Mutated)
	require.Contains(t, string(candidates[1].MutatedCode), "return true")
}

func TestAll_CoversEveryMutationType(t *testing.T) {
	types := map[m.MutationType]bool{}
	for _, mutator := range All() {
		types[mutator.Type()] = true
	}

	require.True(t, types[m.MutationArithmetic])
	require.True(t, types[m.MutationComparison])
	require.True(t, types[m.MutationBoolean])
}
