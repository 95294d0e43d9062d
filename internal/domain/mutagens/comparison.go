package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/mordant-dev/mordant/internal/model"
)

// comparisonAlternatives maps each comparison operator to its boundary or
// negation counterpart. One alternative per operator keeps the mutant count
// proportional to the number of comparisons.
var comparisonAlternatives = map[token.Token]token.Token{
	token.LSS: token.LEQ,
	token.LEQ: token.LSS,
	token.GTR: token.GEQ,
	token.GEQ: token.GTR,
	token.EQL: token.NEQ,
	token.NEQ: token.EQL,
}

// Comparison mutates comparison operators into their boundary counterpart.
type Comparison struct{}

// Type implements Mutator.
func (Comparison) Type() m.MutationType {
	return m.MutationComparison
}

// Inspect implements Mutator.
func (Comparison) Inspect(file *ast.File, fset *token.FileSet, content []byte) []Candidate {
	var candidates []Candidate

	ast.Inspect(file, func(n ast.Node) bool {
		binExpr, ok := n.(*ast.BinaryExpr)
		if !ok {
			return true
		}

		alternative, ok := comparisonAlternatives[binExpr.Op]
		if !ok {
			return true
		}

		candidates = append(candidates, candidateAt(
			m.MutationComparison, fset, binExpr.OpPos, content,
			binExpr.Op.String(), alternative.String()))

		return true
	})

	return candidates
}
