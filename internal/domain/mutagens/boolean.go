package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/mordant-dev/mordant/internal/model"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// Boolean flips boolean literals (true <-> false).
type Boolean struct{}

// Type implements Mutator.
func (Boolean) Type() m.MutationType {
	return m.MutationBoolean
}

// Inspect implements Mutator.
func (Boolean) Inspect(file *ast.File, fset *token.FileSet, content []byte) []Candidate {
	var candidates []Candidate

	ast.Inspect(file, func(n ast.Node) bool {
		ident, ok := n.(*ast.Ident)
		if !ok || !isBooleanLiteral(ident.Name) {
			return true
		}

		candidates = append(candidates, candidateAt(
			m.MutationBoolean, fset, ident.Pos(), content,
			ident.Name, flipBoolean(ident.Name)))

		return true
	})

	return candidates
}

func isBooleanLiteral(name string) bool {
	return name == trueStr || name == falseStr
}

func flipBoolean(original string) string {
	if original == trueStr {
		return falseStr
	}

	return trueStr
}
