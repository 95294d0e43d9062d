package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/mordant-dev/mordant/internal/model"
)

// Arithmetic mutates arithmetic binary operators (+, -, *, /, %) into each
// alternative operator.
type Arithmetic struct{}

// Type implements Mutator.
func (Arithmetic) Type() m.MutationType {
	return m.MutationArithmetic
}

// Inspect implements Mutator.
func (Arithmetic) Inspect(file *ast.File, fset *token.FileSet, content []byte) []Candidate {
	var candidates []Candidate

	ast.Inspect(file, func(n ast.Node) bool {
		binExpr, ok := n.(*ast.BinaryExpr)
		if !ok || !isArithmeticOp(binExpr.Op) {
			return true
		}

		for _, alternative := range arithmeticAlternatives(binExpr.Op) {
			candidates = append(candidates, candidateAt(
				m.MutationArithmetic, fset, binExpr.OpPos, content,
				binExpr.Op.String(), alternative.String()))
		}

		return true
	})

	return candidates
}

func isArithmeticOp(op token.Token) bool {
	return op == token.ADD || op == token.SUB || op == token.MUL || op == token.QUO || op == token.REM
}

func arithmeticAlternatives(original token.Token) []token.Token {
	allOps := []token.Token{token.ADD, token.SUB, token.MUL, token.QUO, token.REM}

	var alternatives []token.Token

	for _, op := range allOps {
		if op != original {
			alternatives = append(alternatives, op)
		}
	}

	return alternatives
}
