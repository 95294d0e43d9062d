// Package mutagens provides the mutation operators for Go source code.
package mutagens

import (
	"go/ast"
	"go/token"

	m "github.com/mordant-dev/mordant/internal/model"
)

// Candidate is one mutation site found by a Mutator. It carries the full
// mutated file content; identity is assigned later by the process.
type Candidate struct {
	Type        m.MutationType
	Line        int
	Column      int
	Original    string
	Mutated     string
	MutatedCode []byte
}

// Mutator finds the mutation sites of one category in a parsed file.
type Mutator interface {
	Type() m.MutationType
	Inspect(file *ast.File, fset *token.FileSet, content []byte) []Candidate
}

// All returns every shipped mutator.
func All() []Mutator {
	return []Mutator{Arithmetic{}, Comparison{}, Boolean{}}
}

// splice returns a copy of content with the bytes at offset replaced by
// mutated. The original file content is never modified.
func splice(content []byte, offset int, original, mutated string) []byte {
	out := make([]byte, 0, len(content)-len(original)+len(mutated))
	out = append(out, content[:offset]...)
	out = append(out, mutated...)
	out = append(out, content[offset+len(original):]...)

	return out
}

func candidateAt(mutationType m.MutationType, fset *token.FileSet, pos token.Pos, content []byte, original, mutated string) Candidate {
	position := fset.Position(pos)

	return Candidate{
		Type:        mutationType,
		Line:        position.Line,
		Column:      position.Column,
		Original:    original,
		Mutated:     mutated,
		MutatedCode: splice(content, position.Offset, original, mutated),
	}
}
