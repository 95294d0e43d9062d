package domain

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"

	"github.com/mordant-dev/mordant/internal/adapter"
	"github.com/mordant-dev/mordant/internal/domain/mutagens"
	m "github.com/mordant-dev/mordant/internal/model"
)

// Mutagen turns a source file into its candidate mutants. Identity is not
// assigned here; the owning process numbers mutants across all sources.
type Mutagen interface {
	GenerateMutants(ctx context.Context, source m.Source) ([]*m.Mutant, error)
}

type mutagen struct {
	workspace adapter.Workspace
	mutators  []mutagens.Mutator
}

// NewMutagen creates a Mutagen running every shipped mutation operator.
func NewMutagen(workspace adapter.Workspace) Mutagen {
	return &mutagen{
		workspace: workspace,
		mutators:  mutagens.All(),
	}
}

func (mg *mutagen) GenerateMutants(ctx context.Context, source m.Source) ([]*m.Mutant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if source.Origin == nil || source.Origin.Path == "" {
		return nil, fmt.Errorf("missing source origin")
	}

	content, err := mg.workspace.ReadFile(source.Origin.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source.Origin.Path, err)
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, string(source.Origin.Path), content, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source.Origin.Path, err)
	}

	var mutants []*m.Mutant

	for _, mutator := range mg.mutators {
		for _, candidate := range mutator.Inspect(file, fset, content) {
			mutants = append(mutants, &m.Mutant{
				Type:        candidate.Type,
				Source:      source,
				Line:        candidate.Line,
				Column:      candidate.Column,
				Original:    candidate.Original,
				Mutated:     candidate.Mutated,
				MutatedCode: candidate.MutatedCode,
				Status:      m.NotRun,
			})
		}
	}

	return mutants, nil
}
