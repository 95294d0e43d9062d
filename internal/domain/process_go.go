package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mordant-dev/mordant/internal/adapter"
	m "github.com/mordant-dev/mordant/internal/model"
)

// goProcess is the Go implementation of Process. Mutations are only ever
// applied to staged temporary copies, so Restore reduces to verifying that
// the original sources were left untouched.
type goProcess struct {
	workspace adapter.Workspace
	mutagen   Mutagen
	root      m.Path
	exclude   []string
	types     []m.MutationType

	scanned []m.Source
}

// NewGoProcess builds the Go mutation process.
func NewGoProcess(deps ProcessDeps) Process {
	return &goProcess{
		workspace: deps.Workspace,
		mutagen:   NewMutagen(deps.Workspace),
		root:      deps.Root,
		exclude:   deps.Exclude,
		types:     deps.Types,
	}
}

// Mutate scans the project and generates every candidate mutant with a
// stable, session-unique id.
func (p *goProcess) Mutate(ctx context.Context) ([]*m.Mutant, error) {
	sources, err := p.workspace.Sources(p.root, p.exclude)
	if err != nil {
		return nil, fmt.Errorf("scan sources: %w", err)
	}

	p.scanned = sources

	var mutants []*m.Mutant

	nextID := uint(1)

	for _, source := range sources {
		generated, err := p.mutagen.GenerateMutants(ctx, source)
		if err != nil {
			return nil, err
		}

		for _, mu := range generated {
			mu.ID = nextID
			nextID++
		}

		mutants = append(mutants, generated...)
	}

	slog.Info("generated mutants", "sources", len(sources), "mutants", len(mutants))

	return mutants, nil
}

// FilterMutants marks mutants of disallowed mutation types as ignored. An
// empty allow-list keeps everything.
func (p *goProcess) FilterMutants(_ context.Context, mutants []*m.Mutant) ([]*m.Mutant, error) {
	if len(p.types) == 0 {
		return mutants, nil
	}

	allowed := make(map[m.MutationType]struct{}, len(p.types))
	for _, mutationType := range p.types {
		allowed[mutationType] = struct{}{}
	}

	ignored := 0

	for _, mu := range mutants {
		if _, ok := allowed[mu.Type]; !ok {
			mu.Status = m.Ignored
			ignored++
		}
	}

	if ignored > 0 {
		slog.Info("ignored mutants by type policy", "ignored", ignored)
	}

	return mutants, nil
}

// Restore verifies that no scanned source changed during the session.
// Mutated code only ever lands in staged copies; a hash mismatch means
// something outside this process touched the project mid-run.
func (p *goProcess) Restore(_ context.Context) error {
	var changed []string

	for _, source := range p.scanned {
		hash, err := p.workspace.HashFile(source.Origin.Path)
		if err != nil {
			return fmt.Errorf("verify %s: %w", source.Origin.Path, err)
		}

		if hash != source.Origin.Hash {
			changed = append(changed, string(source.Origin.Path))
		}
	}

	if len(changed) > 0 {
		return fmt.Errorf("sources changed during session: %s", strings.Join(changed, ", "))
	}

	return nil
}
