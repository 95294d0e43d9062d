package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	m "github.com/mordant-dev/mordant/internal/model"
)

// Analyser determines, for each mutant, which tests exercise the mutated
// code location. It mutates the collection in place by assigning
// AssessingTests. Tests already failing in the baseline carry no signal and
// must be ignored by any implementation.
type Analyser interface {
	DetermineCoverage(ctx context.Context, executor Executor, mutants []*m.Mutant, baselineFailing m.TestSet) error
}

// NoAnalyser is the coverage-off implementation: every mutant is assessed
// against the entire suite.
type NoAnalyser struct{}

// NewNoAnalyser constructs a NoAnalyser.
func NewNoAnalyser() *NoAnalyser {
	return &NoAnalyser{}
}

// DetermineCoverage assigns the whole-suite sentinel to every mutant.
func (a *NoAnalyser) DetermineCoverage(ctx context.Context, _ Executor, mutants []*m.Mutant, _ m.TestSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, mu := range mutants {
		mu.AssessingTests = m.EveryTest()
	}

	return nil
}

// coverageFile is the on-disk shape consumed by FileAnalyser: a map from
// "<file>:<line>:<column>" location keys to the tests covering them.
type coverageFile struct {
	Coverage map[string][]string `yaml:"coverage"`
}

// FileAnalyser loads a precomputed location→tests map from a YAML file,
// the format emitted by external per-test profiling runs. Locations absent
// from the map fall back to the whole-suite sentinel; locations mapped to
// an empty list yield an empty set, which the session turns into a
// no-coverage verdict.
type FileAnalyser struct {
	path m.Path
}

// NewFileAnalyser constructs a FileAnalyser reading from path.
func NewFileAnalyser(path m.Path) *FileAnalyser {
	return &FileAnalyser{path: path}
}

// DetermineCoverage assigns each mutant the covering tests recorded for its
// source location, minus the baseline's failing tests.
func (a *FileAnalyser) DetermineCoverage(ctx context.Context, _ Executor, mutants []*m.Mutant, baselineFailing m.TestSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := os.ReadFile(string(a.path))
	if err != nil {
		return fmt.Errorf("read coverage map: %w", err)
	}

	var parsed coverageFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse coverage map %s: %w", a.path, err)
	}

	for _, mu := range mutants {
		tests, ok := parsed.Coverage[locationKey(mu)]
		if !ok {
			mu.AssessingTests = m.EveryTest()
			continue
		}

		ids := make([]m.TestID, 0, len(tests))
		for _, test := range tests {
			ids = append(ids, m.TestID(test))
		}

		mu.AssessingTests = m.NewTestSet(ids...).Without(baselineFailing)
	}

	slog.Debug("assigned coverage to mutants", "mutants", len(mutants), "map", a.path)

	return nil
}

func locationKey(mu *m.Mutant) string {
	var file string
	if mu.Source.Origin != nil {
		file = string(mu.Source.Origin.Path)
	}

	return fmt.Sprintf("%s:%d:%d", file, mu.Line, mu.Column)
}
