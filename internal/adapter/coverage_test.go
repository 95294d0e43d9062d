package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mordant-dev/mordant/internal/model"
)

func coverageMutant(id uint, file m.Path, line, column int) *m.Mutant {
	return &m.Mutant{
		ID:     id,
		Source: m.Source{Origin: &m.File{Path: file}},
		Line:   line,
		Column: column,
	}
}

func TestNoAnalyser_AssignsSentinelToEveryMutant(t *testing.T) {
	mutants := []*m.Mutant{
		coverageMutant(1, "a.go", 1, 1),
		coverageMutant(2, "b.go", 2, 2),
	}

	err := NewNoAnalyser().DetermineCoverage(context.Background(), nil, mutants, m.TestSet{})
	require.NoError(t, err)

	for _, mu := range mutants {
		require.True(t, mu.AssessingTests.IsEveryTest())
	}
}

func TestFileAnalyser_AssignsCoverageByLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`coverage:
  "pkg/calc.go:3:26": [TestAdd, TestSum]
  "pkg/calc.go:5:30": []
`), 0o600))

	covered := coverageMutant(1, "pkg/calc.go", 3, 26)
	uncovered := coverageMutant(2, "pkg/calc.go", 5, 30)
	unknown := coverageMutant(3, "pkg/calc.go", 9, 1)

	analyser := NewFileAnalyser(m.Path(path))
	err := analyser.DetermineCoverage(context.Background(), nil, []*m.Mutant{covered, uncovered, unknown}, m.TestSet{})
	require.NoError(t, err)

	require.Equal(t, 2, covered.AssessingTests.Count())
	require.True(t, covered.AssessingTests.Contains("TestAdd"))

	require.False(t, uncovered.AssessingTests.IsEveryTest())
	require.Equal(t, 0, uncovered.AssessingTests.Count())

	require.True(t, unknown.AssessingTests.IsEveryTest())
}

func TestFileAnalyser_StripsBaselineFailingTests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`coverage:
  "calc.go:1:1": [TestGood, TestFlaky]
`), 0o600))

	mu := coverageMutant(1, "calc.go", 1, 1)

	analyser := NewFileAnalyser(m.Path(path))
	err := analyser.DetermineCoverage(context.Background(), nil, []*m.Mutant{mu}, m.NewTestSet("TestFlaky"))
	require.NoError(t, err)

	require.Equal(t, 1, mu.AssessingTests.Count())
	require.True(t, mu.AssessingTests.Contains("TestGood"))
}

func TestFileAnalyser_MissingFile(t *testing.T) {
	analyser := NewFileAnalyser("does-not-exist.yaml")

	err := analyser.DetermineCoverage(context.Background(), nil, nil, m.TestSet{})
	require.ErrorContains(t, err, "read coverage map")
}
