package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "github.com/mordant-dev/mordant/internal/model"
)

func TestParseTestLine(t *testing.T) {
	cases := []struct {
		line   string
		test   m.TestID
		failed bool
		ok     bool
	}{
		{"--- PASS: TestAdd (0.00s)", "TestAdd", false, true},
		{"--- FAIL: TestAdd (0.13s)", "TestAdd", true, true},
		{"--- SKIP: TestAdd (0.00s)", "TestAdd", false, true},
		{"    --- FAIL: TestAdd/sub (0.00s)", "", false, false},
		{"=== RUN   TestAdd", "", false, false},
		{"ok  	example.com/demo	0.2s", "", false, false},
		{"--- FAIL: ", "", false, false},
	}

	for _, tc := range cases {
		test, failed, ok := parseTestLine(tc.line)

		require.Equal(t, tc.ok, ok, tc.line)
		require.Equal(t, tc.test, test, tc.line)
		require.Equal(t, tc.failed, failed, tc.line)
	}
}

func TestRunPattern(t *testing.T) {
	require.Equal(t, "^(TestA|TestB)$", runPattern(m.NewTestSet("TestB", "TestA")))
	require.Equal(t, "", runPattern(m.EveryTest()))
}

func TestRunPattern_QuotesMetaCharacters(t *testing.T) {
	require.Equal(t, `^(TestF\.G)$`, runPattern(m.NewTestSet("TestF.G")))
}

func fileMutant(id uint, path m.Path) *m.Mutant {
	return &m.Mutant{ID: id, Source: m.Source{Origin: &m.File{Path: path}}}
}

func TestSplitByFile(t *testing.T) {
	mutants := []*m.Mutant{
		fileMutant(1, "a.go"),
		fileMutant(2, "b.go"),
		fileMutant(3, "a.go"),
		fileMutant(4, "a.go"),
	}

	waves := splitByFile(mutants)

	require.Len(t, waves, 3)
	require.Len(t, waves[0], 2) // mutants 1 and 2
	require.Len(t, waves[1], 1) // mutant 3
	require.Len(t, waves[2], 1) // mutant 4

	require.Equal(t, uint(1), waves[0][0].ID)
	require.Equal(t, uint(2), waves[0][1].ID)
	require.Equal(t, uint(3), waves[1][0].ID)
	require.Equal(t, uint(4), waves[2][0].ID)
}

func TestSplitByFile_DistinctFilesStayTogether(t *testing.T) {
	mutants := []*m.Mutant{
		fileMutant(1, "a.go"),
		fileMutant(2, "b.go"),
	}

	waves := splitByFile(mutants)

	require.Len(t, waves, 1)
	require.Len(t, waves[0], 2)
}

func TestGoTestExecutor_TimeoutBailStopsLaterWaves(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns go test")
	}

	project := t.TempDir()
	source := filepath.Join(project, "sandbox.go")

	require.NoError(t, os.WriteFile(filepath.Join(project, "go.mod"),
		[]byte("module sandbox\n\ngo 1.21\n"), 0o600))
	require.NoError(t, os.WriteFile(source,
		[]byte("package sandbox\n\nfunc Answer() int { return 42 }\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(project, "sandbox_test.go"),
		[]byte("package sandbox\n\nimport (\n\t\"testing\"\n\t\"time\"\n)\n\nfunc TestSleeps(t *testing.T) {\n\ttime.Sleep(5 * time.Second)\n\t_ = Answer()\n}\n"), 0o600))

	content, err := os.ReadFile(source)
	require.NoError(t, err)

	mutantOn := func(id uint) *m.Mutant {
		return &m.Mutant{
			ID:             id,
			Source:         m.Source{Origin: &m.File{Path: m.Path(source)}},
			MutatedCode:    content,
			AssessingTests: m.NewTestSet("TestSleeps"),
		}
	}

	// Same file twice forces two waves; bailing on the first wave's
	// timeout outcome must keep the second wave from ever running.
	group := m.MutantGroup{Mutants: []*m.Mutant{mutantOn(1), mutantOn(2)}}
	timeout := m.TimeoutPolicy{
		BaselineDuration: 100 * time.Millisecond,
		Factor:           1,
		Margin:           150 * time.Millisecond,
	}

	executor := NewGoTestExecutor(NewLocalWorkspace(), m.Path(project))

	var outcomes []m.RunOutcome
	err = executor.Run(context.Background(), group, timeout, func(outcome m.RunOutcome) bool {
		outcomes = append(outcomes, outcome)
		return false
	})

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].TimedOut.Contains("TestSleeps"))
}

func TestTimedOutTests(t *testing.T) {
	planned := m.NewTestSet("TestA", "TestB")
	ran := m.NewTestSet("TestA")

	timedOut := timedOutTests(planned, ran)

	require.Equal(t, 1, timedOut.Count())
	require.True(t, timedOut.Contains("TestB"))

	require.True(t, timedOutTests(m.EveryTest(), ran).IsEveryTest())
}
