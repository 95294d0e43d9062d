// Package adapter contains infrastructure adapters for the mordant engine.
package adapter

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	m "github.com/mordant-dev/mordant/internal/model"
)

// OutcomeFunc receives one incremental result slice and returns whether the
// run should continue. Returning false stops the remaining planned test
// execution for that run only.
type OutcomeFunc func(outcome m.RunOutcome) bool

// Executor abstracts the test-execution mechanism. Run executes the tests
// covering the group under the given timeout policy, invoking onOutcome
// zero or more times as results arrive. The executor owns the test-process
// lifecycle; Close releases it once all testing completes.
type Executor interface {
	Run(ctx context.Context, group m.MutantGroup, timeout m.TimeoutPolicy, onOutcome OutcomeFunc) error
	Close() error
}

// GoTestExecutor runs mutant groups with `go test`. For each run it stages
// a temporary copy of the project, writes the mutated files into it and
// streams per-test verdicts from `go test -v` output as incremental
// outcomes.
type GoTestExecutor struct {
	workspace   Workspace
	projectRoot m.Path
}

// NewGoTestExecutor constructs a GoTestExecutor rooted at projectRoot.
func NewGoTestExecutor(workspace Workspace, projectRoot m.Path) *GoTestExecutor {
	return &GoTestExecutor{
		workspace:   workspace,
		projectRoot: projectRoot,
	}
}

// Run executes the group's tests. Mutants touching the same file cannot
// share one staged workspace, so the group is split into waves of
// file-distinct mutants; each wave gets its own staging and its own test
// process, and outcomes name only the wave's mutants.
func (e *GoTestExecutor) Run(ctx context.Context, group m.MutantGroup, timeout m.TimeoutPolicy, onOutcome OutcomeFunc) error {
	for _, wave := range splitByFile(group.Mutants) {
		proceed, err := e.runWave(ctx, wave, timeout, onOutcome)
		if err != nil {
			return err
		}

		if !proceed {
			return nil
		}
	}

	return nil
}

// Close implements Executor. Test processes live only as long as each run,
// so there is nothing to release.
func (e *GoTestExecutor) Close() error {
	return nil
}

func (e *GoTestExecutor) runWave(ctx context.Context, wave []*m.Mutant, timeout m.TimeoutPolicy, onOutcome OutcomeFunc) (bool, error) {
	staged, err := e.workspace.Stage(ctx, e.projectRoot)
	if err != nil {
		return false, fmt.Errorf("stage workspace: %w", err)
	}
	defer e.workspace.Discard(ctx, staged)

	planned := m.TestSet{}
	for _, mu := range wave {
		if err := e.workspace.Apply(ctx, e.projectRoot, staged, mu.Source.Origin.Path, mu.MutatedCode); err != nil {
			return false, fmt.Errorf("apply mutant %d: %w", mu.ID, err)
		}

		planned = planned.Merge(mu.AssessingTests)
	}

	return e.streamGoTest(ctx, staged, wave, planned, timeout, onOutcome)
}

// streamGoTest launches `go test -v` limited to the planned tests and turns
// every completed top-level test into one incremental outcome.
func (e *GoTestExecutor) streamGoTest(ctx context.Context, dir m.Path, wave []*m.Mutant, planned m.TestSet, timeout m.TimeoutPolicy, onOutcome OutcomeFunc) (bool, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout.ForRun())
	defer cancel()

	args := []string{"test", "-v"}
	if pattern := runPattern(planned); pattern != "" {
		args = append(args, "-run", pattern)
	}

	args = append(args, "./...")

	cmd := exec.CommandContext(runCtx, "go", args...)
	cmd.Dir = string(dir)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return false, fmt.Errorf("pipe go test output: %w", err)
	}

	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("start go test: %w", err)
	}

	proceed := true
	ran := m.TestSet{}
	scanner := bufio.NewScanner(stdout)

	for scanner.Scan() {
		test, failed, ok := parseTestLine(scanner.Text())
		if !ok {
			continue
		}

		ran = ran.Merge(m.NewTestSet(test))
		outcome := m.RunOutcome{Mutants: wave, Ran: m.NewTestSet(test)}

		if failed {
			outcome.Failed = m.NewTestSet(test)
		}

		if proceed = onOutcome(outcome); !proceed {
			cancel()
			break
		}
	}

	waitErr := cmd.Wait()

	if !proceed {
		// Bail requested: the kill-induced exit error is expected.
		return false, nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		// The run hit the mutation timeout: everything planned but not
		// finished counts as timed out. The callback still decides whether
		// later waves should run.
		proceed = onOutcome(m.RunOutcome{Mutants: wave, Ran: ran, TimedOut: timedOutTests(planned, ran)})
		return proceed, nil
	}

	if waitErr != nil {
		slog.Debug("go test exited non-zero", "dir", dir, "error", waitErr)
	}

	return true, nil
}

// splitByFile partitions mutants into waves with at most one mutant per
// source file, preserving order.
func splitByFile(mutants []*m.Mutant) [][]*m.Mutant {
	var waves [][]*m.Mutant

	pending := mutants
	for len(pending) > 0 {
		seen := make(map[m.Path]struct{}, len(pending))

		var wave, rest []*m.Mutant

		for _, mu := range pending {
			path := mu.Source.Origin.Path
			if _, dup := seen[path]; dup {
				rest = append(rest, mu)
				continue
			}

			seen[path] = struct{}{}
			wave = append(wave, mu)
		}

		waves = append(waves, wave)
		pending = rest
	}

	return waves
}

// runPattern builds the -run regex for an explicit test set. The sentinel
// returns "" so the whole suite runs.
func runPattern(planned m.TestSet) string {
	if planned.IsEveryTest() {
		return ""
	}

	ids := planned.IDs()
	names := make([]string, 0, len(ids))

	for _, id := range ids {
		names = append(names, regexp.QuoteMeta(string(id)))
	}

	return "^(" + strings.Join(names, "|") + ")$"
}

// parseTestLine extracts the verdict from one `go test -v` output line.
// Only top-level tests are reported; subtest lines are indented and
// intentionally skipped.
func parseTestLine(line string) (test m.TestID, failed bool, ok bool) {
	var rest string

	switch {
	case strings.HasPrefix(line, "--- PASS: "):
		rest = strings.TrimPrefix(line, "--- PASS: ")
	case strings.HasPrefix(line, "--- FAIL: "):
		rest = strings.TrimPrefix(line, "--- FAIL: ")
		failed = true
	case strings.HasPrefix(line, "--- SKIP: "):
		rest = strings.TrimPrefix(line, "--- SKIP: ")
	default:
		return "", false, false
	}

	name, _, found := strings.Cut(rest, " ")
	if !found || name == "" {
		return "", false, false
	}

	return m.TestID(name), failed, true
}

// timedOutTests computes the tests still owed when the run's deadline hit.
func timedOutTests(planned, ran m.TestSet) m.TestSet {
	if planned.IsEveryTest() {
		return m.EveryTest()
	}

	return planned.Without(ran)
}
