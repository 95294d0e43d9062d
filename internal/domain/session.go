package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mordant-dev/mordant/internal/adapter"
	m "github.com/mordant-dev/mordant/internal/model"
	"github.com/mordant-dev/mordant/pkg"
)

// Process is the language-specific side of the pipeline: it produces the
// mutants, filters them by policy and restores the project afterwards.
// Implementations never run tests; that is the session's job.
type Process interface {
	Mutate(ctx context.Context) ([]*m.Mutant, error)
	FilterMutants(ctx context.Context, mutants []*m.Mutant) ([]*m.Mutant, error)
	Restore(ctx context.Context) error
}

// Session sequences one mutation-testing pass:
// mutate → filter → coverage → test → restore. It owns the executor for the
// duration of the pass and releases it once all testing completes.
type Session struct {
	process  Process
	analyser adapter.Analyser
	executor adapter.Executor
	baseline *m.BaselineRun
	reporter Reporter
	journal  *pkg.Journal[m.Verdict]
	threads  int
	opts     Options
}

// NewSession wires a Session. reporter may be nil; journal must not be.
func NewSession(
	process Process,
	analyser adapter.Analyser,
	executor adapter.Executor,
	baseline *m.BaselineRun,
	reporter Reporter,
	journal *pkg.Journal[m.Verdict],
	threads int,
	opts Options,
) *Session {
	return &Session{
		process:  process,
		analyser: analyser,
		executor: executor,
		baseline: baseline,
		reporter: reporter,
		journal:  journal,
		threads:  threads,
		opts:     opts,
	}
}

// Run executes the full pipeline and returns the session's mutation score.
// The project is restored and the executor released regardless of how
// testing ends.
func (s *Session) Run(ctx context.Context) (score float64, err error) {
	defer func() {
		err = errors.Join(err, s.process.Restore(ctx), s.executor.Close())
	}()

	mutants, err := s.process.Mutate(ctx)
	if err != nil {
		return math.NaN(), fmt.Errorf("mutate: %w", err)
	}

	mutants, err = s.process.FilterMutants(ctx, mutants)
	if err != nil {
		return math.NaN(), fmt.Errorf("filter mutants: %w", err)
	}

	runnable := s.settleFiltered(mutants)

	if err := s.analyser.DetermineCoverage(ctx, s.executor, runnable, s.baseline.FailingTests); err != nil {
		return math.NaN(), fmt.Errorf("determine coverage: %w", err)
	}

	runnable = s.settleUncovered(runnable)

	return s.Test(ctx, runnable)
}

// TestingObserver is implemented by reporters that want to know how many
// mutants enter scheduling before results start arriving.
type TestingObserver interface {
	TestingStarted(total int)
}

// Test runs the scheduling/execution/reconciliation pipeline over mutants.
// An empty collection is answered with NaN and no executor invocation.
// Receiving any mutant that is not in the not-run state is a contract
// violation and aborts the session.
func (s *Session) Test(ctx context.Context, mutants []*m.Mutant) (float64, error) {
	if len(mutants) == 0 {
		slog.Debug("no mutants to test")
		return math.NaN(), nil
	}

	for _, mu := range mutants {
		if mu.Status != m.NotRun {
			return math.NaN(), fmt.Errorf(
				"mutant %d entered test scheduling with status %s; only not-run mutants can be scheduled",
				mu.ID, mu.Status)
		}
	}

	if observer, ok := s.reporter.(TestingObserver); ok {
		observer.TestingStarted(len(mutants))
	}

	groups := GroupMutants(mutants, s.baseline.TotalTests(), s.opts)

	coordinator := NewCoordinator(s.executor, s.baseline, s.reporter, s.journal, s.threads, s.opts)
	if err := coordinator.Run(ctx, groups); err != nil {
		return math.NaN(), err
	}

	// All groups have finished; the journal now holds the session-wide
	// statistics.
	return mutationScoreFromJournal(s.journal)
}

// settleFiltered journals and reports mutants the filter already decided
// (ignored, compile errors) and returns the rest.
func (s *Session) settleFiltered(mutants []*m.Mutant) []*m.Mutant {
	runnable := make([]*m.Mutant, 0, len(mutants))

	for _, mu := range mutants {
		if mu.Status == m.NotRun {
			runnable = append(runnable, mu)
			continue
		}

		s.settle(mu)
	}

	return runnable
}

// settleUncovered journals mutants whose coverage came back empty: no test
// exercises them, so running anything would be wasted.
func (s *Session) settleUncovered(mutants []*m.Mutant) []*m.Mutant {
	runnable := make([]*m.Mutant, 0, len(mutants))

	for _, mu := range mutants {
		if !mu.AssessingTests.IsEveryTest() && mu.AssessingTests.Count() == 0 {
			mu.Status = m.NoCoverage
			s.settle(mu)

			continue
		}

		runnable = append(runnable, mu)
	}

	return runnable
}

func (s *Session) settle(mu *m.Mutant) {
	if err := s.journal.Append(m.VerdictFor(mu)); err != nil {
		slog.Error("failed to journal verdict", "mutant", mu.ID, "error", err)
	}

	if s.reporter != nil {
		s.reporter.MutantTested(mu)
	}
}
