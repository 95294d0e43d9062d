package domain

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mordant-dev/mordant/internal/adapter"
	m "github.com/mordant-dev/mordant/internal/model"
	"github.com/mordant-dev/mordant/pkg"
)

// Reporter receives a notification each time a mutant reaches a terminal
// status. Implementations must tolerate concurrent calls; a nil Reporter is
// valid and simply skips notifications.
type Reporter interface {
	MutantTested(mu *m.Mutant)
}

// Coordinator dispatches mutant groups to the executor under a bounded
// concurrency budget and reconciles each group's incremental outcomes
// against the baseline. Groups are independent: a bail decision in one
// group never affects another group's run.
type Coordinator struct {
	executor adapter.Executor
	baseline *m.BaselineRun
	reporter Reporter
	journal  *pkg.Journal[m.Verdict]
	threads  int
	opts     Options
}

// NewCoordinator wires a Coordinator. journal and reporter may be nil when
// persistence or notifications are not wanted.
func NewCoordinator(
	executor adapter.Executor,
	baseline *m.BaselineRun,
	reporter Reporter,
	journal *pkg.Journal[m.Verdict],
	threads int,
	opts Options,
) *Coordinator {
	return &Coordinator{
		executor: executor,
		baseline: baseline,
		reporter: reporter,
		journal:  journal,
		threads:  threads,
		opts:     opts,
	}
}

// Run executes all groups and blocks until every group has finished. Each
// mutant belongs to exactly one group, so workers never touch the same
// mutant; the baseline is shared read-only. Executor failures propagate
// unretried.
func (c *Coordinator) Run(ctx context.Context, groups []m.MutantGroup) error {
	var workers errgroup.Group
	if c.threads > 0 {
		workers.SetLimit(c.threads)
	}

	for _, group := range groups {
		current := group

		workers.Go(func() error {
			return c.runGroup(ctx, current)
		})
	}

	return workers.Wait()
}

func (c *Coordinator) runGroup(ctx context.Context, group m.MutantGroup) error {
	run := newGroupRun(group, c.baseline, c.reporter, c.journal, c.opts.DisableBail)

	if err := c.executor.Run(ctx, group, c.baseline.Timeout, run.onOutcome); err != nil {
		return err
	}

	run.finish()

	return nil
}

// groupRun holds the reconciliation state for a single group's execution.
// It is owned exclusively by the worker running that group; nothing here is
// shared across goroutines.
type groupRun struct {
	group       m.MutantGroup
	baseline    *m.BaselineRun
	reporter    Reporter
	journal     *pkg.Journal[m.Verdict]
	disableBail bool
	ran         m.TestSet
	reported    map[uint]struct{}
}

func newGroupRun(group m.MutantGroup, baseline *m.BaselineRun, reporter Reporter, journal *pkg.Journal[m.Verdict], disableBail bool) *groupRun {
	return &groupRun{
		group:       group,
		baseline:    baseline,
		reporter:    reporter,
		journal:     journal,
		disableBail: disableBail,
		reported:    make(map[uint]struct{}, len(group.Mutants)),
	}
}

// onOutcome applies one incremental executor outcome and returns whether
// the run should continue. Tests already failing in the baseline carry no
// evidence about mutations and are stripped from every outcome before
// status decisions.
func (r *groupRun) onOutcome(outcome m.RunOutcome) bool {
	failed := outcome.Failed.Without(r.baseline.FailingTests)
	r.ran = r.ran.Merge(outcome.Ran)

	for _, mu := range outcome.Mutants {
		if mu.Status != m.NotRun {
			continue
		}

		r.reconcile(mu, failed, outcome.TimedOut)
	}

	r.notifyTerminal()

	if r.disableBail {
		return true
	}

	// Continue only while some mutant in the group is still undecided.
	return r.anyNotRun()
}

// reconcile drives one mutant's status transition. Timeout evidence takes
// precedence over failure evidence, which takes precedence over "no
// evidence yet": the mutant stays not-run until all its assessing tests
// have reported in.
func (r *groupRun) reconcile(mu *m.Mutant, failed, timedOut m.TestSet) {
	switch {
	case timedOut.ContainsAny(mu.AssessingTests):
		mu.Status = m.Timeout
	case failed.ContainsAny(mu.AssessingTests):
		mu.Status = m.Killed
	case r.assessed(mu):
		mu.Status = m.Survived
	}
}

// assessed reports whether every test assessing the mutant has run. A
// sentinel-coverage mutant is assessed only once the whole baseline
// universe has run.
func (r *groupRun) assessed(mu *m.Mutant) bool {
	if mu.AssessingTests.IsEveryTest() {
		return r.ran.Covers(r.baseline.RanTests)
	}

	return r.ran.Covers(mu.AssessingTests)
}

func (r *groupRun) anyNotRun() bool {
	for _, mu := range r.group.Mutants {
		if mu.Status == m.NotRun {
			return true
		}
	}

	return false
}

// notifyTerminal reports every mutant that reached a terminal status for
// the first time. The per-group tracking set guarantees at most one
// notification per mutant even when later outcomes reference it again.
func (r *groupRun) notifyTerminal() {
	for _, mu := range r.group.Mutants {
		if mu.Status == m.NotRun {
			continue
		}

		if _, done := r.reported[mu.ID]; done {
			continue
		}

		r.reported[mu.ID] = struct{}{}

		if r.journal != nil {
			if err := r.journal.Append(m.VerdictFor(mu)); err != nil {
				slog.Error("failed to journal verdict", "mutant", mu.ID, "error", err)
			}
		}

		if r.reporter != nil {
			r.reporter.MutantTested(mu)
		}
	}
}

// finish logs every mutant the run concluded without deciding. Such mutants
// are not retried within this pass and never reach the reporter: there is
// no information to report.
func (r *groupRun) finish() {
	for _, mu := range r.group.Mutants {
		if mu.Status == m.NotRun {
			slog.Warn("mutant left untested after its group's run concluded",
				"mutant", mu.ID, "tests", mu.AssessingTests.Count())
		}
	}
}
