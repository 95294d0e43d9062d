// Package domain contains the core mutation scheduling and testing logic.
package domain

import (
	"log/slog"
	"sort"

	m "github.com/mordant-dev/mordant/internal/model"
)

// Options control the scheduling optimizations. All of them trade execution
// time for simpler, per-mutant attribution when disabled.
type Options struct {
	// DisableMixing schedules every mutant in its own run even when
	// coverage data would allow sharing.
	DisableMixing bool
	// DisableCoverage ignores coverage data entirely; implies singleton
	// groups since attribution cannot rely on assessing tests.
	DisableCoverage bool
	// DisableBail runs a group's full planned test subset even after all
	// of its mutants have reached a verdict.
	DisableBail bool
}

// GroupMutants partitions not-yet-run mutants into execution groups so that
// mutants with disjoint assessing tests share one physical test run.
//
// Mutants carrying the whole-suite sentinel are emitted as singleton groups
// up front: sharing a run with them would make any failure ambiguous. The
// rest are sorted ascending by coverage size and packed greedily; a
// candidate joins the open group only when its tests do not overlap the
// group's used tests and the combined size stays within the baseline's
// test universe. totalTests is a heuristic bound against pathological
// grouping overhead, not a correctness requirement.
func GroupMutants(mutants []*m.Mutant, totalTests int, opts Options) []m.MutantGroup {
	if opts.DisableMixing || opts.DisableCoverage {
		return singletonGroups(mutants)
	}

	groups := make([]m.MutantGroup, 0, len(mutants))
	remaining := make([]*m.Mutant, 0, len(mutants))

	for _, mu := range mutants {
		if mu.AssessingTests.IsEveryTest() {
			groups = append(groups, singletonGroup(mu))
			continue
		}

		remaining = append(remaining, mu)
	}

	// Fewest covering tests first: small sets pack tightly before large
	// ones consume the test-count budget.
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].AssessingTests.Count() < remaining[j].AssessingTests.Count()
	})

	for len(remaining) > 0 {
		seed := remaining[0]
		members := []*m.Mutant{seed}
		used := seed.AssessingTests

		// Filter in place: used only grows, so a candidate skipped once
		// can never fit later in this group.
		rest := remaining[:0]

		for _, candidate := range remaining[1:] {
			if used.Count()+candidate.AssessingTests.Count() > totalTests {
				rest = append(rest, candidate)
				continue
			}

			if candidate.AssessingTests.ContainsAny(used) {
				rest = append(rest, candidate)
				continue
			}

			members = append(members, candidate)
			used = used.Merge(candidate.AssessingTests)
		}

		remaining = rest
		groups = append(groups, m.MutantGroup{Mutants: members, UsedTests: used})
	}

	slog.Debug("grouped mutants for execution", "mutants", len(mutants), "groups", len(groups))

	return groups
}

func singletonGroups(mutants []*m.Mutant) []m.MutantGroup {
	groups := make([]m.MutantGroup, 0, len(mutants))
	for _, mu := range mutants {
		groups = append(groups, singletonGroup(mu))
	}

	return groups
}

func singletonGroup(mu *m.Mutant) m.MutantGroup {
	return m.MutantGroup{Mutants: []*m.Mutant{mu}, UsedTests: mu.AssessingTests}
}
