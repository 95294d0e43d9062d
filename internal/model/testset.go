// Package model defines the data structures for mutation testing.
package model

import (
	"math"
	"sort"
)

// TestID is an opaque identifier for a single test case. It is the unit of
// coverage tracking and of pass/fail reporting.
type TestID string

// TestSet is an immutable set of test identifiers. The zero value is the
// empty set. The sentinel returned by EveryTest stands for "the entire
// suite" and is used for mutants whose effect cannot be traced to specific
// tests; it absorbs merges and compares larger than any finite set.
type TestSet struct {
	everything bool
	ids        map[TestID]struct{}
}

// NewTestSet builds an explicit set from the given identifiers.
func NewTestSet(ids ...TestID) TestSet {
	set := make(map[TestID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return TestSet{ids: set}
}

// EveryTest returns the sentinel set covering the whole suite.
func EveryTest() TestSet {
	return TestSet{everything: true}
}

// IsEveryTest reports whether the set is the whole-suite sentinel.
func (s TestSet) IsEveryTest() bool {
	return s.everything
}

// Count returns the number of tests in the set. The sentinel counts as
// unbounded so that it always exceeds any group-size budget.
func (s TestSet) Count() int {
	if s.everything {
		return math.MaxInt
	}

	return len(s.ids)
}

// Contains reports whether id is a member of the set.
func (s TestSet) Contains(id TestID) bool {
	if s.everything {
		return true
	}

	_, ok := s.ids[id]

	return ok
}

// ContainsAny reports whether the two sets intersect. It is symmetric; the
// sentinel intersects every non-empty set.
func (s TestSet) ContainsAny(other TestSet) bool {
	if s.everything {
		return other.everything || len(other.ids) > 0
	}

	if other.everything {
		return len(s.ids) > 0
	}

	small, large := s.ids, other.ids
	if len(large) < len(small) {
		small, large = large, small
	}

	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}

	return false
}

// Merge returns the union of both sets. Merging with the sentinel yields
// the sentinel; neither receiver nor argument is modified.
func (s TestSet) Merge(other TestSet) TestSet {
	if s.everything || other.everything {
		return EveryTest()
	}

	merged := make(map[TestID]struct{}, len(s.ids)+len(other.ids))
	for id := range s.ids {
		merged[id] = struct{}{}
	}

	for id := range other.ids {
		merged[id] = struct{}{}
	}

	return TestSet{ids: merged}
}

// Covers reports whether every test in other is also in s. The sentinel
// covers everything and is covered only by the sentinel.
func (s TestSet) Covers(other TestSet) bool {
	if s.everything {
		return true
	}

	if other.everything {
		return false
	}

	for id := range other.ids {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}

	return true
}

// Without returns the set with every member of other removed. Calling it on
// the sentinel returns the sentinel unchanged, as its members cannot be
// enumerated.
func (s TestSet) Without(other TestSet) TestSet {
	if s.everything {
		return s
	}

	if other.everything {
		return TestSet{}
	}

	remaining := make(map[TestID]struct{}, len(s.ids))
	for id := range s.ids {
		if _, ok := other.ids[id]; !ok {
			remaining[id] = struct{}{}
		}
	}

	return TestSet{ids: remaining}
}

// IDs returns the members of an explicit set in sorted order. The sentinel
// has no enumerable members and returns nil.
func (s TestSet) IDs() []TestID {
	if s.everything || len(s.ids) == 0 {
		return nil
	}

	ids := make([]TestID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
