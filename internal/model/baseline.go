package model

import "time"

// TimeoutPolicy derives a per-run timeout from the baseline's timing, the
// usual guard against mutations that produce infinite loops.
type TimeoutPolicy struct {
	BaselineDuration time.Duration
	Factor           float64
	Margin           time.Duration
}

// ForRun returns the timeout to apply to a single test run.
func (p TimeoutPolicy) ForRun() time.Duration {
	if p.Factor <= 0 {
		p.Factor = 1
	}

	return time.Duration(float64(p.BaselineDuration)*p.Factor) + p.Margin
}

// BaselineRun is the unmutated test-suite execution captured once per
// session. FailingTests are tests already failing with no mutation applied;
// they are stripped from every subsequent failure report. RanTests defines
// the test universe used to bound group sizing. Read-only after creation.
type BaselineRun struct {
	FailingTests TestSet
	RanTests     TestSet
	Timeout      TimeoutPolicy
}

// TotalTests returns the size of the baseline test universe.
func (b *BaselineRun) TotalTests() int {
	return b.RanTests.Count()
}
