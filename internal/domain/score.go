package domain

import (
	"math"

	m "github.com/mordant-dev/mordant/internal/model"
	"github.com/mordant-dev/mordant/pkg"
)

type scoreTally struct {
	detected   int
	undetected int
}

func (t *scoreTally) add(status string) {
	switch status {
	case m.Killed.String(), m.Timeout.String():
		t.detected++
	case m.Survived.String(), m.NoCoverage.String():
		t.undetected++
	}
	// Ignored, compile-error and not-run verdicts are excluded from the
	// score denominator.
}

func (t *scoreTally) score() float64 {
	total := t.detected + t.undetected
	if total == 0 {
		return math.NaN()
	}

	return float64(t.detected) / float64(total)
}

// ScoreVerdicts computes the mutation score over a verdict collection:
// detected (killed or timed out) over all viable mutants. NaN when nothing
// viable was tested.
func ScoreVerdicts(verdicts []m.Verdict) float64 {
	var tally scoreTally
	for _, verdict := range verdicts {
		tally.add(verdict.Status)
	}

	return tally.score()
}

func mutationScoreFromJournal(journal *pkg.Journal[m.Verdict]) (float64, error) {
	var tally scoreTally

	err := journal.Replay(func(_ uint64, verdict m.Verdict) error {
		tally.add(verdict.Status)
		return nil
	})
	if err != nil {
		return math.NaN(), err
	}

	return tally.score(), nil
}
