package adapter

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	m "github.com/mordant-dev/mordant/internal/model"
)

// CaptureBaseline runs the unmutated test suite once and derives the
// session baseline from it: which tests already fail, which tests exist,
// and a timeout policy scaled from the suite's own duration. A failing
// suite is not an error; pre-existing failures are recorded so later runs
// can discount them.
func CaptureBaseline(ctx context.Context, root m.Path, factor float64, margin time.Duration) (*m.BaselineRun, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, "go", "test", "-v", "./...")
	cmd.Dir = string(root)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe baseline output: %w", err)
	}

	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start baseline run: %w", err)
	}

	ran := m.TestSet{}
	failing := m.TestSet{}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		test, failed, ok := parseTestLine(scanner.Text())
		if !ok {
			continue
		}

		ran = ran.Merge(m.NewTestSet(test))
		if failed {
			failing = failing.Merge(m.NewTestSet(test))
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Non-zero exit is expected when baseline tests fail; the
		// failing set captures it.
		slog.Debug("baseline run exited non-zero", "error", err)
	}

	if failing.Count() > 0 {
		slog.Warn("baseline has pre-existing failing tests; they will not count as mutant kills",
			"failing", failing.Count())
	}

	baseline := &m.BaselineRun{
		FailingTests: failing,
		RanTests:     ran,
		Timeout: m.TimeoutPolicy{
			BaselineDuration: time.Since(start),
			Factor:           factor,
			Margin:           margin,
		},
	}

	slog.Info("captured baseline", "tests", ran.Count(), "failing", failing.Count(),
		"duration", baseline.Timeout.BaselineDuration)

	return baseline, nil
}
