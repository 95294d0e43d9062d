// Package controller provides output adapters for presenting mutation
// testing progress and results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	m "github.com/mordant-dev/mordant/internal/model"
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration applied when the UI starts.
type StartConfig struct {
	totalMutants int
	threads      int
}

// WithTotalMutants tells the UI how many mutants the session will test.
func WithTotalMutants(n int) StartOption {
	return func(c *StartConfig) {
		c.totalMutants = n
	}
}

// WithThreads tells the UI how many workers run concurrently.
func WithThreads(n int) StartOption {
	return func(c *StartConfig) {
		c.threads = n
	}
}

// UI presents session progress and the final summary.
// MutantTested may be called concurrently from worker goroutines.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	TestingStarted(total int)
	MutantTested(mutant *m.Mutant)
	DisplaySummary(ctx context.Context, verdicts []m.Verdict, score float64)
}

// NewUI picks the interactive TUI when the command writes to a terminal
// and the plain text printer otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal. Redirected or piped
// output is not a TTY.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}
