package controller

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mordant-dev/mordant/internal/model"
)

// SimpleUI implements UI with plain text written through the cobra Command.
type SimpleUI struct {
	cmd *cobra.Command

	mu        sync.Mutex
	total     int
	completed int
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{}
	for _, option := range options {
		option(&cfg)
	}

	s.mu.Lock()
	s.total = cfg.totalMutants
	s.completed = 0
	s.mu.Unlock()

	if cfg.threads > 0 {
		s.printf("Running with %d worker(s)\n", cfg.threads)
	}

	return nil
}

// TestingStarted announces how many mutants entered scheduling.
func (s *SimpleUI) TestingStarted(total int) {
	s.mu.Lock()
	s.total = total
	s.completed = 0
	s.mu.Unlock()

	s.printf("Testing %d mutant(s)\n", total)
}

// Close finalizes the UI (no-op for SimpleUI).
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// MutantTested prints one line per settled mutant.
func (s *SimpleUI) MutantTested(mutant *m.Mutant) {
	s.mu.Lock()
	s.completed++
	completed, total := s.completed, s.total
	s.mu.Unlock()

	path := ""
	if mutant.Source.Origin != nil {
		path = string(mutant.Source.Origin.Path)
	}

	s.printf("[%d/%d] mutant %d (%s) %s:%d -> %s\n",
		completed, total, mutant.ID, mutant.Type, path, mutant.Line, mutant.Status)
}

// DisplaySummary renders the per-file verdict table and the final score.
func (s *SimpleUI) DisplaySummary(ctx context.Context, verdicts []m.Verdict, score float64) {
	if err := ctx.Err(); err != nil {
		return
	}

	if len(verdicts) == 0 {
		s.printf("No mutants were tested.\n")
		return
	}

	stats := buildFileStats(verdicts)
	s.printf("\n%s\n", renderSummaryTable(stats))
	s.printf("%s\n", formatScore(score))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

// fileStat aggregates verdicts of a single source file.
type fileStat struct {
	path     string
	killed   int
	survived int
	timeout  int
	other    int
	total    int
}

func buildFileStats(verdicts []m.Verdict) []fileStat {
	info := make(map[string]fileStat)

	for _, verdict := range verdicts {
		stat := info[verdict.File]
		stat.path = verdict.File
		stat.total++

		switch verdict.Status {
		case m.Killed.String():
			stat.killed++
		case m.Survived.String():
			stat.survived++
		case m.Timeout.String():
			stat.timeout++
		default:
			stat.other++
		}

		info[verdict.File] = stat
	}

	stats := make([]fileStat, 0, len(info))
	for _, stat := range info {
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].path < stats[j].path
	})

	return stats
}

func renderSummaryTable(stats []fileStat) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Killed", "Survived", "Timeout", "Other", "Total"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	totals := fileStat{}

	for _, stat := range stats {
		table.Append([]string{
			stat.path,
			fmt.Sprintf("%d", stat.killed),
			fmt.Sprintf("%d", stat.survived),
			fmt.Sprintf("%d", stat.timeout),
			fmt.Sprintf("%d", stat.other),
			fmt.Sprintf("%d", stat.total),
		})

		totals.killed += stat.killed
		totals.survived += stat.survived
		totals.timeout += stat.timeout
		totals.other += stat.other
		totals.total += stat.total
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(stats)),
		fmt.Sprintf("%d", totals.killed),
		fmt.Sprintf("%d", totals.survived),
		fmt.Sprintf("%d", totals.timeout),
		fmt.Sprintf("%d", totals.other),
		fmt.Sprintf("%d", totals.total),
	})

	table.Render()

	return tableBuffer.String()
}

func formatScore(score float64) string {
	if math.IsNaN(score) {
		return "Mutation score: n/a (no scoreable mutants)"
	}

	return fmt.Sprintf("Mutation score: %.2f%%", score*100)
}
