package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mordant-dev/mordant/internal/model"
)

const recentResultLimit = 8

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0, 0, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 0, 1, 2)

	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Padding(1, 0, 0, 2)

	statusStyles = map[m.MutantStatus]lipgloss.Style{
		m.Killed:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		m.Timeout:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		m.Survived: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program on its own goroutine.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{}
	for _, option := range options {
		option(&cfg)
	}

	p.program = tea.NewProgram(newSessionModel(cfg), tea.WithOutput(p.output))
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		_, _ = p.program.Run()
	}()

	return nil
}

// TestingStarted forwards the scheduled mutant count to the running program.
func (p *TUI) TestingStarted(total int) {
	if p.program == nil {
		return
	}

	p.program.Send(totalMutantsMsg{count: total})
}

// MutantTested forwards one settled mutant to the running program.
func (p *TUI) MutantTested(mutant *m.Mutant) {
	if p.program == nil {
		return
	}

	path := ""
	if mutant.Source.Origin != nil {
		path = string(mutant.Source.Origin.Path)
	}

	p.program.Send(mutantTestedMsg{
		id:     mutant.ID,
		typ:    mutant.Type,
		path:   path,
		line:   mutant.Line,
		status: mutant.Status,
	})
}

// Close stops the program and waits for it to release the terminal.
func (p *TUI) Close(ctx context.Context) {
	if p.program == nil {
		return
	}

	p.program.Quit()

	select {
	case <-p.done:
	case <-ctx.Done():
	}
}

// DisplaySummary prints the styled per-file summary. A still-running
// program is stopped first so the summary lands on a released terminal.
func (p *TUI) DisplaySummary(ctx context.Context, verdicts []m.Verdict, score float64) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.Close(ctx)

	if len(verdicts) == 0 {
		_, _ = fmt.Fprintln(p.output, dimStyle.Render("No mutants were tested."))
		return
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Mutation results"))
	b.WriteString("\n\n")

	for _, stat := range buildFileStats(verdicts) {
		marker := statusStyles[m.Killed].Render("✓")
		if stat.survived > 0 {
			marker = statusStyles[m.Survived].Render("✗")
		}

		fmt.Fprintf(&b, "  %s %s: %s killed, %s survived, %s timeout, %s other\n",
			marker,
			stat.path,
			statusStyles[m.Killed].Render(fmt.Sprintf("%d", stat.killed)),
			statusStyles[m.Survived].Render(fmt.Sprintf("%d", stat.survived)),
			statusStyles[m.Timeout].Render(fmt.Sprintf("%d", stat.timeout)),
			dimStyle.Render(fmt.Sprintf("%d", stat.other)))
	}

	b.WriteString("\n  ")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(formatScore(score)))
	b.WriteString("\n")

	_, _ = fmt.Fprint(p.output, b.String())
}

// totalMutantsMsg resets the progress denominator when scheduling begins.
type totalMutantsMsg struct {
	count int
}

// mutantTestedMsg carries a settled mutant into the Bubble Tea model.
type mutantTestedMsg struct {
	id     uint
	typ    m.MutationType
	path   string
	line   int
	status m.MutantStatus
}

// sessionModel is the Bubble Tea model shown while mutants are under test.
type sessionModel struct {
	progressBar progress.Model
	total       int
	threads     int
	completed   int
	killed      int
	survived    int
	timeout     int
	other       int
	recent      []string
	width       int
	height      int
	quitting    bool
}

func newSessionModel(cfg StartConfig) sessionModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return sessionModel{
		progressBar: prog,
		total:       cfg.totalMutants,
		threads:     cfg.threads,
	}
}

func (sm sessionModel) Init() tea.Cmd {
	return nil
}

func (sm sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sm.width = msg.Width
		sm.height = msg.Height

		return sm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			sm.quitting = true
			return sm, tea.Quit
		}

		return sm, nil

	case totalMutantsMsg:
		sm.total = msg.count
		sm.completed = 0

		return sm, nil

	case mutantTestedMsg:
		return sm.handleMutantTested(msg), nil
	}

	return sm, nil
}

func (sm sessionModel) handleMutantTested(msg mutantTestedMsg) sessionModel {
	sm.completed++

	switch msg.status {
	case m.Killed:
		sm.killed++
	case m.Survived:
		sm.survived++
	case m.Timeout:
		sm.timeout++
	default:
		sm.other++
	}

	style, ok := statusStyles[msg.status]
	if !ok {
		style = dimStyle
	}

	line := fmt.Sprintf("%s  %s  %s:%d  #%d",
		style.Render(fmt.Sprintf("%-11s", msg.status)),
		fmt.Sprintf("%-10s", msg.typ),
		msg.path, msg.line, msg.id)

	sm.recent = append(sm.recent, line)
	if len(sm.recent) > recentResultLimit {
		sm.recent = sm.recent[len(sm.recent)-recentResultLimit:]
	}

	return sm
}

func (sm sessionModel) View() string {
	if sm.quitting {
		return ""
	}

	title := titleStyle.Render("Mordant Mutation Testing")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  •  Workers: %s  •  %s killed  %s survived  %s timeout",
		accentStyle.Render(fmt.Sprintf("%d", sm.completed)),
		accentStyle.Render(fmt.Sprintf("%d", sm.total)),
		accentStyle.Render(fmt.Sprintf("%d", sm.threads)),
		statusStyles[m.Killed].Render(fmt.Sprintf("%d", sm.killed)),
		statusStyles[m.Survived].Render(fmt.Sprintf("%d", sm.survived)),
		statusStyles[m.Timeout].Render(fmt.Sprintf("%d", sm.timeout)),
	))

	percent := 0.0
	if sm.total > 0 {
		percent = float64(sm.completed) / float64(sm.total)
	}

	progressView := lipgloss.NewStyle().Padding(0, 2).Render(sm.progressBar.ViewAs(percent))

	recentBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Padding(0, 1).
		Margin(1, 1, 0, 2).
		Render(sm.recentLines())

	footer := footerStyle.Render("Press q to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		progressView,
		recentBox,
		footer,
	)
}

func (sm sessionModel) recentLines() string {
	if len(sm.recent) == 0 {
		return dimStyle.Render("waiting for results…")
	}

	return strings.Join(sm.recent, "\n")
}
