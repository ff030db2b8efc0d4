// Package tui shows a small spinner-driven progress display while devday
// scans sources and summarizes sessions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/scottatron-wd/devday/internal/cli"
)

// StepMsg reports the step currently running.
type StepMsg struct {
	Text string
}

// StepDoneMsg marks the current step finished.
type StepDoneMsg struct {
	Text string
}

// FinishedMsg ends the program.
type FinishedMsg struct{}

// ErrInterrupted is returned by Run when the user cancels with ctrl+c
// before the work function completes.
var ErrInterrupted = errors.New("interrupted")

var (
	stepStyle = lipgloss.NewStyle().Foreground(cli.ColorText)
	doneStyle = lipgloss.NewStyle().Foreground(cli.ColorGreen)
	dimStyle  = lipgloss.NewStyle().Foreground(cli.ColorTextMuted)
)

// Model is the progress display.
type Model struct {
	spinner     spinner.Model
	current     string
	done        []string
	quit        bool
	interrupted bool
}

// New builds the progress model.
func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)
	return Model{spinner: sp}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StepMsg:
		m.current = msg.Text
		return m, nil
	case StepDoneMsg:
		m.done = append(m.done, msg.Text)
		m.current = ""
		return m, nil
	case FinishedMsg:
		m.quit = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quit = true
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder
	for _, d := range m.done {
		fmt.Fprintf(&b, "%s %s\n", doneStyle.Render("✓"), dimStyle.Render(d))
	}
	if m.current != "" {
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), stepStyle.Render(m.current))
	}
	return b.String()
}

// Reporter feeds progress into a running program. Safe to call from the
// work goroutine.
type Reporter struct {
	program *tea.Program
}

// Step announces the step now running.
func (r *Reporter) Step(format string, args ...interface{}) {
	if r.program != nil {
		r.program.Send(StepMsg{Text: fmt.Sprintf(format, args...)})
	}
}

// StepDone marks a step complete.
func (r *Reporter) StepDone(format string, args ...interface{}) {
	if r.program != nil {
		r.program.Send(StepDoneMsg{Text: fmt.Sprintf(format, args...)})
	}
}

// Run displays the progress UI while work runs in its own goroutine. Run
// never returns before the work function does: on ctrl+c the work's
// context is cancelled, the goroutine is drained, and ErrInterrupted is
// returned so callers don't act on partial results.
func Run(work func(ctx context.Context, r *Reporter) error, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(New(), opts...)
	r := &Reporter{program: p}

	done := make(chan error, 1)
	go func() {
		err := work(ctx, r)
		p.Send(FinishedMsg{})
		done <- err
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return err
	}
	if m, ok := final.(Model); ok && m.interrupted {
		cancel()
		<-done
		return ErrInterrupted
	}
	return <-done
}

// RunPlain executes the same work without a display, for --quiet runs and
// non-TTY output.
func RunPlain(work func(ctx context.Context, r *Reporter) error) error {
	return work(context.Background(), &Reporter{})
}
