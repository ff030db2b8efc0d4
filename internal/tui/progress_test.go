package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModel_StepLifecycle(t *testing.T) {
	m := New()

	next, _ := m.Update(StepMsg{Text: "scanning claude-code"})
	m = next.(Model)
	if !strings.Contains(m.View(), "scanning claude-code") {
		t.Errorf("View = %q, want current step shown", m.View())
	}

	next, _ = m.Update(StepDoneMsg{Text: "claude-code: 3 sessions"})
	m = next.(Model)
	view := m.View()
	if !strings.Contains(view, "claude-code: 3 sessions") {
		t.Errorf("View = %q, want finished step shown", view)
	}
	if strings.Contains(view, "scanning claude-code") {
		t.Errorf("View = %q, current step should clear on completion", view)
	}
}

func TestModel_FinishedQuits(t *testing.T) {
	m := New()
	next, cmd := m.Update(FinishedMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if m.View() != "" {
		t.Errorf("View after quit = %q, want empty", m.View())
	}
}

func TestModel_CtrlC(t *testing.T) {
	m := New()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if !next.(Model).interrupted {
		t.Error("ctrl+c should mark the model interrupted")
	}
}

func TestReporter_NilProgramIsNoop(t *testing.T) {
	r := &Reporter{}
	r.Step("scanning %s", "codex")
	r.StepDone("done")
}

func headlessOpts(input []byte) []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithInput(bytes.NewReader(input)),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	}
}

func TestRun_ReturnsWorkError(t *testing.T) {
	want := errors.New("scan failed")
	err := Run(func(ctx context.Context, r *Reporter) error {
		r.Step("scanning")
		r.StepDone("scanned")
		return want
	}, headlessOpts(nil)...)
	if !errors.Is(err, want) {
		t.Errorf("Run error = %v, want %v", err, want)
	}
}

func TestRun_InterruptCancelsAndWaitsForWork(t *testing.T) {
	workDone := make(chan struct{})
	err := Run(func(ctx context.Context, r *Reporter) error {
		<-ctx.Done()
		close(workDone)
		return ctx.Err()
	}, headlessOpts([]byte{0x03})...) // ctrl+c
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("Run error = %v, want ErrInterrupted", err)
	}
	select {
	case <-workDone:
	default:
		t.Fatal("Run returned before the work function finished")
	}
}

func TestRunPlain_PassesLiveContext(t *testing.T) {
	err := RunPlain(func(ctx context.Context, r *Reporter) error {
		return ctx.Err()
	})
	if err != nil {
		t.Errorf("RunPlain error = %v", err)
	}
}
