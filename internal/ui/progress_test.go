package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"vmfkit/internal/pipeline"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("parsing maps", files, nil).(*progressModel)
}

func TestApplyEventTracksStages(t *testing.T) {
	m := newModel("a.vmf", "b.vmf")

	m.applyEvent(pipeline.Event{File: "a.vmf", Stage: pipeline.StageTree, Status: pipeline.StatusWorking})
	if got := m.items[0].status; got != "building tree" {
		t.Fatalf("status = %q", got)
	}
	if p := m.percent(); p != 0.2 {
		t.Fatalf("percent = %v, want 0.2", p)
	}

	m.applyEvent(pipeline.Event{File: "a.vmf", Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{File: "b.vmf", Status: pipeline.StatusError, Err: errors.New("x")})
	// после финального статуса события файла игнорируются
	m.applyEvent(pipeline.Event{File: "b.vmf", Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "unknown.vmf", Status: pipeline.StatusDone})

	if m.finished() != 2 || m.failed != 1 {
		t.Fatalf("finished=%d failed=%d", m.finished(), m.failed)
	}
	if m.items[1].status != "error" {
		t.Fatalf("b.vmf status = %q", m.items[1].status)
	}
	if p := m.percent(); p != 1 {
		t.Fatalf("percent = %v, want 1", p)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newModel("maps/a.vmf")
	m.applyEvent(pipeline.Event{File: "maps/a.vmf", Status: pipeline.StatusCached})
	m.done = true

	view := m.View()
	for _, want := range []string{"done: parsing maps (1/1)", "cached", "maps/a.vmf"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestCtrlCInterrupts(t *testing.T) {
	m := newModel("a.vmf")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c must quit")
	}
	if !Interrupted(next) {
		t.Fatal("model must report the interruption")
	}
	if !strings.Contains(next.View(), "interrupted: parsing maps") {
		t.Errorf("view:\n%s", next.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.vmf", 20, "short.vmf"},
		{"very/long/path/name.vmf", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
