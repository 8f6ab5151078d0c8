package ui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"prosecheck/internal/driver"
)

func TestApplyEvent(t *testing.T) {
	m := NewProgressModel("checking", []string{"a.md", "b.txt"}, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "a.md", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" || m.items[0].final {
		t.Fatalf("item = %+v", m.items[0])
	}
	m.applyEvent(driver.Event{File: "b.txt", Stage: driver.StageCheck, Status: driver.StatusCached})
	m.applyEvent(driver.Event{File: "unknown.md", Stage: driver.StageCheck, Status: driver.StatusDone})

	if got := m.finished(); got != 1 {
		t.Fatalf("finished = %d", got)
	}
	// a.md at parse (0.2), b.txt final (1.0)
	if got := m.percent(); math.Abs(got-0.6) > 1e-9 {
		t.Fatalf("percent = %v", got)
	}

	view := m.View()
	for _, want := range []string{"checking (1/2)", "parsing", "cached", "a.md", "b.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestUpdateQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event, 1)
	events <- driver.Event{File: "a.md", Stage: driver.StageCheck, Status: driver.StatusDone}
	close(events)
	m := NewProgressModel("checking", []string{"a.md"}, events).(*progressModel)

	msg := m.listenForEvent()()
	if _, ok := msg.(eventMsg); !ok {
		t.Fatalf("first msg = %T", msg)
	}
	m.Update(msg)
	msg = m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("second msg = %T", msg)
	}
	_, cmd := m.Update(msg)
	if !m.done || cmd == nil {
		t.Fatal("model did not finish")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("want quit command")
	}
	if !strings.Contains(m.View(), "done: checking (1/1)") {
		t.Fatalf("view = %q", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.md", 20, "short.md"},
		{"docs/very/long/path.md", 10, "docs/ve..."},
		{"abcdef", 3, "abc"},
		{"日本語.md", 5, "日..."},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
