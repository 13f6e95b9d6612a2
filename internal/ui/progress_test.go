package ui

import (
	"errors"
	"strings"
	"testing"

	"localopt/internal/driver"
)

func TestApplyEventTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("optimizing", []string{"a.ir", "b.ir"}, events).(*progressModel)

	steps := []struct {
		ev     driver.Event
		file   int
		status string
	}{
		{driver.Event{File: "a.ir", Stage: driver.StageParse, Status: driver.StatusWorking}, 0, "parsing"},
		{driver.Event{File: "a.ir", Stage: driver.StageOptimize, Status: driver.StatusWorking}, 0, "optimizing"},
		{driver.Event{File: "a.ir", Status: driver.StatusDone, Fired: 3}, 0, "done"},
		{driver.Event{File: "b.ir", Status: driver.StatusError, Err: errors.New("boom")}, 1, "error"},
		// Final states stick.
		{driver.Event{File: "a.ir", Stage: driver.StageParse, Status: driver.StatusWorking}, 0, "done"},
		{driver.Event{File: "other.ir", Status: driver.StatusDone}, 0, "done"},
	}
	for i, st := range steps {
		m.applyEvent(st.ev)
		if got := m.items[st.file].status; got != st.status {
			t.Fatalf("step %d: status = %q, want %q", i, got, st.status)
		}
	}
	if m.items[0].fired != 3 {
		t.Errorf("fired = %d, want 3", m.items[0].fired)
	}
	if got := m.percent(); got != 1 {
		t.Errorf("percent = %v, want 1", got)
	}
}

func TestPercentFollowsStages(t *testing.T) {
	m := NewProgressModel("t", []string{"a.ir", "b.ir"}, nil).(*progressModel)
	if got := m.percent(); got != 0 {
		t.Fatalf("initial percent = %v", got)
	}
	m.applyEvent(driver.Event{File: "a.ir", Stage: driver.StageOptimize, Status: driver.StatusWorking})
	if got := m.percent(); got != 0.3 {
		t.Errorf("percent = %v, want 0.3", got)
	}
}

func TestViewListsFiles(t *testing.T) {
	m := NewProgressModel("optimizing 2 files", []string{"a.ir", "b.ir"}, nil).(*progressModel)
	m.applyEvent(driver.Event{File: "a.ir", Status: driver.StatusDone, Fired: 2})
	m.done = true
	out := m.View()
	for _, want := range []string{"done: optimizing 2 files", "a.ir (2 rewrites)", "b.ir", "queued"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.ir", 20, "short.ir"},
		{"a/very/long/path.ir", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
