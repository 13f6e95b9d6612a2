package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFunc, false},
		{LevelDetail, ScopeFunc, true},
		{LevelDetail, ScopeRewrite, false},
		{LevelDebug, ScopeRewrite, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLevel("DEBUG"); err != nil || l != LevelDebug {
		t.Errorf("ParseLevel(DEBUG) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel accepted an unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(both) = %v, %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	span := Begin(tr, ScopePass, "localopt", 0).WithExtra("rules", "all")
	Point(tr, ScopeFunc, "func:@f", span.ID(), "")
	Point(tr, ScopeRewrite, "shift", span.ID(), "dropped at detail level")
	span.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d events, want 3:\n%s", len(lines), buf.String())
	}
	var end map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &end); err != nil {
		t.Fatal(err)
	}
	if end["name"] != "localopt" || end["scope"] != "pass" {
		t.Errorf("end event = %v", end)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(2, LevelError)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeRewrite, name, 0, "")
	}
	got := ring.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Fatalf("snapshot = %+v", got)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "c") {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestNewAndRingOf(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := RingOf(tr); !ok {
		t.Error("RingOf did not find the ring inside ModeBoth")
	}
	stream, err := New(Config{Level: LevelPhase, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := RingOf(stream); ok {
		t.Error("RingOf found a ring in a stream tracer")
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop || ParentSpan(ctx) != 0 {
		t.Fatal("empty context should carry Nop and no parent")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx = WithParent(WithTracer(ctx, ring), 42)
	if FromContext(ctx) != Tracer(ring) || ParentSpan(ctx) != 42 {
		t.Fatal("context lost tracer or parent span")
	}
}
