package delphi

import (
	"strings"
	"testing"
)

func TestFormatCodeFrameExpandsTabs(t *testing.T) {
	frame := formatCodeFrame("begin\n\tx := ;\nend.", Position{Line: 2, Column: 7})
	want := "  --> line 2, column 7\n 2 |     x := ;\n   |          ^"
	if frame != want {
		t.Fatalf("unexpected frame:\n%s\nwant:\n%s", frame, want)
	}
}

func TestFormatCodeFrameOutOfRange(t *testing.T) {
	if frame := formatCodeFrame("begin end.", Position{Line: 3, Column: 1}); frame != "" {
		t.Fatalf("expected empty frame, got %q", frame)
	}
	if frame := formatCodeFrame("", Position{Line: 1, Column: 1}); frame != "" {
		t.Fatalf("expected empty frame for empty source, got %q", frame)
	}
}

func TestRuntimeErrorTruncatesDeepStacks(t *testing.T) {
	frames := make([]StackFrame, 20)
	for i := range frames {
		frames[i] = StackFrame{Function: "t.loop", Pos: Position{Line: i + 1, Column: 3}}
	}
	msg := (&RuntimeError{Message: "boom", Frames: frames}).Error()
	if !strings.Contains(msg, "... 4 frames omitted ...") {
		t.Fatalf("expected omitted marker, got %q", msg)
	}
	if strings.Count(msg, "\n  at ") != 16 {
		t.Fatalf("expected 16 rendered frames, got %q", msg)
	}
}
