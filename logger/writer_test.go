package logger

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLineWriterSplitsLines(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")
	w := l.NewLineWriter(zerolog.DebugLevel, Fields(FieldStage, "Index", FieldStream, "stderr"))

	fmt.Fprint(w, "first line\nsecond ")
	fmt.Fprint(w, "line\r\n\npartial")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 complete lines before flush, got %d", len(lines))
	}
	if lines[0]["message"] != "first line" || lines[1]["message"] != "second line" {
		t.Errorf("unexpected messages: %v / %v", lines[0]["message"], lines[1]["message"])
	}
	if lines[0][FieldStream] != "stderr" || lines[0]["level"] != "debug" {
		t.Errorf("expected stream and level fields, got %v", lines[0])
	}

	w.Flush()
	lines = decodeLines(t, buf)
	if len(lines) != 3 || lines[2]["message"] != "partial" {
		t.Fatalf("expected flushed partial line, got %v", lines)
	}
}

func TestLineWriterDisabledLevel(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	w := l.NewLineWriter(zerolog.DebugLevel, nil)
	fmt.Fprintln(w, "quiet")
	w.Flush()
	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %q", buf.String())
	}
}

func TestLineWriterLongLine(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")
	w := l.NewLineWriter(zerolog.DebugLevel, nil)
	fmt.Fprint(w, strings.Repeat("a", maxLineBytes+10))
	if lines := decodeLines(t, buf); len(lines) != 1 {
		t.Fatalf("expected oversized chunk to be emitted, got %d lines", len(lines))
	}
	w.Flush()
	if lines := decodeLines(t, buf); len(lines) != 2 {
		t.Fatalf("expected remainder after flush, got %d lines", len(lines))
	}
}

func TestLineWriterSeveralChunksInOneWrite(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")
	w := l.NewLineWriter(zerolog.DebugLevel, nil)
	fmt.Fprint(w, strings.Repeat("b", 3*maxLineBytes+5))
	lines := decodeLines(t, buf)
	if len(lines) != 3 {
		t.Fatalf("expected 3 full chunks from a single write, got %d lines", len(lines))
	}
	for i, line := range lines {
		if msg, _ := line["message"].(string); len(msg) != maxLineBytes {
			t.Errorf("chunk %d: expected %d bytes, got %d", i, maxLineBytes, len(msg))
		}
	}
	w.Flush()
	if lines := decodeLines(t, buf); len(lines) != 4 {
		t.Fatalf("expected remainder after flush, got %d lines", len(lines))
	}
}
