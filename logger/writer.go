package logger

import (
	"bytes"
	"sync"

	"github.com/rs/zerolog"
)

// maxLineBytes caps a single buffered line; longer output is emitted in pieces.
const maxLineBytes = 64 * 1024

// LineWriter is an io.Writer that emits one log event per line written to it.
// It is used to surface external tool output through the structured logger.
type LineWriter struct {
	mu     sync.Mutex
	logger *Logger
	level  zerolog.Level
	fields map[string]interface{}
	buf    bytes.Buffer
}

// NewLineWriter returns a writer logging each line at level with fields attached.
func (l *Logger) NewLineWriter(level zerolog.Level, fields map[string]interface{}) *LineWriter {
	return &LineWriter{logger: l, level: level, fields: fields}
}

// Write buffers p and logs every complete line.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		data := w.buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			for w.buf.Len() >= maxLineBytes {
				w.emit(w.buf.Next(maxLineBytes))
			}
			break
		}
		line := w.buf.Next(idx + 1)
		w.emit(line[:idx])
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.Bytes())
		w.buf.Reset()
	}
}

func (w *LineWriter) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	event := w.logger.logger.WithLevel(w.level)
	addFields(event, w.fields)
	event.Msg(string(line))
}
