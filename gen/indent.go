package gen

import (
	"fmt"
	"strings"
)

// IndentWriter buffers one generated artifact. Every line is prefixed
// with the current nesting depth's worth of indentation; blank lines
// carry no trailing whitespace.
type IndentWriter struct {
	b      strings.Builder
	indent string
	depth  int
}

// NewIndentWriter returns a writer that indents by unit per level.
func NewIndentWriter(unit string) *IndentWriter {
	return &IndentWriter{indent: unit}
}

func (w *IndentWriter) Indent() { w.depth++ }

// Unindent closes one nesting level. It panics on underflow, which is a
// generator bug.
func (w *IndentWriter) Unindent() {
	if w.depth == 0 {
		panic("gen: unbalanced Unindent")
	}
	w.depth--
}

// Depth reports the current nesting level.
func (w *IndentWriter) Depth() int { return w.depth }

// Line writes one indented line.
func (w *IndentWriter) Line(s string) {
	if s == "" {
		w.b.WriteByte('\n')
		return
	}
	for i := 0; i < w.depth; i++ {
		w.b.WriteString(w.indent)
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

// Linef writes one formatted, indented line.
func (w *IndentWriter) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (w *IndentWriter) Blank() { w.b.WriteByte('\n') }

// Raw writes text verbatim, without indentation, ending it with a newline
// if it lacks one.
func (w *IndentWriter) Raw(text string) {
	if text == "" {
		return
	}
	w.b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		w.b.WriteByte('\n')
	}
}

// Block writes open, runs body one level deeper, then writes close.
func (w *IndentWriter) Block(open, close string, body func()) {
	w.Line(open)
	w.Indent()
	body()
	w.Unindent()
	w.Line(close)
}

// Bytes returns the buffered artifact. The writer must be back at depth 0.
func (w *IndentWriter) Bytes() ([]byte, error) {
	if w.depth != 0 {
		return nil, fmt.Errorf("unbalanced indentation: depth %d at end of artifact", w.depth)
	}
	return []byte(w.b.String()), nil
}

func (w *IndentWriter) String() string { return w.b.String() }
