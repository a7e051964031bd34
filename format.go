package daylog

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/daylog/sanitizer"
)

// formatter serializes records into the file and console layouts.
// It reuses an internal buffer and is not safe for concurrent use; all
// callers go through the single writer goroutine or the write mutex.
type formatter struct {
	buf    []byte
	line   *sanitizer.Sanitizer
	dumper *spew.ConfigState
}

func newFormatter() *formatter {
	return &formatter{
		buf:  make([]byte, 0, 4096),
		line: sanitizer.Line(),
		dumper: &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

func (f *formatter) reset() {
	f.buf = f.buf[:0]
}

// fileLine renders one newline-terminated file record:
//
//	2025-08-28 14:03:07.012 | INFO     | pkg/path                            | FuncName             |   42 | message
//
// The returned slice is valid until the next formatter call.
func (f *formatter) fileLine(rec Record) []byte {
	f.reset()

	f.buf = rec.Time.AppendFormat(f.buf, fileTimeLayout)
	f.buf = append(f.buf, " | "...)
	f.appendPadded(levelToString(rec.Level), padLevel)
	f.buf = append(f.buf, " | "...)
	f.appendPadded(f.line.Apply(rec.Source), padSource)
	f.buf = append(f.buf, " | "...)
	f.appendPadded(f.line.Apply(rec.Function), padFunction)
	f.buf = append(f.buf, " | "...)
	f.appendPaddedRight(strconv.Itoa(rec.Line), padLine)
	f.buf = append(f.buf, " | "...)
	f.buf = append(f.buf, f.line.Apply(rec.Message)...)
	f.appendContext(rec.Context)

	f.buf = append(f.buf, '\n')
	return f.buf
}

// consoleParts renders the plain (uncolored) components of a console record:
//
//	14:03:07 | INFO     | pkg/path:FuncName:42 - message
//
// The console sink colorizes and joins them.
func (f *formatter) consoleParts(rec Record) (timestamp, level, origin, message string) {
	timestamp = rec.Time.Format(consoleTimeLayout)
	level = padString(levelToString(rec.Level), padLevel)

	var o strings.Builder
	o.WriteString(f.line.Apply(rec.Source))
	o.WriteByte(':')
	o.WriteString(f.line.Apply(rec.Function))
	o.WriteByte(':')
	o.WriteString(strconv.Itoa(rec.Line))
	origin = o.String()

	message = f.line.Apply(rec.Message)
	if rec.Context != nil {
		message += " | " + f.renderContext(rec.Context)
	}
	return timestamp, level, origin, message
}

// appendContext appends the optional error/stack payload to the current line
func (f *formatter) appendContext(ctx any) {
	if ctx == nil {
		return
	}
	f.buf = append(f.buf, " | "...)
	f.buf = append(f.buf, f.renderContext(ctx)...)
}

// renderContext converts an attached payload to sanitized single-line text.
// Errors render as their message; anything else falls back to a compact
// spew dump so arbitrary structures stay inspectable.
func (f *formatter) renderContext(ctx any) string {
	switch v := ctx.(type) {
	case error:
		return "error: " + f.line.Apply(v.Error())
	case string:
		return f.line.Apply(v)
	default:
		var b bytes.Buffer
		f.dumper.Fdump(&b, v)
		return f.line.Apply(string(bytes.TrimSpace(b.Bytes())))
	}
}

// appendPadded appends s left-aligned to at least width columns
func (f *formatter) appendPadded(s string, width int) {
	f.buf = append(f.buf, s...)
	for i := len(s); i < width; i++ {
		f.buf = append(f.buf, ' ')
	}
}

// appendPaddedRight appends s right-aligned to at least width columns
func (f *formatter) appendPaddedRight(s string, width int) {
	for i := len(s); i < width; i++ {
		f.buf = append(f.buf, ' ')
	}
	f.buf = append(f.buf, s...)
}

func padString(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
