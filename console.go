package daylog

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// consoleSink writes colorized records to the configured stream.
// It is stateless per write and best-effort: write errors are swallowed
// since console logging must never disturb the caller.
type consoleSink struct {
	w      io.Writer
	colors bool

	timeColor   *color.Color
	originColor *color.Color
	levelColors map[int64]*color.Color
	fallback    *color.Color
}

// newConsoleSink builds a sink for w. When colors is set, ANSI output is
// forced regardless of TTY detection so the configuration flag governs.
func newConsoleSink(w io.Writer, colors bool) *consoleSink {
	s := &consoleSink{
		w:           w,
		colors:      colors,
		timeColor:   color.New(color.FgGreen),
		originColor: color.New(color.FgCyan),
		levelColors: map[int64]*color.Color{
			LevelDebug:    color.New(color.FgCyan),
			LevelInfo:     color.New(color.FgGreen),
			LevelWarn:     color.New(color.FgYellow),
			LevelError:    color.New(color.FgRed),
			LevelCritical: color.New(color.FgRed, color.Bold),
			LevelProc:     color.New(color.FgMagenta),
		},
		fallback: color.New(color.FgWhite),
	}
	if colors {
		s.timeColor.EnableColor()
		s.originColor.EnableColor()
		s.fallback.EnableColor()
		for _, c := range s.levelColors {
			c.EnableColor()
		}
	}
	return s
}

// write renders one record. The underlying stream's own write ordering is
// the only synchronization console output needs.
func (s *consoleSink) write(f *formatter, rec Record) {
	timestamp, level, origin, message := f.consoleParts(rec)

	if !s.colors {
		_, _ = fmt.Fprintf(s.w, "%s | %s | %s - %s\n", timestamp, level, origin, message)
		return
	}

	lc, ok := s.levelColors[rec.Level]
	if !ok {
		lc = s.fallback
	}
	_, _ = fmt.Fprintf(s.w, "%s | %s | %s - %s\n",
		s.timeColor.Sprint(timestamp),
		lc.Sprint(level),
		s.originColor.Sprint(origin),
		lc.Sprint(message),
	)
}
