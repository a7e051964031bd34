// Package sanitizer provides configurable sanitization of record text based
// on bitwise filter flags and transforms. Its primary use is keeping every
// formatted log record on exactly one line: embedded control characters are
// escaped so a record can never split into partial lines or corrupt the
// column layout.
package sanitizer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterControl      uint64 = 1 << iota // Matches control characters (unicode.IsControl)
	FilterNonPrintable                    // Matches runes not classified as printable by strconv.IsPrint
	FilterPipe                            // Matches the '|' column separator of the file record layout
)

// Transform flags for character transformation
const (
	TransformStrip  uint64 = 1 << iota // Removes the character
	TransformEscape                    // Escapes with backslash sequences (e.g. '\n', '\u0000')
)

// rule represents a single sanitization rule
type rule struct {
	filter    uint64
	transform uint64
}

// Sanitizer applies an ordered set of rules to input strings
type Sanitizer struct {
	rules []rule
}

// New creates an empty Sanitizer (passthrough until rules are added)
func New() *Sanitizer {
	return &Sanitizer{}
}

// Line returns the sanitizer used for file and console record text:
// control characters are backslash-escaped, other non-printable runes
// stripped.
func Line() *Sanitizer {
	return New().
		WithRule(FilterControl, TransformEscape).
		WithRule(FilterNonPrintable, TransformStrip)
}

// WithRule appends a rule and returns the sanitizer for chaining
func (s *Sanitizer) WithRule(filter, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Apply runs all rules over the input. The input is returned unchanged
// (and unallocated) when no rule matches any rune.
func (s *Sanitizer) Apply(input string) string {
	if len(s.rules) == 0 {
		return input
	}

	// Fast path: scan for a first match before allocating
	matchIdx := -1
	for i, r := range input {
		if s.matchAny(r) {
			matchIdx = i
			break
		}
	}
	if matchIdx < 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + 8)
	b.WriteString(input[:matchIdx])
	for _, r := range input[matchIdx:] {
		matched := false
		for _, rl := range s.rules {
			if !matchFilter(rl.filter, r) {
				continue
			}
			matched = true
			if rl.transform&TransformStrip != 0 {
				break
			}
			writeEscaped(&b, r)
			break
		}
		if !matched {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *Sanitizer) matchAny(r rune) bool {
	for _, rl := range s.rules {
		if matchFilter(rl.filter, r) {
			return true
		}
	}
	return false
}

func matchFilter(filter uint64, r rune) bool {
	if filter&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if filter&FilterNonPrintable != 0 && !unicode.IsControl(r) && !strconv.IsPrint(r) && r != utf8.RuneError {
		return true
	}
	if filter&FilterPipe != 0 && r == '|' {
		return true
	}
	return false
}

// writeEscaped appends the backslash-escaped form of r
func writeEscaped(b *strings.Builder, r rune) {
	switch r {
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	case '\\':
		b.WriteString(`\\`)
	default:
		if r < 0x10000 {
			b.WriteString(`\u`)
			writeHex(b, uint32(r), 4)
		} else {
			b.WriteString(`\U`)
			writeHex(b, uint32(r), 8)
		}
	}
}

const hexChars = "0123456789abcdef"

func writeHex(b *strings.Builder, v uint32, width int) {
	for i := width - 1; i >= 0; i-- {
		b.WriteByte(hexChars[(v>>(uint(i)*4))&0xF])
	}
}
