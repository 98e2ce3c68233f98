// Package errlines picks the lines of a build log that look like errors.
package errlines

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMax is the number of lines returned if Options.Max is not set.
const DefaultMax = 10

// Markers matches the words that make a line an error line.
var Markers = regexp.MustCompile(`(?i)\b(?:error|fail|failed|failure|fatal|panic)\b`)

// Span marks the bytes [Start, End) of a line's text.
type Span struct {
	Start int
	End   int
}

// Line is an error line of the log.
type Line struct {
	// Number is the 1-based line number in the log.
	Number int

	// Text is the display-safe text of the line.
	Text string

	// Spans are the positions of the markers in Text.
	Spans []Span
}

type Options struct {
	// Max is the maximum number of lines to return.
	Max int

	// Markers replaces the default marker expression.
	Markers *regexp.Regexp
}

// Extract returns up to opts.Max lines of log that contain a marker, in
// the order of the log.
func Extract(log []byte, opts Options) []Line {
	max := opts.Max
	if max <= 0 {
		max = DefaultMax
	}

	markers := opts.Markers
	if markers == nil {
		markers = Markers
	}

	lines := []Line{}

	number := 0
	for len(log) != 0 && len(lines) < max {
		number++

		raw := log
		if i := indexNewline(log); i >= 0 {
			raw = log[:i]
			log = log[i+1:]
		} else {
			log = nil
		}

		text := Sanitize(raw)

		matches := markers.FindAllStringIndex(text, -1)
		if len(matches) == 0 {
			continue
		}

		line := Line{
			Number: number,
			Text:   text,
			Spans:  make([]Span, 0, len(matches)),
		}

		for _, m := range matches {
			line.Spans = append(line.Spans, Span{Start: m[0], End: m[1]})
		}

		lines = append(lines, line)
	}

	return lines
}

func indexNewline(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}

	return -1
}

// Sanitize converts a raw line into displayable text. Every invalid UTF-8
// byte and every control character except tab is replaced by U+FFFD. A
// trailing carriage return is removed.
func Sanitize(raw []byte) string {
	if n := len(raw); n != 0 && raw[n-1] == '\r' {
		raw = raw[:n-1]
	}

	b := strings.Builder{}
	b.Grow(len(raw))

	for len(raw) != 0 {
		r, size := utf8.DecodeRune(raw)

		switch {
		case r == utf8.RuneError && size <= 1:
			b.WriteRune(utf8.RuneError)
		case r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
			b.WriteRune(utf8.RuneError)
		default:
			b.Write(raw[:size])
		}

		raw = raw[size:]
	}

	return b.String()
}

// HTML returns the escaped text with each marker wrapped in a "keyword" span.
func (l Line) HTML() string {
	b := strings.Builder{}

	last := 0
	for _, s := range l.Spans {
		if s.Start < last || s.End > len(l.Text) {
			continue
		}

		b.WriteString(html.EscapeString(l.Text[last:s.Start]))
		b.WriteString(`<span class="keyword">`)
		b.WriteString(html.EscapeString(l.Text[s.Start:s.End]))
		b.WriteString(`</span>`)

		last = s.End
	}

	b.WriteString(html.EscapeString(l.Text[last:]))

	return b.String()
}
