package weave

import (
	"html"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// findWords returns the spans of all whole-word occurrences of the keywords,
// ordered and without overlaps.
func findWords(text string, keywords []string) []Span {
	spans := []Span{}

	for _, k := range keywords {
		if len(k) == 0 {
			continue
		}

		for offset := 0; offset < len(text); {
			i := strings.Index(text[offset:], k)
			if i < 0 {
				break
			}

			start := offset + i
			end := start + len(k)

			if isBoundary(text, start, end) {
				spans = append(spans, Span{Start: start, End: end})
			}

			offset = start + 1
		}
	}

	if len(spans) == 0 {
		return nil
	}

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})

	merged := spans[:1]
	for _, s := range spans[1:] {
		if s.Start < merged[len(merged)-1].End {
			continue
		}
		merged = append(merged, s)
	}

	return merged
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isBoundary reports whether text[start:end] is not glued to a word
// character on either side.
func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}

	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}

	return true
}

// HTML returns the escaped text of the entry. Highlighted entries are
// wrapped in a "hilight" span, keywords in a "keyword" span.
func (e Entry) HTML() string {
	text := markup(e.Text, e.Keywords)

	if !e.Highlighted {
		return text
	}

	return `<span class="hilight">` + text + `</span>`
}

func markup(text string, spans []Span) string {
	b := strings.Builder{}

	last := 0
	for _, s := range spans {
		if s.Start < last || s.End > len(text) {
			continue
		}

		b.WriteString(html.EscapeString(text[last:s.Start]))
		b.WriteString(`<span class="keyword">`)
		b.WriteString(html.EscapeString(text[s.Start:s.End]))
		b.WriteString(`</span>`)

		last = s.End
	}

	b.WriteString(html.EscapeString(text[last:]))

	return b.String()
}

// Render joins the HTML of all entries with newlines.
func Render(entries []Entry) string {
	lines := make([]string, 0, len(entries))

	for _, e := range entries {
		lines = append(lines, e.HTML())
	}

	return strings.Join(lines, "\n")
}
