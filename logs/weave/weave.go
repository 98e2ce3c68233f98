// Package weave merges independently timestamped log files into one
// chronological stream and marks the entries that concern a target, e.g.
// a pod name.
package weave

import (
	"container/heap"
	"strings"
	"time"

	"github.com/buildlens/core/logs/timestamp"
)

// Source is one log file, already split into lines.
type Source struct {
	Name  string
	Lines []string
}

// Line is a single log line with its timestamp, if any.
type Line struct {
	Text    string
	Time    time.Time
	HasTime bool
	Source  string
}

// Span marks the bytes [Start, End) of an entry's text.
type Span struct {
	Start int
	End   int
}

// Entry is a timestamped line together with its continuation lines.
type Entry struct {
	Time        time.Time
	HasTime     bool
	Text        string
	Source      string
	Highlighted bool
	Keywords    []Span
}

type Options struct {
	// Highlight marks every entry that contains it.
	Highlight string

	// Match are further strings that mark an entry as highlighted.
	Match []string

	// Keywords are marked within highlighted entries where they occur
	// as a whole word.
	Keywords []string

	// Separator is put between a record and its continuation lines. By
	// default they are concatenated.
	Separator string

	// OnlyHighlighted drops all entries that are not highlighted.
	OnlyHighlighted bool

	// Matchers replace the default list of timestamp formats.
	Matchers []timestamp.Matcher
}

// Scan parses the timestamp of each line of the source.
func Scan(source Source, matchers []timestamp.Matcher) []Line {
	if matchers == nil {
		matchers = timestamp.Matchers
	}

	lines := make([]Line, 0, len(source.Lines))

	for _, text := range source.Lines {
		line := Line{
			Text:   text,
			Source: source.Name,
		}

		if m, ok := timestamp.ParseWith(matchers, text); ok {
			line.Time = m.Time
			line.HasTime = true
		}

		lines = append(lines, line)
	}

	return lines
}

// accumulator groups the lines of one file into records.
type accumulator struct {
	separator string

	// head collects continuation lines before the first timestamped line.
	head []string

	open    *Entry
	text    strings.Builder
	records []Entry
}

func (a *accumulator) add(line Line) {
	if !line.HasTime {
		if a.open == nil {
			a.head = append(a.head, line.Text)
			return
		}

		a.text.WriteString(a.separator)
		a.text.WriteString(line.Text)

		return
	}

	a.close()

	a.open = &Entry{
		Time:    line.Time,
		HasTime: true,
		Source:  line.Source,
	}

	if len(a.records) == 0 && len(a.head) != 0 {
		for _, h := range a.head {
			a.text.WriteString(h)
			a.text.WriteString(a.separator)
		}
		a.head = nil
	}

	a.text.WriteString(line.Text)
}

func (a *accumulator) close() {
	if a.open == nil {
		return
	}

	a.open.Text = a.text.String()
	a.records = append(a.records, *a.open)

	a.open = nil
	a.text.Reset()
}

// finish returns all records. A file without any timestamp yields one
// untimestamped record per line.
func (a *accumulator) finish(source string) []Entry {
	a.close()

	for _, h := range a.head {
		a.records = append(a.records, Entry{
			Text:   h,
			Source: source,
		})
	}
	a.head = nil

	return a.records
}

// Records groups the lines of one file. Continuation lines are appended to
// the preceding timestamped line. Continuation lines in front of the first
// timestamped line are prepended to it.
func Records(source Source, opts Options) []Entry {
	acc := &accumulator{
		separator: opts.Separator,
	}

	for _, line := range Scan(source, opts.Matchers) {
		acc.add(line)
	}

	return acc.finish(source.Name)
}

// head is the next pending record of a file during the merge.
type head struct {
	file    int
	records []Entry
}

// mergeQueue orders heads by time, ties go to the earlier file.
type mergeQueue []*head

func (q mergeQueue) Len() int { return len(q) }

func (q mergeQueue) Less(i, j int) bool {
	a, b := q[i].records[0], q[j].records[0]
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}

	return q[i].file < q[j].file
}

func (q mergeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *mergeQueue) Push(x interface{}) { *q = append(*q, x.(*head)) }

func (q *mergeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]

	return x
}

// Weave merges the sources into one stream ordered by time. Records
// without a timestamp are emitted as soon as they are the next record of
// their file, which puts files without any timestamp in front.
func Weave(sources []Source, opts Options) []Entry {
	entries := []Entry{}
	queue := mergeQueue{}

	emit := func(e Entry) {
		annotate(&e, opts)

		if opts.OnlyHighlighted && !e.Highlighted {
			return
		}

		entries = append(entries, e)
	}

	// drain emits untimestamped records until a timestamped one is pending.
	drain := func(h *head) {
		for len(h.records) != 0 && !h.records[0].HasTime {
			emit(h.records[0])
			h.records = h.records[1:]
		}
	}

	for i, source := range sources {
		h := &head{
			file:    i,
			records: Records(source, opts),
		}

		drain(h)

		if len(h.records) != 0 {
			queue = append(queue, h)
		}
	}

	heap.Init(&queue)

	for queue.Len() != 0 {
		h := queue[0]

		emit(h.records[0])
		h.records = h.records[1:]

		drain(h)

		if len(h.records) == 0 {
			heap.Pop(&queue)
		} else {
			heap.Fix(&queue, 0)
		}
	}

	return entries
}

// annotate sets the highlight flag and the keyword spans of an entry.
func annotate(e *Entry, opts Options) {
	e.Highlighted = false
	e.Keywords = nil

	if len(opts.Highlight) != 0 && strings.Contains(e.Text, opts.Highlight) {
		e.Highlighted = true
	}

	for _, m := range opts.Match {
		if len(m) != 0 && strings.Contains(e.Text, m) {
			e.Highlighted = true
		}
	}

	if !e.Highlighted {
		return
	}

	e.Keywords = findWords(e.Text, opts.Keywords)
}
