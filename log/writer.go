package log

import (
	"container/ring"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Writer receives events from a Logger.
type Writer interface {
	Write(e *Event) error
	Close()
}

type formatWriter struct {
	writer    io.Writer
	level     Level
	formatter Formatter
}

func (w *formatWriter) Write(e *Event) error {
	if w.level < e.Level || e.Level == Lsilent {
		return nil
	}

	_, err := w.writer.Write(w.formatter.Bytes(e))

	return err
}

func (w *formatWriter) Close() {}

// NewJSONWriter writes one JSON object per event to w.
func NewJSONWriter(w io.Writer, level Level) Writer {
	return NewSyncWriter(&formatWriter{
		writer:    w,
		level:     level,
		formatter: NewJSONFormatter(),
	})
}

// NewConsoleWriter writes key=value lines to w. Colors are only used if
// w is a terminal.
func NewConsoleWriter(w io.Writer, level Level, useColor bool) Writer {
	return NewSyncWriter(&formatWriter{
		writer:    w,
		level:     level,
		formatter: NewConsoleFormatter(useColor && isTerminal(w)),
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type topicWriter struct {
	writer Writer
	topics map[string]struct{}
}

// NewTopicWriter forwards only events whose component is one of topics.
// An empty list forwards everything.
func NewTopicWriter(writer Writer, topics []string) Writer {
	w := &topicWriter{
		writer: writer,
		topics: make(map[string]struct{}),
	}

	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if len(topic) == 0 {
			continue
		}
		w.topics[topic] = struct{}{}
	}

	return w
}

func (w *topicWriter) Write(e *Event) error {
	if len(w.topics) != 0 {
		if _, ok := w.topics[strings.ToLower(e.Component)]; !ok {
			return nil
		}
	}

	return w.writer.Write(e)
}

func (w *topicWriter) Close() {
	w.writer.Close()
}

type syncWriter struct {
	mu     sync.Mutex
	writer Writer
}

func NewSyncWriter(writer Writer) Writer {
	return &syncWriter{
		writer: writer,
	}
}

func (w *syncWriter) Write(e *Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.writer.Write(e)
}

func (w *syncWriter) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Close()
}

type multiWriter struct {
	writer []Writer
}

// NewMultiWriter forwards each event to all writers. The first error is returned
// after every writer has been tried.
func NewMultiWriter(writer ...Writer) Writer {
	return &multiWriter{
		writer: append([]Writer(nil), writer...),
	}
}

func (w *multiWriter) Write(e *Event) error {
	var first error

	for _, writer := range w.writer {
		if err := writer.Write(e); err != nil && first == nil {
			first = err
		}
	}

	return first
}

func (w *multiWriter) Close() {
	for _, writer := range w.writer {
		writer.Close()
	}
}

// BufferWriter keeps the most recent events in memory.
type BufferWriter interface {
	Writer
	Events() []*Event
}

type bufferWriter struct {
	lines *ring.Ring
	lock  sync.RWMutex
	level Level
}

func NewBufferWriter(level Level, lines int) BufferWriter {
	b := &bufferWriter{
		level: level,
	}

	if lines > 0 {
		b.lines = ring.New(lines)
	}

	return b
}

func (w *bufferWriter) Write(e *Event) error {
	if w.level < e.Level || e.Level == Lsilent {
		return nil
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if w.lines != nil {
		w.lines.Value = e.clone()
		w.lines = w.lines.Next()
	}

	return nil
}

func (w *bufferWriter) Close() {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.lines = nil
}

// Events returns the buffered events, oldest first.
func (w *bufferWriter) Events() []*Event {
	lines := []*Event{}

	w.lock.RLock()
	defer w.lock.RUnlock()

	if w.lines == nil {
		return lines
	}

	w.lines.Do(func(l interface{}) {
		if l == nil {
			return
		}

		lines = append(lines, l.(*Event).clone())
	})

	return lines
}
