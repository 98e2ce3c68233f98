package weave

import (
	"strings"
)

// ReadFunc fetches the content of a log file.
type ReadFunc func(path string) ([]byte, error)

// Result is the outcome of weaving several files.
type Result struct {
	Entries []Entry

	// Partial is set if at least one file couldn't be read.
	Partial bool

	// Missing lists the files that couldn't be read.
	Missing []string
}

// WeaveFiles reads each path with read and weaves the contents. Files that
// can't be read are skipped and reported in the result.
func WeaveFiles(read ReadFunc, paths []string, opts Options) Result {
	result := Result{
		Entries: []Entry{},
	}

	sources := make([]Source, 0, len(paths))

	for _, path := range paths {
		data, err := read(path)
		if err != nil {
			result.Partial = true
			result.Missing = append(result.Missing, path)
			continue
		}

		sources = append(sources, Source{
			Name:  path,
			Lines: SplitLines(data),
		})
	}

	if len(sources) == 0 {
		return result
	}

	result.Entries = Weave(sources, opts)

	return result
}

// SplitLines splits data into lines without their line endings. A final
// newline doesn't produce an empty last line. Invalid UTF-8 is replaced.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}

	text := strings.ToValidUTF8(string(data), "�")
	text = strings.TrimSuffix(text, "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}
