package build

import (
	"regexp"
	"strconv"
	"strings"
)

// SourceRepo describes where the sources of the tested code are browsable.
type SourceRepo struct {
	// Prefix is the path of the checkout in stack traces, e.g. "/go/src/k8s.io/kubernetes/".
	Prefix string

	// URL is the repository, e.g. "https://github.com/kubernetes/kubernetes".
	URL string
}

// Link points from a file:line reference in a failure text to the source.
type Link struct {
	Text string `json:"text"`
	File string `json:"file"`
	Line int    `json:"line"`
	URL  string `json:"url"`
}

var fileLine = regexp.MustCompile(`([\w./-]+\.go):(\d+)`)

// Links finds references to files below the repo's prefix in text and
// returns links to them at the given commit.
func (r *SourceRepo) Links(text, commit string) []Link {
	if r == nil || len(r.Prefix) == 0 || len(r.URL) == 0 || len(commit) == 0 {
		return nil
	}

	links := []Link{}

	for _, m := range fileLine.FindAllStringSubmatch(text, -1) {
		file, found := strings.CutPrefix(m[1], r.Prefix)
		if !found || len(file) == 0 {
			continue
		}

		line, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		links = append(links, Link{
			Text: m[0],
			File: file,
			Line: line,
			URL:  strings.TrimSuffix(r.URL, "/") + "/blob/" + commit + "/" + file + "#L" + m[2],
		})
	}

	return links
}
