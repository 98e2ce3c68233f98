package api

import (
	"time"

	"github.com/buildlens/core/build"
	"github.com/buildlens/core/logs/errlines"

	"github.com/lestrrat-go/strftime"
)

// Build is the summary of a build
type Build struct {
	Path          string    `json:"path" jsonschema:"required"`
	Result        string    `json:"result" jsonschema:"required"`
	Finished      bool      `json:"finished"`
	Started       string    `json:"started,omitempty"`
	StartedAt     int64     `json:"started_at,omitempty" format:"int64"`
	Duration      string    `json:"duration,omitempty"`
	Version       string    `json:"version,omitempty"`
	Commit        string    `json:"commit,omitempty"`
	PR            string    `json:"pr,omitempty"`
	Node          string    `json:"node,omitempty"`
	Passed        int       `json:"passed" format:"int"`
	Failed        int       `json:"failed" format:"int"`
	Skipped       int       `json:"skipped" format:"int"`
	NoTestResults bool      `json:"no_test_results"`
	Failures      []Failure `json:"failures"`
	LogExcerpt    []LogLine `json:"log_excerpt,omitempty"`
	LogTruncated  bool      `json:"log_truncated,omitempty"`
	Problems      []string  `json:"problems,omitempty"`
}

// Failure is a failed test case
type Failure struct {
	Name     string `json:"name"`
	Class    string `json:"classname,omitempty"`
	Artifact string `json:"artifact,omitempty"`
	Duration string `json:"duration"`
	Text     string `json:"text"`
	Links    []Link `json:"links,omitempty"`
}

// Link points from a failure text to the source
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// LogLine is a line of the build log that reports an error
type LogLine struct {
	Number int    `json:"number" format:"int"`
	Text   string `json:"text"`
	HTML   string `json:"html"`
}

// Unmarshal converts a build summary to its API representation. Start times
// are formatted with format.
func (b *Build) Unmarshal(s build.Summary, format *strftime.Strftime) {
	b.Path = s.Path
	b.Result = s.Result
	b.Finished = s.IsFinished()
	b.Duration = s.Duration
	b.Commit = s.Commit
	b.PR = s.PR
	b.Passed = s.Passed
	b.Failed = s.Failed
	b.Skipped = s.Skipped
	b.NoTestResults = s.NoTestResults
	b.LogTruncated = s.LogTruncated
	b.Problems = s.Problems

	if s.Started != nil {
		b.Version = s.Started.Version
		b.Node = s.Started.Node
	}

	if s.StartTime != nil {
		b.Started = formatTime(*s.StartTime, format)
		b.StartedAt = s.StartTime.Unix()
	}

	b.Failures = make([]Failure, 0, len(s.Failures))

	for _, f := range s.Failures {
		failure := Failure{
			Name:     f.Name,
			Class:    f.ClassName,
			Artifact: f.Artifact,
			Duration: f.Duration,
			Text:     f.FailureText,
		}

		for _, l := range f.Links {
			failure.Links = append(failure.Links, Link{
				Text: l.Text,
				URL:  l.URL,
			})
		}

		b.Failures = append(b.Failures, failure)
	}

	b.LogExcerpt = unmarshalLines(s.LogExcerpt)
}

func unmarshalLines(lines []errlines.Line) []LogLine {
	if len(lines) == 0 {
		return nil
	}

	l := make([]LogLine, 0, len(lines))

	for _, line := range lines {
		l = append(l, LogLine{
			Number: line.Number,
			Text:   line.Text,
			HTML:   line.HTML(),
		})
	}

	return l
}

func formatTime(t time.Time, format *strftime.Strftime) string {
	if format == nil {
		return t.UTC().Format(time.RFC3339)
	}

	return format.FormatString(t.UTC())
}

// Builds lists the builds of a job, newest first
type Builds struct {
	Job    string   `json:"job"`
	Builds []string `json:"builds"`
}

// Jobs lists the jobs below a prefix
type Jobs struct {
	Prefix string   `json:"prefix"`
	Jobs   []string `json:"jobs"`
}
