// Package build classifies CI builds from their started/finished metadata,
// JUnit results and build log.
package build

import (
	"time"

	"github.com/buildlens/core/junit"
	"github.com/buildlens/core/logs/errlines"
)

// Input is everything known about a build. Absent files are nil.
type Input struct {
	Path       string
	Started    *Started
	Finished   *Finished
	TestCases  []junit.TestCase
	LogExcerpt []errlines.Line

	// Source enables links from failure texts to the tested sources.
	Source *SourceRepo
}

// Failure is a failed test case prepared for display.
type Failure struct {
	junit.TestCase
	Duration string `json:"duration"`
	Links    []Link `json:"links,omitempty"`
}

// Summary is the classified state of a build.
type Summary struct {
	Path     string    `json:"path"`
	Started  *Started  `json:"started,omitempty"`
	Finished *Finished `json:"finished,omitempty"`

	Result    string     `json:"result"`
	StartTime *time.Time `json:"start_time,omitempty"`
	Duration  string     `json:"duration,omitempty"`
	Commit    string     `json:"commit,omitempty"`

	TestCases []junit.TestCase `json:"test_cases"`
	Failures  []Failure        `json:"failures"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`

	// NoTestResults is set if the build has no test cases at all.
	NoTestResults bool `json:"no_test_results"`

	LogExcerpt   []errlines.Line `json:"log_excerpt,omitempty"`
	LogTruncated bool            `json:"log_truncated,omitempty"`

	// PR is the pull request number if the build belongs to one.
	PR string `json:"pr,omitempty"`

	// Problems lists files that exist but couldn't be read.
	Problems []string `json:"problems,omitempty"`
}

// IsFinished reports whether the build has finished.
func (s *Summary) IsFinished() bool {
	return s.Finished != nil
}

// NeedsLog reports whether the build log excerpt is shown for a build with
// the given result and number of test cases.
func NeedsLog(result string, cases int) bool {
	return cases == 0 && result != ResultSuccess
}

// Classify combines the data of a build into a summary. Without
// finished.json a build is "Not Finished", no matter what else is known.
func Classify(in Input) Summary {
	s := Summary{
		Path:      in.Path,
		Started:   in.Started,
		Finished:  in.Finished,
		Result:    ResultNotFinished,
		Commit:    in.Started.Commit(),
		TestCases: in.TestCases,
		Failures:  []Failure{},
	}

	if s.TestCases == nil {
		s.TestCases = []junit.TestCase{}
	}

	if in.Started != nil {
		t := in.Started.Timestamp.Time()
		s.StartTime = &t
	}

	if in.Finished != nil {
		s.Result = in.Finished.Outcome()
	}

	if in.Started != nil && in.Finished != nil {
		s.Duration = FormatDuration(in.Finished.Timestamp.Time().Sub(in.Started.Timestamp.Time()))
	}

	s.Passed, s.Failed, s.Skipped = junit.Count(s.TestCases)

	for _, tc := range junit.Failures(s.TestCases) {
		s.Failures = append(s.Failures, Failure{
			TestCase: tc,
			Duration: FormatSeconds(tc.Duration),
			Links:    in.Source.Links(tc.FailureText, s.Commit),
		})
	}

	s.NoTestResults = len(s.TestCases) == 0

	if NeedsLog(s.Result, len(s.TestCases)) && len(in.LogExcerpt) != 0 {
		s.LogExcerpt = in.LogExcerpt
	}

	return s
}
