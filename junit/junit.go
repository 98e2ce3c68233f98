// Package junit reads JUnit XML test reports.
package junit

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrMalformedArtifact is returned if a report is not XML.
var ErrMalformedArtifact = errors.New("malformed junit artifact")

// Status is the outcome of a single test case.
type Status string

const (
	Passed  Status = "passed"
	Failed  Status = "failed"
	Skipped Status = "skipped"
)

// TestCase is a single test case of a report.
type TestCase struct {
	Name      string  `json:"name"`
	ClassName string  `json:"classname"`
	Duration  float64 `json:"duration_sec"`
	Status    Status  `json:"status"`

	// FailureText is the content of the failure element. It's empty if the
	// test didn't fail or if the failure carries no text.
	FailureText string `json:"failure_text"`

	// Artifact is the name of the report the test case was read from.
	Artifact string `json:"artifact,omitempty"`
}

type xmlText struct {
	Message string `xml:"message,attr,omitempty"`
	Text    string `xml:",chardata"`
}

type xmlCase struct {
	XMLName   xml.Name `xml:"testcase"`
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      string   `xml:"time,attr"`
	Skipped   *xmlText `xml:"skipped"`
	Failure   *xmlText `xml:"failure"`
	Error     *xmlText `xml:"error"`
}

// Parse reads all test cases of a report. The root may be a <testsuite> or
// a <testsuites> element, suites may be nested. ErrMalformedArtifact is
// returned if data is not XML.
func Parse(data []byte) ([]TestCase, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	cases := []TestCase{}
	elements := 0

	for {
		token, err := dec.Token()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, malformed(err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		elements++

		if start.Name.Local != "testcase" {
			continue
		}

		c := xmlCase{}
		if err := dec.DecodeElement(&c, &start); err != nil {
			return nil, malformed(err)
		}

		cases = append(cases, c.testCase())
	}

	if elements == 0 {
		return nil, fmt.Errorf("%w: no elements", ErrMalformedArtifact)
	}

	return cases, nil
}

func malformed(err error) error {
	var serr *xml.SyntaxError
	if errors.As(err, &serr) {
		return fmt.Errorf("%w: line %d: %s", ErrMalformedArtifact, serr.Line, serr.Msg)
	}

	return fmt.Errorf("%w: %s", ErrMalformedArtifact, err.Error())
}

func (c *xmlCase) testCase() TestCase {
	tc := TestCase{
		Name:      c.Name,
		ClassName: c.ClassName,
		Duration:  duration(c.Time),
		Status:    Passed,
	}

	switch {
	case c.Skipped != nil:
		tc.Status = Skipped
	case c.Failure != nil:
		tc.Status = Failed
		tc.FailureText = c.Failure.Text
	case c.Error != nil:
		tc.Status = Failed
		tc.FailureText = c.Error.Text
	}

	return tc
}

// duration parses the time attribute, e.g. "36.49" or "1,234.5". Anything
// unparseable is 0.
func duration(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if len(s) == 0 {
		return 0
	}

	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return d
}

// ParseArtifacts parses several reports in the order of their names and
// concatenates the test cases. Malformed reports are skipped, their errors
// are returned.
func ParseArtifacts(artifacts map[string][]byte) ([]TestCase, []error) {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}

	sort.Strings(names)

	cases := []TestCase{}
	errs := []error{}

	for _, name := range names {
		c, err := Parse(artifacts[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		for i := range c {
			c[i].Artifact = name
		}

		cases = append(cases, c...)
	}

	return cases, errs
}

type xmlSuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Skipped  int             `xml:"skipped,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []xmlCaseWriter `xml:"testcase"`
}

type xmlCaseWriter struct {
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      string   `xml:"time,attr"`
	Skipped   *xmlText `xml:"skipped"`
	Failure   *xmlText `xml:"failure"`
}

// Marshal writes the test cases as a single <testsuite>. Parsing the result
// yields the same test cases without their artifact names.
func Marshal(cases []TestCase) ([]byte, error) {
	suite := xmlSuite{
		Tests: len(cases),
		Cases: make([]xmlCaseWriter, 0, len(cases)),
	}

	total := 0.0

	for _, tc := range cases {
		c := xmlCaseWriter{
			Name:      tc.Name,
			ClassName: tc.ClassName,
			Time:      strconv.FormatFloat(tc.Duration, 'f', -1, 64),
		}

		switch tc.Status {
		case Skipped:
			suite.Skipped++
			c.Skipped = &xmlText{}
		case Failed:
			suite.Failures++
			c.Failure = &xmlText{Text: tc.FailureText}
		}

		total += tc.Duration
		suite.Cases = append(suite.Cases, c)
	}

	suite.Time = strconv.FormatFloat(total, 'f', -1, 64)

	data, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), data...), nil
}

// Count returns the number of passed, failed and skipped test cases.
func Count(cases []TestCase) (passed, failed, skipped int) {
	for _, c := range cases {
		switch c.Status {
		case Passed:
			passed++
		case Failed:
			failed++
		case Skipped:
			skipped++
		}
	}

	return
}

// Failures returns the failed test cases.
func Failures(cases []TestCase) []TestCase {
	failures := []TestCase{}

	for _, c := range cases {
		if c.Status == Failed {
			failures = append(failures, c)
		}
	}

	return failures
}
