// Package timestamp recognizes the timestamp at the start of a log line.
//
// The known formats form an ordered list of independent matchers. The first
// matcher that accepts a line wins. Formats without a year are placed in
// ReferenceYear, all times are UTC.
package timestamp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ReferenceYear is used for all formats that don't carry a year.
const ReferenceYear = 1900

// Match is a recognized timestamp.
type Match struct {
	Time time.Time

	// End is the byte offset in the line where the timestamp ends.
	End int

	// Format is the name of the matcher that recognized the timestamp.
	Format string
}

// Matcher recognizes one timestamp format.
type Matcher interface {
	Name() string
	Match(line string) (Match, bool)
}

// Matchers is the prioritized list of known formats.
var Matchers = []Matcher{
	Glog,
	ISO8601,
	ISO8601NoYear,
	DateTime,
	Syslog,
}

// Parse tries each of Matchers in order and returns the first match. A line
// without a timestamp is not an error.
func Parse(line string) (Match, bool) {
	return ParseWith(Matchers, line)
}

// ParseWith is Parse with a custom list of matchers.
func ParseWith(matchers []Matcher, line string) (Match, bool) {
	for _, m := range matchers {
		if match, ok := m.Match(line); ok {
			return match, true
		}
	}

	return Match{}, false
}

// fields are the parts of a timestamp as extracted by a regexp. Each holds
// the index of the submatch, 0 means absent.
type fields struct {
	year, month, day, hour, minute, second, fraction, zone int
	monthName                                              int
}

type regexpMatcher struct {
	name   string
	re     *regexp.Regexp
	fields fields
}

func (m *regexpMatcher) Name() string {
	return m.name
}

func (m *regexpMatcher) Match(line string) (Match, bool) {
	idx := m.re.FindStringSubmatchIndex(line)
	if idx == nil {
		return Match{}, false
	}

	group := func(n int) string {
		if n == 0 || idx[2*n] < 0 {
			return ""
		}

		return line[idx[2*n]:idx[2*n+1]]
	}

	year := ReferenceYear
	if m.fields.year != 0 {
		year = atoi(group(m.fields.year))
	}

	var month int
	if m.fields.monthName != 0 {
		month = monthNames[group(m.fields.monthName)]
	} else {
		month = atoi(group(m.fields.month))
	}

	day := atoi(strings.TrimSpace(group(m.fields.day)))
	hour := atoi(group(m.fields.hour))
	minute := atoi(group(m.fields.minute))
	second := atoi(group(m.fields.second))

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 60 {
		return Match{}, false
	}

	nsec := fraction(group(m.fields.fraction))

	loc := time.UTC
	offset, ok := zone(group(m.fields.zone))
	if !ok {
		return Match{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, nsec, loc).Add(-offset)

	return Match{
		Time:   t,
		End:    idx[1],
		Format: m.name,
	}, true
}

var monthNames = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}

	return n
}

// fraction converts the digits after the decimal point into nanoseconds.
func fraction(s string) int {
	if len(s) == 0 {
		return 0
	}

	if len(s) > 9 {
		s = s[:9]
	}

	n := atoi(s)
	for i := len(s); i < 9; i++ {
		n *= 10
	}

	return n
}

// zone parses "Z", "+hh:mm", "+hhmm" or "". The returned offset is east of UTC.
func zone(s string) (time.Duration, bool) {
	if len(s) == 0 || s == "Z" {
		return 0, true
	}

	sign := time.Duration(1)
	if s[0] == '-' {
		sign = -1
	}

	s = strings.ReplaceAll(s[1:], ":", "")
	if len(s) != 4 {
		return 0, false
	}

	h, m := atoi(s[:2]), atoi(s[2:])
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}

	return sign * (time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), true
}

const frac = `(?:[.,](\d{1,9}))?`

var (
	// Glog is the klog/glog header, e.g. "I0102 15:04:05.123456" or "0101 01:01:01.000".
	Glog Matcher = &regexpMatcher{
		name:   "glog",
		re:     regexp.MustCompile(`^\s*[IWEF]?(\d{2})(\d{2}) (\d{2}):(\d{2}):(\d{2})` + frac),
		fields: fields{month: 1, day: 2, hour: 3, minute: 4, second: 5, fraction: 6},
	}

	// ISO8601 is e.g. "2016-01-02T15:04:05.000Z" or "2016-01-02T15:04:05+02:00".
	ISO8601 Matcher = &regexpMatcher{
		name:   "iso8601",
		re:     regexp.MustCompile(`^\s*(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})` + frac + `(Z|[+-]\d{2}:?\d{2})`),
		fields: fields{year: 1, month: 2, day: 3, hour: 4, minute: 5, second: 6, fraction: 7, zone: 8},
	}

	// ISO8601NoYear is e.g. "01-01T01:01:01.005Z".
	ISO8601NoYear Matcher = &regexpMatcher{
		name:   "iso8601-noyear",
		re:     regexp.MustCompile(`^\s*(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})` + frac + `Z`),
		fields: fields{month: 1, day: 2, hour: 3, minute: 4, second: 5, fraction: 6},
	}

	// DateTime is e.g. "2016-01-02 15:04:05" or "2016-01-02 15:04:05,123".
	DateTime Matcher = &regexpMatcher{
		name:   "datetime",
		re:     regexp.MustCompile(`^\s*(\d{4})-(\d{2})-(\d{2}) (\d{2}):(\d{2}):(\d{2})` + frac),
		fields: fields{year: 1, month: 2, day: 3, hour: 4, minute: 5, second: 6, fraction: 7},
	}

	// Syslog is e.g. "Jan  2 15:04:05".
	Syslog Matcher = &regexpMatcher{
		name:   "syslog",
		re:     regexp.MustCompile(`^\s*(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec) ([ \d]\d) (\d{2}):(\d{2}):(\d{2})` + frac),
		fields: fields{monthName: 1, day: 2, hour: 3, minute: 4, second: 5, fraction: 6},
	}
)
