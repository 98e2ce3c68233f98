package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGlog(t *testing.T) {
	m, ok := Parse("0101 01:01:01.000 kubeapi")
	require.True(t, ok)
	require.Equal(t, "glog", m.Format)
	require.Equal(t, time.Date(ReferenceYear, 1, 1, 1, 1, 1, 0, time.UTC), m.Time)
	require.Equal(t, len("0101 01:01:01.000"), m.End)

	m, ok = Parse("I0102 15:04:05.123456    1234 kubelet.go:42] Started")
	require.True(t, ok)
	require.Equal(t, time.Date(ReferenceYear, 1, 2, 15, 4, 5, 123456000, time.UTC), m.Time)
	require.Equal(t, "I0102 15:04:05.123456", "I0102 15:04:05.123456    1234"[:m.End])
}

func TestISO8601(t *testing.T) {
	m, ok := Parse("2016-07-08T09:10:11.005Z started")
	require.True(t, ok)
	require.Equal(t, "iso8601", m.Format)
	require.Equal(t, time.Date(2016, 7, 8, 9, 10, 11, 5000000, time.UTC), m.Time)

	m, ok = Parse("2016-07-08T09:10:11+02:00 started")
	require.True(t, ok)
	require.Equal(t, time.Date(2016, 7, 8, 7, 10, 11, 0, time.UTC), m.Time)
	require.Equal(t, len("2016-07-08T09:10:11+02:00"), m.End)
}

func TestISO8601NoYear(t *testing.T) {
	m, ok := Parse("01-01T01:01:01.005Z last line")
	require.True(t, ok)
	require.Equal(t, "iso8601-noyear", m.Format)
	require.Equal(t, time.Date(ReferenceYear, 1, 1, 1, 1, 1, 5000000, time.UTC), m.Time)
}

func TestDateTimeAndSyslog(t *testing.T) {
	m, ok := Parse("2017-02-03 04:05:06,789 INFO something")
	require.True(t, ok)
	require.Equal(t, "datetime", m.Format)
	require.Equal(t, time.Date(2017, 2, 3, 4, 5, 6, 789000000, time.UTC), m.Time)

	m, ok = Parse("Jan  2 15:04:05 node kernel: boot")
	require.True(t, ok)
	require.Equal(t, "syslog", m.Format)
	require.Equal(t, time.Date(ReferenceYear, 1, 2, 15, 4, 5, 0, time.UTC), m.Time)
}

func TestLeadingWhitespace(t *testing.T) {
	m, ok := Parse("   0101 01:01:01.001 Event")
	require.True(t, ok)
	require.Equal(t, len("   0101 01:01:01.001"), m.End)
}

func TestNoTimestamp(t *testing.T) {
	for _, line := range []string{
		"",
		"abc",
		"Event(api.ObjectReference{Name:\"abc\"})",
		"\tat foo.bar(Baz.java:12)",
		"job 0101 01:01:01.000 not at the start",
		"1301 01:01:01.000 month out of range",
		"0101 25:01:01.000 hour out of range",
		"2016-07-08T09:10:11 missing zone",
	} {
		_, ok := Parse(line)
		require.False(t, ok, line)
	}
}

func TestFormatsWithinOneFile(t *testing.T) {
	lines := []string{
		"0101 01:01:01.000 kubeapi",
		"0101 01:01:01.002 pod",
		"01-01T01:01:01.005Z last line",
	}

	var last time.Time
	for _, line := range lines {
		m, ok := Parse(line)
		require.True(t, ok)
		require.True(t, m.Time.After(last))
		last = m.Time
	}
}

func TestParseWith(t *testing.T) {
	_, ok := ParseWith([]Matcher{ISO8601}, "0101 01:01:01.000 kubeapi")
	require.False(t, ok)

	m, ok := ParseWith([]Matcher{ISO8601, Glog}, "0101 01:01:01.000 kubeapi")
	require.True(t, ok)
	require.Equal(t, Glog.Name(), m.Format)
}
