package build

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatDuration renders d compactly, e.g. "16m40s" or "2h0m5s". Leading
// zero units are left out.
func FormatDuration(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}

// FormatSeconds renders a duration in seconds like FormatDuration. Below a
// minute up to two decimals are kept, e.g. "36.49s".
func FormatSeconds(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}

	if seconds < 60 {
		return strconv.FormatFloat(math.Round(seconds*100)/100, 'f', -1, 64) + "s"
	}

	total := int64(seconds)

	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	secs := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh%dm%ds", days, hours, minutes, secs)
	case hours > 0:
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, secs)
	}

	return fmt.Sprintf("%dm%ds", minutes, secs)
}
