package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts an SRT timestamp string to a duration. Both
// comma and dot millisecond separators are accepted, since recognition
// engines are inconsistent about which they emit.
// Format: 00:00:00,000 or 00:00:00.000
func ParseTimestamp(ts string) time.Duration {
	ts = strings.Replace(ts, ",", ".", 1)

	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	secParts := strings.Split(parts[2], ".")
	seconds, _ := strconv.Atoi(secParts[0])
	millis := 0
	if len(secParts) > 1 {
		millis, _ = strconv.Atoi(secParts[1])
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
}

// FormatTimestamp converts a duration to SRT timestamp format
// (00:00:00,000).
func FormatTimestamp(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// SecondsToDuration converts seconds as float64 to a duration.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// DurationToSeconds converts a duration to seconds as float64.
func DurationToSeconds(d time.Duration) float64 {
	return d.Seconds()
}
