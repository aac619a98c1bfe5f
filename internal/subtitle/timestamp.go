package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// strict SubRip clock form: HH:MM:SS,mmm
var timestampRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)

// FormatError reports a timestamp that does not follow the
// HH:MM:SS,mmm clock form.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: want HH:MM:SS,mmm", e.Input)
}

// ParseTimestamp converts an SRT clock value into an offset from
// midnight. The input must match HH:MM:SS,mmm exactly, with the fields
// inside clock range (hours 00-23, minutes and seconds 00-59).
func ParseTimestamp(s string) (time.Duration, error) {
	matches := timestampRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, &FormatError{Input: s}
	}

	h, _ := strconv.Atoi(matches[1])
	m, _ := strconv.Atoi(matches[2])
	sec, _ := strconv.Atoi(matches[3])
	ms, _ := strconv.Atoi(matches[4])

	if h > 23 || m > 59 || sec > 59 {
		return 0, &FormatError{Input: s}
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// FormatTimestamp renders an offset from midnight in the SRT clock
// form. Sub-millisecond remainders are truncated. Negative offsets
// clamp to zero so borrowed timestamps can never render as garbage.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
