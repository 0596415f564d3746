// Package timefmt converts between elapsed-time strings and integer seconds.
// It is the single codec for result times; the legacy front-end carried
// several divergent copies of this logic and they disagreed on multi-hour
// durations.
package timefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat is returned when a duration string or value cannot be parsed.
var ErrFormat = errors.New("malformed duration")

// ParseDuration parses "H:MM:SS" or "MM:SS" into whole seconds.
// A two-field value is read as minutes:seconds.
func ParseDuration(text string) (int, error) {
	fields := strings.Split(strings.TrimSpace(text), ":")

	var hours, minutes, seconds int
	switch len(fields) {
	case 2:
		var err error
		if minutes, err = parseField(fields[0]); err != nil {
			return 0, err
		}
		if seconds, err = parseField(fields[1]); err != nil {
			return 0, err
		}
	case 3:
		var err error
		if hours, err = parseField(fields[0]); err != nil {
			return 0, err
		}
		if minutes, err = parseField(fields[1]); err != nil {
			return 0, err
		}
		if seconds, err = parseField(fields[2]); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrFormat, text)
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// FormatDuration renders seconds as "H:MM:SS", hours unpadded,
// minutes and seconds zero-padded.
func FormatDuration(seconds int) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("%w: negative seconds %d", ErrFormat, seconds)
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	remaining := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, remaining), nil
}

func parseField(field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric field %q", ErrFormat, field)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative field %q", ErrFormat, field)
	}
	return n, nil
}
