package calisnet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/calisnet/engine/go/internal/timefmt"
	"github.com/google/uuid"
)

// flexSeconds decodes a duration that older API revisions serve either as a
// plain number of seconds or as an "H:MM:SS"/"MM:SS" string.
type flexSeconds int

func (f *flexSeconds) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = 0
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if !strings.Contains(text, ":") {
			n, err := strconv.Atoi(strings.TrimSpace(text))
			if err != nil {
				return fmt.Errorf("duration %q is neither seconds nor a time string", text)
			}
			*f = flexSeconds(n)
			return nil
		}
		seconds, err := timefmt.ParseDuration(text)
		if err != nil {
			return err
		}
		*f = flexSeconds(seconds)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexSeconds(n)
	return nil
}

// flexID decodes an identifier served under inconsistent key names; the
// owning struct picks the populated field. Must parse as a UUID.
func parseID(candidates ...string) (uuid.UUID, error) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		id, err := uuid.Parse(candidate)
		if err != nil {
			return uuid.Nil, fmt.Errorf("malformed id %q: %w", candidate, err)
		}
		return id, nil
	}
	return uuid.Nil, fmt.Errorf("no id present in response")
}

func parseDate(text string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed date %q", text)
}
