package entities

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Statuses is the status history of an application. Older clients send a
// single string, newer ones an array; both decode to the same value.
type Statuses []string

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (s *Statuses) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = Statuses{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// Latest returns the most recent status, or "" when there is none.
func (s Statuses) Latest() string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// Collections lists every collection the gateway writes to, sorted.
func Collections() []string {
	names := []string{
		ProfileSchema.Collection(),
		JobSchema.Collection(),
		ApplicationSchema.Collection(),
		FeedSchema.Collection(),
	}
	sort.Strings(names)
	return names
}
