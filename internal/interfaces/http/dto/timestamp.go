package dto

import (
	"bytes"
	"fmt"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a request time that accepts RFC 3339 as well as plain
// dates and zone-less date-times.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	s := string(data[1 : len(data)-1])
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q: expected RFC 3339 or YYYY-MM-DD", s)
}

// Ptr returns nil for an absent timestamp
func (t *Timestamp) Ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
