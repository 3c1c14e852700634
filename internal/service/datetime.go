package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted in requests and query strings.
const DateLayout = "2006-01-02"

// DateTime is a request timestamp that accepts either a calendar date
// ("2024-05-01", midnight UTC) or an RFC 3339 timestamp.
type DateTime struct {
	time.Time
}

// ParseDateTime parses s as a calendar date or an RFC 3339 timestamp.
func ParseDateTime(s string) (DateTime, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateTime{t.UTC()}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid date %q: expected yyyy-MM-dd or RFC 3339", s)
	}
	return DateTime{t.UTC()}, nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// timePtr returns the time of d, or nil when d is nil.
func (d *DateTime) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
