package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// localTimeLayout is the wire format for timestamps: no offset, second precision.
const localTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a timestamp stored without a timezone offset. Incoming values
// that carry an offset keep their wall-clock reading; the offset is dropped,
// not converted: 2024-05-01T10:00:00+02:00 becomes 2024-05-01T10:00:00.
type LocalTime struct {
	time.Time
}

// NewLocalTime returns t with its offset dropped.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{stripOffset(t)}
}

func stripOffset(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ParseLocalTime accepts RFC 3339 (with or without offset), the naive layout,
// or a bare date. Offsets are dropped.
func ParseLocalTime(s string) (LocalTime, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, localTimeLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewLocalTime(t), nil
		}
	}
	return LocalTime{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(localTimeLayout))
}

func (t *LocalTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer so LocalTime can be used as a query argument.
func (t LocalTime) Value() (driver.Value, error) {
	return t.Time, nil
}

// Scan implements sql.Scanner. Driver values arrive as time.Time; the offset,
// if any, is dropped.
func (t *LocalTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = stripOffset(v)
		return nil
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into LocalTime", src)
	}
}
