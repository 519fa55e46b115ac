package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// timestampLayouts are tried in order. Values without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var timestampType = reflect.TypeOf(Timestamp{})

const timestampReason = "invalid datetime, use RFC 3339, YYYY-MM-DDTHH:MM:SS or YYYY-MM-DD"

// Timestamp is an inbound datetime that accepts RFC 3339, a naive ISO
// datetime or a bare date, the forms browser forms usually send.
type Timestamp struct {
	time.Time
}

// TimestampError reports a value none of the accepted layouts could read.
type TimestampError struct {
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s: %q", timestampReason, e.Value)
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}
	return Timestamp{}, &TimestampError{Value: s}
}

// UnmarshalJSON reports bad input as a *json.UnmarshalTypeError so the
// decoder attaches the field path to it.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &json.UnmarshalTypeError{Value: "non-string", Type: timestampType}
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + s, Type: timestampType}
	}
	*t = parsed
	return nil
}

// TimePtr converts an optional Timestamp for storage.
func (t *Timestamp) TimePtr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}
