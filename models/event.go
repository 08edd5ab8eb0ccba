package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"event-hub/internal/status"
)

const (
	FieldID            = "_id"
	FieldTitle         = "title"
	FieldName          = "name"
	FieldEmail         = "email"
	FieldLocation      = "location"
	FieldDescription   = "description"
	FieldDateTime      = "dateTime"
	FieldAttendeeCount = "attendeeCount"
)

// Event is an event document as stored. Fields the client sent beyond the
// managed ones are kept, and missing fields stay missing.
//
// attendeeCount holds attendee emails. It is a set, not a number.
type Event map[string]any

// EventInput is the body accepted when replacing an event.
type EventInput struct {
	Title         string          `json:"title"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Location      string          `json:"location"`
	Description   string          `json:"description"`
	DateTime      json.RawMessage `json:"dateTime"`
	AttendeeCount []string        `json:"attendeeCount"`
}

type JoinRequest struct {
	Email string `json:"email"`
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewEvent builds the document inserted for a submitted body. Every field is
// kept as sent, except that a parseable dateTime becomes a date and the
// attendee set defaults to empty. A client-supplied _id is dropped.
func NewEvent(body map[string]any) Event {
	event := make(Event, len(body)+1)
	for k, v := range body {
		event[k] = v
	}
	delete(event, FieldID)

	if t, ok := dateTimeValue(event[FieldDateTime]); ok {
		event[FieldDateTime] = t
	}
	event[FieldAttendeeCount] = attendeeSet(event[FieldAttendeeCount])
	return event
}

// Replacement returns the fields written by a full replacement. A missing or
// null dateTime is stored as null; an unparseable one is an error.
func (in EventInput) Replacement() (Event, error) {
	var dateTime any
	t, ok, err := parseRawDateTime(in.DateTime)
	if err != nil {
		return nil, err
	}
	if ok {
		dateTime = t
	}

	return Event{
		FieldTitle:         in.Title,
		FieldName:          in.Name,
		FieldEmail:         in.Email,
		FieldLocation:      in.Location,
		FieldDescription:   in.Description,
		FieldDateTime:      dateTime,
		FieldAttendeeCount: UniqueEmails(in.AttendeeCount),
	}, nil
}

// ParseDateTime accepts RFC 3339 timestamps, zone-less timestamps (read as UTC)
// and plain dates. An empty string yields the zero time.
func ParseDateTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", status.ErrInvalidDateTime, value)
}

// parseRawDateTime handles the JSON forms a client may send: a string, a
// number of milliseconds since the epoch, or null. ok is false when no value
// was given.
func parseRawDateTime(raw json.RawMessage) (t time.Time, ok bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return time.Time{}, false, nil
		}
		t, err := ParseDateTime(s)
		return t, err == nil, err
	}

	var millis float64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(int64(millis)).UTC(), true, nil
	}

	return time.Time{}, false, fmt.Errorf("%w: %s", status.ErrInvalidDateTime, raw)
}

// dateTimeValue converts a decoded JSON value to a date when it is one of the
// accepted forms.
func dateTimeValue(v any) (time.Time, bool) {
	switch v := v.(type) {
	case string:
		if v == "" {
			return time.Time{}, false
		}
		t, err := ParseDateTime(v)
		return t, err == nil
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case int64:
		return time.UnixMilli(v).UTC(), true
	case int:
		return time.UnixMilli(int64(v)).UTC(), true
	}
	return time.Time{}, false
}

// attendeeSet de-duplicates a list of emails. Anything that is not a list of
// strings is returned unchanged; a missing value becomes an empty set.
func attendeeSet(v any) any {
	switch v := v.(type) {
	case nil:
		return []string{}
	case []string:
		return UniqueEmails(v)
	case []any:
		emails := make([]string, 0, len(v))
		for _, item := range v {
			email, ok := item.(string)
			if !ok {
				return v
			}
			emails = append(emails, email)
		}
		return UniqueEmails(emails)
	}
	return v
}

// UniqueEmails drops repeated entries while keeping the first occurrence order.
func UniqueEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}
