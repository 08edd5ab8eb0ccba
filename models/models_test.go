package models

import (
	"encoding/json"
	"testing"
	"time"

	"event-hub/internal/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"RFC3339 UTC", "2025-03-01T18:30:00Z", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{"RFC3339 with offset", "2025-03-01T18:30:00+02:00", time.Date(2025, 3, 1, 16, 30, 0, 0, time.UTC)},
		{"Fractional seconds", "2025-03-01T18:30:00.250Z", time.Date(2025, 3, 1, 18, 30, 0, 250_000_000, time.UTC)},
		{"No zone", "2025-03-01T18:30:00", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{"datetime-local input", "2025-03-01T18:30", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{"Space separated", "2025-03-01 18:30:00", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{"Date only", "2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"Empty", "", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.input)

			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestParseDateTime_Invalid(t *testing.T) {
	_, err := ParseDateTime("next friday")

	assert.ErrorIs(t, err, status.ErrInvalidDateTime)
	assert.Contains(t, err.Error(), "next friday")
}

func TestEventInput_Replacement(t *testing.T) {
	in := EventInput{
		Title:         "Go Meetup",
		Name:          "Alice",
		Email:         "alice@example.com",
		Location:      "Berlin",
		Description:   "Monthly meetup",
		DateTime:      json.RawMessage(`"2025-06-10T19:00:00Z"`),
		AttendeeCount: []string{"bob@example.com", "carol@example.com", "bob@example.com"},
	}

	fields, err := in.Replacement()

	require.NoError(t, err)
	assert.Equal(t, Event{
		FieldTitle:         "Go Meetup",
		FieldName:          "Alice",
		FieldEmail:         "alice@example.com",
		FieldLocation:      "Berlin",
		FieldDescription:   "Monthly meetup",
		FieldDateTime:      time.Date(2025, 6, 10, 19, 0, 0, 0, time.UTC),
		FieldAttendeeCount: []string{"bob@example.com", "carol@example.com"},
	}, fields)
}

func TestEventInput_Replacement_DateTimeForms(t *testing.T) {
	t.Run("Milliseconds", func(t *testing.T) {
		fields, err := EventInput{DateTime: json.RawMessage(`1735689600000`)}.Replacement()

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), fields[FieldDateTime])
	})

	t.Run("Null", func(t *testing.T) {
		fields, err := EventInput{DateTime: json.RawMessage(`null`)}.Replacement()

		require.NoError(t, err)
		assert.Contains(t, fields, FieldDateTime)
		assert.Nil(t, fields[FieldDateTime])
	})

	t.Run("Missing", func(t *testing.T) {
		fields, err := EventInput{}.Replacement()

		require.NoError(t, err)
		assert.Nil(t, fields[FieldDateTime])
		assert.Equal(t, []string{}, fields[FieldAttendeeCount])
	})

	t.Run("Empty string", func(t *testing.T) {
		fields, err := EventInput{DateTime: json.RawMessage(`""`)}.Replacement()

		require.NoError(t, err)
		assert.Nil(t, fields[FieldDateTime])
	})

	t.Run("Wrong type", func(t *testing.T) {
		_, err := EventInput{DateTime: json.RawMessage(`{"when":"soon"}`)}.Replacement()

		assert.ErrorIs(t, err, status.ErrInvalidDateTime)
	})

	t.Run("Unparseable string", func(t *testing.T) {
		_, err := EventInput{DateTime: json.RawMessage(`"31/12/2025"`)}.Replacement()

		assert.ErrorIs(t, err, status.ErrInvalidDateTime)
	})
}

func TestNewEvent(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		expected Event
	}{
		{
			name:     "Nil body",
			body:     nil,
			expected: Event{FieldAttendeeCount: []string{}},
		},
		{
			name: "Extra fields kept",
			body: map[string]any{"title": "T", "category": "music", "image": "x.png"},
			expected: Event{
				"title": "T", "category": "music", "image": "x.png",
				FieldAttendeeCount: []string{},
			},
		},
		{
			name: "Parseable dateTime becomes a date",
			body: map[string]any{"dateTime": "2025-01-03T10:00"},
			expected: Event{
				FieldDateTime:      time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC),
				FieldAttendeeCount: []string{},
			},
		},
		{
			name: "Milliseconds dateTime",
			body: map[string]any{"dateTime": float64(1735689600000)},
			expected: Event{
				FieldDateTime:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				FieldAttendeeCount: []string{},
			},
		},
		{
			name:     "Unparseable dateTime kept",
			body:     map[string]any{"dateTime": "next friday"},
			expected: Event{FieldDateTime: "next friday", FieldAttendeeCount: []string{}},
		},
		{
			name:     "Null dateTime kept",
			body:     map[string]any{"dateTime": nil},
			expected: Event{FieldDateTime: nil, FieldAttendeeCount: []string{}},
		},
		{
			name:     "Attendees de-duplicated",
			body:     map[string]any{"attendeeCount": []any{"a@x.io", "b@x.io", "a@x.io"}},
			expected: Event{FieldAttendeeCount: []string{"a@x.io", "b@x.io"}},
		},
		{
			name:     "Non-string attendees kept",
			body:     map[string]any{"attendeeCount": []any{"a@x.io", float64(3)}},
			expected: Event{FieldAttendeeCount: []any{"a@x.io", float64(3)}},
		},
		{
			name:     "Client _id dropped",
			body:     map[string]any{"_id": "abc", "title": "T"},
			expected: Event{"title": "T", FieldAttendeeCount: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewEvent(tt.body))
		})
	}
}

func TestNewEvent_DoesNotModifyBody(t *testing.T) {
	body := map[string]any{"_id": "abc", "dateTime": "2025-01-01"}

	NewEvent(body)

	assert.Equal(t, map[string]any{"_id": "abc", "dateTime": "2025-01-01"}, body)
}

func TestUniqueEmails(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"Nil", nil, []string{}},
		{"No duplicates", []string{"a@x.io", "b@x.io"}, []string{"a@x.io", "b@x.io"}},
		{"Keeps first occurrence", []string{"b@x.io", "a@x.io", "b@x.io", "a@x.io"}, []string{"b@x.io", "a@x.io"}},
		{"Case sensitive", []string{"A@x.io", "a@x.io"}, []string{"A@x.io", "a@x.io"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UniqueEmails(tt.input))
		})
	}
}

func TestEvent_JSONUsesMongoIDKey(t *testing.T) {
	id := primitive.NewObjectID()
	data, err := json.Marshal(Event{FieldID: id, FieldAttendeeCount: []string{}})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, id.Hex(), raw["_id"])
	assert.Equal(t, []any{}, raw["attendeeCount"])
}

func TestUser_Profile(t *testing.T) {
	user := User{
		ID:       primitive.NewObjectID(),
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "$2a$10$hash",
		Photo:    "https://example.com/a.png",
	}

	profile := user.Profile()

	assert.Equal(t, Profile{Name: "Alice", Email: "alice@example.com", Photo: "https://example.com/a.png"}, profile)

	data, err := json.Marshal(UserResponse{User: profile})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.JSONEq(t, `{"user":{"name":"Alice","email":"alice@example.com","photo":"https://example.com/a.png"}}`, string(data))
}
