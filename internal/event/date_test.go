package event

import (
	"testing"
	"time"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{
			name:     "RFC3339 with milliseconds",
			value:    "2024-11-01T12:00:00.000Z",
			expected: time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339 without fraction",
			value:    "2024-11-01T12:00:00Z",
			expected: time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339 with offset",
			value:    "2024-11-01T09:00:00-03:00",
			expected: time.Date(2024, 11, 1, 9, 0, 0, 0, time.FixedZone("", -3*60*60)),
		},
		{
			name:     "bare timestamp without zone",
			value:    "2024-11-01T12:00:00",
			expected: time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "bare date",
			value:    "2024-11-01",
			expected: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "empty",
			value: "",
		},
		{
			name:  "garbage",
			value: "next Tuesday-ish",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStart(tt.value)
			if tt.expected.IsZero() {
				if !got.IsZero() {
					t.Errorf("ParseStart(%q) = %v, expected zero time", tt.value, got)
				}
				return
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseStart(%q) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestDay(t *testing.T) {
	tests := []struct {
		name     string
		startAt  string
		timezone string
		expected string
	}{
		{
			name:     "UTC timestamp, no timezone",
			startAt:  "2024-11-01T12:00:00Z",
			expected: "2024-11-01",
		},
		{
			name:     "UTC timestamp shifted into event timezone",
			startAt:  "2024-11-02T01:00:00Z",
			timezone: "America/Argentina/Buenos_Aires",
			expected: "2024-11-01", // 22:00 the previous day in Buenos Aires
		},
		{
			name:     "unparseable start",
			startAt:  "whenever",
			expected: "",
		},
		{
			name:     "missing start",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := &Event{StartAt: tt.startAt, Timezone: tt.timezone}
			if got := evt.Day(); got != tt.expected {
				t.Errorf("Day() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestIsPastEvent(t *testing.T) {
	past := &Event{StartAt: "2020-01-01T00:00:00Z"}
	if !past.IsPastEvent() {
		t.Error("expected 2020 event to be past")
	}

	future := &Event{StartAt: time.Now().AddDate(1, 0, 0).Format(time.RFC3339)}
	if future.IsPastEvent() {
		t.Error("expected next-year event not to be past")
	}

	unknown := &Event{StartAt: "???"}
	if unknown.IsPastEvent() {
		t.Error("unparseable start should not be treated as past")
	}
}

func TestIsWithinDays(t *testing.T) {
	soon := &Event{StartAt: time.Now().AddDate(0, 0, 3).Format(time.RFC3339)}
	if !soon.IsWithinDays(7) {
		t.Error("expected event in 3 days to be within 7 days")
	}
	if soon.IsWithinDays(1) {
		t.Error("expected event in 3 days not to be within 1 day")
	}
	if !soon.IsWithinDays(0) {
		t.Error("days <= 0 disables the check and should include everything")
	}

	unknown := &Event{StartAt: ""}
	if !unknown.IsWithinDays(7) {
		t.Error("unparseable start should be included")
	}
}

func TestIsUpcoming(t *testing.T) {
	future := &Event{StartAt: time.Now().AddDate(1, 0, 0).Format(time.RFC3339)}
	if !future.IsUpcoming() {
		t.Error("expected next-year event to be upcoming")
	}

	past := &Event{StartAt: "2020-01-01T00:00:00Z"}
	if past.IsUpcoming() {
		t.Error("expected 2020 event not to be upcoming")
	}

	unknown := &Event{}
	if !unknown.IsUpcoming() {
		t.Error("unparseable start should be treated as upcoming")
	}
}
