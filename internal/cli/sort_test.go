package cli

import (
	"testing"

	"github.com/pfrederiksen/luma-events/internal/event"
)

func sortableEvent(name, city, startAt string) *event.Event {
	evt := testEvent(name, city)
	evt.StartAt = startAt
	return evt
}

func names(events []*event.Event) []string {
	out := make([]string, len(events))
	for i, evt := range events {
		out[i] = evt.Name
	}
	return out
}

func TestSortEvents(t *testing.T) {
	tests := []struct {
		name     string
		order    SortOrder
		expected []string
	}{
		{
			name:     "by date puts undated last",
			order:    SortByDate,
			expected: []string{"Beta", "Alpha", "Undated"},
		},
		{
			name:     "by name",
			order:    SortByName,
			expected: []string{"Alpha", "Beta", "Undated"},
		},
		{
			name:     "by city, date within city",
			order:    SortByCity,
			expected: []string{"Undated", "Beta", "Alpha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []*event.Event{
				sortableEvent("Alpha", "Istanbul", "2024-11-05T10:00:00Z"),
				sortableEvent("Beta", "Istanbul", "2024-11-01T10:00:00Z"),
				sortableEvent("Undated", "Berlin", ""),
			}

			sortEvents(events, tt.order)

			got := names(events)
			for i := range tt.expected {
				if got[i] != tt.expected[i] {
					t.Errorf("position %d: expected %q, got %q (full order: %v)", i, tt.expected[i], got[i], got)
				}
			}
		})
	}
}

func TestSortEventsStableForEqualKeys(t *testing.T) {
	a := sortableEvent("Same Time A", "X", "2024-11-01T10:00:00Z")
	b := sortableEvent("Same Time B", "X", "2024-11-01T10:00:00Z")
	events := []*event.Event{a, b}

	sortEvents(events, SortByDate)

	if events[0].Name != "Same Time A" || events[1].Name != "Same Time B" {
		t.Errorf("expected name tiebreak to keep A before B, got %v", names(events))
	}
}
