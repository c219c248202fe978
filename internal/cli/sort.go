package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/luma-events/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate SortOrder = "date"
	SortByName SortOrder = "name"
	SortByCity SortOrder = "city"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByName:
		sort.SliceStable(events, func(i, j int) bool {
			ni, nj := strings.ToLower(events[i].Name), strings.ToLower(events[j].Name)
			if ni != nj {
				return ni < nj
			}
			// If names are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	case SortByCity:
		sort.SliceStable(events, func(i, j int) bool {
			ci, cj := events[i].City(), events[j].City()
			if ci != cj {
				return ci < cj
			}
			// If cities are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their start time
// Returns true if event i should come before event j
func compareByDate(i, j *event.Event) bool {
	ti := i.Start()
	tj := j.Start()

	// If both times are valid, compare them
	if !ti.IsZero() && !tj.IsZero() {
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return strings.ToLower(i.Name) < strings.ToLower(j.Name)
	}

	// If only one time is valid, put the valid one first
	if !ti.IsZero() {
		return true
	}
	if !tj.IsZero() {
		return false
	}

	// If neither has a valid time, sort by name
	return strings.ToLower(i.Name) < strings.ToLower(j.Name)
}
