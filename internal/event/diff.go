package event

import (
	"sort"
	"strings"
)

// Snapshot represents the events known from a previous run of the same
// calendar, used to report what appeared since.
type Snapshot struct {
	Events    map[string]*Event `json:"events"`     // keyed by Event.ID
	PageURL   string            `json:"page_url"`   // calendar page the snapshot came from
	UpdatedAt string            `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Events: make(map[string]*Event),
	}
}

// DiffResult contains the results of comparing a run against a snapshot
type DiffResult struct {
	NewEvents []*Event
	ByCity    map[string][]*Event // new events grouped by city
}

// Diff compares current events against a previous snapshot and returns the
// events that were not present before. Events without a city are grouped
// under "" (online or address-hidden events).
func Diff(previous *Snapshot, current []*Event) *DiffResult {
	result := &DiffResult{
		NewEvents: make([]*Event, 0),
		ByCity:    make(map[string][]*Event),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, evt := range current {
		if _, exists := previous.Events[evt.ID]; exists {
			continue
		}
		result.NewEvents = append(result.NewEvents, evt)

		city := evt.City()
		result.ByCity[city] = append(result.ByCity[city], evt)
	}

	// Sort new events for consistent output
	sort.Slice(result.NewEvents, func(i, j int) bool {
		ci, cj := result.NewEvents[i].City(), result.NewEvents[j].City()
		if ci != cj {
			return ci < cj
		}
		return lessByName(result.NewEvents[i], result.NewEvents[j])
	})

	for city := range result.ByCity {
		events := result.ByCity[city]
		sort.Slice(events, func(i, j int) bool {
			return lessByName(events[i], events[j])
		})
	}

	return result
}

// CreateSnapshot creates a snapshot from a list of events
func CreateSnapshot(events []*Event, pageURL, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.PageURL = pageURL
	snap.UpdatedAt = updatedAt

	for _, evt := range events {
		snap.Events[evt.ID] = evt
	}

	return snap
}

func lessByName(i, j *Event) bool {
	ni, nj := strings.ToLower(i.Name), strings.ToLower(j.Name)
	if ni != nj {
		return ni < nj
	}
	return i.ID < j.ID
}
