// Package filter narrows extracted events before serialization.
//
// Criteria are set from CLI flags and AND-ed together:
//   - Date range (from/to, inclusive)
//   - Name substrings (case-insensitive)
//   - City substrings (case-insensitive)
//   - Country codes (exact, case-insensitive)
//   - Free events only
//   - Weekends only (Saturday/Sunday in the event's timezone)
//   - Maximum ticket price in USD
//
// Events whose start time cannot be parsed pass every date-based criterion,
// and events without ticket info pass the price criterion. An empty filter
// matches everything.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/luma-events/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Substring matches, case-insensitive
	Names  []string `json:"names,omitempty"`
	Cities []string `json:"cities,omitempty"`

	// ISO country codes, matched against the geo block
	Countries []string `json:"countries,omitempty"`

	FreeOnly     bool `json:"free_only,omitempty"`
	WeekendsOnly bool `json:"weekends_only,omitempty"`

	// Maximum ticket price in USD; 0 disables the criterion
	MaxPriceUSD float64 `json:"max_price_usd,omitempty"`
}

// New creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func New() *Filter {
	return &Filter{
		Names:     []string{},
		Cities:    []string{},
		Countries: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all events.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Names) == 0 &&
		len(f.Cities) == 0 &&
		len(f.Countries) == 0 &&
		!f.FreeOnly &&
		!f.WeekendsOnly &&
		f.MaxPriceUSD == 0
}

// Matches checks if an event passes all active filter criteria.
// An empty filter matches all events.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	start := evt.Start()

	if f.DateFrom != nil && !start.IsZero() {
		if start.Before(*f.DateFrom) {
			return false
		}
	}

	if f.DateTo != nil && !start.IsZero() {
		if start.After(*f.DateTo) {
			return false
		}
	}

	if f.WeekendsOnly && !start.IsZero() {
		weekday := start.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			return false
		}
	}

	if len(f.Names) > 0 {
		if !containsAny(evt.Name, f.Names) {
			return false
		}
	}

	if len(f.Cities) > 0 {
		if !containsAny(evt.City(), f.Cities) {
			return false
		}
	}

	if len(f.Countries) > 0 {
		code := ""
		if evt.Geo != nil {
			code = evt.Geo.CountryCode
		}
		matched := false
		for _, country := range f.Countries {
			if strings.EqualFold(code, country) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.FreeOnly && !evt.IsFree() {
		return false
	}

	if f.MaxPriceUSD > 0 {
		if price, ok := evt.Price(); ok && price > f.MaxPriceUSD {
			return false
		}
	}

	return true
}

// Apply applies the filter to a list of events and returns only matching
// events. An empty filter returns the original list unchanged.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// String returns a human-readable description of the active criteria.
// Returns "No active filters" if the filter is empty.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Names) > 0 {
		parts = append(parts, fmt.Sprintf("Names: %s", strings.Join(f.Names, ", ")))
	}
	if len(f.Cities) > 0 {
		parts = append(parts, fmt.Sprintf("Cities: %s", strings.Join(f.Cities, ", ")))
	}
	if len(f.Countries) > 0 {
		parts = append(parts, fmt.Sprintf("Countries: %s", strings.Join(f.Countries, ", ")))
	}
	if f.FreeOnly {
		parts = append(parts, "Free only")
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	if f.MaxPriceUSD > 0 {
		parts = append(parts, fmt.Sprintf("Max price: $%.2f", f.MaxPriceUSD))
	}

	return strings.Join(parts, " | ")
}

// containsAny reports whether haystack contains any needle,
// case-insensitively.
func containsAny(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
