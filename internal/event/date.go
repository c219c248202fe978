package event

import "time"

// ParseStart attempts to parse an API timestamp into a time.Time.
// Returns time.Time{} (zero value) if parsing fails.
// The calendar API reports RFC3339 timestamps, occasionally without a
// sub-second component or with a bare Z offset.
func ParseStart(value string) time.Time {
	if value == "" {
		return time.Time{}
	}

	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return time.Time{}
}

// Start returns the event's parsed start time, shifted into the event's own
// timezone when one is reported and loadable. Zero time if unparseable.
func (e *Event) Start() time.Time {
	t := ParseStart(e.StartAt)
	if t.IsZero() {
		return t
	}
	if e.Timezone != "" {
		if loc, err := time.LoadLocation(e.Timezone); err == nil {
			t = t.In(loc)
		}
	}
	return t
}

// Day returns the event's calendar date as YYYY-MM-DD in the event's own
// timezone, or "" when the start time cannot be parsed.
func (e *Event) Day() string {
	t := e.Start()
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// IsPastEvent checks if an event's start time has passed.
// Returns false if the time cannot be parsed (safer default).
func (e *Event) IsPastEvent() bool {
	t := e.Start()
	if t.IsZero() {
		return false // Can't determine, don't filter
	}
	return t.Before(time.Now())
}

// IsWithinDays checks if an event starts within N days from now.
// Returns true if days <= 0 (feature disabled) or the time is unparseable.
func (e *Event) IsWithinDays(days int) bool {
	if days <= 0 {
		return true // Feature disabled
	}
	t := e.Start()
	if t.IsZero() {
		return true // Can't determine, include it
	}
	now := time.Now()
	cutoff := now.AddDate(0, 0, days)
	return t.After(now) && t.Before(cutoff)
}

// IsUpcoming checks if an event starts in the future (not past).
// Returns true if the time cannot be parsed (safer default).
func (e *Event) IsUpcoming() bool {
	t := e.Start()
	if t.IsZero() {
		return true // Can't determine, include it
	}
	return t.After(time.Now())
}
