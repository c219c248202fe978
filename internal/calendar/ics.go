// Package calendar exports extracted events as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/luma-events/internal/event"
)

// defaultDuration is assumed when an event reports no end time.
const defaultDuration = 2 * time.Hour

// GenerateICS generates a single iCalendar (.ics) feed containing all events
func GenerateICS(events []*event.Event) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Luma Events//luma-events//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	now := time.Now().UTC()
	for _, evt := range events {
		writeVEvent(&ics, evt, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// writeVEvent writes one VEVENT block
func writeVEvent(ics *strings.Builder, evt *event.Event, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID - unique identifier for the event
	ics.WriteString(fmt.Sprintf("UID:%s@luma.com\r\n", evt.ID))

	// DTSTAMP - timestamp when this calendar entry was created
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(stamp)))

	// DTSTART and DTEND - real start/end when reported
	startTime := evt.Start()
	if startTime.IsZero() {
		// If we can't parse the start time, use one week from now
		startTime = time.Now().AddDate(0, 0, 7)
	}
	endTime := event.ParseStart(evt.EndAt)
	if endTime.IsZero() || !endTime.After(startTime) {
		endTime = startTime.Add(defaultDuration)
	}

	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(startTime)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(endTime)))

	// SUMMARY - event name
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Name)))

	// DESCRIPTION - event details
	description := evt.Name
	if evt.Date != "" {
		description = fmt.Sprintf("Date: %s\n%s", evt.Date, description)
	}
	if evt.URL != "" {
		description = fmt.Sprintf("%s\n\nRegister at: %s", description, evt.URL)
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	// LOCATION - full address when known, city otherwise
	location := ""
	if evt.Geo != nil {
		location = evt.Geo.FullAddress
		if location == "" {
			location = evt.Geo.City
		}
	}
	if location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))
	}

	// GEO - coordinates when reported
	if evt.Latitude != nil && evt.Longitude != nil {
		ics.WriteString(fmt.Sprintf("GEO:%f;%f\r\n", *evt.Latitude, *evt.Longitude))
	}

	// URL - link to the event page
	if evt.URL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.URL))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
