package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pfrederiksen/luma-events/internal/event"
)

// OutputFormat specifies the run summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult is the run summary printed to stdout. The extracted events
// themselves live in the output file.
type OutputResult struct {
	CheckedAt     time.Time                 `json:"checked_at"`
	PageURL       string                    `json:"page_url"`
	OutputPath    string                    `json:"output_path"`
	CapturedPages int                       `json:"captured_pages"`
	EventCount    int                       `json:"event_count"`
	NewEvents     []*event.Event            `json:"new_events,omitempty"`
	NewEventCount int                       `json:"new_event_count,omitempty"`
	ByCity        map[string][]*event.Event `json:"by_city,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintf(w, "No events found. Wrote empty array to %s\n", result.OutputPath)
	} else {
		fmt.Fprintf(w, "Extracted %d events across %d captured pages -> %s\n",
			result.EventCount, result.CapturedPages, result.OutputPath)
	}

	// Diff-mode section: ByCity is only populated when diffing
	if result.ByCity == nil {
		return nil
	}

	if result.NewEventCount == 0 {
		fmt.Fprintln(w, "No new events since last run.")
		return nil
	}

	// Get sorted city names; "" means online or address-hidden events
	cities := make([]string, 0, len(result.ByCity))
	for city := range result.ByCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	for _, city := range cities {
		events := result.ByCity[city]
		if len(events) == 0 {
			continue
		}

		label := city
		if label == "" {
			label = "(no city)"
		}
		fmt.Fprintf(w, "\n%s (%d new):\n", label, len(events))
		for _, evt := range events {
			fmt.Fprintf(w, "  NEW: %s\n", evt.Name)
			if verbose {
				fmt.Fprintf(w, "       ID: %s\n", evt.ID)
				if evt.Date != "" {
					fmt.Fprintf(w, "       Date: %s\n", evt.Date)
				}
				if evt.URL != "" {
					fmt.Fprintf(w, "       URL: %s\n", evt.URL)
				}
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d new across %d cities\n", result.NewEventCount, len(result.ByCity))

	return nil
}
