package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/luma-events/internal/calendar"
	"github.com/pfrederiksen/luma-events/internal/capture"
	"github.com/pfrederiksen/luma-events/internal/config"
	"github.com/pfrederiksen/luma-events/internal/event"
	"github.com/pfrederiksen/luma-events/internal/filter"
	"github.com/pfrederiksen/luma-events/internal/logger"
	"github.com/pfrederiksen/luma-events/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

const flagDateLayout = "2006-01-02"

var (
	flagURL         string
	flagOutput      string
	flagCapture     string
	flagKeepCapture bool
	flagConfig      string
	flagDataDir     string
	flagFormat      string
	flagSort        string
	flagTimeout     time.Duration
	flagDiff        bool
	flagICS         string
	flagVerbose     bool

	flagNames        []string
	flagCities       []string
	flagCountries    []string
	flagFreeOnly     bool
	flagWeekendsOnly bool
	flagFrom         string
	flagTo           string
	flagMaxPrice     float64
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "luma-events",
		Short: "Download the event listings of a Luma calendar page as JSON",
		Long: `A CLI tool to download the event listings of a Luma calendar page.
Captures the calendar API responses behind the page, extracts event records
(name, URL, dates, location, ticket info), and writes them to a JSON file.`,
		RunE: runFetch,
	}

	// Define flags
	cmd.Flags().StringVar(&flagURL, "url", "https://luma.com/devconnect", "Calendar page URL")
	cmd.Flags().StringVar(&flagOutput, "output", "events.json", "Extracted events JSON file path")
	cmd.Flags().StringVar(&flagCapture, "capture", "", "Write the raw API responses to this path")
	cmd.Flags().BoolVar(&flagKeepCapture, "keep-capture", false, "Keep the raw capture (default path: <output>.capture.json)")
	cmd.Flags().StringVar(&flagConfig, "config", "", "YAML config file path")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.local/share/luma-events", "Data directory for snapshots")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Run summary format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "date", "Sort order: date, name, or city")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout override (e.g. 45s)")
	cmd.Flags().BoolVar(&flagDiff, "diff", false, "Report events new since the last run of this calendar")
	cmd.Flags().StringVar(&flagICS, "ics", "", "Also export the events as an iCalendar feed to this path")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.Flags().StringSliceVar(&flagNames, "name", nil, "Keep events whose name contains this (repeatable)")
	cmd.Flags().StringSliceVar(&flagCities, "city", nil, "Keep events in this city (repeatable)")
	cmd.Flags().StringSliceVar(&flagCountries, "country", nil, "Keep events with this country code (repeatable)")
	cmd.Flags().BoolVar(&flagFreeOnly, "free-only", false, "Keep free events only")
	cmd.Flags().BoolVar(&flagWeekendsOnly, "weekends-only", false, "Keep Saturday/Sunday events only")
	cmd.Flags().StringVar(&flagFrom, "from", "", "Keep events on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagTo, "to", "", "Keep events on or before this date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&flagMaxPrice, "max-price", 0, "Keep events priced at or below this (USD)")

	return cmd
}

// exitCode carries a non-error exit status out of runFetch so that Execute
// decides when the process terminates. os.Exit inside RunE would skip
// cobra's return path and deferred cleanup.
var exitCode int

// runFetch is the main command logic: capture, extract, filter, serialize.
func runFetch(cmd *cobra.Command, args []string) error {
	exitCode = ExitSuccess
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	pageURL := strings.TrimSpace(flagURL)
	if pageURL == "" {
		return fmt.Errorf("--url is required")
	}

	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	sortOrder := SortOrder(strings.ToLower(flagSort))
	if sortOrder != SortByDate && sortOrder != SortByName && sortOrder != SortByCity {
		return fmt.Errorf("invalid sort order: %s (must be 'date', 'name', or 'city')", flagSort)
	}

	f, err := buildFilter()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if flagTimeout > 0 {
		cfg.Capture.Timeout = flagTimeout
	}

	// Initialize storage
	store, err := storage.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	logger.Debug("Capturing calendar", logger.Fields{
		"url":      pageURL,
		"api_base": cfg.Capture.APIBaseURL,
	})

	// Fetch the page and page through the calendar API. Any failure here is
	// fatal and leaves the output file untouched.
	capturer := capture.New(cfg.Capture)
	start := time.Now()
	responses, err := capturer.Capture(pageURL)
	if err != nil {
		return fmt.Errorf("capturing calendar: %w", err)
	}
	logger.RecordTiming("capture.total", time.Since(start))

	// Persist the raw capture only when asked
	if flagKeepCapture || flagCapture != "" {
		capturePath := flagCapture
		if capturePath == "" {
			capturePath = flagOutput + ".capture.json"
		}
		if err := storage.SaveCapture(capturePath, responses); err != nil {
			return fmt.Errorf("saving capture: %w", err)
		}
		logger.Debug("Saved raw capture", logger.Fields{"path": capturePath})
	}

	// Extract events from the captured bodies
	bodies := make([]json.RawMessage, 0, len(responses))
	for _, resp := range responses {
		bodies = append(bodies, resp.Body)
	}
	events := event.ExtractAll(bodies, pageURL, cfg.Capture.BaseURL)
	extracted := len(events)

	events = f.Apply(events)
	if flagVerbose && !f.IsEmpty() {
		logger.Debug("Applied filter", logger.Fields{
			"filter":  f.String(),
			"kept":    len(events),
			"dropped": extracted - len(events),
		})
	}

	sortEvents(events, sortOrder)

	// Serialize
	if err := storage.WriteEvents(flagOutput, events); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagICS != "" {
		if err := os.WriteFile(flagICS, []byte(calendar.GenerateICS(events)), 0644); err != nil {
			return fmt.Errorf("writing ICS feed: %w", err)
		}
	}

	result := &OutputResult{
		CheckedAt:     time.Now().UTC(),
		PageURL:       pageURL,
		OutputPath:    flagOutput,
		CapturedPages: len(responses),
		EventCount:    len(events),
	}

	// Diff mode: compare against the previous snapshot of this calendar
	var newEvents int
	if flagDiff {
		previous, err := store.LoadSnapshot(pageURL)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		diff := event.Diff(previous, events)
		if err := store.SnapshotEvents(events, pageURL); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		result.NewEvents = diff.NewEvents
		result.NewEventCount = len(diff.NewEvents)
		result.ByCity = diff.ByCity
		newEvents = len(diff.NewEvents)
	}

	logger.Debug("Run metrics", logger.Fields(logger.GetMetricsSnapshot()))

	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if flagDiff && newEvents > 0 {
		exitCode = ExitNewEvents
	}
	return nil
}

// buildFilter assembles the event filter from the CLI flags
func buildFilter() (*filter.Filter, error) {
	f := filter.New()
	f.Names = append(f.Names, flagNames...)
	f.Cities = append(f.Cities, flagCities...)
	f.Countries = append(f.Countries, flagCountries...)
	f.FreeOnly = flagFreeOnly
	f.WeekendsOnly = flagWeekendsOnly
	f.MaxPriceUSD = flagMaxPrice

	if flagFrom != "" {
		t, err := time.Parse(flagDateLayout, flagFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", flagFrom)
		}
		f.DateFrom = &t
	}
	if flagTo != "" {
		t, err := time.Parse(flagDateLayout, flagTo)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", flagTo)
		}
		// Inclusive end of day
		t = t.Add(24*time.Hour - time.Second)
		f.DateTo = &t
	}

	return f, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	if exitCode != ExitSuccess {
		os.Exit(exitCode)
	}
}
