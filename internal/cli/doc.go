// Package cli implements the command-line interface for luma-events.
//
// The cli package provides the Cobra-based CLI that coordinates the capture,
// event, filter, and storage packages: fetch a calendar page, extract its
// event records, optionally narrow and diff them, and write the result to a
// JSON file (plus an optional ICS feed and raw-capture artifact). A run
// summary is printed to stdout as text or JSON.
package cli
