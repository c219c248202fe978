package storage

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/luma-events/internal/capture"
	"github.com/pfrederiksen/luma-events/internal/event"
)

// Storage handles the extracted-events output file, optional raw-capture
// artifacts, and per-calendar snapshots used by diff mode
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// WriteEvents writes events as an indented JSON array to path, overwriting
// any existing file. Zero events produce an empty array, not null.
func WriteEvents(path string, events []*event.Event) error {
	if events == nil {
		events = make([]*event.Event, 0)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding events: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}

	return nil
}

// ReadEvents reads an events file written by WriteEvents
func ReadEvents(path string) ([]*event.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}

	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}

	return events, nil
}

// SaveCapture writes captured API responses to path as a JSON array,
// preserving the raw bodies for debugging.
func SaveCapture(path string, responses []*capture.Response) error {
	if responses == nil {
		responses = make([]*capture.Response, 0)
	}

	data, err := json.MarshalIndent(responses, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding capture: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing capture: %w", err)
	}

	return nil
}

// LoadCapture reads a capture file written by SaveCapture
func LoadCapture(path string) ([]*capture.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture: %w", err)
	}

	var responses []*capture.Response
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, fmt.Errorf("parsing capture: %w", err)
	}

	return responses, nil
}

// snapshotPath returns the snapshot file path for a calendar page URL.
// Each calendar gets its own snapshot, keyed by a short hash of the URL.
func (s *Storage) snapshotPath(pageURL string) string {
	h := sha1.Sum([]byte(strings.TrimSpace(pageURL)))
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%x.json", h[:4]))
}

// LoadSnapshot loads the snapshot for a calendar page from disk.
// A missing snapshot returns an empty one, not an error.
func (s *Storage) LoadSnapshot(pageURL string) (*event.Snapshot, error) {
	path := s.snapshotPath(pageURL)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return event.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	// Ensure Events map is initialized
	if snapshot.Events == nil {
		snapshot.Events = make(map[string]*event.Event)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot for a calendar page to disk
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot, pageURL string) error {
	path := s.snapshotPath(pageURL)

	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// SnapshotEvents creates and saves a snapshot from the events of one run
func (s *Storage) SnapshotEvents(events []*event.Event, pageURL string) error {
	snapshot := event.CreateSnapshot(events, pageURL, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot, pageURL)
}
