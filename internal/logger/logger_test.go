package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func captureOutput(t *testing.T, level Level, fn func(l *Logger)) []LogEntry {
	t.Helper()

	path := filepath.Join(t.TempDir(), "log.jsonl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create log file: %v", err)
	}

	l := New(level, f)
	fn(l)
	f.Close()

	reopened, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen log file: %v", err)
	}
	defer reopened.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(reopened)
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v (%s)", err, scanner.Text())
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogEntryStructure(t *testing.T) {
	entries := captureOutput(t, LevelDebug, func(l *Logger) {
		l.Info("Captured page", Fields{"page": 3, "url": "https://luma.com/devconnect"})
		l.Error("Request failed", Fields{"url": "https://api2.luma.com"}, errors.New("boom"))
	})

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	info := entries[0]
	if info.Level != "INFO" {
		t.Errorf("expected level INFO, got %q", info.Level)
	}
	if info.Message != "Captured page" {
		t.Errorf("unexpected message: %q", info.Message)
	}
	if info.Fields["url"] != "https://luma.com/devconnect" {
		t.Errorf("expected url field, got %v", info.Fields)
	}
	if info.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}

	errEntry := entries[1]
	if errEntry.Level != "ERROR" {
		t.Errorf("expected level ERROR, got %q", errEntry.Level)
	}
	if errEntry.Error != "boom" {
		t.Errorf("expected error 'boom', got %q", errEntry.Error)
	}
}

func TestLevelFiltering(t *testing.T) {
	entries := captureOutput(t, LevelWarn, func(l *Logger) {
		l.Debug("dropped", nil)
		l.Info("dropped too", nil)
		l.Warn("kept", nil)
		l.Error("kept too", nil, nil)
	})

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries above WARN, got %d", len(entries))
	}
	if entries[0].Message != "kept" || entries[1].Message != "kept too" {
		t.Errorf("unexpected surviving messages: %+v", entries)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("capture.pages")
	m.IncrCounter("capture.pages")
	m.IncrCounter("extract.records")

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)

	if counters["capture.pages"] != 2 {
		t.Errorf("expected capture.pages = 2, got %d", counters["capture.pages"])
	}
	if counters["extract.records"] != 1 {
		t.Errorf("expected extract.records = 1, got %d", counters["extract.records"])
	}
}

func TestMetricsTimings(t *testing.T) {
	m := NewMetrics()
	m.RecordTiming("capture.request", 100*time.Millisecond)
	m.RecordTiming("capture.request", 300*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	stats, ok := timings["capture.request"]
	if !ok {
		t.Fatal("expected capture.request timing stats")
	}
	if stats["count"] != 2 {
		t.Errorf("expected count 2, got %v", stats["count"])
	}
	if stats["min"] != "100ms" {
		t.Errorf("expected min 100ms, got %v", stats["min"])
	}
	if stats["max"] != "300ms" {
		t.Errorf("expected max 300ms, got %v", stats["max"])
	}
	if stats["average"] != "200ms" {
		t.Errorf("expected average 200ms, got %v", stats["average"])
	}
}
