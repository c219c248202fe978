package event

import (
	"testing"
	"time"
)

func testEvent(name, city string) *Event {
	evt := &Event{
		Name:      name,
		URL:       "https://luma.com/" + name,
		FirstSeen: time.Now().UTC(),
	}
	evt.ID = GenerateID(evt.URL, evt.Name)
	if city != "" {
		evt.Geo = &GeoAddress{City: city}
	}
	return evt
}

func TestDiffNoPrevious(t *testing.T) {
	current := []*Event{
		testEvent("Devconnect Kickoff", "Buenos Aires"),
		testEvent("ZK Proving Workshop", "Buenos Aires"),
	}

	result := Diff(nil, current)

	if len(result.NewEvents) != 2 {
		t.Fatalf("expected 2 new events with no previous snapshot, got %d", len(result.NewEvents))
	}
	if len(result.ByCity["Buenos Aires"]) != 2 {
		t.Errorf("expected 2 events grouped under Buenos Aires, got %d", len(result.ByCity["Buenos Aires"]))
	}
}

func TestDiffAgainstSnapshot(t *testing.T) {
	known := testEvent("Devconnect Kickoff", "Buenos Aires")
	fresh := testEvent("Solidity Summit", "Istanbul")

	previous := CreateSnapshot([]*Event{known}, "https://luma.com/devconnect", "2024-10-01T00:00:00Z")
	result := Diff(previous, []*Event{known, fresh})

	if len(result.NewEvents) != 1 {
		t.Fatalf("expected 1 new event, got %d", len(result.NewEvents))
	}
	if result.NewEvents[0].Name != "Solidity Summit" {
		t.Errorf("expected new event 'Solidity Summit', got %q", result.NewEvents[0].Name)
	}
	if len(result.ByCity["Istanbul"]) != 1 {
		t.Errorf("expected new event grouped under Istanbul")
	}
	if len(result.ByCity["Buenos Aires"]) != 0 {
		t.Errorf("expected no new events under Buenos Aires")
	}
}

func TestDiffSortsByCityThenName(t *testing.T) {
	current := []*Event{
		testEvent("Wallet UX Roundtable", "Istanbul"),
		testEvent("Account Abstraction Day", "Buenos Aires"),
		testEvent("zk Night", "Buenos Aires"),
	}

	result := Diff(nil, current)

	wantOrder := []string{"Account Abstraction Day", "zk Night", "Wallet UX Roundtable"}
	if len(result.NewEvents) != len(wantOrder) {
		t.Fatalf("expected %d new events, got %d", len(wantOrder), len(result.NewEvents))
	}
	for i, want := range wantOrder {
		if result.NewEvents[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, result.NewEvents[i].Name)
		}
	}
}

func TestDiffGroupsOnlineEventsUnderEmptyCity(t *testing.T) {
	online := testEvent("Remote AMA", "")
	result := Diff(nil, []*Event{online})

	if len(result.ByCity[""]) != 1 {
		t.Errorf("expected online event grouped under empty city, got %+v", result.ByCity)
	}
}

func TestCreateSnapshot(t *testing.T) {
	events := []*Event{
		testEvent("Devconnect Kickoff", "Buenos Aires"),
		testEvent("ZK Proving Workshop", "Buenos Aires"),
	}

	snap := CreateSnapshot(events, "https://luma.com/devconnect", "2024-10-01T00:00:00Z")

	if len(snap.Events) != 2 {
		t.Errorf("expected 2 events in snapshot, got %d", len(snap.Events))
	}
	if snap.PageURL != "https://luma.com/devconnect" {
		t.Errorf("expected page URL to be recorded, got %q", snap.PageURL)
	}
	if snap.UpdatedAt != "2024-10-01T00:00:00Z" {
		t.Errorf("expected updated_at to be recorded, got %q", snap.UpdatedAt)
	}
	for _, evt := range events {
		if snap.Events[evt.ID] != evt {
			t.Errorf("expected event %q to be keyed by ID", evt.Name)
		}
	}
}
