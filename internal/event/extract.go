package event

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// BaseEventURL is the public prefix joined onto relative event URLs when no
// base URL is configured.
const BaseEventURL = "https://luma.com/"

// member is one key/value pair of a JSON object, in document order.
type member struct {
	key   string
	value json.RawMessage
}

// objectMembers decodes a JSON object into its members without losing the
// order keys appear in the document.
func objectMembers(raw []byte) ([]member, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	t, err := dec.Token()
	if err != nil || t != json.Delim('{') {
		return nil, false
	}

	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		members = append(members, member{key: key, value: value})
	}
	return members, true
}

// isObject reports whether a raw JSON value is an object
func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// FindEventRecords recursively walks raw JSON and collects every object
// whose "event" key holds an object. The calendar API nests entries at
// varying depths depending on the endpoint version, so the walk is
// structure-agnostic. The walk follows document order, so re-running it on
// an identical body yields an identical sequence.
func FindEventRecords(raw json.RawMessage) []map[string]interface{} {
	var found []map[string]interface{}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return found
	}

	switch trimmed[0] {
	case '{':
		members, ok := objectMembers(trimmed)
		if !ok {
			return found
		}
		for _, m := range members {
			if m.key == "event" && isObject(m.value) {
				var rec map[string]interface{}
				if err := json.Unmarshal(trimmed, &rec); err == nil {
					found = append(found, rec)
				}
				break
			}
		}
		for _, m := range members {
			found = append(found, FindEventRecords(m.value)...)
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return found
		}
		for _, item := range items {
			found = append(found, FindEventRecords(item)...)
		}
	}

	return found
}

// FromRecord builds an Event from a single record containing an "event"
// object. Relative event URLs are joined onto baseURL (BaseEventURL when
// empty). Missing fields are left zero/nil; nothing here fails.
func FromRecord(rec map[string]interface{}, sourceURL, baseURL string) *Event {
	ev := asMap(rec["event"])
	geo := asMap(ev["geo_address_info"])
	coord := asMap(ev["coordinate"])

	// ticket_info may live on the wrapper record or the event itself
	ticket := asMap(rec["ticket_info"])
	if ticket == nil {
		ticket = asMap(ev["ticket_info"])
	}

	evt := &Event{
		Name:          asString(ev["name"]),
		URL:           joinEventURL(asString(ev["url"]), baseURL),
		StartAt:       asString(ev["start_at"]),
		EndAt:         asString(ev["end_at"]),
		Timezone:      asString(ev["timezone"]),
		GeoVisibility: asString(ev["geo_address_visibility"]),
		Latitude:      asFloat(coord["latitude"]),
		Longitude:     asFloat(coord["longitude"]),
		TicketCount:   asInt(rec["ticket_count"]),
		GuestCount:    asInt(rec["guest_count"]),
		SourceURL:     sourceURL,
		FirstSeen:     time.Now().UTC(),
	}
	evt.ID = GenerateID(evt.URL, evt.Name)
	evt.Date = evt.Day()

	if wl, ok := ev["waitlist_enabled"].(bool); ok {
		evt.WaitlistEnabled = &wl
	}

	if geo != nil {
		evt.Geo = &GeoAddress{
			City:        asString(geo["city"]),
			Type:        asString(geo["type"]),
			Region:      asString(geo["region"]),
			Address:     asString(geo["address"]),
			Country:     asString(geo["country"]),
			PlaceID:     asString(geo["place_id"]),
			CityState:   asString(geo["city_state"]),
			Description: asString(geo["description"]),
			CountryCode: asString(geo["country_code"]),
			FullAddress: asString(geo["full_address"]),
			Mode:        asString(geo["mode"]),
		}
	}

	if ticket != nil {
		info := &TicketInfo{
			SpotsRemaining: asInt(ticket["spots_remaining"]),
		}
		if b, ok := ticket["is_free"].(bool); ok {
			info.IsFree = &b
		}
		if b, ok := ticket["require_approval"].(bool); ok {
			info.RequireApproval = &b
		}
		if b, ok := ticket["is_sold_out"].(bool); ok {
			info.IsSoldOut = &b
		}
		if b, ok := ticket["is_near_capacity"].(bool); ok {
			info.IsNearCapacity = &b
		}
		// price is reported in cents; free events carry no price
		if info.IsFree == nil || !*info.IsFree {
			if cents := asFloat(asMap(ticket["price"])["cents"]); cents != nil {
				usd := *cents / 100.0
				info.PriceUSD = &usd
			}
		}
		evt.Ticket = info
	}

	return evt
}

// ExtractAll walks every captured response body for event records and maps
// them into Events. Bodies that fail to decode are skipped. Entries repeated
// across page boundaries are deduplicated by ID, first occurrence wins.
// Always returns a non-nil slice.
func ExtractAll(bodies []json.RawMessage, sourceURL, baseURL string) []*Event {
	events := make([]*Event, 0)
	seen := make(map[string]bool)

	for _, body := range bodies {
		if len(body) == 0 {
			continue
		}
		for _, rec := range FindEventRecords(body) {
			evt := FromRecord(rec, sourceURL, baseURL)
			if seen[evt.ID] {
				continue
			}
			seen[evt.ID] = true
			events = append(events, evt)
		}
	}

	return events
}

// joinEventURL turns an API-relative event path into a full public URL.
// Absolute URLs pass through unchanged.
func joinEventURL(u, base string) string {
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if base == "" {
		base = BaseEventURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimPrefix(u, "/")
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asFloat accepts any JSON number. encoding/json decodes numbers in
// interface{} values as float64.
func asFloat(v interface{}) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func asInt(v interface{}) *int {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}
