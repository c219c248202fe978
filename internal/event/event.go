package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// GeoAddress holds the location block Luma attaches to an in-person event.
// Every field is optional; online events usually carry none of them.
type GeoAddress struct {
	City        string `json:"city,omitempty"`
	Type        string `json:"type,omitempty"`
	Region      string `json:"region,omitempty"`
	Address     string `json:"address,omitempty"`
	Country     string `json:"country,omitempty"`
	PlaceID     string `json:"place_id,omitempty"`
	CityState   string `json:"city_state,omitempty"`
	Description string `json:"description,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	FullAddress string `json:"full_address,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

// TicketInfo holds registration details for an event. PriceUSD is only set
// for paid events; free events report IsFree=true and no price.
type TicketInfo struct {
	IsFree          *bool    `json:"is_free,omitempty"`
	PriceUSD        *float64 `json:"price_usd,omitempty"`
	RequireApproval *bool    `json:"require_approval,omitempty"`
	IsSoldOut       *bool    `json:"is_sold_out,omitempty"`
	SpotsRemaining  *int     `json:"spots_remaining,omitempty"`
	IsNearCapacity  *bool    `json:"is_near_capacity,omitempty"`
}

// Event represents a single event extracted from a Luma calendar
type Event struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	URL             string      `json:"url,omitempty"`
	Date            string      `json:"date,omitempty"`     // YYYY-MM-DD in the event's timezone
	StartAt         string      `json:"start_at,omitempty"` // RFC3339 as reported by the API
	EndAt           string      `json:"end_at,omitempty"`
	Timezone        string      `json:"timezone,omitempty"`
	Geo             *GeoAddress `json:"geo,omitempty"`
	GeoVisibility   string      `json:"geo_address_visibility,omitempty"`
	Latitude        *float64    `json:"latitude,omitempty"`
	Longitude       *float64    `json:"longitude,omitempty"`
	Ticket          *TicketInfo `json:"ticket,omitempty"`
	TicketCount     *int        `json:"ticket_count,omitempty"`
	GuestCount      *int        `json:"guest_count,omitempty"`
	WaitlistEnabled *bool       `json:"waitlist_enabled,omitempty"`
	SourceURL       string      `json:"source_url,omitempty"`
	FirstSeen       time.Time   `json:"first_seen"`
}

// GenerateID creates a deterministic ID for an event based on stable fields.
// The event URL is unique per event on Luma; the name guards against the
// rare record that has no URL at all.
func GenerateID(url, name string) string {
	h := sha1.New()
	h.Write([]byte(strings.TrimSpace(url) + "|" + strings.TrimSpace(name)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// City returns the event's city, or "" when no geo block is present.
func (e *Event) City() string {
	if e.Geo == nil {
		return ""
	}
	return e.Geo.City
}

// IsFree reports whether the event's ticket info marks it as free.
// Returns false when ticket info is missing.
func (e *Event) IsFree() bool {
	return e.Ticket != nil && e.Ticket.IsFree != nil && *e.Ticket.IsFree
}

// Price returns the ticket price in USD and whether one is known.
func (e *Event) Price() (float64, bool) {
	if e.Ticket == nil || e.Ticket.PriceUSD == nil {
		return 0, false
	}
	return *e.Ticket.PriceUSD, true
}
