package model

import (
	"net/url"
	"strings"
)

// BusinessStatus is the operational state reported by the discovery source.
type BusinessStatus string

const (
	StatusOperational       BusinessStatus = "OPERATIONAL"
	StatusClosedTemporarily BusinessStatus = "CLOSED_TEMPORARILY"
	StatusClosedPermanently BusinessStatus = "CLOSED_PERMANENTLY"
)

// IsOperational reports whether the record is safe to keep on status alone.
// An empty status means the source did not report one and is treated as
// operational, never as an error.
func (s BusinessStatus) IsOperational() bool {
	return s == "" || s == StatusOperational
}

// Record is one discovered business listing. Created once at discovery,
// enriched with ContentText by the crawler between stage 1 and stage 2,
// and never mutated by the resolution core — classification and dedup
// outcomes live in Outcome, keyed by ID.
type Record struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	MachineTypes   []string       `json:"machine_types,omitempty"`
	PrimaryType    string         `json:"primary_type,omitempty"`
	AddressText    string         `json:"address_text,omitempty"`
	Latitude       *float64       `json:"lat,omitempty"`
	Longitude      *float64       `json:"lng,omitempty"`
	CityHint       string         `json:"city_hint,omitempty"`
	City           string         `json:"city,omitempty"`
	State          string         `json:"state,omitempty"`
	BusinessStatus BusinessStatus `json:"business_status,omitempty"`
	WebsiteURL     string         `json:"website_url,omitempty"`
	Rating         *float64       `json:"rating,omitempty"`
	ReviewCount    *int           `json:"review_count,omitempty"`

	// FoundVia lists the category label of every search query that
	// discovered this record (one entry per hit, duplicates preserved).
	FoundVia []string `json:"found_via_categories,omitempty"`

	// ContentText is the crawled page text for the record's website.
	// Empty for thin listings; that is a valid state, not an error.
	ContentText string `json:"content_text,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// ResolvedCity returns the assigned city, falling back to the search
// context that discovered the record.
func (r Record) ResolvedCity() string {
	if r.City != "" {
		return r.City
	}
	return r.CityHint
}

// Domain returns the record's website hostname, lowercased and stripped of
// the scheme and a leading "www.". Returns "" when no usable URL exists.
func (r Record) Domain() string {
	raw := strings.TrimSpace(r.WebsiteURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// NormalizedName returns the name lowercased with every non-alphanumeric
// character removed, the weak key used by name-based deduplication.
func (r Record) NormalizedName() string {
	var b strings.Builder
	for _, c := range strings.ToLower(r.Name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		}
	}
	return b.String()
}
