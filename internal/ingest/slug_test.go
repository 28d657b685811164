package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sunrise Nursing Home", "sunrise-nursing-home"},
		{"  Dr. Mehta's Care (Pune) ", "dr-mehta-s-care-pune"},
		{"Caré Sénior", "care-senior"},
		{"A---B", "a-b"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name), "input %q", tt.name)
	}
}

func TestSlugSet_Claim(t *testing.T) {
	s := NewSlugSet()

	assert.Equal(t, "sunrise-care", s.Claim("Sunrise Care"))
	assert.Equal(t, "sunrise-care-2", s.Claim("Sunrise Care"))
	assert.Equal(t, "sunrise-care-3", s.Claim("Sunrise  Care!"))
}

func TestSlugSet_ClaimSkipsNaturalCollisions(t *testing.T) {
	s := NewSlugSet()

	// A name that slugifies to the suffixed form directly must not collide
	// with the counter a duplicate would produce.
	assert.Equal(t, "sunrise-care-2", s.Claim("Sunrise Care 2"))
	assert.Equal(t, "sunrise-care", s.Claim("Sunrise Care"))
	assert.Equal(t, "sunrise-care-3", s.Claim("Sunrise Care"))
}

func TestSlugSet_ClaimEmptyName(t *testing.T) {
	s := NewSlugSet()

	assert.Equal(t, "listing", s.Claim("???"))
	assert.Equal(t, "listing-2", s.Claim(""))
}
