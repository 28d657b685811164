package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_IsActive(t *testing.T) {
	for _, c := range ActiveCategories() {
		assert.True(t, c.IsActive(), "category %q", c)
	}
	assert.False(t, CategoryOther.IsActive())
	assert.False(t, Category("").IsActive())
}

func TestParseCategory(t *testing.T) {
	cat, ok := ParseCategory("nursing homes")
	assert.True(t, ok)
	assert.Equal(t, CategoryNursingHomes, cat)

	cat, ok = ParseCategory("  Home Health Care  ")
	assert.True(t, ok)
	assert.Equal(t, CategoryHomeHealth, cat)

	cat, ok = ParseCategory("Dialysis Centers")
	assert.False(t, ok)
	assert.Equal(t, CategoryOther, cat)
}

func TestVocabulary_Canonical(t *testing.T) {
	v := DefaultVocabulary()

	cat, ok := v.Canonical("elder care")
	assert.True(t, ok)
	assert.Equal(t, CategoryElderCare, cat)

	cat, ok = v.Canonical("Pharmacies")
	assert.False(t, ok)
	assert.Equal(t, CategoryOther, cat)
}

func TestVocabulary_MatchTags(t *testing.T) {
	v := &Vocabulary{
		Categories: []string{string(CategoryHomeHealth)},
		Tags: map[string][]string{
			string(CategoryHomeHealth): {"physiotherapy at home", "attendant care"},
		},
	}

	tags := v.MatchTags(CategoryHomeHealth, "We offer Attendant Care and nursing visits.")
	require.Len(t, tags, 1)
	assert.Equal(t, "attendant care", tags[0])

	assert.Empty(t, v.MatchTags(CategoryElderCare, "attendant care"))
}
