package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"sunrisecare", "sunrizecare", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 1.0, Ratio("samename", "samename"))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))

	// One edit across 11 characters.
	assert.InDelta(t, 10.0/11.0, Ratio("sunrisecare", "sunrizecare"), 0.001)
}
