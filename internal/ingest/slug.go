package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugFolder = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify turns a listing name into a URL-safe directory slug: accents are
// folded to ASCII, everything non-alphanumeric becomes a hyphen, and runs
// of hyphens collapse.
func Slugify(name string) string {
	folded, _, err := transform.String(slugFolder, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastHyphen := true
	for _, c := range strings.ToLower(folded) {
		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			b.WriteRune(c)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// SlugSet hands out unique slugs, suffixing duplicates with a counter.
type SlugSet struct {
	used map[string]bool
}

// NewSlugSet returns an empty slug registry.
func NewSlugSet() *SlugSet {
	return &SlugSet{used: make(map[string]bool)}
}

// Claim returns a unique slug for the name: the plain slug on first use,
// then "-2", "-3" and so on for collisions.
func (s *SlugSet) Claim(name string) string {
	base := Slugify(name)
	if base == "" {
		base = "listing"
	}
	slug := base
	for n := 2; s.used[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	s.used[slug] = true
	return slug
}
