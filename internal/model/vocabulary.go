package model

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocabulary is the externally supplied closed category and tag list the
// classifier and reviewer treat as authoritative. Any text signal that maps
// to a name outside this vocabulary is dropped, not invented.
type Vocabulary struct {
	Categories []string            `yaml:"categories"`
	Tags       map[string][]string `yaml:"tags,omitempty"`
}

// DefaultVocabulary returns the built-in directory vocabulary: the four
// active categories plus the Other sentinel, with no service tags.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{}
	for _, c := range AllCategories() {
		v.Categories = append(v.Categories, string(c))
	}
	return v
}

// LoadVocabulary reads a vocabulary YAML file. The Other sentinel is always
// part of the vocabulary even when the file omits it.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "vocabulary: read file")
	}

	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, eris.Wrap(err, "vocabulary: unmarshal")
	}

	hasOther := false
	for _, c := range v.Categories {
		if strings.EqualFold(c, string(CategoryOther)) {
			hasOther = true
			break
		}
	}
	if !hasOther {
		v.Categories = append(v.Categories, string(CategoryOther))
	}

	return &v, nil
}

// Canonical matches a free-text category name against the vocabulary,
// ignoring case. Returns (CategoryOther, false) for anything outside it.
func (v *Vocabulary) Canonical(s string) (Category, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, c := range v.Categories {
		if needle == strings.ToLower(c) {
			return Category(c), true
		}
	}
	return CategoryOther, false
}

// MatchTags returns the vocabulary tags for a category whose phrases appear
// in the given text. Used to attach service tags to kept listings; never
// produces a tag outside the vocabulary.
func (v *Vocabulary) MatchTags(category Category, text string) []string {
	phrases := v.Tags[string(category)]
	if len(phrases) == 0 {
		return nil
	}
	lower := strings.ToLower(text)
	var matched []string
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			matched = append(matched, p)
		}
	}
	return matched
}
