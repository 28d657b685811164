package model

import "strings"

// Category is one of the directory's canonical business categories.
// Categories are mutually exclusive per record; CategoryOther is the
// "unclassified" sentinel and never an active listing category.
type Category string

const (
	CategoryNursingHomes Category = "Nursing Homes"
	CategoryElderCare    Category = "Elder Care"
	CategoryPostHospital Category = "Post-Hospital Care"
	CategoryHomeHealth   Category = "Home Health Care"
	CategoryOther        Category = "Other"
)

// AllCategories returns the closed canonical set including the sentinel.
func AllCategories() []Category {
	return []Category{
		CategoryNursingHomes,
		CategoryElderCare,
		CategoryPostHospital,
		CategoryHomeHealth,
		CategoryOther,
	}
}

// ActiveCategories returns the canonical set without the sentinel.
func ActiveCategories() []Category {
	return []Category{
		CategoryNursingHomes,
		CategoryElderCare,
		CategoryPostHospital,
		CategoryHomeHealth,
	}
}

// IsActive reports whether c is a real listing category (not Other).
func (c Category) IsActive() bool {
	return c != CategoryOther && c != ""
}

// ParseCategory matches s against the canonical set, ignoring case and
// surrounding whitespace. Unknown values return (CategoryOther, false):
// the classifier must drop out-of-vocabulary names, never invent them.
func ParseCategory(s string) (Category, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, c := range AllCategories() {
		if needle == strings.ToLower(string(c)) {
			return c, true
		}
	}
	return CategoryOther, false
}
