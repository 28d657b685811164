// Package classify assigns each surviving record to exactly one directory
// category using layered heuristics with an optional external semantic
// fallback.
package classify

import "github.com/karo-care/directory-cli/internal/model"

// DefaultTypeCategories maps machine type tags that are strong enough
// evidence to classify on their own. A hit here short-circuits every other
// signal. Note rehabilitation_center is deliberately absent: a generic
// rehab type needs a qualifier before it counts as post-hospital care.
var DefaultTypeCategories = map[string]model.Category{
	"nursing_home":             model.CategoryNursingHomes,
	"assisted_living_facility": model.CategoryElderCare,
	"retirement_home":          model.CategoryElderCare,
	"retirement_community":     model.CategoryElderCare,
	"aged_care_facility":       model.CategoryElderCare,
	"hospice":                  model.CategoryPostHospital,
	"home_health_care_service": model.CategoryHomeHealth,
}

// genericPrimaryTypes are catch-all types that say "some kind of relevant
// service" without disambiguating. Only these may fall back to search
// context evidence.
var genericPrimaryTypes = map[string]bool{
	"health":         true,
	"service":        true,
	"medical_clinic": true,
	"medical_center": true,
}
