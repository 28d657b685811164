package pipeline

import (
	"strings"

	"github.com/karo-care/directory-cli/internal/model"
)

// Report is the operator-visible aggregate of a run: counts per disposition,
// exclusion reason, category, correction rule, dedup pass, confidence, and
// city. Per-record detail lives in the outcomes, never here.
type Report struct {
	Total            int            `json:"total"`
	Dispositions     map[string]int `json:"dispositions"`
	ExclusionReasons map[string]int `json:"exclusion_reasons,omitempty"`
	Categories       map[string]int `json:"categories,omitempty"`
	Corrections      map[string]int `json:"corrections,omitempty"`
	DedupPasses      map[string]int `json:"dedup_passes,omitempty"`
	Confidence       map[string]int `json:"confidence,omitempty"`
	Cities           map[string]int `json:"cities,omitempty"`
}

// BuildReport aggregates outcomes into a run report.
func BuildReport(outcomes map[string]model.Outcome) Report {
	rep := Report{
		Total:            len(outcomes),
		Dispositions:     make(map[string]int),
		ExclusionReasons: make(map[string]int),
		Categories:       make(map[string]int),
		Corrections:      make(map[string]int),
		DedupPasses:      make(map[string]int),
		Confidence:       make(map[string]int),
		Cities:           make(map[string]int),
	}

	for _, o := range outcomes {
		rep.Dispositions[string(o.Disposition)]++

		switch o.Disposition {
		case model.DispositionExcluded:
			// Stage1Rule is "reason/rule"; the report buckets by reason.
			reason := o.Stage1Rule
			if idx := strings.IndexByte(reason, '/'); idx >= 0 {
				reason = reason[:idx]
			}
			rep.ExclusionReasons[reason]++
		default:
			rep.Categories[string(o.Category)]++
			if o.Confidence != "" {
				rep.Confidence[string(o.Confidence)]++
			}
		}

		if o.CorrectionRule != "" {
			rep.Corrections[o.CorrectionRule]++
		}
		if o.DedupPass != "" {
			rep.DedupPasses[o.DedupPass]++
		}
		if o.City != "" && o.Disposition == model.DispositionKept {
			rep.Cities[o.City]++
		}
	}
	return rep
}
