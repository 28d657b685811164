package rules

import (
	"regexp"
	"strings"

	"github.com/karo-care/directory-cli/internal/model"
)

// maxReviewContent caps how much crawled text the reviewer scans per record.
const maxReviewContent = 15000

// genuinePostHospital marks signals that a facility really does post-acute
// care. Correction rules that reassign Post-Hospital Care records stand
// down when one of these is present (where the rule declares so).
var genuinePostHospital = regexp.MustCompile(strings.Join([]string{
	`\bstroke\b`, `\bparalysis\b`, `\bdementia\b`, `\balzheimer`,
	`\bparkinson`, `\bcerebral\s*palsy\b`, `\bpost.?operative\b`,
	`\bpost.?surgical\b`, `\bcritical\s*(care|illness)\b`,
	`\bpalliative\b`, `\bhospice\b`, `\bbed.?ridden\b`, `\bventilat`,
	`\btransition\s*care\b`, `\bspinal\s*cord\b`, `\btraumatic\s*brain\b`,
	`\bicu\b`,
}, "|"))

var (
	addictionPattern = regexp.MustCompile(strings.Join([]string{
		`\b(addict|de.?addict|deaddict)\b`,
		`\b(nasha|nashamukti|nasha\s*mukti)\b`,
		`\b(substance\s*abuse|sober|sobriety|detox)\b`,
		`\balcohol\b.*\b(rehab|recovery|treatment)\b`,
		`\bdrug\b.*\b(rehab|recovery|treatment)\b`,
		`\baddiction\s*(treatment|recovery|rehab)\b`,
	}, "|"))

	psychPattern = regexp.MustCompile(
		`\bpsychiatr|\bmental\s*(health|illness|disorder)\b|\bpsychological\b|\bmental\s*hospital\b`)

	pediatricPattern = regexp.MustCompile(strings.Join([]string{
		`\bchildren\b.*\b(disabilit|handicap|special\s*needs)\b`,
		`\b(handicapped|disabled)\s*children\b`,
		`\bchild\b.*\brehab`,
		`\b(autism|adhd|cerebral\s*palsy)\b.*\bchild`,
		`\bchild\b.*\b(cerebral\s*palsy|autism|adhd)\b`,
	}, "|"))

	labPattern = regexp.MustCompile(
		`\bpath\s*lab\b|\blab\s*test\b|\bblood\s*test\b|\bdiagnostic\b|\bx.?ray\b|\bultrasound\b|\bmri\b|\bct\s*scan\b`)

	physioNamePattern = regexp.MustCompile(`\bphysio|\bchiro`)

	staffingPattern = regexp.MustCompile(
		`\bstaffing\b|\bmanpower\b|\brecruitment\b|\bplacement\b.*\b(agency|service|bureau)\b`)

	equipmentPattern = regexp.MustCompile(strings.Join([]string{
		`\b(wheelchair|oxygen\s*cylinder|medical\s*equipment)\b`,
		`\b(surgical\s*item|medical\s*supply|medical\s*store)\b`,
		`\b(equipment\s*rental|on\s*rent)\b`,
	}, "|"))
)

// Correction reviewer rule names, in evaluation order.
const (
	CorrectionAddiction   = "addiction_rehab"
	CorrectionPsychiatric = "psychiatric_rehab"
	CorrectionPediatric   = "pediatric_disability"
	CorrectionLab         = "diagnostic_lab"
	CorrectionPhysio      = "pure_physio"
	CorrectionStaffing    = "staffing_agency"
	CorrectionEquipment   = "equipment_supplier"
)

// Reviewer is the second rule pass over classifier output. The semantic
// fallback is known to systematically mis-place certain record types; each
// reviewer rule is a guarded reassignment to Other. Rules run in declared
// order and the first applicable rule wins.
type Reviewer struct{}

// NewReviewer returns the correction reviewer.
func NewReviewer() *Reviewer {
	return &Reviewer{}
}

// Review checks a classified record for known systematic misclassification
// and returns the final category, whether a correction fired, and the rule
// name when one did. Records already in Other are returned unchanged.
func (rv *Reviewer) Review(r model.Record, res model.ClassificationResult) (model.Category, bool, string) {
	if !res.Category.IsActive() {
		return res.Category, false, ""
	}

	name := strings.ToLower(r.Name)
	content := strings.ToLower(r.ContentText)
	if len(content) > maxReviewContent {
		content = content[:maxReviewContent]
	}
	combined := name + " " + content

	// Addiction treatment dressed up as post-acute care. No override: a
	// genuine post-acute signal alongside does not rescue the record.
	if res.Category == model.CategoryPostHospital && addictionPattern.MatchString(combined) {
		return model.CategoryOther, true, CorrectionAddiction
	}

	// Psychiatric facilities, but only when no genuine post-acute signal
	// is present anywhere — a stroke rehab with a psychiatry wing stays.
	if res.Category == model.CategoryPostHospital &&
		psychPattern.MatchString(combined) && !genuinePostHospital.MatchString(combined) {
		return model.CategoryOther, true, CorrectionPsychiatric
	}

	// Children's disability rehab.
	if res.Category == model.CategoryPostHospital && pediatricPattern.MatchString(combined) {
		return model.CategoryOther, true, CorrectionPediatric
	}

	// Diagnostic labs that slipped through stage 1: only when the lab
	// signal is in the name itself, whatever active category was assigned.
	if labPattern.MatchString(name) {
		return model.CategoryOther, true, CorrectionLab
	}

	// Pure physiotherapy without any genuine post-acute qualifier.
	if res.Category == model.CategoryPostHospital &&
		physioNamePattern.MatchString(name) && !genuinePostHospital.MatchString(combined) {
		return model.CategoryOther, true, CorrectionPhysio
	}

	// Staffing and recruitment agencies.
	if staffingPattern.MatchString(combined) {
		return model.CategoryOther, true, CorrectionStaffing
	}

	// Medical equipment sales and rental, by name only.
	if equipmentPattern.MatchString(name) {
		return model.CategoryOther, true, CorrectionEquipment
	}

	return res.Category, false, ""
}
