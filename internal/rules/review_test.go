package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karo-care/directory-cli/internal/model"
)

func classified(cat model.Category) model.ClassificationResult {
	return model.ClassificationResult{Category: cat, Confidence: model.ConfidenceHigh}
}

func TestReview_OtherPassesThrough(t *testing.T) {
	rv := NewReviewer()

	cat, corrected, rule := rv.Review(
		model.Record{Name: "Nasha Mukti Kendra"},
		classified(model.CategoryOther),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.False(t, corrected)
	assert.Empty(t, rule)
}

func TestReview_AddictionRehab(t *testing.T) {
	rv := NewReviewer()

	cat, corrected, rule := rv.Review(
		model.Record{Name: "New Hope Recovery", ContentText: "alcohol rehab and detox programs"},
		classified(model.CategoryPostHospital),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.True(t, corrected)
	assert.Equal(t, CorrectionAddiction, rule)
}

func TestReview_AddictionIgnoresGenuineSignals(t *testing.T) {
	rv := NewReviewer()

	// Unlike the psychiatric rule, addiction has no genuine-care override:
	// a stroke mention alongside does not rescue the record.
	cat, _, rule := rv.Review(
		model.Record{Name: "Serenity Centre", ContentText: "detox programs, also stroke rehabilitation"},
		classified(model.CategoryPostHospital),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.Equal(t, CorrectionAddiction, rule)
}

func TestReview_PsychiatricWithoutGenuineCare(t *testing.T) {
	rv := NewReviewer()

	cat, corrected, rule := rv.Review(
		model.Record{Name: "Mind Wellness Centre", ContentText: "psychiatric treatment and therapy"},
		classified(model.CategoryPostHospital),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.True(t, corrected)
	assert.Equal(t, CorrectionPsychiatric, rule)
}

func TestReview_PsychiatricWithGenuineCareStays(t *testing.T) {
	rv := NewReviewer()

	// A stroke rehab with a psychiatry wing keeps its category.
	cat, corrected, _ := rv.Review(
		model.Record{Name: "Recovery Centre", ContentText: "psychiatric support, stroke and paralysis rehabilitation"},
		classified(model.CategoryPostHospital),
	)
	assert.Equal(t, model.CategoryPostHospital, cat)
	assert.False(t, corrected)
}

func TestReview_PediatricDisability(t *testing.T) {
	rv := NewReviewer()

	cat, _, rule := rv.Review(
		model.Record{Name: "Hope Centre", ContentText: "rehabilitation for handicapped children"},
		classified(model.CategoryPostHospital),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.Equal(t, CorrectionPediatric, rule)
}

func TestReview_LabByNameOnly(t *testing.T) {
	rv := NewReviewer()

	// Lab signal in the name reassigns regardless of category.
	cat, _, rule := rv.Review(
		model.Record{Name: "Care Path Lab Services"},
		classified(model.CategoryElderCare),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.Equal(t, CorrectionLab, rule)

	// The same signal only in content does not fire.
	cat, corrected, _ := rv.Review(
		model.Record{Name: "Sunrise Elder Care", ContentText: "we also offer blood test collection"},
		classified(model.CategoryElderCare),
	)
	assert.Equal(t, model.CategoryElderCare, cat)
	assert.False(t, corrected)
}

func TestReview_PurePhysio(t *testing.T) {
	rv := NewReviewer()

	cat, _, rule := rv.Review(
		model.Record{Name: "Sunrise Physiotherapy", ContentText: "sports injury and back pain treatment"},
		classified(model.CategoryPostHospital),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.Equal(t, CorrectionPhysio, rule)

	// A genuine post-acute qualifier anywhere rescues the record.
	cat, corrected, _ := rv.Review(
		model.Record{Name: "Sunrise Physiotherapy", ContentText: "post operative recovery and bedridden patient care"},
		classified(model.CategoryPostHospital),
	)
	assert.Equal(t, model.CategoryPostHospital, cat)
	assert.False(t, corrected)
}

func TestReview_StaffingAgency(t *testing.T) {
	rv := NewReviewer()

	cat, _, rule := rv.Review(
		model.Record{Name: "CarePlus Services", ContentText: "nursing staffing and manpower supply for hospitals"},
		classified(model.CategoryHomeHealth),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.Equal(t, CorrectionStaffing, rule)
}

func TestReview_EquipmentByNameOnly(t *testing.T) {
	rv := NewReviewer()

	cat, _, rule := rv.Review(
		model.Record{Name: "City Wheelchair and Oxygen Cylinder Suppliers"},
		classified(model.CategoryHomeHealth),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.Equal(t, CorrectionEquipment, rule)

	cat, corrected, _ := rv.Review(
		model.Record{Name: "Sunrise Home Nursing", ContentText: "we can arrange a wheelchair on request"},
		classified(model.CategoryHomeHealth),
	)
	assert.Equal(t, model.CategoryHomeHealth, cat)
	assert.False(t, corrected)
}

func TestReview_OrderAddictionBeforePsychiatric(t *testing.T) {
	rv := NewReviewer()

	// Both signals present: the addiction rule is declared first and wins.
	cat, _, rule := rv.Review(
		model.Record{Name: "Renewal Centre", ContentText: "detox and psychiatric rehabilitation"},
		classified(model.CategoryPostHospital),
	)
	assert.Equal(t, model.CategoryOther, cat)
	assert.Equal(t, CorrectionAddiction, rule)
}

func TestReview_CleanRecordUntouched(t *testing.T) {
	rv := NewReviewer()

	cat, corrected, rule := rv.Review(
		model.Record{Name: "Sunrise Nursing Home", ContentText: "round the clock nursing care for elderly residents"},
		classified(model.CategoryNursingHomes),
	)
	assert.Equal(t, model.CategoryNursingHomes, cat)
	assert.False(t, corrected)
	assert.Empty(t, rule)
}
