package rules

import (
	"strings"

	"github.com/karo-care/directory-cli/internal/model"
)

// Stage 1 exclusion reason codes.
const (
	ReasonNotOperational = "not_operational"
	ReasonHardName       = "hard_name"
	ReasonSoftName       = "soft_name"
	ReasonPrimaryType    = "primary_type"
	ReasonSubType        = "sub_type"
)

// positiveCareTerms rescues names that mention a soft-excluded word but are
// clearly in-scope care businesses.
const positiveCareTerms = `(nursing|elder|old.age|home.care|rehab|geriatric|palliative|hospice|senior|vridh)`

// hardExcludeRules always exclude on match, no override. Ordered; the first
// match is the recorded reason.
var hardExcludeRules = RuleSet{
	Hard("hospital", `\bhospital\b`),
	Hard("addiction", `(addict|de.?addict|deaddict|nasha|nashamukti|nasha\s*mukti)`),
	Hard("substance_abuse", `\b(substance\s*abuse|sober\b|sobriety\b|detox)\b`),
	Hard("alcohol", `\balcohol\b`),
	Hard("drug", `\bdrug\b`),
	Hard("education", `\b(school|college|university|vidyalaya)\b`),
	Hard("academy", `\bacadem`),
	Hard("institute", `\binstitute\s+of\b`),
	Hard("dental", `\b(dental|dentist)\b|\borthodont`),
	Hard("veterinary", `\bveterinar|\b(animal|pet)\s*(hospital|clinic|care)\b`),
	Hard("fitness", `\b(gym\b|fitness|crossfit|zumba)\b`),
	Hard("spa_beauty", `\bspa\b|\b(beauty|salon|parlour|parlor)\b|\bhair\s*transplant\b`),
	Hard("insurance", `\b(insurance|bima)\b`),
	Hard("legal", `\b(advocate|lawyer|legal\s*service)\b`),
	Hard("real_estate", `\b(construction|builder|real\s*estate|property)\b`),
	Hard("tech", `\b(software|technologies|infotech|it\s*solution)\b`),
	Hard("food", `\b(restaurant|dhaba|cafe\b|tiffin)\b`),
	Hard("blood_bank", `\bblood\s*bank\b`),
	Hard("alt_medicine", `\b(ayurved|homeopath|unani|siddha|naturopath)`),
	Hard("meditation", `\bmeditat`),
	Hard("sports", `\bsports?\b`),
	Hard("counselling", `\bcounsell`),
	Hard("scan", `\bscans?\b`),
	Hard("pest_control", `\bpest`),
	Hard("domestic_help", `\bdomestic\s*help|\bayas?\b|\bhelpers?\b|\bmaids?\b.*\bagency\b`),
	Hard("cleaning", `\bclean`),
	Hard("appliance_repair", `\bappliance|\brepair`),
	Hard("tutoring", `\btutor`),
	Hard("religious", `\b(temple|mandir|masjid|mosque|church|gurudwara|dargah)\b`),
	Hard("psychiatric", `\bpsychiatr|\bmental\s*(hospital|asylum)\b`),
	Hard("pediatric", `\b(pediatric|paediatric)\b|\bchild\s*(care|health|hospital|clinic)\b|\bshishu\b`),
	Hard("fertility", `\b(ivf|fertility)\b|\binfertil`),
	Hard("maternity", `\b(maternity|obstetric)\b|\bpregnan|\b(gynae|gynaec|gynec)`),
	Hard("astrology", `\bjyotish\b|\bastrol|\bsexolog|\bandrolog`),
	Hard("dermatology", `\bdermatol|\bskin\b.*(clinic|care|specialist)|\bcosmet`),
	Hard("ophthalmology", `\beye\b.*(hospital|centre|center|clinic|institute)|\b(optical|lasik|netralaya|cornea|retina|cataract)\b|\bophthalmol`),
	Hard("diagnostics", `\bdiagnostic|\bimaging\b|\bpatholog|\bx.?ray\b|\bsonograph`),
	Hard("surgery", `\b(surgery|surgeon)\b|\blaparoscop`),
	Hard("specialist", `\burolog|\boncolog|\bcancer\b.*(clinic|centre|center|hospital)|\b(orthopaedic|orthopedic)\b|\b(cardiol|nephrol|gastro|pulmonol)|\b(endol|diabet|neurosurg)`),
	Hard("weight_loss", `\bweight\b.*(loss|management)|\bslimming\b|\bdiet\b.*(clinic|centre|center)|\bchiropr|\bacupuncture\b`),
	Hard("equipment", `\bequipment\b.*(rent|hire|on rent)|\bmedical\b.*(equipment|device|supply|store|shop)`),
	Hard("ent", `\bent\b.*(clinic|doctor|specialist)`),
	Hard("club", `\bmarriage bureau\b|\bkiwanis\b|\brotary\b.*(club|foundation)|\blions club\b|\brehabilitation council\b`),
	Hard("special_needs", `\bchild development\b|\b(autism|adhd)\b|\bcerebral palsy\b|\bdown.?syn|\bdelayed speech\b|\bspecial needs\b|\bspecial child\b|\blearning disabilit|\bdyslexia\b`),
	Hard("correctional", `\bprisoner\b|\bprison\b.*(reform|rehab)|\bjuvenile\b.*(home|centre|center)|\bcorrection(al)?\b.*(home|centre|center|facility)`),
	Hard("behavioral", `\b(behavioral health|behavioural health)\b|\bmental hospital\b`),
}

// softExcludeRules exclude unless the override pattern also matches the
// name. Rules with an empty override always exclude.
var softExcludeRules = RuleSet{
	Soft("physio", `\bphysio|physiotherap`, `(rehab|nursing|stroke|neuro|paralysis|spinal|post)`),
	Soft("foundation", `\bfoundation\b`, positiveCareTerms),
	Soft("clinic", `\bclinic\b`, `(nursing|elder|old.age|home.care|rehab|geriatric|palliative|hospice|physio|neuro|stroke|ortho)`),
	Soft("ambulance", `\bambulance\b`, positiveCareTerms),
	Soft("yoga", `\byoga\b`, `(physio|rehab|nursing|elder)`),
	Soft("ashram", `\bashram\b`, `(vridh|vriddhashram|old.age|elder|senior|aged)`),
	Soft("charitable_trust", `\bcharitable trust\b`, positiveCareTerms),
	Soft("lodging", `\b(hotel|hostel|paying\s*guest)\b`, `care`),
	Soft("ngo", `\b(ngo\b|society\b|samaj|samiti|sangathan)\b`, positiveCareTerms),
	Soft("luxury_rehab", `\bluxury\b.*rehab`, ""),
	Soft("speech_therapy", `\bspeech therapy\b`, positiveCareTerms),
	Soft("occupational_therapy", `\boccupational therapy\b`, positiveCareTerms),
	Soft("tech_pvt", `\btech\b.*\bpvt\b`, ""),
	Soft("club_generic", `\bclub\b`, positiveCareTerms),
	Soft("psycho", `\bpsycho`, `(rehab|nursing|elder|old.age|home.care|senior|vridh)`),
	Soft("mental", `\bmental(ly)?\b`, positiveCareTerms),
	Soft("training", `\btraining\b`, positiveCareTerms),
	Soft("education_soft", `\beducat`, positiveCareTerms),
}

// keepPrimaryTypes is the primary-type whitelist. The empty type means the
// source assigned none, which is always allowed through to later stages.
var keepPrimaryTypes = map[string]bool{
	"health":         true,
	"medical_clinic": true,
	"service":        true,
	"medical_center": true,
	"":               true,
}

// corePrimaryTypes are unambiguously in-scope: sub-type blacklisting is
// skipped entirely for these.
var corePrimaryTypes = map[string]bool{
	"health":         true,
	"medical_clinic": true,
	"medical_center": true,
}

// excludeSubTypes removes records whose machine type tags mark them as
// retail, hospitality, fitness, education and similar out-of-scope trades.
var excludeSubTypes = map[string]bool{
	"child_care_agency": true, "preschool": true, "school": true,
	"university": true, "educational_institution": true,

	"store": true, "manufacturer": true, "electronics_store": true,
	"home_goods_store": true, "furniture_store": true,
	"home_improvement_store": true, "building_materials_store": true,
	"hardware_store": true, "shoe_store": true, "clothing_store": true,
	"cosmetics_store": true, "book_store": true, "grocery_store": true,
	"food_store": true, "drugstore": true,

	"lodging": true, "hostel": true, "guest_house": true, "hotel": true,
	"inn": true, "motel": true, "extended_stay_hotel": true,
	"resort_hotel": true, "bed_and_breakfast": true, "cottage": true,

	"apartment_building": true, "apartment_complex": true,
	"condominium_complex": true, "housing_complex": true,

	"gym": true, "fitness_center": true, "spa": true, "massage_spa": true,
	"yoga_studio": true,

	"beauty_salon": true, "hair_care": true, "hair_salon": true,
	"nail_salon": true, "barber_shop": true, "body_art_service": true,

	"dental_clinic": true, "dentist": true, "pharmacy": true,
	"skin_care_clinic": true, "pet_care": true, "veterinary_care": true,

	"food": true, "restaurant": true, "catering_service": true,
	"meal_delivery": true, "food_delivery": true,

	"place_of_worship": true, "hindu_temple": true,

	"taxi_service": true, "chauffeur_service": true, "car_rental": true,
	"car_repair": true, "car_wash": true, "car_dealer": true,
	"transportation_service": true,

	"insurance_agency": true, "general_contractor": true,
	"real_estate_agency": true,

	"travel_agency": true, "laundry": true, "event_venue": true,
	"garden": true, "market": true, "storage": true, "bar": true,
	"sports_bar": true, "sports_club": true, "courthouse": true,
	"police": true, "accounting": true, "electrician": true,
}

// Verdict is the stage 1 outcome for one record.
type Verdict struct {
	Keep   bool
	Reason string // reason code, empty when kept
	Rule   string // specific matched rule for auditability
}

func keep() Verdict                       { return Verdict{Keep: true} }
func exclude(reason, rule string) Verdict { return Verdict{Reason: reason, Rule: rule} }

// Stage1Matcher filters out-of-scope records before any classification
// work. The type→category table lets strongly typed records bypass the
// primary-type whitelist.
type Stage1Matcher struct {
	hard    RuleSet
	soft    RuleSet
	typeMap map[string]model.Category
}

// NewStage1Matcher builds the matcher around the given type→category table.
func NewStage1Matcher(typeMap map[string]model.Category) *Stage1Matcher {
	return &Stage1Matcher{
		hard:    hardExcludeRules,
		soft:    softExcludeRules,
		typeMap: typeMap,
	}
}

// Evaluate runs the ordered exclusion passes against a record; the first
// matching pass wins. Missing fields are treated as empty, never as errors.
func (m *Stage1Matcher) Evaluate(r model.Record) Verdict {
	// 1. Business status.
	if !r.BusinessStatus.IsOperational() {
		return exclude(ReasonNotOperational, string(r.BusinessStatus))
	}

	name := strings.ToLower(r.Name)

	// 2. Hard name exclusions: no override, no appeal.
	if rule, ok := m.hard.Match(name); ok {
		return exclude(ReasonHardName, rule.Name)
	}

	// 3. Soft name exclusions: a positive qualifier in the name rescues.
	if rule, ok := m.soft.Match(name); ok {
		return exclude(ReasonSoftName, rule.Name)
	}

	// 4. Primary-type whitelist. A machine type with a direct category
	// mapping is strong enough evidence of in-scope-ness to bypass it.
	if !keepPrimaryTypes[r.PrimaryType] && !m.hasMappedType(r) {
		return exclude(ReasonPrimaryType, r.PrimaryType)
	}

	// 5. Sub-type blacklist, skipped for unambiguously in-scope primaries.
	if !corePrimaryTypes[r.PrimaryType] {
		for _, t := range r.MachineTypes {
			if excludeSubTypes[t] {
				return exclude(ReasonSubType, t)
			}
		}
	}

	return keep()
}

func (m *Stage1Matcher) hasMappedType(r model.Record) bool {
	if _, ok := m.typeMap[r.PrimaryType]; ok && r.PrimaryType != "" {
		return true
	}
	for _, t := range r.MachineTypes {
		if _, ok := m.typeMap[t]; ok {
			return true
		}
	}
	return false
}
