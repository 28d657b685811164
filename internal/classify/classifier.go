package classify

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/model"
)

// Name-signal phrase groups, in category priority order. Plain substrings,
// matched against the lowercased name.
var nursingHomeTerms = []string{
	"nursing home", "nursing care", "nursing facility",
	"patient care center", "patient care centre",
	"convalescent", "step down",
	"long term care", "long-term care",
}

var elderCareTerms = []string{
	"elder care", "elderly care", "old age home", "old age care",
	"senior living", "senior citizen", "senior care",
	"assisted living", "retirement home", "retirement community",
	"aged care", "vriddhashram", "vriddh", "vridh",
	"dementia care", "geriatric",
	"palliative", "hospice",
}

var homeHealthTerms = []string{
	"home health", "home care", "home nursing",
	"home nurse", "nursing at home", "nurse at home",
	"icu at home", "attendant service",
	"home medical", "home patient care",
	"care at home", "at home service",
	"nursing service", "nursing bureau",
	"patient care service", "patient care bureau",
	"patient attendant", "patient caretaker",
	"caretaker service", "caregiver service",
}

// postHospitalPatterns are explicit medical-rehabilitation signals that
// classify on the name alone.
var postHospitalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`post.?surg`),
	regexp.MustCompile(`post.?hospital`),
	regexp.MustCompile(`post.?operative`),
	regexp.MustCompile(`\bstroke\b.*(rehab|recovery|care|centre|center)`),
	regexp.MustCompile(`\bneuro\b.*(rehab|recovery|care|centre|center)`),
	regexp.MustCompile(`\bparalysis\b.*(rehab|recovery|care|centre|center)`),
	regexp.MustCompile(`\bbrain injury\b`),
	regexp.MustCompile(`\bspinal\b.*(rehab|recovery|injury)`),
	regexp.MustCompile(`\bstep.?down\b`),
	regexp.MustCompile(`\bconvalescent\b`),
}

// genericRehabPattern matches a bare facility-type rehab name, which is not
// enough on its own — it needs a medical qualifier or a supporting machine
// type before it counts as post-hospital care.
var genericRehabPattern = regexp.MustCompile(`rehabilitation\s*(centre|center|facility|home)`)

// rehabQualifierTerms are the medical-context words that qualify a generic
// rehab name, searched in the name and the crawled content.
var rehabQualifierTerms = []string{
	"neuro", "stroke", "spine", "spinal", "ortho", "physio",
	"medical", "health", "clinical", "therapy", "nursing",
	"cardiac", "pulmonary", "surgical", "hospital",
	"paralysis", "brain", "injury", "recovery",
}

// Semantic is the external collaborator that renders a category judgment
// from raw text. Implementations must return the same result shape as the
// local cascade; callers degrade failures to Other/none.
type Semantic interface {
	Classify(ctx context.Context, req SemanticRequest) (model.ClassificationResult, error)
}

// SemanticRequest carries the signals handed to the external classifier.
type SemanticRequest struct {
	RecordID       string
	Name           string
	City           string
	CategoryHint   string
	ContentExcerpt string
}

// Config tunes the classifier cascade.
type Config struct {
	// RepeatThreshold is how many same-category search-context hits are
	// required before the context signal is trusted. Empirically tuned;
	// kept configurable because its optimal value is domain specific.
	RepeatThreshold int

	// ExcerptChars caps the crawled content passed to the semantic
	// collaborator.
	ExcerptChars int
}

// Classifier assigns one category per record. Signals are tried in
// reliability order: direct type mapping, name cascade, repeated search
// context, then the external semantic fallback.
type Classifier struct {
	typeMap  map[string]model.Category
	vocab    *model.Vocabulary
	semantic Semantic
	cfg      Config
}

// New builds a classifier. semantic may be nil, in which case records the
// cascade cannot place become Other at confidence none.
func New(typeMap map[string]model.Category, vocab *model.Vocabulary, semantic Semantic, cfg Config) *Classifier {
	if typeMap == nil {
		typeMap = DefaultTypeCategories
	}
	if vocab == nil {
		vocab = model.DefaultVocabulary()
	}
	if cfg.RepeatThreshold <= 0 {
		cfg.RepeatThreshold = 2
	}
	if cfg.ExcerptChars <= 0 {
		cfg.ExcerptChars = 4000
	}
	return &Classifier{typeMap: typeMap, vocab: vocab, semantic: semantic, cfg: cfg}
}

// Classify returns exactly one category for the record. It never returns an
// error: every failure mode degrades to the Other sentinel with a reason
// string identifying what happened.
func (c *Classifier) Classify(ctx context.Context, r model.Record) model.ClassificationResult {
	// 1. Direct type mapping — the most reliable signal, short-circuits.
	for _, t := range r.MachineTypes {
		if cat, ok := c.typeMap[t]; ok {
			return result(r.ID, cat, model.ConfidenceHigh, "machine type "+t)
		}
	}
	if cat, ok := c.typeMap[r.PrimaryType]; ok && r.PrimaryType != "" {
		return result(r.ID, cat, model.ConfidenceHigh, "primary type "+r.PrimaryType)
	}

	// 2. Name-signal cascade, in category priority order.
	if res, ok := c.classifyByName(r); ok {
		return res
	}

	// 3. Repeated search-context evidence, for generic catch-all types only.
	if res, ok := c.classifyByContext(r); ok {
		return res
	}

	// 4. External semantic fallback.
	if c.semantic != nil {
		return c.classifySemantic(ctx, r)
	}

	return result(r.ID, model.CategoryOther, model.ConfidenceNone, "no signal")
}

func (c *Classifier) classifyByName(r model.Record) (model.ClassificationResult, bool) {
	name := strings.ToLower(r.Name)

	if term, ok := containsAny(name, nursingHomeTerms); ok {
		return result(r.ID, model.CategoryNursingHomes, model.ConfidenceHigh, "name term "+quoted(term)), true
	}
	if term, ok := containsAny(name, elderCareTerms); ok {
		return result(r.ID, model.CategoryElderCare, model.ConfidenceHigh, "name term "+quoted(term)), true
	}

	for _, p := range postHospitalPatterns {
		if p.MatchString(name) {
			return result(r.ID, model.CategoryPostHospital, model.ConfidenceHigh, "name pattern "+quoted(p.String())), true
		}
	}

	// Generic "rehabilitation centre" needs a qualifier: a medical-context
	// term anywhere in the name or content, or a supporting machine type.
	if genericRehabPattern.MatchString(name) {
		haystack := name + " " + strings.ToLower(r.ContentText)
		if term, ok := containsAny(haystack, rehabQualifierTerms); ok {
			return result(r.ID, model.CategoryPostHospital, model.ConfidenceMedium, "generic rehab with qualifier "+quoted(term)), true
		}
		for _, t := range r.MachineTypes {
			if t == "rehabilitation_center" {
				return result(r.ID, model.CategoryPostHospital, model.ConfidenceMedium, "generic rehab with machine type "+t), true
			}
		}
		// Likely social or vocational rehab — fall through.
		zap.L().Debug("classify: generic rehab without qualifier",
			zap.String("record_id", r.ID),
			zap.String("name", r.Name),
		)
	}

	if term, ok := containsAny(name, homeHealthTerms); ok {
		return result(r.ID, model.CategoryHomeHealth, model.ConfidenceHigh, "name term "+quoted(term)), true
	}

	return model.ClassificationResult{}, false
}

// classifyByContext trusts the majority search-context category for records
// whose primary type is a generic catch-all, and only when the same
// category discovered the record at least RepeatThreshold times.
func (c *Classifier) classifyByContext(r model.Record) (model.ClassificationResult, bool) {
	generic := genericPrimaryTypes[r.PrimaryType] ||
		(r.PrimaryType == "" && len(r.MachineTypes) > 0)
	if !generic || len(r.FoundVia) == 0 {
		return model.ClassificationResult{}, false
	}

	counts := make(map[model.Category]int)
	for _, label := range r.FoundVia {
		cat, ok := c.vocab.Canonical(label)
		if !ok || !cat.IsActive() {
			continue
		}
		counts[cat]++
	}

	best, n := majority(counts)
	if n < c.cfg.RepeatThreshold {
		return model.ClassificationResult{}, false
	}
	reason := fmt.Sprintf("search context %q x%d", best, n)
	return result(r.ID, best, model.ConfidenceLow, reason), true
}

func (c *Classifier) classifySemantic(ctx context.Context, r model.Record) model.ClassificationResult {
	excerpt := r.ContentText
	if len(excerpt) > c.cfg.ExcerptChars {
		excerpt = excerpt[:c.cfg.ExcerptChars]
	}

	hint, _ := majorityLabel(r.FoundVia, c.vocab)

	res, err := c.semantic.Classify(ctx, SemanticRequest{
		RecordID:       r.ID,
		Name:           r.Name,
		City:           r.ResolvedCity(),
		CategoryHint:   hint,
		ContentExcerpt: excerpt,
	})
	if err != nil {
		zap.L().Warn("classify: semantic call failed",
			zap.String("record_id", r.ID),
			zap.Error(err),
		)
		return result(r.ID, model.CategoryOther, model.ConfidenceNone, "semantic failure: "+truncate(err.Error(), 80))
	}

	// The external answer must land inside the canonical vocabulary.
	cat, ok := c.vocab.Canonical(string(res.Category))
	if !ok {
		return result(r.ID, model.CategoryOther, model.ConfidenceNone, "semantic returned unknown category "+quoted(string(res.Category)))
	}

	res.RecordID = r.ID
	res.Category = cat
	return res
}

func result(id string, cat model.Category, conf model.Confidence, reason string) model.ClassificationResult {
	return model.ClassificationResult{RecordID: id, Category: cat, Confidence: conf, Reason: reason}
}

func containsAny(haystack string, terms []string) (string, bool) {
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			return t, true
		}
	}
	return "", false
}

// majority picks the category with the highest count; ties break by
// category name for determinism.
func majority(counts map[model.Category]int) (model.Category, int) {
	cats := make([]model.Category, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	var best model.Category
	bestN := 0
	for _, c := range cats {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best, bestN
}

func majorityLabel(labels []string, vocab *model.Vocabulary) (string, int) {
	counts := make(map[model.Category]int)
	for _, l := range labels {
		if cat, ok := vocab.Canonical(l); ok && cat.IsActive() {
			counts[cat]++
		}
	}
	best, n := majority(counts)
	if n == 0 {
		return "", 0
	}
	return string(best), n
}

func quoted(s string) string {
	return fmt.Sprintf("%q", s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
