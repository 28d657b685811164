package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karo-care/directory-cli/internal/classify"
	"github.com/karo-care/directory-cli/internal/dedupe"
	"github.com/karo-care/directory-cli/internal/model"
	"github.com/karo-care/directory-cli/internal/rules"
	"github.com/karo-care/directory-cli/internal/store"
)

func newTestPipeline(st *fakeStore) *Pipeline {
	matcher := rules.NewStage1Matcher(classify.DefaultTypeCategories)
	classifier := classify.New(nil, nil, nil, classify.Config{})
	reviewer := rules.NewReviewer()
	resolver := dedupe.New(dedupe.Config{})

	return New(Config{Concurrency: 2}, storeOrNil(st), matcher, classifier, reviewer, resolver, nil)
}

func testRecords() []model.Record {
	lat0 := 0.0
	lat50 := 50.0 / 111194.9
	lng := 0.0
	reviews40, reviews5 := 40, 5

	return []model.Record{
		{ID: "ex1", Name: "Apollo Hospital", City: "Pune"},
		{
			ID: "k1", Name: "Sunrise Nursing Home", City: "Pune",
			WebsiteURL: "https://sunrisecare.com",
			Latitude:   &lat0, Longitude: &lng, ReviewCount: &reviews40,
		},
		{
			ID: "k2", Name: "Sunrise Nursing Home Annexe", City: "Pune",
			WebsiteURL: "https://www.sunrisecare.com",
			Latitude:   &lat50, Longitude: &lng, ReviewCount: &reviews5,
		},
		{ID: "o1", Name: "Seva Sadan", City: "Pune"},
	}
}

func TestRun_EveryRecordGetsOneDisposition(t *testing.T) {
	p := newTestPipeline(nil)

	result, err := p.Run(context.Background(), testRecords())
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 4)

	ex := result.Outcomes["ex1"]
	assert.Equal(t, model.DispositionExcluded, ex.Disposition)
	assert.Equal(t, "hard_name/hospital", ex.Stage1Rule)
	assert.Equal(t, model.CategoryOther, ex.Category)

	kept := result.Outcomes["k1"]
	assert.Equal(t, model.DispositionKept, kept.Disposition)
	assert.Equal(t, model.CategoryNursingHomes, kept.Category)
	assert.Equal(t, "sunrise-nursing-home", kept.Slug)

	dup := result.Outcomes["k2"]
	assert.Equal(t, model.DispositionDeduplicated, dup.Disposition)
	assert.Equal(t, "k1", dup.MergedInto)
	assert.Equal(t, dedupe.PassDomain, dup.DedupPass)
	assert.Empty(t, dup.Slug)

	other := result.Outcomes["o1"]
	assert.Equal(t, model.DispositionOther, other.Disposition)
	assert.Equal(t, model.CategoryOther, other.Category)
}

func TestRun_DedupBackReferencesPointAtKeptRecords(t *testing.T) {
	p := newTestPipeline(nil)

	result, err := p.Run(context.Background(), testRecords())
	require.NoError(t, err)

	for id, o := range result.Outcomes {
		if o.Disposition != model.DispositionDeduplicated {
			continue
		}
		target, ok := result.Outcomes[o.MergedInto]
		require.True(t, ok, "record %s merged into unknown id %s", id, o.MergedInto)
		assert.Equal(t, model.DispositionKept, target.Disposition)
	}
}

func TestRun_ReportCounts(t *testing.T) {
	p := newTestPipeline(nil)

	result, err := p.Run(context.Background(), testRecords())
	require.NoError(t, err)

	rep := result.Report
	assert.Equal(t, 4, rep.Total)
	assert.Equal(t, 1, rep.Dispositions[string(model.DispositionExcluded)])
	assert.Equal(t, 1, rep.Dispositions[string(model.DispositionKept)])
	assert.Equal(t, 1, rep.Dispositions[string(model.DispositionDeduplicated)])
	assert.Equal(t, 1, rep.Dispositions[string(model.DispositionOther)])
	assert.Equal(t, 1, rep.ExclusionReasons["hard_name"])
	assert.Equal(t, 2, rep.Categories[string(model.CategoryNursingHomes)])
	assert.Equal(t, 1, rep.DedupPasses[dedupe.PassDomain])
	assert.Equal(t, 1, rep.Cities["Pune"])
}

func TestRun_KeptRecordsGetVocabularyTags(t *testing.T) {
	matcher := rules.NewStage1Matcher(classify.DefaultTypeCategories)
	classifier := classify.New(nil, nil, nil, classify.Config{})
	reviewer := rules.NewReviewer()
	resolver := dedupe.New(dedupe.Config{})
	vocab := &model.Vocabulary{
		Categories: []string{string(model.CategoryNursingHomes)},
		Tags: map[string][]string{
			string(model.CategoryNursingHomes): {"dementia care", "post-operative care"},
		},
	}
	p := New(Config{Concurrency: 2}, nil, matcher, classifier, reviewer, resolver, vocab)

	recs := testRecords()
	for i := range recs {
		if recs[i].ID == "k1" {
			recs[i].ContentText = "We offer dementia care and 24x7 nursing for seniors."
		}
	}

	result, err := p.Run(context.Background(), recs)
	require.NoError(t, err)

	kept := result.Outcomes["k1"]
	require.Equal(t, model.DispositionKept, kept.Disposition)
	assert.Equal(t, []string{"dementia care"}, kept.Tags)

	// Tags stay off non-kept dispositions.
	assert.Empty(t, result.Outcomes["ex1"].Tags)
	assert.Empty(t, result.Outcomes["k2"].Tags)
	assert.Empty(t, result.Outcomes["o1"].Tags)
}

func TestRun_ClassificationCache(t *testing.T) {
	st := newFakeStore()
	// A cached result for o1 short-circuits the cascade, which on its own
	// would classify this record as Other.
	st.classifications["o1"] = model.ClassificationResult{
		RecordID:   "o1",
		Category:   model.CategoryElderCare,
		Confidence: model.ConfidenceHigh,
		Reason:     "cached",
	}
	p := newTestPipeline(st)

	result, err := p.Run(context.Background(), testRecords())
	require.NoError(t, err)

	o := result.Outcomes["o1"]
	assert.Equal(t, model.CategoryElderCare, o.Category)
	assert.Equal(t, model.DispositionKept, o.Disposition)

	// Fresh classifications land in the cache for the next run.
	assert.Contains(t, st.classifications, "k1")
	assert.Contains(t, st.classifications, "k2")

	// The run was persisted and finalized.
	assert.Equal(t, "run-1", result.RunID)
	assert.Len(t, st.outcomes, 4)
	assert.Equal(t, model.RunStatusComplete, st.finishedWith)
}

// fakeStore is an in-memory store.Store for pipeline tests.
type fakeStore struct {
	mu              sync.Mutex
	classifications map[string]model.ClassificationResult
	outcomes        map[string]model.Outcome
	finishedWith    model.RunStatus
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		classifications: make(map[string]model.ClassificationResult),
		outcomes:        make(map[string]model.Outcome),
	}
}

// storeOrNil avoids the classic typed-nil interface trap when no store is
// wanted.
func storeOrNil(st *fakeStore) store.Store {
	if st == nil {
		return nil
	}
	return st
}

func (f *fakeStore) CreateRun(ctx context.Context, recordCount int) (*model.Run, error) {
	return &model.Run{ID: "run-1", Status: model.RunStatusRunning, RecordCount: recordCount}, nil
}

func (f *fakeStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, report json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishedWith = status
	return nil
}

func (f *fakeStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	return nil, nil
}

func (f *fakeStore) GetLatestRun(ctx context.Context) (*model.Run, error) {
	return nil, nil
}

func (f *fakeStore) GetClassification(ctx context.Context, recordID string) (*model.ClassificationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if res, ok := f.classifications[recordID]; ok {
		return &res, nil
	}
	return nil, nil
}

func (f *fakeStore) PutClassification(ctx context.Context, res model.ClassificationResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classifications[res.RecordID] = res
	return nil
}

func (f *fakeStore) PutOutcomes(ctx context.Context, runID string, outcomes []model.Outcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range outcomes {
		f.outcomes[o.RecordID] = o
	}
	return nil
}

func (f *fakeStore) GetOutcome(ctx context.Context, runID, recordID string) (*model.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.outcomes[recordID]; ok {
		return &o, nil
	}
	return nil, nil
}

func (f *fakeStore) ListOutcomes(ctx context.Context, runID string) ([]model.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Outcome, 0, len(f.outcomes))
	for _, o := range f.outcomes {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeStore) Migrate(ctx context.Context) error { return nil }

func (f *fakeStore) Close() error { return nil }
