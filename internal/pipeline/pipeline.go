// Package pipeline sequences exclusion, classification, correction review,
// and deduplication over a full record set, producing one disposition per
// record.
package pipeline

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/karo-care/directory-cli/internal/classify"
	"github.com/karo-care/directory-cli/internal/dedupe"
	"github.com/karo-care/directory-cli/internal/ingest"
	"github.com/karo-care/directory-cli/internal/model"
	"github.com/karo-care/directory-cli/internal/rules"
	"github.com/karo-care/directory-cli/internal/store"
)

// Config tunes pipeline execution.
type Config struct {
	// Concurrency bounds the per-record workers for classification.
	Concurrency int
}

// Pipeline orchestrates the four resolution stages.
type Pipeline struct {
	cfg        Config
	store      store.Store
	matcher    *rules.Stage1Matcher
	classifier *classify.Classifier
	reviewer   *rules.Reviewer
	resolver   *dedupe.Resolver
	vocab      *model.Vocabulary
}

// New creates a pipeline. st may be nil, disabling run persistence and the
// classification cache. vocab may be nil, falling back to the built-in
// vocabulary.
func New(cfg Config, st store.Store, matcher *rules.Stage1Matcher, classifier *classify.Classifier, reviewer *rules.Reviewer, resolver *dedupe.Resolver, vocab *model.Vocabulary) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if vocab == nil {
		vocab = model.DefaultVocabulary()
	}
	return &Pipeline{
		cfg:        cfg,
		store:      st,
		matcher:    matcher,
		classifier: classifier,
		reviewer:   reviewer,
		resolver:   resolver,
		vocab:      vocab,
	}
}

// Result is the full output of one run.
type Result struct {
	RunID    string                   `json:"run_id,omitempty"`
	Outcomes map[string]model.Outcome `json:"outcomes"`
	Report   Report                   `json:"report"`
}

// Run resolves the record set. Every input record ends with exactly one
// disposition; per-record failures degrade, they never abort the batch.
func (p *Pipeline) Run(ctx context.Context, records []model.Record) (*Result, error) {
	log := zap.L().With(zap.Int("records", len(records)))
	log.Info("pipeline: starting resolution")

	result := &Result{Outcomes: make(map[string]model.Outcome, len(records))}

	var run *model.Run
	if p.store != nil {
		var err error
		run, err = p.store.CreateRun(ctx, len(records))
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		result.RunID = run.ID
	}

	// Stage 1: exclusion. Pure per-record rule evaluation.
	survivors := make([]model.Record, 0, len(records))
	for _, r := range records {
		v := p.matcher.Evaluate(r)
		if v.Keep {
			survivors = append(survivors, r)
			continue
		}
		result.Outcomes[r.ID] = model.Outcome{
			RecordID:    r.ID,
			Category:    model.CategoryOther,
			Disposition: model.DispositionExcluded,
			Stage1Rule:  v.Reason + "/" + v.Rule,
			City:        r.ResolvedCity(),
		}
	}
	log.Info("pipeline: stage 1 complete",
		zap.Int("excluded", len(records)-len(survivors)),
		zap.Int("survivors", len(survivors)),
	)

	// Stage 2a+2b: classification and correction review. Per-record and
	// side-effect free, so records fan out across workers. The dedup stage
	// below needs every final category, hence the Wait barrier.
	type classified struct {
		record     model.Record
		category   model.Category
		confidence model.Confidence
		reason     string
		correction string
	}
	results := make([]classified, len(survivors))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i, r := range survivors {
		g.Go(func() error {
			res := p.classifyCached(gCtx, r)
			category, corrected, rule := p.reviewer.Review(r, res)

			c := classified{
				record:     r,
				category:   category,
				confidence: res.Confidence,
				reason:     res.Reason,
			}
			if corrected {
				c.correction = rule
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: classification stage")
	}

	// Stage 3: dedup over active records only.
	var active []model.Record
	for _, c := range results {
		if c.category.IsActive() {
			active = append(active, c.record)
		}
	}
	dedup := p.resolver.Resolve(active)

	// Assemble outcomes. Kept records get directory slugs and service tags.
	slugs := ingest.NewSlugSet()
	for _, c := range results {
		o := model.Outcome{
			RecordID:       c.record.ID,
			Category:       c.category,
			Confidence:     c.confidence,
			ClassifyReason: c.reason,
			CorrectionRule: c.correction,
			City:           c.record.ResolvedCity(),
		}
		switch {
		case !c.category.IsActive():
			o.Disposition = model.DispositionOther
		default:
			if removal, ok := dedup.Removed[c.record.ID]; ok {
				o.Disposition = model.DispositionDeduplicated
				o.DedupPass = removal.Pass
				o.MergedInto = removal.Into
			} else {
				o.Disposition = model.DispositionKept
				o.Slug = slugs.Claim(c.record.Name)
				o.Tags = p.vocab.MatchTags(c.category, c.record.Name+" "+c.record.ContentText)
			}
		}
		result.Outcomes[c.record.ID] = o
	}

	result.Report = BuildReport(result.Outcomes)

	if p.store != nil {
		if err := p.persist(ctx, run.ID, result); err != nil {
			return nil, err
		}
	}

	log.Info("pipeline: resolution complete",
		zap.Int("kept", result.Report.Dispositions[string(model.DispositionKept)]),
		zap.Int("deduplicated", result.Report.Dispositions[string(model.DispositionDeduplicated)]),
		zap.Int("excluded", result.Report.Dispositions[string(model.DispositionExcluded)]),
		zap.Int("other", result.Report.Dispositions[string(model.DispositionOther)]),
	)
	return result, nil
}

// classifyCached consults the classification cache before running the
// cascade, so an interrupted run resumes without reprocessing or re-calling
// the external classifier for finalized records.
func (p *Pipeline) classifyCached(ctx context.Context, r model.Record) model.ClassificationResult {
	if p.store != nil {
		cached, err := p.store.GetClassification(ctx, r.ID)
		if err != nil {
			zap.L().Warn("pipeline: classification cache read failed",
				zap.String("record_id", r.ID), zap.Error(err))
		} else if cached != nil {
			return *cached
		}
	}

	res := p.classifier.Classify(ctx, r)

	if p.store != nil {
		if err := p.store.PutClassification(ctx, res); err != nil {
			zap.L().Warn("pipeline: classification cache write failed",
				zap.String("record_id", r.ID), zap.Error(err))
		}
	}
	return res
}

func (p *Pipeline) persist(ctx context.Context, runID string, result *Result) error {
	outcomes := make([]model.Outcome, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		outcomes = append(outcomes, o)
	}
	if err := p.store.PutOutcomes(ctx, runID, outcomes); err != nil {
		return eris.Wrap(err, "pipeline: persist outcomes")
	}

	reportJSON, err := json.Marshal(result.Report)
	if err != nil {
		return eris.Wrap(err, "pipeline: marshal report")
	}
	if err := p.store.FinishRun(ctx, runID, model.RunStatusComplete, reportJSON); err != nil {
		return eris.Wrap(err, "pipeline: finish run")
	}
	return nil
}
