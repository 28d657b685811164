package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/classify"
	"github.com/karo-care/directory-cli/internal/dedupe"
	"github.com/karo-care/directory-cli/internal/ingest"
	"github.com/karo-care/directory-cli/internal/model"
	"github.com/karo-care/directory-cli/internal/pipeline"
	"github.com/karo-care/directory-cli/internal/rules"
	"github.com/karo-care/directory-cli/internal/store"
	"github.com/karo-care/directory-cli/pkg/anthropic"
)

// pipelineEnv holds the initialized components shared by the run, stage,
// and serve commands.
type pipelineEnv struct {
	Store      store.Store
	Matcher    *rules.Stage1Matcher
	Classifier *classify.Classifier
	Reviewer   *rules.Reviewer
	Resolver   *dedupe.Resolver
	Pipeline   *pipeline.Pipeline
}

func (e *pipelineEnv) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("store close failed", zap.Error(err))
		}
	}
}

// initPipeline opens the store, builds every stage component, and wires the
// pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	vocab := model.DefaultVocabulary()
	if cfg.Ingest.VocabularyFile != "" {
		vocab, err = model.LoadVocabulary(cfg.Ingest.VocabularyFile)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	var semantic classify.Semantic
	if cfg.Anthropic.Key != "" {
		semantic = classify.NewSemantic(anthropic.NewClient(cfg.Anthropic.Key), classify.SemanticConfig{
			Model:      cfg.Anthropic.Model,
			MaxTokens:  cfg.Anthropic.MaxTokens,
			RatePerSec: cfg.Anthropic.RatePerSec,
		})
	} else {
		zap.L().Warn("no anthropic key configured, semantic fallback disabled")
	}

	classifier := classify.New(nil, vocab, semantic, classify.Config{
		RepeatThreshold: cfg.Classifier.RepeatThreshold,
		ExcerptChars:    cfg.Classifier.ExcerptChars,
	})
	matcher := rules.NewStage1Matcher(classify.DefaultTypeCategories)
	reviewer := rules.NewReviewer()
	resolver := dedupe.New(dedupe.Config{
		DistanceMeters:  cfg.Dedupe.DistanceMeters,
		FuzzySimilarity: cfg.Dedupe.FuzzySimilarity,
	})

	return &pipelineEnv{
		Store:      st,
		Matcher:    matcher,
		Classifier: classifier,
		Reviewer:   reviewer,
		Resolver:   resolver,
		Pipeline: pipeline.New(
			pipeline.Config{Concurrency: cfg.Pipeline.Concurrency},
			st, matcher, classifier, reviewer, resolver, vocab,
		),
	}, nil
}

// loadInput reads the discovery snapshot, attaches crawled content, and
// assigns cities.
func loadInput(recordsPath, contentPath string) ([]model.Record, error) {
	records, err := ingest.LoadRecords(recordsPath)
	if err != nil {
		return nil, err
	}

	if contentPath != "" {
		pages, err := ingest.LoadContent(contentPath)
		if err != nil {
			return nil, err
		}
		records = ingest.ApplyContent(records, pages)
	}

	if cfg.Ingest.CitiesFile != "" {
		if _, err := os.Stat(cfg.Ingest.CitiesFile); err == nil {
			cities, err := ingest.LoadCities(cfg.Ingest.CitiesFile)
			if err != nil {
				return nil, err
			}
			records = ingest.NewCityAssigner(cities).AssignAll(records)
		} else {
			zap.L().Warn("cities file not found, using search-context cities",
				zap.String("path", cfg.Ingest.CitiesFile))
		}
	}

	return records, nil
}

// writeJSON writes v as indented JSON to path, or stdout when path is "-".
func writeJSON(path string, v any) error {
	out := os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}
