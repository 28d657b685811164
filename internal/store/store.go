// Package store persists runs, per-record outcomes, and the classification
// cache that makes interrupted runs resumable.
package store

import (
	"context"
	"encoding/json"

	"github.com/karo-care/directory-cli/internal/model"
)

// Store is the persistence interface for the resolution pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, recordCount int) (*model.Run, error)
	FinishRun(ctx context.Context, runID string, status model.RunStatus, report json.RawMessage) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	GetLatestRun(ctx context.Context) (*model.Run, error)

	// Classification cache. Keyed by record id; a hit means the record was
	// already finalized by an earlier run and is not reprocessed.
	GetClassification(ctx context.Context, recordID string) (*model.ClassificationResult, error)
	PutClassification(ctx context.Context, res model.ClassificationResult) error

	// Outcomes
	PutOutcomes(ctx context.Context, runID string, outcomes []model.Outcome) error
	GetOutcome(ctx context.Context, runID, recordID string) (*model.Outcome, error)
	ListOutcomes(ctx context.Context, runID string) ([]model.Outcome, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
