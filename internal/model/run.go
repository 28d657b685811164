package model

import (
	"encoding/json"
	"time"
)

// RunStatus tracks a pipeline run's lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one pipeline execution. Report holds the aggregate report JSON
// once the run completes.
type Run struct {
	ID          string          `json:"id"`
	Status      RunStatus       `json:"status"`
	RecordCount int             `json:"record_count"`
	Report      json.RawMessage `json:"report,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
