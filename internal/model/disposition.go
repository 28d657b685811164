package model

// Disposition is the final per-record outcome of the resolution pipeline.
// Every input record ends with exactly one disposition.
type Disposition string

const (
	// DispositionExcluded — removed by the stage 1 pattern matcher.
	DispositionExcluded Disposition = "excluded"
	// DispositionOther — survived stage 1 but no category could be assigned.
	DispositionOther Disposition = "other"
	// DispositionKept — classified and retained as a directory listing.
	DispositionKept Disposition = "kept"
	// DispositionDeduplicated — folded into another record of the same
	// real-world business; MergedInto names the surviving record.
	DispositionDeduplicated Disposition = "deduplicated"
)

// Outcome is the audit trail for one record: its final category and
// disposition plus the specific rule or signal that decided each stage.
type Outcome struct {
	RecordID    string      `json:"record_id"`
	Category    Category    `json:"category"`
	Disposition Disposition `json:"disposition"`
	Confidence  Confidence  `json:"confidence,omitempty"`

	// Stage1Rule names the exclusion rule that fired, if any.
	Stage1Rule string `json:"stage1_rule,omitempty"`
	// ClassifyReason is the classifier's reason string.
	ClassifyReason string `json:"classify_reason,omitempty"`
	// CorrectionRule names the reviewer rule that reassigned the category.
	CorrectionRule string `json:"correction_rule,omitempty"`
	// DedupPass names the dedup pass that removed the record.
	DedupPass string `json:"dedup_pass,omitempty"`
	// MergedInto is the id of the surviving representative record.
	MergedInto string `json:"merged_into,omitempty"`

	// Tags are the vocabulary service tags matched against the record text.
	// Only kept listings carry tags.
	Tags []string `json:"tags,omitempty"`

	Slug string `json:"slug,omitempty"`
	City string `json:"city,omitempty"`
}
