package model

// Confidence is an ordered diagnostic level attached to every
// classification decision. It is surfaced to callers and reports but never
// drives control flow.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// ParseConfidence maps a free-text confidence label onto the enum,
// defaulting to ConfidenceNone for anything unrecognized.
func ParseConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(s)
	default:
		return ConfidenceNone
	}
}

// ClassificationResult is the outcome of categorizing a single record.
// Reason identifies the rule or signal that fired so every decision is
// auditable by a human reviewer.
type ClassificationResult struct {
	RecordID   string     `json:"record_id"`
	Category   Category   `json:"category"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
}
