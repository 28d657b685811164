package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/karo-care/directory-cli/internal/model"
	"github.com/karo-care/directory-cli/internal/resilience"
	"github.com/karo-care/directory-cli/pkg/anthropic"
)

const semanticSystemPrompt = `You classify healthcare businesses for the Karo Care directory.

Classify the business into EXACTLY ONE of these 5 categories:

1. "Nursing Homes" — residential care facilities with nursing/medical staff providing 24/7 inpatient care. NOT home nursing services.
2. "Elder Care" — old age homes, assisted living, senior citizen care centres, retirement homes, dementia/Alzheimer's care, geriatric care.
3. "Post-Hospital Care" — post-surgery/post-operative recovery, transition care after discharge, rehabilitation for major neurological conditions, critical illness care, palliative/hospice care, bedridden patient care. NOT pure physiotherapy or sports rehab — those are "Other".
4. "Home Health Care" — nursing care, medical attendants or caregivers AT THE PATIENT'S HOME, including home nursing bureaus and domiciliary care.
5. "Other" — doesn't clearly fit any of the above.

Rules:
- Pure physiotherapy/sports rehab → "Other" even if it says "rehab".
- "Rehab" is Post-Hospital Care ONLY when combined with neuro/stroke/post-surgical/palliative/critical care signals.
- If unclear, classify as "Other".
- Use ONLY the information provided.

Respond with ONLY a JSON object:
{"category": "<one of the 5>", "confidence": "<high|medium|low>", "reason": "<brief 1-line reason>"}`

// SemanticConfig tunes the external semantic classifier.
type SemanticConfig struct {
	Model      string
	MaxTokens  int64
	RatePerSec float64
}

// semanticClassifier renders category judgments through the Anthropic API.
// Calls are rate limited, retried on transient failures, and cut off by a
// circuit breaker once the service looks down; the batch keeps going either
// way because the caller degrades every error to Other/none.
type semanticClassifier struct {
	client  anthropic.Client
	cfg     SemanticConfig
	retry   resilience.RetryConfig
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
}

// NewSemantic builds the Anthropic-backed semantic fallback.
func NewSemantic(client anthropic.Client, cfg SemanticConfig) Semantic {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 150
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 8
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("anthropic", "create_message")
	return &semanticClassifier{
		client:  client,
		cfg:     cfg,
		retry:   retry,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			ShouldTrip: resilience.IsTransient,
		}),
	}
}

func (s *semanticClassifier) Classify(ctx context.Context, req SemanticRequest) (model.ClassificationResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return model.ClassificationResult{}, eris.Wrap(err, "semantic: rate limit wait")
	}

	prompt := buildSemanticPrompt(req)
	temperature := 0.0

	resp, err := resilience.ExecuteVal(ctx, s.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.DoVal(ctx, s.retry,
			func(ctx context.Context) (*anthropic.MessageResponse, error) {
				return s.client.CreateMessage(ctx, anthropic.MessageRequest{
					Model:       s.cfg.Model,
					MaxTokens:   s.cfg.MaxTokens,
					System:      semanticSystemPrompt,
					Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
					Temperature: &temperature,
				})
			})
	})
	if err != nil {
		return model.ClassificationResult{}, eris.Wrap(err, "semantic: create message")
	}
	resp.Usage.LogCost(s.cfg.Model, "classify")

	return parseSemantic(req.RecordID, resp.Text())
}

func buildSemanticPrompt(req SemanticRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Business name: %q\n", req.Name)
	if req.City != "" {
		fmt.Fprintf(&b, "City: %s\n", req.City)
	}
	if req.CategoryHint != "" {
		fmt.Fprintf(&b, "Discovered by searches for: %s\n", req.CategoryHint)
	}
	if strings.TrimSpace(req.ContentExcerpt) != "" {
		fmt.Fprintf(&b, "\nWebsite content (truncated):\n\"\"\"\n%s\n\"\"\"\n", req.ContentExcerpt)
	} else {
		b.WriteString("\nNo website content available.\n")
	}
	return b.String()
}

// parseSemantic decodes the model's JSON answer. Code fences and prose
// around the object are tolerated; anything beyond that is a parse error
// the caller degrades to Other/none.
func parseSemantic(recordID, text string) (model.ClassificationResult, error) {
	cleaned := cleanJSON(text)

	var out struct {
		Category   string `json:"category"`
		Confidence string `json:"confidence"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return model.ClassificationResult{}, eris.Wrapf(err, "semantic: parse response %q", truncate(text, 120))
	}

	return model.ClassificationResult{
		RecordID:   recordID,
		Category:   model.Category(out.Category),
		Confidence: model.ParseConfidence(out.Confidence),
		Reason:     out.Reason,
	}, nil
}

// cleanJSON strips markdown code fences and isolates the outermost JSON
// object from surrounding prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return text
}
