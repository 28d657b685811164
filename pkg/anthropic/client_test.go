package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "hello "},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: "world"},
	}}
	assert.Equal(t, "hello world", resp.Text())

	empty := &MessageResponse{}
	assert.Empty(t, empty.Text())
}

func TestTransientStatus(t *testing.T) {
	code, ok := transientStatus(&sdk.Error{StatusCode: 503})
	assert.True(t, ok)
	assert.Equal(t, 503, code)

	_, ok = transientStatus(&sdk.Error{StatusCode: 400})
	assert.False(t, ok)

	_, ok = transientStatus(eris.New("dial tcp: network unreachable"))
	assert.False(t, ok)
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 500_000}

	assert.InDelta(t, 0.80+2.00, u.EstimateCost("claude-haiku-4-5-20251001"), 0.0001)
	assert.InDelta(t, 3.00+7.50, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.0001)
	assert.Zero(t, u.EstimateCost("unknown-model"))
}
