package resilience

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", eris.New("bad request"), false},
		{"transient wrapper", NewTransientError(eris.New("rate limited"), 429), true},
		{"wrapped transient", fmt.Errorf("call failed: %w", NewTransientError(eris.New("x"), 503)), true},
		{"connection reset", syscall.ECONNRESET, true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"fragment match", eris.New("Post \"x\": read tcp: connection reset by peer"), true},
		{"overloaded fragment", eris.New("api_error: Overloaded"), true},
		{"io timeout fragment", eris.New("dial tcp: i/o timeout"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 201, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	inner := eris.New("inner")
	te := NewTransientError(inner, 503)

	assert.Equal(t, "inner", te.Error())
	assert.ErrorIs(t, te, inner)
	assert.Equal(t, 503, te.StatusCode)
}
