package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantKind  Kind
		retryable bool
	}{
		{"rate limited", 429, KindRateLimited, true},
		{"internal error", 500, KindServerError, true},
		{"bad gateway", 502, KindServerError, true},
		{"service unavailable", 503, KindServerError, true},
		{"bad request", 400, KindTerminal, false},
		{"unauthorized", 401, KindTerminal, false},
		{"not found", 404, KindTerminal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cerr := Classify(genai.APIError{Code: tt.code, Message: "from the provider"})
			require.NotNil(t, cerr)
			assert.Equal(t, tt.wantKind, cerr.Kind)
			assert.Equal(t, tt.retryable, cerr.Retryable())
			assert.Equal(t, tt.code, cerr.StatusCode)
		})
	}
}

func TestClassifyKeepsProviderMessage(t *testing.T) {
	cerr := Classify(genai.APIError{Code: 400, Message: "prompt violates policy"})
	assert.Contains(t, cerr.Error(), "prompt violates policy")
}

func TestClassifyTerminalWithoutMessage(t *testing.T) {
	cerr := Classify(genai.APIError{Code: 404})
	assert.Contains(t, cerr.Error(), "404")
}

func TestClassifyContextErrors(t *testing.T) {
	assert.Equal(t, KindCancelled, Classify(context.Canceled).Kind)
	assert.False(t, Classify(context.Canceled).Retryable())

	// A per-attempt deadline counts as a transient server-side fault.
	assert.Equal(t, KindServerError, Classify(context.DeadlineExceeded).Kind)
}

func TestClassifyUnknownTransportError(t *testing.T) {
	cerr := Classify(errors.New("connection reset by peer"))
	assert.Equal(t, KindServerError, cerr.Kind)
	assert.True(t, cerr.Retryable())
}

func TestClassifyPassesThroughClassified(t *testing.T) {
	orig := NewStatusError(KindTerminal, 400, "bad prompt")
	wrapped := fmt.Errorf("writer stage: %w", orig)
	assert.Same(t, orig, Classify(wrapped))
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "rate_limited", KindRateLimited.String())
	assert.Equal(t, "server_error", KindServerError.String())
	assert.Equal(t, "terminal", KindTerminal.String())
	assert.Equal(t, "cancelled", KindCancelled.String())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	cerr := WrapError(KindServerError, cause, "transport failure")
	assert.ErrorIs(t, cerr, cause)
}
