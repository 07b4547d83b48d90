// Package llm defines the client boundary to the generative API: the request
// and result shapes the agents speak, classified errors the retry loop
// switches on, and the retrying and metrics wrappers every call passes
// through.
package llm

import (
	"context"

	"google.golang.org/genai"
)

// Request describes a single generation call.
type Request struct {
	// Prompt is the user-turn content.
	Prompt string
	// System is an optional system instruction.
	System string
	// WantSearch requests live search grounding for this call.
	WantSearch bool
	// Schema, when set, constrains the response to structured JSON output.
	Schema *genai.Schema
	// Temperature controls sampling randomness.
	Temperature float32
	// MaxTokens caps the generated output length.
	MaxTokens int
}

// WebSource is a single web attribution from grounded generation.
type WebSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Grounding carries the search attributions returned alongside a grounded
// response.
type Grounding struct {
	Sources []WebSource `json:"sources"`
	Queries []string    `json:"queries,omitempty"`
}

// Result is the provider-neutral outcome of a generation call.
type Result struct {
	// Text is the first candidate's first content part, or "" when the
	// response carried no text.
	Text string
	// Grounding holds search attributions, nil when the call was not
	// grounded or returned none.
	Grounding *Grounding
	// Raw is the unmodified provider response for callers that need it.
	// The pipeline never inspects it.
	Raw any
}

// Client is the interface the agents call. Implemented by Gemini, MockClient,
// and the RetryingClient / MetricsClient decorators.
type Client interface {
	// Generate performs one generation call.
	Generate(ctx context.Context, req Request) (*Result, error)

	// ModelName returns the model identifier used for logs and metrics.
	ModelName() string
}
