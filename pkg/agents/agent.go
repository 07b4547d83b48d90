// Package agents implements the three pipeline stages: the Writer drafts a
// grounded post from the topic, the Brand Guardian rewrites it against the
// house style guide, and the SEO Specialist produces structured metadata for
// the reviewed article.
package agents

import (
	"context"

	"copydesk/pkg/llm"
)

// Agent is one pipeline stage. Execute takes the previous stage's output
// (the sanitized topic, for the Writer) and produces this stage's result.
type Agent interface {
	// Name returns the stage label used in logs, metrics, and errors.
	Name() string

	// Execute performs the stage's single generation call.
	Execute(ctx context.Context, input string) (*llm.Result, error)
}
