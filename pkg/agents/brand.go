package agents

import (
	"context"
	"fmt"

	"copydesk/pkg/config"
	"copydesk/pkg/llm"
	"copydesk/pkg/logx"
)

// BrandVoiceGuide is the fixed house-style guide every draft is reviewed
// against before publication.
const BrandVoiceGuide = `Voice: warm, knowledgeable, direct. We talk to readers as curious equals.
Use active voice and concrete language. Prefer short sentences.
Avoid hype words (amazing, game-changing, revolutionary), exclamation marks,
and rhetorical questions.
Spell out numbers under ten. Use sentence case for any titles.`

const brandSystem = `You are the brand guardian for a lifestyle publication.
Rewrite the draft so it conforms to the house style guide. Preserve the
factual content and paragraph structure. Return only the revised text.`

// BrandGuardian rewrites the Writer's draft against the house style guide.
// A single uncached call; no grounding, no structured output.
type BrandGuardian struct {
	client llm.Client
	gen    config.GenerationConfig
	logger *logx.Logger
}

// NewBrandGuardian creates the Brand Guardian stage.
func NewBrandGuardian(client llm.Client, gen config.GenerationConfig, logger *logx.Logger) *BrandGuardian {
	if logger == nil {
		logger = logx.NewLogger("brand_guardian")
	}
	return &BrandGuardian{client: client, gen: gen, logger: logger}
}

// Name returns the stage label.
func (b *BrandGuardian) Name() string {
	return "brand_guardian"
}

// Execute reviews the draft and returns the brand-aligned revision.
func (b *BrandGuardian) Execute(ctx context.Context, draft string) (*llm.Result, error) {
	result, err := b.client.Generate(ctx, llm.Request{
		Prompt:      fmt.Sprintf("House style guide:\n%s\n\nDraft:\n%s", BrandVoiceGuide, draft),
		System:      brandSystem,
		Temperature: b.gen.Temperature,
		MaxTokens:   int(b.gen.MaxOutputTokens),
	})
	if err != nil {
		return nil, err
	}
	if result.Text == "" {
		return nil, fmt.Errorf("brand review is empty: %w", llm.ErrNoContent)
	}
	return result, nil
}
