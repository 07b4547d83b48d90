package agents

import (
	"context"
	"fmt"
	"strings"

	"copydesk/pkg/cache"
	"copydesk/pkg/config"
	"copydesk/pkg/llm"
	"copydesk/pkg/logx"
)

const writerSystemTemplate = `You are a staff writer for a lifestyle publication.
Write engaging, factual prose in plain paragraphs with no headings, lists, or markdown.
Structure the piece as at most %d paragraphs of %d to %d sentences each.`

// Writer drafts the initial post. It shares a grounding cache across runs:
// a topic whose keyword key was seen recently reuses the stored attributions
// instead of requesting live search again.
type Writer struct {
	client    llm.Client
	grounding *cache.Cache[string, *llm.Grounding]
	gen       config.GenerationConfig
	logger    *logx.Logger
}

// NewWriter creates the Writer stage. A nil grounding cache disables reuse.
func NewWriter(client llm.Client, grounding *cache.Cache[string, *llm.Grounding], gen config.GenerationConfig, logger *logx.Logger) *Writer {
	if logger == nil {
		logger = logx.NewLogger("writer")
	}
	return &Writer{client: client, grounding: grounding, gen: gen, logger: logger}
}

// Name returns the stage label.
func (w *Writer) Name() string {
	return "writer"
}

// Execute drafts a post about the topic. On a grounding-cache miss the call
// requests live search and stores any attributions that come back; on a hit
// the search directive is omitted and the cached attributions are stitched
// into the result.
func (w *Writer) Execute(ctx context.Context, topic string) (*llm.Result, error) {
	key := CacheKey(topic)

	var cached *llm.Grounding
	hit := false
	if key != "" && w.grounding != nil {
		cached, hit = w.grounding.Get(key)
	}

	prompt := fmt.Sprintf("Write a blog post about: %s", topic)
	if hit {
		w.logger.Debug("grounding cache hit for %q", key)
		prompt += "\n\nUse these reference sources:\n" + formatSources(cached)
	}

	result, err := w.client.Generate(ctx, llm.Request{
		Prompt:      prompt,
		System:      w.systemInstruction(),
		WantSearch:  !hit,
		Temperature: w.gen.Temperature,
		MaxTokens:   int(w.gen.MaxOutputTokens),
	})
	if err != nil {
		return nil, err
	}
	if result.Text == "" {
		return nil, fmt.Errorf("writer draft is empty: %w", llm.ErrNoContent)
	}

	if hit {
		result.Grounding = cached
	} else if key != "" && w.grounding != nil && result.Grounding != nil {
		w.logger.Debug("storing grounding for %q (%d sources)", key, len(result.Grounding.Sources))
		w.grounding.Set(key, result.Grounding)
	}

	return result, nil
}

func (w *Writer) systemInstruction() string {
	return fmt.Sprintf(writerSystemTemplate,
		w.gen.MaxParagraphs, w.gen.MinSentencesPerParagraph, w.gen.MaxSentencesPerParagraph)
}

func formatSources(g *llm.Grounding) string {
	var b strings.Builder
	for _, s := range g.Sources {
		fmt.Fprintf(&b, "- %s (%s)\n", s.Title, s.URI)
	}
	return b.String()
}
