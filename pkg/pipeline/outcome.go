package pipeline

import (
	"copydesk/pkg/agents"
	"copydesk/pkg/llm"
)

// Placeholder values keep the display boundary stable when the SEO stage
// omits optional fields.
const (
	NoTitlePlaceholder       = "No title generated"
	NoDescriptionPlaceholder = "No description generated"
)

// Outcome is the terminal artifact of a successful run.
type Outcome struct {
	RunID     string             `json:"runId"`
	Topic     string             `json:"topic"`
	FinalText string             `json:"finalText"`
	Sources   []llm.WebSource    `json:"sources"`
	SEO       agents.SEOMetadata `json:"seo"`
}

// buildOutcome assembles the terminal artifact: the brand-reviewed text,
// every grounding attribution the stages surfaced, and defaulted SEO fields.
// The SEO stage already validated parseability, so a lenient re-parse here
// only feeds the defaulting.
func buildOutcome(runID, topic string, draft, review, seo *llm.Result) *Outcome {
	meta, _ := agents.ParseSEO(seo.Text)
	return &Outcome{
		RunID:     runID,
		Topic:     topic,
		FinalText: review.Text,
		Sources:   collectSources(draft, review, seo),
		SEO:       defaultSEO(meta),
	}
}

// collectSources merges web attributions across stage results, dropping
// entries without a URI and deduplicating by URI in first-seen order.
func collectSources(results ...*llm.Result) []llm.WebSource {
	seen := make(map[string]struct{})
	sources := make([]llm.WebSource, 0)
	for _, r := range results {
		if r == nil || r.Grounding == nil {
			continue
		}
		for _, s := range r.Grounding.Sources {
			if s.URI == "" {
				continue
			}
			if _, dup := seen[s.URI]; dup {
				continue
			}
			seen[s.URI] = struct{}{}
			sources = append(sources, s)
		}
	}
	return sources
}

// defaultSEO fills absent metadata fields with explicit placeholders.
func defaultSEO(meta *agents.SEOMetadata) agents.SEOMetadata {
	out := agents.SEOMetadata{}
	if meta != nil {
		out = *meta
	}
	if out.Title == "" {
		out.Title = NoTitlePlaceholder
	}
	if out.Description == "" {
		out.Description = NoDescriptionPlaceholder
	}
	if out.Keywords == nil {
		out.Keywords = []string{}
	}
	return out
}
