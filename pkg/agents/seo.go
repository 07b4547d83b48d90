package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"copydesk/pkg/config"
	"copydesk/pkg/llm"
	"copydesk/pkg/logx"
)

const seoSystem = `You are an SEO specialist. Produce metadata for the article you are given.
Keep the title at or under 60 characters and the description at or under 155 characters.`

// SEOMetadata is the structured output of the SEO stage.
type SEOMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// seoSchema constrains the model's response to the metadata shape.
func seoSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString, Description: "Page title, at most 60 characters"},
			"description": {Type: genai.TypeString, Description: "Meta description, at most 155 characters"},
			"keywords":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"title", "description", "keywords"},
	}
}

// SEOSpecialist produces metadata for the reviewed article as structured
// JSON constrained by a fixed response schema.
type SEOSpecialist struct {
	client llm.Client
	gen    config.GenerationConfig
	logger *logx.Logger
}

// NewSEOSpecialist creates the SEO stage.
func NewSEOSpecialist(client llm.Client, gen config.GenerationConfig, logger *logx.Logger) *SEOSpecialist {
	if logger == nil {
		logger = logx.NewLogger("seo_specialist")
	}
	return &SEOSpecialist{client: client, gen: gen, logger: logger}
}

// Name returns the stage label.
func (s *SEOSpecialist) Name() string {
	return "seo_specialist"
}

// Execute generates metadata for the article. The response must parse as
// SEOMetadata; anything else is a stage content error.
func (s *SEOSpecialist) Execute(ctx context.Context, article string) (*llm.Result, error) {
	result, err := s.client.Generate(ctx, llm.Request{
		Prompt:      "Article:\n" + article,
		System:      seoSystem,
		Schema:      seoSchema(),
		Temperature: s.gen.Temperature,
		MaxTokens:   int(s.gen.MaxOutputTokens),
	})
	if err != nil {
		return nil, err
	}
	if result.Text == "" {
		return nil, fmt.Errorf("seo response is empty: %w", llm.ErrNoContent)
	}
	if _, err := ParseSEO(result.Text); err != nil {
		return nil, err
	}
	return result, nil
}

// ParseSEO parses the SEO stage's response text into metadata. Malformed
// JSON reports ErrNoContent.
func ParseSEO(text string) (*SEOMetadata, error) {
	var meta SEOMetadata
	if err := json.Unmarshal([]byte(text), &meta); err != nil {
		return nil, fmt.Errorf("seo metadata is not valid JSON (%v): %w", err, llm.ErrNoContent)
	}
	return &meta, nil
}
