package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"copydesk/pkg/logx"
)

// GeminiConfig configures the live Gemini-backed client.
type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint; used by tests. Empty means the
	// public endpoint.
	BaseURL string
	// HTTPClient overrides the transport; used by tests.
	HTTPClient *http.Client
}

// Gemini implements Client against the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *logx.Logger
}

// NewGemini creates a client backed by the Gemini API.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	if cfg.HTTPClient != nil {
		cc.HTTPClient = cfg.HTTPClient
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
		logger: logx.NewLogger("gemini"),
	}, nil
}

// Generate implements Client. Errors come back classified.
func (g *Gemini) Generate(ctx context.Context, req Request) (*Result, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	//nolint:gosec // MaxTokens is validated at the config layer
	config := &genai.GenerateContentConfig{
		Temperature:     &req.Temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.WantSearch {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = req.Schema
	}

	g.logger.Debug("generate: model=%s search=%v schema=%v prompt_chars=%d",
		g.model, req.WantSearch, req.Schema != nil, len(req.Prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, Classify(err)
	}
	if resp == nil {
		return nil, NewError(KindServerError, "empty response from Gemini API")
	}

	return &Result{
		Text:      firstText(resp),
		Grounding: extractGrounding(resp),
		Raw:       resp,
	}, nil
}

// ModelName returns the model identifier this client generates with.
func (g *Gemini) ModelName() string {
	return g.model
}

// firstText extracts the first candidate's first content part, or "".
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return ""
	}
	return content.Parts[0].Text
}

// extractGrounding maps grounding attributions to web sources, dropping
// entries without a URI. Returns nil when the response carried nothing.
func extractGrounding(resp *genai.GenerateContentResponse) *Grounding {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	grounding := &Grounding{Queries: gm.WebSearchQueries}
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		grounding.Sources = append(grounding.Sources, WebSource{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}

	if len(grounding.Sources) == 0 && len(grounding.Queries) == 0 {
		return nil
	}
	return grounding
}
