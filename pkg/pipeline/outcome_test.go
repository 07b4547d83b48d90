package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copydesk/pkg/agents"
	"copydesk/pkg/llm"
)

func TestCollectSourcesDedupesByURI(t *testing.T) {
	a := &llm.Result{Grounding: &llm.Grounding{Sources: []llm.WebSource{
		{Title: "First", URI: "https://a.example"},
		{Title: "Untitled", URI: ""},
		{Title: "Second", URI: "https://b.example"},
	}}}
	b := &llm.Result{Grounding: &llm.Grounding{Sources: []llm.WebSource{
		{Title: "First again", URI: "https://a.example"},
		{Title: "Third", URI: "https://c.example"},
	}}}

	got := collectSources(a, nil, b)
	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "https://b.example", got[1].URI)
	assert.Equal(t, "https://c.example", got[2].URI)
}

func TestCollectSourcesEmptyResults(t *testing.T) {
	got := collectSources(&llm.Result{Text: "no grounding"}, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDefaultSEOFillsPlaceholders(t *testing.T) {
	got := defaultSEO(nil)
	assert.Equal(t, NoTitlePlaceholder, got.Title)
	assert.Equal(t, NoDescriptionPlaceholder, got.Description)
	require.NotNil(t, got.Keywords)
	assert.Empty(t, got.Keywords)
}

func TestDefaultSEOKeepsProvidedFields(t *testing.T) {
	got := defaultSEO(&agents.SEOMetadata{Title: "Cold Brew Basics", Keywords: []string{"coffee"}})
	assert.Equal(t, "Cold Brew Basics", got.Title)
	assert.Equal(t, NoDescriptionPlaceholder, got.Description)
	assert.Equal(t, []string{"coffee"}, got.Keywords)
}

func TestBuildOutcome(t *testing.T) {
	draft := &llm.Result{
		Text: "draft",
		Grounding: &llm.Grounding{Sources: []llm.WebSource{
			{Title: "Source", URI: "https://a.example"},
		}},
	}
	review := &llm.Result{Text: "polished"}
	seo := &llm.Result{Text: `{"title":"T","description":"D","keywords":["x","y"]}`}

	got := buildOutcome("run-1", "dogs and cats", draft, review, seo)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "dogs and cats", got.Topic)
	assert.Equal(t, "polished", got.FinalText)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "T", got.SEO.Title)
	assert.Equal(t, []string{"x", "y"}, got.SEO.Keywords)
}
