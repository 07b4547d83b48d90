package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copydesk/pkg/cache"
	"copydesk/pkg/config"
	"copydesk/pkg/llm"
)

func testGen() config.GenerationConfig {
	return config.Default().Generation
}

func TestWriterCacheMissRequestsSearchAndStoresGrounding(t *testing.T) {
	grounding := &llm.Grounding{
		Sources: []llm.WebSource{{Title: "Coffee Science", URI: "https://example.com/coffee"}},
		Queries: []string{"cold brew benefits"},
	}
	client := llm.NewMockClient(llm.MockResponse{
		Result: &llm.Result{Text: "A fine draft.", Grounding: grounding},
	})
	store := cache.New[string, *llm.Grounding](8, time.Minute)
	w := NewWriter(client, store, testGen(), nil)

	result, err := w.Execute(context.Background(), "The Benefits of Cold Brew Coffee!")
	require.NoError(t, err)
	assert.Equal(t, "A fine draft.", result.Text)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].WantSearch)
	assert.Contains(t, calls[0].Prompt, "The Benefits of Cold Brew Coffee!")

	stored, ok := store.Get("benefits-cold-brew-coffee")
	require.True(t, ok)
	assert.Equal(t, grounding, stored)
}

func TestWriterCacheHitSkipsSearchAndReusesSources(t *testing.T) {
	cached := &llm.Grounding{
		Sources: []llm.WebSource{{Title: "Coffee Science", URI: "https://example.com/coffee"}},
	}
	store := cache.New[string, *llm.Grounding](8, time.Minute)
	store.Set("benefits-cold-brew-coffee", cached)

	client := llm.NewMockClient(llm.MockResponse{
		Result: &llm.Result{Text: "A fine draft."},
	})
	w := NewWriter(client, store, testGen(), nil)

	result, err := w.Execute(context.Background(), "benefits: cold brew coffee")
	require.NoError(t, err)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].WantSearch)
	assert.Contains(t, calls[0].Prompt, "https://example.com/coffee")
	assert.Equal(t, cached, result.Grounding)
}

func TestWriterNilCacheAlwaysSearches(t *testing.T) {
	client := llm.NewMockClient()
	w := NewWriter(client, nil, testGen(), nil)

	_, err := w.Execute(context.Background(), "tell me about dogs")
	require.NoError(t, err)
	_, err = w.Execute(context.Background(), "tell me about dogs")
	require.NoError(t, err)

	calls := client.Calls()
	require.Len(t, calls, 2)
	assert.True(t, calls[0].WantSearch)
	assert.True(t, calls[1].WantSearch)
}

func TestWriterEmptyDraftIsContentError(t *testing.T) {
	client := llm.NewMockClient(llm.MockResponse{Result: &llm.Result{Text: ""}})
	w := NewWriter(client, nil, testGen(), nil)

	_, err := w.Execute(context.Background(), "tell me about dogs")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrNoContent)
}

func TestWriterSystemInstructionCarriesShapeLimits(t *testing.T) {
	client := llm.NewMockClient()
	w := NewWriter(client, nil, testGen(), nil)

	_, err := w.Execute(context.Background(), "tell me about dogs")
	require.NoError(t, err)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].System, "5 paragraphs")
	assert.Contains(t, calls[0].System, "2 to 3 sentences")
}

func TestWriterPassesClientErrorsThrough(t *testing.T) {
	client := llm.NewMockClient(llm.MockResponse{
		Err: llm.NewStatusError(llm.KindTerminal, 400, "bad request"),
	})
	w := NewWriter(client, nil, testGen(), nil)

	_, err := w.Execute(context.Background(), "tell me about dogs")
	require.Error(t, err)
	assert.Equal(t, llm.KindTerminal, llm.KindOf(err))
}
