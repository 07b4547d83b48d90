package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copydesk/pkg/llm"
)

func TestBrandGuardianSendsGuideAndDraft(t *testing.T) {
	client := llm.NewMockClient(llm.MockResponse{
		Result: &llm.Result{Text: "A polished draft."},
	})
	g := NewBrandGuardian(client, testGen(), nil)

	result, err := g.Execute(context.Background(), "A rough draft.")
	require.NoError(t, err)
	assert.Equal(t, "A polished draft.", result.Text)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, BrandVoiceGuide)
	assert.Contains(t, calls[0].Prompt, "A rough draft.")
	assert.False(t, calls[0].WantSearch)
	assert.Nil(t, calls[0].Schema)
}

func TestBrandGuardianEmptyReviewIsContentError(t *testing.T) {
	client := llm.NewMockClient(llm.MockResponse{Result: &llm.Result{Text: ""}})
	g := NewBrandGuardian(client, testGen(), nil)

	_, err := g.Execute(context.Background(), "A rough draft.")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrNoContent)
}

func TestBrandGuardianName(t *testing.T) {
	g := NewBrandGuardian(llm.NewMockClient(), testGen(), nil)
	assert.Equal(t, "brand_guardian", g.Name())
}
