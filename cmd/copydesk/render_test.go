package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copydesk/pkg/agents"
	"copydesk/pkg/llm"
	"copydesk/pkg/pipeline"
)

func sampleOutcome() *pipeline.Outcome {
	return &pipeline.Outcome{
		RunID:     "run-1",
		Topic:     "cold brew coffee",
		FinalText: "Cold brew is smooth.",
		Sources: []llm.WebSource{
			{Title: "Coffee Journal", URI: "https://coffee.example/cold-brew"},
		},
		SEO: agents.SEOMetadata{
			Title:       "Cold Brew, Explained",
			Description: "Why cold brew tastes different.",
			Keywords:    []string{"cold brew", "coffee"},
		},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	renderText(&buf, sampleOutcome())

	out := buf.String()
	assert.Contains(t, out, "Cold Brew, Explained")
	assert.Contains(t, out, "Cold brew is smooth.")
	assert.Contains(t, out, "https://coffee.example/cold-brew")
	assert.Contains(t, out, "Keywords: cold brew, coffee")
}

func TestRenderJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, sampleOutcome()))

	var got pipeline.Outcome
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "Cold Brew, Explained", got.SEO.Title)
	assert.Equal(t, []string{"cold brew", "coffee"}, got.SEO.Keywords)
}

func TestWriteMarkdownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	require.NoError(t, writeMarkdownFile(path, sampleOutcome()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "---\n"))
	assert.Contains(t, text, "title: Cold Brew, Explained")
	assert.Contains(t, text, "- https://coffee.example/cold-brew")
	assert.Contains(t, text, "# Cold Brew, Explained")
	assert.Contains(t, text, "Cold brew is smooth.")
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	notify := progressPrinter(&buf)

	notify(pipeline.Update{State: pipeline.StateWriting, Stage: "writer", Message: "Drafting post"})
	notify(pipeline.Update{State: pipeline.StateFailed, Stage: "writer", Message: "writer stage: boom"})
	notify(pipeline.Update{State: pipeline.StateDone, Message: "Post ready"})

	out := buf.String()
	assert.Contains(t, out, "[writer] Drafting post")
	assert.Contains(t, out, "❌ writer stage: boom")
	assert.Contains(t, out, "✅ Post ready")
}

func TestResolveTopicPrecedence(t *testing.T) {
	got, err := resolveTopic("from flag", []string{"from", "args"})
	require.NoError(t, err)
	assert.Equal(t, "from flag", got)

	got, err = resolveTopic("", []string{"benefits", "of", "cold", "brew"})
	require.NoError(t, err)
	assert.Equal(t, "benefits of cold brew", got)
}
