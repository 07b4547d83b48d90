package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copydesk/pkg/config"
)

func topicCfg() config.TopicConfig {
	return config.Default().Topic
}

func TestSanitizeTopicStripsScriptElements(t *testing.T) {
	got, err := SanitizeTopic("<script>alert(1)</script>tell me about dogs", topicCfg())
	require.NoError(t, err)
	assert.Equal(t, "tell me about dogs", got)
}

func TestSanitizeTopicCollapsesSplitTags(t *testing.T) {
	got, err := SanitizeTopic("<scr<script>ipt>alert(1)</scr</script>ipt>tell me about dogs", topicCfg())
	require.NoError(t, err)
	assert.Equal(t, "tell me about dogs", got)
	assert.NotContains(t, strings.ToLower(got), "script")
}

func TestSanitizeTopicStripsJavascriptScheme(t *testing.T) {
	got, err := SanitizeTopic("JavaScript:alert(1) best hiking trails", topicCfg())
	require.NoError(t, err)
	assert.Equal(t, "alert(1) best hiking trails", got)
}

func TestSanitizeTopicCollapsesWhitespace(t *testing.T) {
	got, err := SanitizeTopic("  tell   me\tabout\n dogs  today ", topicCfg())
	require.NoError(t, err)
	assert.Equal(t, "tell me about dogs today", got)
}

func TestSanitizeTopicRejectsShortInput(t *testing.T) {
	_, err := SanitizeTopic("hello", topicCfg())
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSanitizeTopicRejectsWhenCleaningLeavesTooLittle(t *testing.T) {
	_, err := SanitizeTopic("<script>alert(1)</script>hi", topicCfg())
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "at least 10")
}

func TestSanitizeTopicCapsLength(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got, err := SanitizeTopic(long, topicCfg())
	require.NoError(t, err)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), topicCfg().MaxLength)
	assert.False(t, strings.HasSuffix(got, " "))
}
