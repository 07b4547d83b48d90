package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTokens(t *testing.T) {
	tokens := CountTokens("Hello world")
	assert.GreaterOrEqual(t, tokens, 2)
	assert.LessOrEqual(t, tokens, 3)
}

func TestCountTokensEmpty(t *testing.T) {
	assert.Equal(t, 0, CountTokens(""))
}

func TestCountTokensLongerText(t *testing.T) {
	short := CountTokens("coffee")
	long := CountTokens("coffee beans roasted slowly over an open flame taste different")
	assert.Greater(t, long, short)
}
