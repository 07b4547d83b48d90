package logx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerComponent(t *testing.T) {
	logger := NewLogger("writer")
	assert.Equal(t, "writer", logger.Component())
}

func TestWithComponent(t *testing.T) {
	base := NewLogger("pipeline")
	child := base.WithComponent("seo_specialist")

	assert.Equal(t, "seo_specialist", child.Component())
	assert.Equal(t, "pipeline", base.Component(), "original logger must be unchanged")
}

func TestSetDebugToggle(t *testing.T) {
	original := IsDebugEnabled()
	defer SetDebug(original)

	SetDebug(true)
	assert.True(t, IsDebugEnabled())

	SetDebug(false)
	assert.False(t, IsDebugEnabled())
}

func TestErrorfReturnsFormattedError(t *testing.T) {
	cause := errors.New("boom")
	err := Errorf("stage failed: %w", cause)

	require.Error(t, err)
	assert.Equal(t, "stage failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(cause, "generate call")

	require.Error(t, err)
	assert.Equal(t, "generate call: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
}
