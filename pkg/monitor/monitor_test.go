package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsZeroInvocations(t *testing.T) {
	m := New(nil, nil)

	stats := m.Stats()
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, time.Duration(0), stats.AvgDuration)
	assert.Equal(t, 0.0, stats.SuccessRate)
}

func TestStatsAggregation(t *testing.T) {
	m := New(nil, nil)
	m.Observe("writer", 50*time.Millisecond, nil)
	m.Observe("brand_guardian", 30*time.Millisecond, errors.New("boom"))

	stats := m.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 40*time.Millisecond, stats.AvgDuration)
	assert.Equal(t, 0.5, stats.SuccessRate)
}

func TestTrackPassesResultThrough(t *testing.T) {
	m := New(nil, nil)

	got, err := Track(m, "writer", func() (string, error) {
		return "draft", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", got)

	records := m.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "writer", records[0].Name)
	assert.True(t, records[0].Success)
}

func TestTrackNeverAltersErrors(t *testing.T) {
	m := New(nil, nil)
	sentinel := errors.New("stage blew up")

	_, err := Track(m, "brand_guardian", func() (string, error) {
		return "", sentinel
	})
	// ErrorIs on an unwrapped sentinel proves the error came back untouched.
	require.ErrorIs(t, err, sentinel)

	records := m.Records()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Equal(t, "stage blew up", records[0].Error)
}

func TestRecordsReturnsCopy(t *testing.T) {
	m := New(nil, nil)
	m.Observe("writer", time.Millisecond, nil)

	records := m.Records()
	records[0].Name = "mutated"

	assert.Equal(t, "writer", m.Records()[0].Name)
}

func TestReset(t *testing.T) {
	m := New(nil, nil)
	m.Observe("writer", time.Millisecond, nil)

	m.Reset()

	assert.Empty(t, m.Records())
	assert.Equal(t, Stats{}, m.Stats())
}

func TestObserveFansOutToRecorder(t *testing.T) {
	rec := &captureRecorder{}
	m := New(rec, nil)
	m.Observe("seo_specialist", 10*time.Millisecond, nil)
	m.Observe("seo_specialist", 10*time.Millisecond, errors.New("no content"))

	require.Len(t, rec.stages, 2)
	assert.Equal(t, "seo_specialist", rec.stages[0].stage)
	assert.True(t, rec.stages[0].success)
	assert.False(t, rec.stages[1].success)
}

type stageObservation struct {
	stage    string
	success  bool
	duration time.Duration
}

type captureRecorder struct {
	stages []stageObservation
}

func (c *captureRecorder) ObserveStage(stage string, success bool, duration time.Duration) {
	c.stages = append(c.stages, stageObservation{stage, success, duration})
}

func (c *captureRecorder) ObserveRequest(_, _, _ string, _, _ int, _ bool, _ string, _ time.Duration) {
}
