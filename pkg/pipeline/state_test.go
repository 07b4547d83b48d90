package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateIdle, StateWriting, true},
		{StateWriting, StateReviewing, true},
		{StateReviewing, StateOptimizing, true},
		{StateOptimizing, StateDone, true},
		{StateDone, StateIdle, true},
		{StateFailed, StateIdle, true},

		{StateWriting, StateFailed, true},
		{StateReviewing, StateFailed, true},
		{StateOptimizing, StateFailed, true},
		{StateDone, StateFailed, true},

		{StateIdle, StateFailed, false},
		{StateFailed, StateFailed, false},
		{StateIdle, StateReviewing, false},
		{StateWriting, StateDone, false},
		{StateWriting, StateIdle, false},
		{StateDone, StateWriting, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s → %s", tt.from, tt.to)
	}
}
