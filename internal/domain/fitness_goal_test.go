package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStatusStampsCompletedDateOnce(t *testing.T) {
	first := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	g := &FitnessGoal{Status: GoalStatusInProgress}

	g.ApplyStatus(GoalStatusAbandoned, first)
	assert.Nil(t, g.CompletedDate)

	g.ApplyStatus(GoalStatusCompleted, first)
	require.NotNil(t, g.CompletedDate)
	assert.Equal(t, first, *g.CompletedDate)
	assert.True(t, g.IsCompleted())

	g.ApplyStatus(GoalStatusInProgress, first.Add(time.Hour))
	g.ApplyStatus(GoalStatusCompleted, first.Add(2*time.Hour))
	assert.Equal(t, first, *g.CompletedDate)
}
