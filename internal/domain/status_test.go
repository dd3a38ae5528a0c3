package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupStatus_Complete(t *testing.T) {
	next, err := GroupActive.Complete()
	require.NoError(t, err)
	assert.Equal(t, GroupCompleted, next)

	_, err = GroupCompleted.Complete()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGroupStatus_Reopen(t *testing.T) {
	next, err := GroupCompleted.Reopen()
	require.NoError(t, err)
	assert.Equal(t, GroupActive, next)

	_, err = GroupActive.Reopen()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGroupStatus_Completed(t *testing.T) {
	assert.False(t, GroupActive.Completed())
	assert.True(t, GroupCompleted.Completed())
}

func TestTask_Archived(t *testing.T) {
	task := Task{}
	assert.False(t, task.Archived())

	now := task.CreatedAt
	task.ArchivedAt = &now
	assert.True(t, task.Archived())
}
