package runstore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/allocator"
)

func TestRun_Lifecycle(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	run := NewRun(7, *allocator.DefaultParameters(), created)

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, run.Status)
	assert.False(t, run.Finished())
	assert.Zero(t, run.Duration())

	run.MarkRunning(created.Add(time.Second))
	assert.Equal(t, StatusRunning, run.Status)
	assert.False(t, run.Finished())

	proposal := &allocator.Proposal{BestFitness: 10}
	run.MarkSucceeded(proposal, created.Add(4*time.Second))
	assert.Equal(t, StatusSucceeded, run.Status)
	assert.True(t, run.Finished())
	assert.Same(t, proposal, run.Proposal)
	assert.Equal(t, 3*time.Second, run.Duration())
}

func TestRun_MarkFailedDropsProposal(t *testing.T) {
	now := time.Now()
	run := NewRun(1, *allocator.DefaultParameters(), now)
	run.MarkRunning(now)
	run.Proposal = &allocator.Proposal{}

	run.MarkFailed("超时", now.Add(time.Minute))

	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "超时", run.Error)
	assert.Nil(t, run.Proposal)
	assert.True(t, run.Finished())
}

func TestNewRun_UniqueIDs(t *testing.T) {
	a := NewRun(1, allocator.Parameters{}, time.Now())
	b := NewRun(1, allocator.Parameters{}, time.Now())
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "allocation_run_"+a.ID, runKey(a.ID))
}
