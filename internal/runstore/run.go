package runstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/allocator"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run 是一次分配任务，存放在 redis 中，过期后自动删除
type Run struct {
	ID         string               `json:"id"`
	TermID     int64                `json:"termID"`
	Status     Status               `json:"status"`
	Parameters allocator.Parameters `json:"parameters"`
	Proposal   *allocator.Proposal  `json:"proposal"`
	Error      string               `json:"error"`
	CreatedAt  time.Time            `json:"createdAt"`
	StartedAt  *time.Time           `json:"startedAt"`
	FinishedAt *time.Time           `json:"finishedAt"`
}

func NewRun(termID int64, parameters allocator.Parameters, now time.Time) *Run {
	return &Run{
		ID:         uuid.NewString(),
		TermID:     termID,
		Status:     StatusPending,
		Parameters: parameters,
		CreatedAt:  now,
	}
}

func (r *Run) MarkRunning(now time.Time) {
	r.Status = StatusRunning
	r.StartedAt = &now
}

func (r *Run) MarkSucceeded(proposal *allocator.Proposal, now time.Time) {
	r.Status = StatusSucceeded
	r.Proposal = proposal
	r.Error = ""
	r.FinishedAt = &now
}

func (r *Run) MarkFailed(reason string, now time.Time) {
	r.Status = StatusFailed
	r.Proposal = nil
	r.Error = reason
	r.FinishedAt = &now
}

func (r *Run) Finished() bool {
	return r.Status == StatusSucceeded || r.Status == StatusFailed
}

// Duration 返回任务实际运行的时长，任务还没有开始或没有结束时返回 0
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}
