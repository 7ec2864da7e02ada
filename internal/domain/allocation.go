package domain

import "time"

type Allocation struct {
	ID          int64     `json:"id"`
	OfferingID  int64     `json:"offeringID"`
	ProfessorID int64     `json:"professorID"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AllocationJobMessage 是 api 投递到 allocation_queue 中的消息
type AllocationJobMessage struct {
	RunID string `json:"runID"`
}
