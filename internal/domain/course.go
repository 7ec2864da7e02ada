package domain

import "time"

type Course struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Workload      float64    `json:"workload"`
	RequiredLevel TitleLevel `json:"requiredLevel"`
	AreaID        int64      `json:"areaID"`
	CreatedAt     time.Time  `json:"createdAt"`
	Version       int32      `json:"-"`
}
