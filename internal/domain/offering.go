package domain

import "time"

// Offering 表示某个学期中某门课程的一个教学班
// AreaID、RequiredLevel、Workload 均来自对应的课程
type Offering struct {
	ID            int64      `json:"id"`
	TermID        int64      `json:"termID"`
	CourseID      int64      `json:"courseID"`
	CourseName    string     `json:"courseName"`
	Class         string     `json:"class"`
	AreaID        int64      `json:"areaID"`
	RequiredLevel TitleLevel `json:"requiredLevel"`
	Workload      float64    `json:"workload"`
	CreatedAt     time.Time  `json:"createdAt"`
	Version       int32      `json:"-"`
}
