package allocator

import (
	"fmt"
	"slices"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

// AssignmentRow 是分配方案中的一行：某门开课分配给了哪位教师
type AssignmentRow struct {
	OfferingID      int64             `json:"offeringID"`
	CourseName      string            `json:"courseName"`
	Class           string            `json:"class"`
	AreaID          int64             `json:"areaID"`
	RequiredLevel   domain.TitleLevel `json:"requiredLevel"`
	Workload        float64           `json:"workload"`
	ProfessorID     int64             `json:"professorID"`
	ProfessorName   string            `json:"professorName"`
	TitleLevel      domain.TitleLevel `json:"titleLevel"`
	CompetencyMatch bool              `json:"competencyMatch"`
	LevelMatch      bool              `json:"levelMatch"`
}

// ProfessorLoad 是某位教师在分配方案中的课时情况
type ProfessorLoad struct {
	ProfessorID   int64                `json:"professorID"`
	ProfessorName string               `json:"professorName"`
	ContractModel domain.ContractModel `json:"contractModel"`
	Allocated     float64              `json:"allocated"`
	Capacity      float64              `json:"capacity"`
	Free          float64              `json:"free"`
}

// Proposal 是展示给排课负责人的分配建议，负责人从中挑选要提交的行
type Proposal struct {
	BestFitness float64            `json:"bestFitness"`
	Rows        []AssignmentRow    `json:"rows"`
	Loads       []ProfessorLoad    `json:"loads"`
	Log         []GenerationRecord `json:"log"`
}

func BuildProposal(professors []*domain.Professor, offerings []*domain.Offering, result *Result) (*Proposal, error) {
	if len(result.Best) != len(offerings) {
		return nil, fmt.Errorf("分配方案的长度 %d 与开课数量 %d 不一致", len(result.Best), len(offerings))
	}

	professorMap := make(map[int64]*domain.Professor, len(professors))
	for _, professor := range professors {
		professorMap[professor.ID] = professor
	}

	allocated := make(map[int64]float64, len(professors))
	rows := make([]AssignmentRow, 0, len(offerings))

	for i, professorID := range result.Best {
		professor, exists := professorMap[professorID]
		if !exists {
			return nil, fmt.Errorf("第 %d 门开课分配的教师 %d 不存在", i+1, professorID)
		}
		offering := offerings[i]

		allocated[professorID] += offering.Workload
		rows = append(rows, AssignmentRow{
			OfferingID:      offering.ID,
			CourseName:      offering.CourseName,
			Class:           offering.Class,
			AreaID:          offering.AreaID,
			RequiredLevel:   offering.RequiredLevel,
			Workload:        offering.Workload,
			ProfessorID:     professor.ID,
			ProfessorName:   professor.FullName,
			TitleLevel:      professor.TitleLevel,
			CompetencyMatch: slices.Contains(professor.AreaIDs, offering.AreaID),
			LevelMatch:      professor.TitleLevel >= offering.RequiredLevel,
		})
	}

	loads := make([]ProfessorLoad, 0, len(professors))
	for _, professor := range professors {
		loads = append(loads, ProfessorLoad{
			ProfessorID:   professor.ID,
			ProfessorName: professor.FullName,
			ContractModel: professor.ContractModel,
			Allocated:     allocated[professor.ID],
			Capacity:      professor.MaxWorkload,
			Free:          max(0, professor.MaxWorkload-allocated[professor.ID]),
		})
	}

	return &Proposal{
		BestFitness: result.BestFitness,
		Rows:        rows,
		Loads:       loads,
		Log:         result.Log,
	}, nil
}

func (p *Proposal) MatchedCount() int {
	cnt := 0
	for _, row := range p.Rows {
		if row.CompetencyMatch {
			cnt++
		}
	}
	return cnt
}

func (p *Proposal) Row(offeringID int64) (AssignmentRow, bool) {
	for _, row := range p.Rows {
		if row.OfferingID == offeringID {
			return row, true
		}
	}
	return AssignmentRow{}, false
}

// RemoveRows 删除已经提交的行
func (p *Proposal) RemoveRows(offeringIDs []int64) {
	p.Rows = slices.DeleteFunc(p.Rows, func(row AssignmentRow) bool {
		return slices.Contains(offeringIDs, row.OfferingID)
	})
}

// UncoveredAreas 返回开课需要、但没有任何教师具备的能力领域，按 ID 升序
func UncoveredAreas(professors []*domain.Professor, offerings []*domain.Offering) []int64 {
	available := make(map[int64]struct{})
	for _, professor := range professors {
		for _, areaID := range professor.AreaIDs {
			available[areaID] = struct{}{}
		}
	}

	uncovered := make([]int64, 0)
	for _, offering := range offerings {
		if _, ok := available[offering.AreaID]; ok {
			continue
		}
		if !slices.Contains(uncovered, offering.AreaID) {
			uncovered = append(uncovered, offering.AreaID)
		}
	}
	slices.Sort(uncovered)

	return uncovered
}
