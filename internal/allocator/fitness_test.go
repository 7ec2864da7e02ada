package allocator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

const (
	areaA int64 = 100
	areaB int64 = 200
)

// 两位教师、两门开课：P1 适合 O1，P2 适合 O2
func twoByTwo() ([]*domain.Professor, []*domain.Offering) {
	professors := []*domain.Professor{
		{ID: 1, FullName: "P1", TitleLevel: domain.TitleMaster, MaxWorkload: 10, AreaIDs: []int64{areaA}},
		{ID: 2, FullName: "P2", TitleLevel: domain.TitleGraduate, MaxWorkload: 10, AreaIDs: []int64{areaB}},
	}
	offerings := []*domain.Offering{
		{ID: 11, CourseName: "O1", AreaID: areaA, RequiredLevel: domain.TitleSpecialist, Workload: 5},
		{ID: 12, CourseName: "O2", AreaID: areaB, RequiredLevel: domain.TitleSecondary, Workload: 5},
	}
	return professors, offerings
}

func TestEvaluate_MatchingAssignmentBeatsSwapped(t *testing.T) {
	professors, offerings := twoByTwo()

	matched := Evaluate([]int64{1, 2}, professors, offerings)
	swapped := Evaluate([]int64{2, 1}, professors, offerings)

	// 2 * (200 + 50) + 100
	assert.InDelta(t, 600.0, matched, 1e-9)
	// -1000 - 1000 + 50 + 100
	assert.InDelta(t, -1850.0, swapped, 1e-9)
	assert.Greater(t, matched, swapped)
}

func TestEvaluate_IsPure(t *testing.T) {
	professors, offerings := twoByTwo()
	genes := []int64{1, 1}

	first := Evaluate(genes, professors, offerings)
	second := Evaluate(genes, professors, offerings)
	assert.Equal(t, first, second)

	wantProfessors, wantOfferings := twoByTwo()
	assert.Equal(t, []int64{1, 1}, genes)
	assert.Equal(t, wantProfessors, professors)
	assert.Equal(t, wantOfferings, offerings)
}

func TestEvaluate_OverloadIsLinear(t *testing.T) {
	professors := []*domain.Professor{
		{ID: 1, TitleLevel: domain.TitleDoctor, MaxWorkload: 4, AreaIDs: []int64{areaA}},
	}
	offerings := []*domain.Offering{
		{ID: 11, AreaID: areaA, RequiredLevel: domain.TitleSecondary, Workload: 5},
	}

	// 200 + 50 - 5000 * 1 + 100
	assert.InDelta(t, -4650.0, Evaluate([]int64{1}, professors, offerings), 1e-9)

	offerings[0].Workload = 6
	// 200 + 50 - 5000 * 2 + 100
	assert.InDelta(t, -9650.0, Evaluate([]int64{1}, professors, offerings), 1e-9)
}

func TestEvaluate_IdleProfessorsPenalizedQuadratically(t *testing.T) {
	professors := []*domain.Professor{
		{ID: 1, TitleLevel: domain.TitleDoctor, MaxWorkload: 20, AreaIDs: []int64{areaA}},
		{ID: 2, TitleLevel: domain.TitleDoctor, MaxWorkload: 20, AreaIDs: []int64{areaA}},
		{ID: 3, TitleLevel: domain.TitleDoctor, MaxWorkload: 20, AreaIDs: []int64{areaA}},
	}
	offerings := []*domain.Offering{
		{ID: 11, AreaID: areaA, RequiredLevel: domain.TitleSecondary, Workload: 5},
		{ID: 12, AreaID: areaA, RequiredLevel: domain.TitleSecondary, Workload: 5},
	}

	// 两人闲置：负载率为 0.5, 0, 0
	concentrated := Evaluate([]int64{1, 1}, professors, offerings)
	assert.InDelta(t, 500-500*4+100*(1-math.Sqrt(1.0/18)), concentrated, 1e-9)

	// 一人闲置：负载率为 0.25, 0.25, 0
	spread := Evaluate([]int64{1, 2}, professors, offerings)
	assert.InDelta(t, 500-500*1+100*(1-math.Sqrt(1.0/72)), spread, 1e-9)
}

func TestEvaluate_ZeroCapacityProfessor(t *testing.T) {
	professors := []*domain.Professor{
		{ID: 1, TitleLevel: domain.TitleDoctor, MaxWorkload: 10, AreaIDs: []int64{areaA}},
		{ID: 2, TitleLevel: domain.TitleDoctor, MaxWorkload: 0},
	}
	offerings := []*domain.Offering{
		{ID: 11, AreaID: areaA, RequiredLevel: domain.TitleSecondary, Workload: 5},
	}

	fitness := Evaluate([]int64{1}, professors, offerings)

	require.False(t, math.IsNaN(fitness))
	// 200 + 50 - 500 * 1 + 100 * (1 - 0.25)，负载率为 0.5 和 0
	assert.InDelta(t, -175.0, fitness, 1e-9)
}

func TestEvaluate_BalanceBonusClamped(t *testing.T) {
	professors := []*domain.Professor{
		{ID: 1, TitleLevel: domain.TitleDoctor, MaxWorkload: 1, AreaIDs: []int64{areaA}},
		{ID: 2, TitleLevel: domain.TitleDoctor, MaxWorkload: 10},
	}
	offerings := []*domain.Offering{
		{ID: 11, AreaID: areaA, RequiredLevel: domain.TitleSecondary, Workload: 5},
	}

	// 负载率为 5 和 0，σ = 2.5 被截断为 1，均衡奖励为 0
	// 200 + 50 - 5000 * 4 - 500
	assert.InDelta(t, -20250.0, Evaluate([]int64{1}, professors, offerings), 1e-9)
}

func TestEvaluate_LevelBonusRequiresSufficientTitle(t *testing.T) {
	professors := []*domain.Professor{
		{ID: 1, TitleLevel: domain.TitleGraduate, MaxWorkload: 10, AreaIDs: []int64{areaA}},
	}
	offerings := []*domain.Offering{
		{ID: 11, AreaID: areaA, RequiredLevel: domain.TitleDoctor, Workload: 10},
	}

	assert.InDelta(t, 300.0, Evaluate([]int64{1}, professors, offerings), 1e-9)

	professors[0].TitleLevel = domain.TitleDoctor
	assert.InDelta(t, 350.0, Evaluate([]int64{1}, professors, offerings), 1e-9)
}

func TestEvaluate_UnknownProfessorCountsAsMismatch(t *testing.T) {
	professors, offerings := twoByTwo()

	// 99 不在快照中：-1000；P2 匹配 O2：+250；P1 闲置：-500；负载率 0 和 0.5：+75
	assert.InDelta(t, -1175.0, Evaluate([]int64{99, 2}, professors, offerings), 1e-9)
}
