package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

func TestBuildProposal(t *testing.T) {
	professors, offerings := twoByTwo()
	result := &Result{
		Best:        []int64{1, 1},
		BestFitness: 42,
		Log:         []GenerationRecord{{Generation: 0, Evaluations: 2}},
	}

	proposal, err := BuildProposal(professors, offerings, result)
	require.NoError(t, err)

	assert.Equal(t, 42.0, proposal.BestFitness)
	assert.Equal(t, result.Log, proposal.Log)
	require.Len(t, proposal.Rows, 2)

	assert.Equal(t, AssignmentRow{
		OfferingID:      11,
		CourseName:      "O1",
		AreaID:          areaA,
		RequiredLevel:   domain.TitleSpecialist,
		Workload:        5,
		ProfessorID:     1,
		ProfessorName:   "P1",
		TitleLevel:      domain.TitleMaster,
		CompetencyMatch: true,
		LevelMatch:      true,
	}, proposal.Rows[0])
	assert.False(t, proposal.Rows[1].CompetencyMatch)
	assert.True(t, proposal.Rows[1].LevelMatch)
	assert.Equal(t, 1, proposal.MatchedCount())

	require.Len(t, proposal.Loads, 2)
	assert.Equal(t, 10.0, proposal.Loads[0].Allocated)
	assert.Equal(t, 0.0, proposal.Loads[0].Free)
	assert.Equal(t, 0.0, proposal.Loads[1].Allocated)
	assert.Equal(t, 10.0, proposal.Loads[1].Free)
}

func TestBuildProposal_FreeNeverNegative(t *testing.T) {
	professors, offerings := twoByTwo()
	professors[0].MaxWorkload = 4

	proposal, err := BuildProposal(professors, offerings, &Result{Best: []int64{1, 1}})
	require.NoError(t, err)

	assert.Equal(t, 10.0, proposal.Loads[0].Allocated)
	assert.Equal(t, 0.0, proposal.Loads[0].Free)
}

func TestBuildProposal_RejectsInconsistentResult(t *testing.T) {
	professors, offerings := twoByTwo()

	_, err := BuildProposal(professors, offerings, &Result{Best: []int64{1}})
	assert.Error(t, err)

	_, err = BuildProposal(professors, offerings, &Result{Best: []int64{1, 99}})
	assert.Error(t, err)
}

func TestProposal_RowAndRemoveRows(t *testing.T) {
	professors, offerings := twoByTwo()
	proposal, err := BuildProposal(professors, offerings, &Result{Best: []int64{1, 2}})
	require.NoError(t, err)

	row, ok := proposal.Row(12)
	require.True(t, ok)
	assert.Equal(t, int64(2), row.ProfessorID)

	_, ok = proposal.Row(99)
	assert.False(t, ok)

	proposal.RemoveRows([]int64{11, 99})
	require.Len(t, proposal.Rows, 1)
	assert.Equal(t, int64(12), proposal.Rows[0].OfferingID)
}

func TestUncoveredAreas(t *testing.T) {
	professors := []*domain.Professor{
		{ID: 1, AreaIDs: []int64{1, 2}},
		{ID: 2, AreaIDs: []int64{2}},
	}
	offerings := []*domain.Offering{
		{ID: 1, AreaID: 5},
		{ID: 2, AreaID: 1},
		{ID: 3, AreaID: 3},
		{ID: 4, AreaID: 5},
	}

	assert.Equal(t, []int64{3, 5}, UncoveredAreas(professors, offerings))
	assert.Empty(t, UncoveredAreas(professors, offerings[1:2]))
}
