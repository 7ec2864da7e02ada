package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProfessorCode(t *testing.T) {
	code := GenerateProfessorCode("张伟")
	assert.Regexp(t, regexp.MustCompile(`^ZW[0-9]{4}$`), code)

	code = GenerateProfessorCode("欧阳明华")
	assert.Regexp(t, regexp.MustCompile(`^OYMH[0-9]{4}$`), code)
}

func TestGenerateRandomProfessor(t *testing.T) {
	areaIDs := []int64{1, 2, 3, 4, 5}

	for i := 0; i < 100; i++ {
		p := GenerateRandomProfessor(areaIDs)
		require.NoError(t, ValidateProfessor(p))
		assert.NotEmpty(t, p.Code)
		assert.NotEmpty(t, p.AreaIDs)
		assert.LessOrEqual(t, len(p.AreaIDs), 3)
		assert.Subset(t, areaIDs, p.AreaIDs)
	}

	p := GenerateRandomProfessor(nil)
	assert.Empty(t, p.AreaIDs)
}

func TestGenerateRandomCourse(t *testing.T) {
	areaIDs := []int64{7, 8}

	for i := 0; i < 50; i++ {
		course := GenerateRandomCourse(GenerateRandomCourseName(), areaIDs)
		require.NoError(t, ValidateCourse(course))
		assert.Contains(t, areaIDs, course.AreaID)
		assert.Positive(t, course.Workload)
	}
}

func TestGenerateRandomSubset(t *testing.T) {
	arr := []int64{1, 2, 3, 4}

	for i := 0; i < 100; i++ {
		subset := GenerateRandomSubset(arr, 2)
		assert.NotEmpty(t, subset)
		assert.LessOrEqual(t, len(subset), 2)
		assert.Subset(t, arr, subset)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, arr)
}
