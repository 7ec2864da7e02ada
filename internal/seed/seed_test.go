package seed

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

type memoryRepository struct {
	areas      []*domain.CompetencyArea
	professors []*domain.Professor
	courses    []*domain.Course
	terms      []*domain.Term
	offerings  []*domain.Offering
}

func (m *memoryRepository) CreateCompetencyArea(area *domain.CompetencyArea) error {
	area.ID = int64(len(m.areas) + 1)
	m.areas = append(m.areas, area)
	return nil
}

func (m *memoryRepository) GetCompetencyAreaByName(name string) (*domain.CompetencyArea, error) {
	for _, area := range m.areas {
		if area.Name == name {
			return area, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryRepository) CreateProfessor(professor *domain.Professor) error {
	professor.ID = int64(len(m.professors) + 1)
	m.professors = append(m.professors, professor)
	return nil
}

func (m *memoryRepository) CreateCourse(course *domain.Course) error {
	course.ID = int64(len(m.courses) + 1)
	m.courses = append(m.courses, course)
	return nil
}

func (m *memoryRepository) GetCourseByName(name string) (*domain.Course, error) {
	for _, course := range m.courses {
		if course.Name == name {
			return course, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryRepository) CreateTerm(term *domain.Term) error {
	term.ID = int64(len(m.terms) + 1)
	m.terms = append(m.terms, term)
	return nil
}

func (m *memoryRepository) GetTermByName(name string) (*domain.Term, error) {
	for _, term := range m.terms {
		if term.Name == name {
			return term, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryRepository) CreateOffering(offering *domain.Offering) error {
	offering.ID = int64(len(m.offerings) + 1)
	m.offerings = append(m.offerings, offering)
	return nil
}

const professorsCSV = `code,full_name,title_level,max_workload,contract_model,areas
ZW0001,张伟,博士,16,月薪制,计算机;数学
LN0002,李娜,1,12,课时制,外语
,王芳,硕士,8,课时制, 计算机 ;
XX0003,无效,教授,8,课时制,计算机
`

func TestImportProfessors(t *testing.T) {
	records, err := ParseProfessors(strings.NewReader(professorsCSV))
	require.NoError(t, err)
	require.Len(t, records, 4)

	repo := &memoryRepository{}
	cnt := NewSeeder(repo).ImportProfessors(records)
	assert.Equal(t, 3, cnt)

	// 能力领域按名称去重
	require.Len(t, repo.areas, 3)
	assert.Equal(t, "计算机", repo.areas[0].Name)

	require.Len(t, repo.professors, 3)
	zhang := repo.professors[0]
	assert.Equal(t, "ZW0001", zhang.Code)
	assert.Equal(t, domain.TitleDoctor, zhang.TitleLevel)
	assert.Equal(t, 16.0, zhang.MaxWorkload)
	assert.Equal(t, domain.ContractMonthly, zhang.ContractModel)
	assert.Equal(t, []int64{1, 2}, zhang.AreaIDs)

	assert.Equal(t, domain.TitleGraduate, repo.professors[1].TitleLevel)

	wang := repo.professors[2]
	assert.Regexp(t, `^W[A-Z][0-9]{4}$`, wang.Code)
	assert.Equal(t, []int64{1}, wang.AreaIDs)
}

const offeringsCSV = `term,course,class,area,required_level,workload
2025 春季学期,数据结构,22级1班,计算机,硕士,4
2025 春季学期,数据结构,22级2班,计算机,硕士,4
2025 春季学期,英语写作,23级1班,外语,本科,2
2030 春季学期,英语写作,23级2班,外语,本科,2
`

func TestImportOfferings(t *testing.T) {
	records, err := ParseOfferings(strings.NewReader(offeringsCSV))
	require.NoError(t, err)
	require.Len(t, records, 4)

	repo := &memoryRepository{}
	require.NoError(t, repo.CreateTerm(&domain.Term{Name: "2025 春季学期"}))

	cnt := NewSeeder(repo).ImportOfferings(records)
	assert.Equal(t, 3, cnt)

	// 同名课程只创建一次
	require.Len(t, repo.courses, 2)
	assert.Equal(t, domain.TitleMaster, repo.courses[0].RequiredLevel)
	assert.Equal(t, 4.0, repo.courses[0].Workload)

	require.Len(t, repo.offerings, 3)
	assert.Equal(t, repo.offerings[0].CourseID, repo.offerings[1].CourseID)
	assert.Equal(t, "23级1班", repo.offerings[2].Class)
}

func TestSeedRandom(t *testing.T) {
	repo := &memoryRepository{}

	term, err := NewSeeder(repo).SeedRandom(RandomOptions{Professors: 10, Courses: 5, Offerings: 12, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, "2025 春季学期", term.Name)
	assert.Len(t, repo.areas, len(defaultAreas))
	assert.Len(t, repo.professors, 10)
	assert.Len(t, repo.courses, 5)
	assert.Len(t, repo.offerings, 12)
	for _, offering := range repo.offerings {
		assert.Equal(t, term.ID, offering.TermID)
	}

	_, err = NewSeeder(repo).SeedRandom(RandomOptions{Professors: 0, Courses: 1, Offerings: 1, Year: 2025})
	assert.Error(t, err)
}
