package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/utils"
)

// Repository 是写入种子数据用到的数据库操作，由 repository.Repository 实现
type Repository interface {
	CreateCompetencyArea(area *domain.CompetencyArea) error
	GetCompetencyAreaByName(name string) (*domain.CompetencyArea, error)
	CreateProfessor(professor *domain.Professor) error
	CreateCourse(course *domain.Course) error
	GetCourseByName(name string) (*domain.Course, error)
	CreateTerm(term *domain.Term) error
	GetTermByName(name string) (*domain.Term, error)
	CreateOffering(offering *domain.Offering) error
}

// ProfessorRecord 是教师 CSV 文件中的一行，areas 用分号分隔
type ProfessorRecord struct {
	Code          string  `csv:"code"`
	FullName      string  `csv:"full_name"`
	TitleLevel    string  `csv:"title_level"`
	MaxWorkload   float64 `csv:"max_workload"`
	ContractModel string  `csv:"contract_model"`
	Areas         string  `csv:"areas"`
}

// OfferingRecord 是开课 CSV 文件中的一行，课程不存在时用 area、required_level、workload 新建
type OfferingRecord struct {
	Term          string  `csv:"term"`
	Course        string  `csv:"course"`
	Class         string  `csv:"class"`
	Area          string  `csv:"area"`
	RequiredLevel string  `csv:"required_level"`
	Workload      float64 `csv:"workload"`
}

func ParseProfessors(in io.Reader) ([]*ProfessorRecord, error) {
	records := []*ProfessorRecord{}
	if err := gocsv.Unmarshal(in, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func ParseOfferings(in io.Reader) ([]*OfferingRecord, error) {
	records := []*OfferingRecord{}
	if err := gocsv.Unmarshal(in, &records); err != nil {
		return nil, err
	}
	return records, nil
}

type Seeder struct {
	repo  Repository
	areas map[string]int64 // 能力领域名称 -> ID
}

func NewSeeder(repo Repository) *Seeder {
	return &Seeder{
		repo:  repo,
		areas: make(map[string]int64),
	}
}

// areaID 返回能力领域的 ID，不存在时新建
func (s *Seeder) areaID(name string) (int64, error) {
	if id, ok := s.areas[name]; ok {
		return id, nil
	}

	area, err := s.repo.GetCompetencyAreaByName(name)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		area = &domain.CompetencyArea{Name: name}
		if err := s.repo.CreateCompetencyArea(area); err != nil {
			return 0, err
		}
	}

	s.areas[name] = area.ID
	return area.ID, nil
}

func splitAreas(areas string) []string {
	names := make([]string, 0)
	for _, name := range strings.Split(areas, ";") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (s *Seeder) professorFromRecord(record *ProfessorRecord) (*domain.Professor, error) {
	level, err := domain.ParseTitleLevel(strings.TrimSpace(record.TitleLevel))
	if err != nil {
		return nil, err
	}

	professor := &domain.Professor{
		Code:          strings.TrimSpace(record.Code),
		FullName:      strings.TrimSpace(record.FullName),
		TitleLevel:    level,
		MaxWorkload:   record.MaxWorkload,
		ContractModel: domain.ContractModel(strings.TrimSpace(record.ContractModel)),
		AreaIDs:       make([]int64, 0),
	}
	if professor.Code == "" {
		professor.Code = utils.GenerateProfessorCode(professor.FullName)
	}
	if err := utils.ValidateProfessor(professor); err != nil {
		return nil, err
	}

	for _, name := range splitAreas(record.Areas) {
		id, err := s.areaID(name)
		if err != nil {
			return nil, err
		}
		professor.AreaIDs = append(professor.AreaIDs, id)
	}

	return professor, nil
}

// ImportProfessors 逐行导入教师，出错的行会被跳过，返回成功导入的行数
func (s *Seeder) ImportProfessors(records []*ProfessorRecord) int {
	cnt := 0
	for i, record := range records {
		professor, err := s.professorFromRecord(record)
		if err != nil {
			slog.Error("教师数据无效", "row", i+2, "error", err)
			continue
		}

		if err := s.repo.CreateProfessor(professor); err != nil {
			slog.Error("无法插入教师", "row", i+2, "code", professor.Code, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("导入教师完成", "count", cnt, "total", len(records))
	return cnt
}

func (s *Seeder) course(record *OfferingRecord) (*domain.Course, error) {
	course, err := s.repo.GetCourseByName(record.Course)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	level, err := domain.ParseTitleLevel(strings.TrimSpace(record.RequiredLevel))
	if err != nil {
		return nil, err
	}
	areaID, err := s.areaID(strings.TrimSpace(record.Area))
	if err != nil {
		return nil, err
	}

	course = &domain.Course{
		Name:          record.Course,
		Workload:      record.Workload,
		RequiredLevel: level,
		AreaID:        areaID,
	}
	if err := utils.ValidateCourse(course); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCourse(course); err != nil {
		return nil, err
	}

	return course, nil
}

// ImportOfferings 逐行导入开课，学期必须已经存在，出错的行会被跳过
func (s *Seeder) ImportOfferings(records []*OfferingRecord) int {
	terms := make(map[string]*domain.Term)

	cnt := 0
	for i, record := range records {
		term, ok := terms[record.Term]
		if !ok {
			var err error
			term, err = s.repo.GetTermByName(record.Term)
			if err != nil {
				slog.Error("无法获取学期", "row", i+2, "term", record.Term, "error", err)
				continue
			}
			terms[record.Term] = term
		}

		course, err := s.course(record)
		if err != nil {
			slog.Error("无法获取课程", "row", i+2, "course", record.Course, "error", err)
			continue
		}

		offering := &domain.Offering{
			TermID:   term.ID,
			CourseID: course.ID,
			Class:    record.Class,
		}
		if err := s.repo.CreateOffering(offering); err != nil {
			slog.Error("无法插入开课", "row", i+2, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("导入开课完成", "count", cnt, "total", len(records))
	return cnt
}

var defaultAreas = []string{"计算机", "数学", "外语", "物理", "电子", "管理"}

type RandomOptions struct {
	Professors int
	Courses    int
	Offerings  int
	Year       int32
	Autumn     bool
}

// SeedRandom 生成随机的能力领域、教师、课程、学期及其开课，返回新建的学期
func (s *Seeder) SeedRandom(opts RandomOptions) (*domain.Term, error) {
	if opts.Professors <= 0 || opts.Courses <= 0 || opts.Offerings <= 0 {
		return nil, errors.New("教师、课程和开课的数量必须为正整数")
	}

	areaIDs := make([]int64, 0, len(defaultAreas))
	for _, name := range defaultAreas {
		id, err := s.areaID(name)
		if err != nil {
			return nil, err
		}
		areaIDs = append(areaIDs, id)
	}

	cnt := 0
	for i := 0; i < opts.Professors; i++ {
		if err := s.repo.CreateProfessor(utils.GenerateRandomProfessor(areaIDs)); err != nil {
			slog.Error("无法插入教师", "error", err)
			continue
		}
		cnt++
	}
	slog.Info("插入教师成功", "count", cnt)

	courses := make([]*domain.Course, 0, opts.Courses)
	for i := 0; i < opts.Courses; i++ {
		// 课程名称唯一，加上序号避免重名
		course := utils.GenerateRandomCourse(utils.GenerateRandomCourseName()+"-"+strconv.Itoa(i+1), areaIDs)
		if err := s.repo.CreateCourse(course); err != nil {
			slog.Error("无法插入课程", "error", err)
			continue
		}
		courses = append(courses, course)
	}
	slog.Info("插入课程成功", "count", len(courses))
	if len(courses) == 0 {
		return nil, errors.New("没有成功插入任何课程")
	}

	term := utils.GenerateTerm(opts.Year, opts.Autumn)
	if err := s.repo.CreateTerm(term); err != nil {
		return nil, fmt.Errorf("无法插入学期: %w", err)
	}

	cnt = 0
	for i := 0; i < opts.Offerings; i++ {
		course := courses[i%len(courses)]
		offering := &domain.Offering{
			TermID:   term.ID,
			CourseID: course.ID,
			Class:    utils.GenerateRandomClassName() + "-" + strconv.Itoa(i+1),
		}
		if err := s.repo.CreateOffering(offering); err != nil {
			slog.Error("无法插入开课", "error", err)
			continue
		}
		cnt++
	}
	slog.Info("插入开课成功", "term", term.Name, "count", cnt)

	return term, nil
}
