package utils

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

func ValidateTermDates(term *domain.Term) error {
	if !term.StartDate.Before(term.EndDate) {
		return errors.New("学期开始日期必须早于结束日期")
	}

	if int32(term.StartDate.Year()) != term.Year {
		return fmt.Errorf("学期开始日期 %s 不在 %d 年", term.StartDate.Format("2006-01-02"), term.Year)
	}

	return nil
}

func ValidateProfessor(professor *domain.Professor) error {
	if !professor.TitleLevel.Valid() {
		return fmt.Errorf("教师 %s 的学历等级 %d 无效", professor.FullName, professor.TitleLevel)
	}

	if professor.MaxWorkload < 0 {
		return fmt.Errorf("教师 %s 的可授课时数不能为负数", professor.FullName)
	}

	if professor.ContractModel != domain.ContractMonthly && professor.ContractModel != domain.ContractHourly {
		return fmt.Errorf("教师 %s 的合同类型 %q 无效", professor.FullName, professor.ContractModel)
	}

	return nil
}

func ValidateCourse(course *domain.Course) error {
	if !course.RequiredLevel.Valid() {
		return fmt.Errorf("课程 %s 要求的学历等级 %d 无效", course.Name, course.RequiredLevel)
	}

	if course.Workload < 0 {
		return fmt.Errorf("课程 %s 的课时数不能为负数", course.Name)
	}

	return nil
}

// NormalizeOfferingSelection 对要提交的开课 ID 去重，保留第一次出现的顺序
func NormalizeOfferingSelection(offeringIDs []int64) ([]int64, error) {
	if len(offeringIDs) == 0 {
		return nil, errors.New("至少需要选择一门开课")
	}

	normalized := make([]int64, 0, len(offeringIDs))
	for _, id := range offeringIDs {
		if id <= 0 {
			return nil, fmt.Errorf("开课 ID %d 无效", id)
		}
		if slices.Contains(normalized, id) {
			continue
		}
		normalized = append(normalized, id)
	}

	return normalized, nil
}
