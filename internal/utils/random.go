package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateProfessorCode 用姓名拼音的首字母加上 4 位数字作为工号，例如 张伟 -> ZW0381
func GenerateProfessorCode(chineseName string) string {
	var sb strings.Builder

	for _, py := range pinyin.LazyConvert(chineseName, nil) {
		sb.WriteString(strings.ToUpper(py[:1]))
	}
	for i := 0; i < 4; i++ {
		sb.WriteByte(digits[rand.Intn(len(digits))])
	}

	return sb.String()
}

var contractModels = []domain.ContractModel{
	domain.ContractMonthly,
	domain.ContractHourly,
}

// 可授课时数以 2 小时为单位
func GenerateRandomProfessor(areaIDs []int64) *domain.Professor {
	fullName := GenerateRandomChineseName()

	professor := &domain.Professor{
		Code:          GenerateProfessorCode(fullName),
		FullName:      fullName,
		TitleLevel:    domain.TitleLevel(rand.Intn(int(domain.TitleDoctor) + 1)),
		MaxWorkload:   float64(2 * (rand.Intn(10) + 1)),
		ContractModel: contractModels[rand.Intn(len(contractModels))],
		AreaIDs:       make([]int64, 0),
	}
	if len(areaIDs) > 0 {
		professor.AreaIDs = GenerateRandomSubset(areaIDs, min(3, len(areaIDs)))
	}

	return professor
}

var courseSubjects = []string{
	"数据结构", "操作系统", "计算机网络", "数据库系统", "编译原理",
	"高等数学", "线性代数", "概率论", "大学英语", "英语写作",
	"大学物理", "电路分析", "信号与系统", "管理学原理", "会计学基础",
}

var courseSuffixes = []string{"", "（一）", "（二）", "实验", "专题"}

func GenerateRandomCourseName() string {
	return courseSubjects[rand.Intn(len(courseSubjects))] + courseSuffixes[rand.Intn(len(courseSuffixes))]
}

func GenerateRandomCourse(name string, areaIDs []int64) *domain.Course {
	return &domain.Course{
		Name:          name,
		Workload:      float64(2 * (rand.Intn(3) + 1)),
		RequiredLevel: domain.TitleLevel(rand.Intn(int(domain.TitleDoctor) + 1)),
		AreaID:        areaIDs[rand.Intn(len(areaIDs))],
	}
}

// GenerateTerm 生成某一年的春季或秋季学期，春季从 2 月开始，秋季从 9 月开始，均为 18 周
func GenerateTerm(year int32, autumn bool) *domain.Term {
	period := "春季"
	month := time.February
	if autumn {
		period = "秋季"
		month = time.September
	}

	start := time.Date(int(year), month, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Term{
		Name:      fmt.Sprintf("%d %s学期", year, period),
		Year:      year,
		Period:    period,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 18*7),
	}
}

// 班级名称，例如 22级3班
func GenerateRandomClassName() string {
	return fmt.Sprintf("%d级%d班", rand.Intn(4)+21, rand.Intn(8)+1)
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集，子集大小在 [1, maxSize] 之间
func GenerateRandomSubset[T any](arr []T, maxSize int) []T {
	arrCopy := append([]T{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(min(maxSize, len(arrCopy))) + 1
	return arrCopy[:l]
}
