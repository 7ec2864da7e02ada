package domain

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// TitleLevel 表示教师的学历（职称）等级，数值越大等级越高
type TitleLevel int32

const (
	TitleSecondary  TitleLevel = iota // 中等教育
	TitleGraduate                     // 本科
	TitleSpecialist                   // 专科进修
	TitleMaster                       // 硕士
	TitleDoctor                       // 博士
)

var titleLevelNames = [...]string{"中等教育", "本科", "专科进修", "硕士", "博士"}

func (t TitleLevel) Valid() bool {
	return t >= TitleSecondary && t <= TitleDoctor
}

func (t TitleLevel) String() string {
	if !t.Valid() {
		return "未知"
	}
	return titleLevelNames[t]
}

// ParseTitleLevel 既接受数值等级，也接受中文名称
func ParseTitleLevel(s string) (TitleLevel, error) {
	if i := slices.Index(titleLevelNames[:], s); i >= 0 {
		return TitleLevel(i), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || !TitleLevel(n).Valid() {
		return 0, fmt.Errorf("无效的学历等级 %q", s)
	}
	return TitleLevel(n), nil
}

type ContractModel string

const (
	ContractMonthly ContractModel = "月薪制"
	ContractHourly  ContractModel = "课时制"
)

type Professor struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	FullName      string        `json:"fullName"`
	TitleLevel    TitleLevel    `json:"titleLevel"`
	MaxWorkload   float64       `json:"maxWorkload"` // 单位为小时
	ContractModel ContractModel `json:"contractModel"`
	AreaIDs       []int64       `json:"areaIDs"`
	CreatedAt     time.Time     `json:"createdAt"`
	Version       int32         `json:"-"`
}
