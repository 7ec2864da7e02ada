package allocator

import (
	"math"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

const (
	competencyPenalty = 1000.0 // 教师不具备开课所需的能力领域
	competencyBonus   = 200.0  // 教师具备开课所需的能力领域
	levelBonus        = 50.0   // 教师等级不低于开课要求
	overloadPenalty   = 5000.0 // 每超出最大课时 1 小时的惩罚
	idlePenalty       = 500.0  // 未分配任何课程的教师人数的平方乘以该系数
	balanceBonus      = 100.0  // 负载越均衡奖励越高
)

// snapshotIndex 是对教师和开课快照的只读索引，在一次运行中不会被修改，可以被多个 goroutine 同时读取
type snapshotIndex struct {
	professors []*domain.Professor
	offerings  []*domain.Offering
	position   map[int64]int        // professorID -> professors 中的下标
	areas      []map[int64]struct{} // 与 professors 对齐的能力领域集合
}

func newSnapshotIndex(professors []*domain.Professor, offerings []*domain.Offering) *snapshotIndex {
	idx := &snapshotIndex{
		professors: professors,
		offerings:  offerings,
		position:   make(map[int64]int, len(professors)),
		areas:      make([]map[int64]struct{}, len(professors)),
	}

	for i, professor := range professors {
		idx.position[professor.ID] = i

		idx.areas[i] = make(map[int64]struct{}, len(professor.AreaIDs))
		for _, areaID := range professor.AreaIDs {
			idx.areas[i][areaID] = struct{}{}
		}
	}

	return idx
}

/**
 * 计算分配方案的适应度（越大越好）
 * fitness = 能力匹配奖惩 + 等级奖励 - 超负荷惩罚 - 闲置惩罚 + 均衡奖励
 * 其中:
 * 		1. 能力匹配：教师不具备开课的能力领域扣 competencyPenalty，具备则加 competencyBonus
 * 		2. 等级：教师等级不低于开课要求加 levelBonus
 * 		3. 超负荷：对每个教师，超出最大课时的部分线性惩罚
 * 		4. 闲置：未被分配课程的教师人数的平方乘以 idlePenalty
 * 		5. 均衡：负载率（课时 / 最大课时）的标准差截断到 [0, 1] 后，奖励 balanceBonus * (1 - σ)
 * genes 的长度必须等于 offerings 的长度
 */
func (idx *snapshotIndex) evaluate(genes []int64) float64 {
	load := make([]float64, len(idx.professors))
	total := 0.0

	for i, professorID := range genes {
		offering := idx.offerings[i]

		p, exists := idx.position[professorID]
		if !exists {
			// 不在快照中的教师不可能具备任何能力领域
			total -= competencyPenalty
			continue
		}

		if _, ok := idx.areas[p][offering.AreaID]; ok {
			total += competencyBonus
		} else {
			total -= competencyPenalty
		}

		if idx.professors[p].TitleLevel >= offering.RequiredLevel {
			total += levelBonus
		}

		load[p] += offering.Workload
	}

	// 计算超负荷惩罚，同时统计被使用的教师数量和负载率
	used := 0
	ratios := make([]float64, len(idx.professors))
	for i, professor := range idx.professors {
		// 通过 ID 查找，保证 ID 重复的教师共享同一份课时
		current := load[idx.position[professor.ID]]

		if current > professor.MaxWorkload {
			total -= overloadPenalty * (current - professor.MaxWorkload)
		}
		if current > 0 {
			used++
		}
		if professor.MaxWorkload > 0 {
			ratios[i] = current / professor.MaxWorkload
		}
	}

	idle := float64(len(idx.professors) - used)
	total -= idlePenalty * idle * idle

	sigma := math.Min(math.Max(stdDev(ratios), 0), 1)
	total += balanceBonus * (1 - sigma)

	return total
}

// 总体标准差
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

// Evaluate 计算 genes 在给定快照下的适应度，不会修改任何输入
func Evaluate(genes []int64, professors []*domain.Professor, offerings []*domain.Offering) float64 {
	return newSnapshotIndex(professors, offerings).evaluate(genes)
}
