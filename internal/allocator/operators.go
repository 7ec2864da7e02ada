package allocator

import "math/rand/v2"

// Selector 从种群中选出 n 个个体的副本组成新的种群
type Selector interface {
	Select(pop []*Chromosome, n int, rng *rand.Rand) []*Chromosome
}

// Crossover 原地重组两个个体，重组后两个个体的适应度都需要重新计算
type Crossover interface {
	Cross(ch1 *Chromosome, ch2 *Chromosome, rng *rand.Rand)
}

// Mutator 原地变异一个个体，返回是否真的发生了变化
type Mutator interface {
	Mutate(ch *Chromosome, rng *rand.Rand) bool
}

// 锦标赛选择
// 每次有放回地随机抽取 Size 个个体，选出其中适应度最高的一个（并列时取先抽到的）
type TournamentSelector struct {
	Size int
}

func (ts *TournamentSelector) Select(pop []*Chromosome, n int, rng *rand.Rand) []*Chromosome {
	size := max(ts.Size, 1)
	selected := make([]*Chromosome, 0, n)

	for len(selected) < n {
		winner := pop[rng.IntN(len(pop))]
		for i := 1; i < size; i++ {
			aspirant := pop[rng.IntN(len(pop))]
			if aspirant.fitness > winner.fitness {
				winner = aspirant
			}
		}

		// 必须复制，同一个个体可能被选中多次，后续的交叉和变异是原地进行的
		selected = append(selected, winner.clone())
	}

	return selected
}

// 单点交叉
// 在 [1, length-1] 中随机选择一个位置，交换两个染色体在该位置及之后的基因
type OnePointCrossover struct{}

func (OnePointCrossover) Cross(ch1 *Chromosome, ch2 *Chromosome, rng *rand.Rand) {
	ch1.invalidate()
	ch2.invalidate()

	length := min(len(ch1.genes), len(ch2.genes))
	if length < 2 {
		// 只有一个基因时不存在合法的切点
		return
	}

	point := rng.IntN(length-1) + 1
	for i := point; i < length; i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// 打乱下标变异
// 从左到右遍历每个基因位，以 Rate 的概率将其与另一个随机基因位交换
// 交换是立即生效的，所以后面的交换可能会再次移动已经被交换过的基因
type ShuffleIndexMutator struct {
	Rate float64
}

func (sm *ShuffleIndexMutator) Mutate(ch *Chromosome, rng *rand.Rand) bool {
	length := len(ch.genes)
	if length < 2 {
		return false
	}

	swapped := false
	for i := 0; i < length; i++ {
		if rng.Float64() >= sm.Rate {
			continue
		}

		// 在除 i 以外的 length-1 个位置中均匀选择
		j := rng.IntN(length - 1)
		if j >= i {
			j++
		}

		ch.genes[i], ch.genes[j] = ch.genes[j], ch.genes[i]
		swapped = true
	}

	if swapped {
		ch.invalidate()
	}

	return swapped
}
