package allocator

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func evaluated(genes []int64, fitness float64) *Chromosome {
	ch := newChromosome(genes)
	ch.setFitness(fitness)
	return ch
}

func sorted(genes ...[]int64) []int64 {
	all := make([]int64, 0)
	for _, g := range genes {
		all = append(all, g...)
	}
	slices.Sort(all)
	return all
}

func TestOnePointCrossover_TwoGenesAlwaysCutsInTheMiddle(t *testing.T) {
	ch1 := evaluated([]int64{1, 2}, 10)
	ch2 := evaluated([]int64{3, 4}, 20)

	OnePointCrossover{}.Cross(ch1, ch2, newTestRand(1))

	assert.Equal(t, []int64{1, 4}, ch1.Genes())
	assert.Equal(t, []int64{3, 2}, ch2.Genes())

	_, valid1 := ch1.Fitness()
	_, valid2 := ch2.Fitness()
	assert.False(t, valid1)
	assert.False(t, valid2)
}

func TestOnePointCrossover_PreservesLengthAndGenes(t *testing.T) {
	rng := newTestRand(42)

	for trial := 0; trial < 200; trial++ {
		length := rng.IntN(20) + 2
		parent1 := make([]int64, length)
		parent2 := make([]int64, length)
		for i := range parent1 {
			parent1[i] = rng.Int64N(5)
			parent2[i] = rng.Int64N(5) + 10
		}

		ch1 := newChromosome(slices.Clone(parent1))
		ch2 := newChromosome(slices.Clone(parent2))
		OnePointCrossover{}.Cross(ch1, ch2, rng)

		require.Equal(t, length, ch1.Len())
		require.Equal(t, length, ch2.Len())
		require.Equal(t, sorted(parent1, parent2), sorted(ch1.genes, ch2.genes))

		// 切点之前保持不变，切点之后完全交换，且切点在 [1, length-1] 中
		point := 0
		for point < length && ch1.genes[point] == parent1[point] {
			point++
		}
		require.GreaterOrEqual(t, point, 1)
		require.Less(t, point, length)
		require.Equal(t, parent1[:point], ch1.genes[:point])
		require.Equal(t, parent2[point:], ch1.genes[point:])
		require.Equal(t, parent2[:point], ch2.genes[:point])
		require.Equal(t, parent1[point:], ch2.genes[point:])
	}
}

func TestOnePointCrossover_SingleGeneIsUnchanged(t *testing.T) {
	ch1 := evaluated([]int64{1}, 1)
	ch2 := evaluated([]int64{2}, 2)

	OnePointCrossover{}.Cross(ch1, ch2, newTestRand(7))

	assert.Equal(t, []int64{1}, ch1.Genes())
	assert.Equal(t, []int64{2}, ch2.Genes())
}

func TestShuffleIndexMutator_SwapsAreSequential(t *testing.T) {
	// 长度为 2 时，位置 0 和位置 1 依次与对方交换，最终回到原样
	ch := evaluated([]int64{1, 2}, 5)

	mutated := (&ShuffleIndexMutator{Rate: 1}).Mutate(ch, newTestRand(3))

	assert.True(t, mutated)
	assert.Equal(t, []int64{1, 2}, ch.Genes())
	_, valid := ch.Fitness()
	assert.False(t, valid)
}

func TestShuffleIndexMutator_ZeroRateKeepsFitness(t *testing.T) {
	ch := evaluated([]int64{1, 2, 3, 4}, 5)

	mutated := (&ShuffleIndexMutator{Rate: 0}).Mutate(ch, newTestRand(3))

	assert.False(t, mutated)
	assert.Equal(t, []int64{1, 2, 3, 4}, ch.Genes())
	fitness, valid := ch.Fitness()
	assert.True(t, valid)
	assert.Equal(t, 5.0, fitness)
}

func TestShuffleIndexMutator_OnlyPermutesGenes(t *testing.T) {
	rng := newTestRand(9)
	mutator := &ShuffleIndexMutator{Rate: 0.5}

	for trial := 0; trial < 200; trial++ {
		length := rng.IntN(20) + 1
		original := make([]int64, length)
		for i := range original {
			original[i] = rng.Int64N(6) + 1
		}

		ch := evaluated(slices.Clone(original), 0)
		mutated := mutator.Mutate(ch, rng)

		require.Equal(t, length, ch.Len())
		require.Equal(t, sorted(original), sorted(ch.genes))
		_, valid := ch.Fitness()
		require.Equal(t, !mutated, valid)
		if length == 1 {
			require.False(t, mutated)
		}
	}
}

func TestTournamentSelector_ReturnsIndependentCopies(t *testing.T) {
	pop := []*Chromosome{evaluated([]int64{7, 8}, 1)}

	selected := (&TournamentSelector{Size: 3}).Select(pop, 4, newTestRand(5))

	require.Len(t, selected, 4)
	for _, ch := range selected {
		assert.NotSame(t, pop[0], ch)
		assert.Equal(t, []int64{7, 8}, ch.Genes())
	}

	selected[0].SetGene(0, 99)
	assert.Equal(t, []int64{7, 8}, pop[0].Genes())
	assert.Equal(t, []int64{7, 8}, selected[1].Genes())
}

func TestTournamentSelector_PrefersFitterCandidates(t *testing.T) {
	pop := []*Chromosome{
		evaluated([]int64{1}, -10),
		evaluated([]int64{2}, 40),
		evaluated([]int64{3}, 5),
		evaluated([]int64{4}, 0),
	}

	// 规模足够大时几乎每场锦标赛都会抽到最优个体
	selected := (&TournamentSelector{Size: 200}).Select(pop, 10, newTestRand(11))
	for _, ch := range selected {
		assert.Equal(t, []int64{2}, ch.Genes())
	}

	// 任何规模下都不可能选出比最差个体更差的个体，且被选中的个体都来自原种群
	selected = (&TournamentSelector{Size: 2}).Select(pop, 50, newTestRand(12))
	require.Len(t, selected, 50)
	for _, ch := range selected {
		fitness, valid := ch.Fitness()
		assert.True(t, valid)
		assert.Contains(t, []float64{-10, 40, 5, 0}, fitness)
	}
}
