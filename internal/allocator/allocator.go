package allocator

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidInput = errors.New("输入参数非法")

type Allocator struct {
	parameters   *Parameters
	professors   []*domain.Professor
	offerings    []*domain.Offering // 顺序决定了基因位
	professorIDs []int64
	index        *snapshotIndex
	rng          *rand.Rand

	selector  Selector
	crossover Crossover
	mutator   Mutator
}

type Option func(a *Allocator)

func WithSelector(selector Selector) Option {
	return func(a *Allocator) { a.selector = selector }
}

func WithCrossover(crossover Crossover) Option {
	return func(a *Allocator) { a.crossover = crossover }
}

func WithMutator(mutator Mutator) Option {
	return func(a *Allocator) { a.mutator = mutator }
}

// WithRand 指定随机数来源，会忽略 parameters.Seed
func WithRand(rng *rand.Rand) Option {
	return func(a *Allocator) { a.rng = rng }
}

// New 校验输入并创建分配器，professors 和 offerings 在运行期间不能被修改
func New(parameters *Parameters, professors []*domain.Professor, offerings []*domain.Offering, opts ...Option) (*Allocator, error) {
	if parameters == nil {
		parameters = DefaultParameters()
	}
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	if len(offerings) == 0 {
		return nil, fmt.Errorf("%w: 没有待分配的开课", ErrInvalidInput)
	}
	if len(professors) == 0 {
		return nil, fmt.Errorf("%w: 没有可分配的教师", ErrInvalidInput)
	}

	a := &Allocator{
		parameters:   parameters,
		professors:   professors,
		offerings:    offerings,
		professorIDs: make([]int64, len(professors)),
		index:        newSnapshotIndex(professors, offerings),

		selector:  &TournamentSelector{Size: int(parameters.TournamentSize)},
		crossover: OnePointCrossover{},
		mutator:   &ShuffleIndexMutator{Rate: parameters.GeneSwapRate},
	}

	for i, professor := range professors {
		a.professorIDs[i] = professor.ID
	}

	if parameters.Seed == 0 {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		a.rng = rand.New(rand.NewPCG(parameters.Seed, parameters.Seed))
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

func validateParameters(p *Parameters) error {
	switch {
	case p.Generations < 1:
		return fmt.Errorf("%w: 迭代次数必须为正整数", ErrInvalidInput)
	case p.PopulationSize < 1:
		return fmt.Errorf("%w: 种群大小必须为正整数", ErrInvalidInput)
	case p.TournamentSize < 1:
		return fmt.Errorf("%w: 锦标赛规模必须为正整数", ErrInvalidInput)
	case p.Workers < 1:
		return fmt.Errorf("%w: 并行数必须为正整数", ErrInvalidInput)
	case !isProbability(p.CrossoverRate):
		return fmt.Errorf("%w: 交叉概率必须在 [0, 1] 之间", ErrInvalidInput)
	case !isProbability(p.MutationRate):
		return fmt.Errorf("%w: 变异概率必须在 [0, 1] 之间", ErrInvalidInput)
	case !isProbability(p.GeneSwapRate):
		return fmt.Errorf("%w: 基因交换概率必须在 [0, 1] 之间", ErrInvalidInput)
	}
	return nil
}

func isProbability(v float64) bool {
	// NaN 不满足任何比较
	return v >= 0 && v <= 1
}

// randomInitChromosome 每个基因位独立地从所有教师中均匀选择
func (a *Allocator) randomInitChromosome() *Chromosome {
	genes := make([]int64, len(a.offerings))
	for i := range genes {
		genes[i] = a.professorIDs[a.rng.IntN(len(a.professorIDs))]
	}
	return newChromosome(genes)
}

// evaluateInvalid 并行计算所有适应度失效的个体，返回计算的个数
// 计算过程只读取快照索引和个体自身，不涉及随机数
func (a *Allocator) evaluateInvalid(pop []*Chromosome) int {
	var g errgroup.Group
	g.SetLimit(int(a.parameters.Workers))

	n := 0
	for _, ch := range pop {
		if ch.valid {
			continue
		}
		n++
		g.Go(func() error {
			ch.setFitness(a.index.evaluate(ch.genes))
			return nil
		})
	}
	_ = g.Wait()

	return n
}

// Allocate 运行遗传算法
// 每一代的新种群完全替换旧种群（不保留精英），因此结果只从最后一代中选出
func (a *Allocator) Allocate() (*Result, error) {
	// 生成初始种群
	pop := make([]*Chromosome, a.parameters.PopulationSize)
	for i := range pop {
		pop[i] = a.randomInitChromosome()
	}
	nevals := a.evaluateInvalid(pop)

	log := make([]GenerationRecord, 0, a.parameters.Generations+1)
	log = append(log, summarize(0, nevals, pop))

	// 迭代
	for gen := 1; gen <= int(a.parameters.Generations); gen++ {
		offspring := a.selector.Select(pop, len(pop), a.rng)

		// 相邻的两个个体为一对进行交叉，落单的最后一个个体保持不变
		for i := 1; i < len(offspring); i += 2 {
			if a.rng.Float64() < a.parameters.CrossoverRate {
				a.crossover.Cross(offspring[i-1], offspring[i], a.rng)
			}
		}

		for _, ch := range offspring {
			if a.rng.Float64() < a.parameters.MutationRate {
				a.mutator.Mutate(ch, a.rng)
			}
		}

		nevals = a.evaluateInvalid(offspring)
		pop = offspring

		record := summarize(gen, nevals, pop)
		log = append(log, record)

		slog.Debug("完成一代进化", "gen", record.Generation, "nevals", record.Evaluations, "avg", record.Avg, "min", record.Min, "max", record.Max)
	}

	best := selectBest(pop)

	// 检查一下结果是否满足基本约束
	if err := a.validateChromosome(best); err != nil {
		return nil, err
	}

	return &Result{
		Best:        best.Genes(),
		BestFitness: best.fitness,
		Log:         log,
	}, nil
}

func (a *Allocator) validateChromosome(ch *Chromosome) error {
	if len(ch.genes) != len(a.offerings) {
		return fmt.Errorf("分配方案的长度 %d 与开课数量 %d 不一致", len(ch.genes), len(a.offerings))
	}
	for i, professorID := range ch.genes {
		if _, exists := a.index.position[professorID]; !exists {
			return fmt.Errorf("第 %d 门开课分配的教师 %d 不存在", i+1, professorID)
		}
	}
	return nil
}
