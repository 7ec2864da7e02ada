package allocator

// Chromosome: 一个完整的分配方案
// genes[i] 是分配给 offerings[i] 的教师 ID，同一个教师可以出现多次，也可以一次都不出现
type Chromosome struct {
	genes   []int64
	fitness float64
	valid   bool // fitness 是否与当前 genes 对应
}

func newChromosome(genes []int64) *Chromosome {
	return &Chromosome{genes: genes}
}

// Genes 返回基因序列的副本
func (ch *Chromosome) Genes() []int64 {
	genes := make([]int64, len(ch.genes))
	copy(genes, ch.genes)
	return genes
}

func (ch *Chromosome) Len() int {
	return len(ch.genes)
}

func (ch *Chromosome) Gene(i int) int64 {
	return ch.genes[i]
}

// SetGene 修改第 i 个基因，缓存的适应度随之失效
func (ch *Chromosome) SetGene(i int, professorID int64) {
	ch.genes[i] = professorID
	ch.invalidate()
}

// Fitness 返回缓存的适应度，第二个返回值表示缓存是否有效
func (ch *Chromosome) Fitness() (float64, bool) {
	return ch.fitness, ch.valid
}

func (ch *Chromosome) setFitness(fitness float64) {
	ch.fitness = fitness
	ch.valid = true
}

func (ch *Chromosome) invalidate() {
	ch.valid = false
}

func (ch *Chromosome) clone() *Chromosome {
	return &Chromosome{
		genes:   append([]int64(nil), ch.genes...),
		fitness: ch.fitness,
		valid:   ch.valid,
	}
}

// 遗传算法参数
type Parameters struct {
	Generations    int32   `json:"generations"`    // 迭代次数
	PopulationSize int32   `json:"populationSize"` // 种群大小
	CrossoverRate  float64 `json:"crossoverRate"`  // 每对个体发生交叉的概率
	MutationRate   float64 `json:"mutationRate"`   // 每个个体发生变异的概率
	TournamentSize int32   `json:"tournamentSize"` // 锦标赛规模
	GeneSwapRate   float64 `json:"geneSwapRate"`   // 变异时每个基因位发生交换的概率
	Workers        int32   `json:"workers"`        // 并行计算适应度的 goroutine 数量
	Seed           uint64  `json:"seed"`           // 随机数种子，0 表示使用系统熵
}

func DefaultParameters() *Parameters {
	return &Parameters{
		Generations:    50,
		PopulationSize: 100,
		CrossoverRate:  0.7,
		MutationRate:   0.2,
		TournamentSize: 3,
		GeneSwapRate:   0.05,
		Workers:        4,
		Seed:           0,
	}
}

// GenerationRecord 记录某一代种群的适应度统计
type GenerationRecord struct {
	Generation  int     `json:"generation"`
	Evaluations int     `json:"evaluations"` // 本代重新计算适应度的个体数
	Avg         float64 `json:"avg"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// Result 是一次运行的输出
type Result struct {
	Best        []int64            `json:"best"`
	BestFitness float64            `json:"bestFitness"`
	Log         []GenerationRecord `json:"log"`
}
