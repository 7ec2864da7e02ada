package allocator

// summarize 统计一代种群的适应度，种群中所有个体的适应度必须有效
func summarize(gen int, nevals int, pop []*Chromosome) GenerationRecord {
	record := GenerationRecord{
		Generation:  gen,
		Evaluations: nevals,
		Min:         pop[0].fitness,
		Max:         pop[0].fitness,
	}

	sum := 0.0
	for _, ch := range pop {
		sum += ch.fitness
		record.Min = min(record.Min, ch.fitness)
		record.Max = max(record.Max, ch.fitness)
	}
	record.Avg = sum / float64(len(pop))

	return record
}

// selectBest 返回种群中适应度最高的个体，并列时返回下标最小的
func selectBest(pop []*Chromosome) *Chromosome {
	best := pop[0]
	for _, ch := range pop[1:] {
		if ch.fitness > best.fitness {
			best = ch
		}
	}
	return best
}
