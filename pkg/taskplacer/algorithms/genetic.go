/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package algorithms

import (
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

const (
	Name = "GA"

	// DefaultMaxParentAttempts bounds the retries spent looking for two
	// distinct parents.
	DefaultMaxParentAttempts = 10
)

// ObjectiveFunc scores a chromosome. Higher is better.
type ObjectiveFunc func(framework.Chromosome) float64

// GAConfig holds configuration parameters for the genetic algorithm
type GAConfig struct {
	PopulationSize    int
	MaxGenerations    int
	MutationRate      float64
	MaxParentAttempts int
	Crossover         CrossoverFunc
	NegativeFitness   NegativeFitnessPolicy
}

// Generation is the state of a population after one round of evolution.
type Generation struct {
	Index       int
	Population  framework.Population
	Scores      []float64
	BestIndex   int
	BestFitness float64
}

// Result is the terminal state of a run.
type Result struct {
	Generations []Generation
	Population  framework.Population
	Scores      []float64
	Best        framework.Chromosome
	BestFitness float64
}

// GeneticAlgorithm evolves the population of a single cluster.
type GeneticAlgorithm struct {
	PopSize           int
	NumGenerations    int
	MutationRate      float64
	MaxParentAttempts int
	Crossover         CrossoverFunc
	NegativeFitness   NegativeFitnessPolicy

	// Servers is the snapshot mutation draws eligible servers from. It is
	// never modified; every mutation works on its own copy.
	Servers   framework.Servers
	Objective ObjectiveFunc

	logger   klog.Logger
	observer func(Generation)
}

// NewGeneticAlgorithm creates a new instance of the GA with given parameters
func NewGeneticAlgorithm(config GAConfig, servers framework.Servers, objective ObjectiveFunc) *GeneticAlgorithm {
	crossover := config.Crossover
	if crossover == nil {
		crossover = TwoPointCrossover
	}
	attempts := config.MaxParentAttempts
	if attempts <= 0 {
		attempts = DefaultMaxParentAttempts
	}
	policy := config.NegativeFitness
	if policy == "" {
		policy = ShiftNegativeFitness
	}

	return &GeneticAlgorithm{
		PopSize:           config.PopulationSize,
		NumGenerations:    config.MaxGenerations,
		MutationRate:      config.MutationRate,
		MaxParentAttempts: attempts,
		Crossover:         crossover,
		NegativeFitness:   policy,
		Servers:           servers.Clone(),
		Objective:         objective,
		logger:            klog.Background(),
	}
}

// WithLogger sets the logger used for progress reporting.
func (g *GeneticAlgorithm) WithLogger(logger klog.Logger) *GeneticAlgorithm {
	g.logger = logger
	return g
}

// OnGeneration registers a callback invoked after every generation.
func (g *GeneticAlgorithm) OnGeneration(fn func(Generation)) *GeneticAlgorithm {
	g.observer = fn
	return g
}

// EvaluatePopulation scores every chromosome with the objective.
func (g *GeneticAlgorithm) EvaluatePopulation(pop framework.Population) []float64 {
	scores := make([]float64, len(pop))
	for i, chrom := range pop {
		scores[i] = g.Objective(chrom)
	}
	return scores
}

// Evolve produces the next generation: the fittest chromosome is carried
// over unchanged, and the rest are children of roulette-selected parents,
// crossed over and then mutated.
func (g *GeneticAlgorithm) Evolve(pop framework.Population, scores []float64, rng *rand.Rand) framework.Population {
	next := make(framework.Population, 0, g.PopSize)
	if len(pop) == 0 {
		return next
	}

	if best := BestIndex(scores); best >= 0 {
		next = append(next, pop[best].Clone())
	}

	for len(next) < g.PopSize {
		parent1, parent2 := g.selectParents(pop, scores, rng)

		child, err := g.Crossover(parent1, parent2, rng)
		if err != nil {
			g.logger.Info("Crossover failed, carrying first parent", "err", err,
				"parent1Len", len(parent1), "parent2Len", len(parent2))
			child = parent1.Clone()
		}

		next = append(next, Mutate(child, g.Servers, g.MutationRate, rng))
	}

	return next
}

// selectParents draws two parents, retrying a bounded number of times to get
// distinct ones. An identical pair is accepted once the budget runs out.
func (g *GeneticAlgorithm) selectParents(pop framework.Population, scores []float64, rng *rand.Rand) (framework.Chromosome, framework.Chromosome) {
	for attempt := 1; ; attempt++ {
		parents := RouletteSelection(pop, scores, 2, g.NegativeFitness, rng)
		if !parents[0].Equal(parents[1]) || attempt >= g.MaxParentAttempts {
			return parents[0], parents[1]
		}
	}
}

// Run executes exactly NumGenerations generations starting from the given
// population. When scores is nil the initial population is evaluated first.
func (g *GeneticAlgorithm) Run(initial framework.Population, scores []float64, rng *rand.Rand) Result {
	startTime := time.Now()

	population := initial
	if scores == nil {
		scores = g.EvaluatePopulation(population)
	}

	g.logger.V(2).Info("Starting evolution",
		"algorithm", Name,
		"populationSize", g.PopSize,
		"generations", g.NumGenerations,
		"mutationRate", g.MutationRate,
		"negativeFitnessPolicy", g.NegativeFitness)

	generations := make([]Generation, 0, g.NumGenerations)
	for gen := 1; gen <= g.NumGenerations; gen++ {
		population = g.Evolve(population, scores, rng)
		scores = g.EvaluatePopulation(population)

		record := newGeneration(gen, population, scores)
		generations = append(generations, record)

		if gen%10 == 0 || gen <= 5 {
			g.logger.V(3).Info("Generation complete",
				"generation", gen,
				"bestFitness", record.BestFitness,
				"populationSize", len(population))
		}
		if g.observer != nil {
			g.observer(record)
		}
	}

	result := Result{
		Generations: generations,
		Population:  population,
		Scores:      scores,
	}
	if best, fitness, ok := Best(population, scores); ok {
		result.Best = best
		result.BestFitness = fitness
	}

	elapsed := time.Since(startTime)
	g.logger.V(2).Info("Evolution complete",
		"bestFitness", result.BestFitness,
		"elapsed", elapsed)

	return result
}

func newGeneration(index int, pop framework.Population, scores []float64) Generation {
	gen := Generation{
		Index:      index,
		Population: pop,
		Scores:     scores,
		BestIndex:  BestIndex(scores),
	}
	if gen.BestIndex >= 0 {
		gen.BestFitness = scores[gen.BestIndex]
	}
	return gen
}
