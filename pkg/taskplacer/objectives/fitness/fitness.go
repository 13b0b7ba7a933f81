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

package fitness

import (
	"math"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// DefaultFailurePenalty is added once per gene placed on a failed server.
const DefaultFailurePenalty = -1000.0

// Config contains the resource weights and the failure penalty.
type Config struct {
	Weights        framework.Weights
	FailurePenalty float64
}

// DefaultConfig returns the weights used by the reference dashboard.
func DefaultConfig() Config {
	return Config{
		Weights: framework.Weights{
			CPU:        0.1,
			RAM:        0.3,
			Bandwidth:  0.2,
			Throughput: 0.4,
		},
		FailurePenalty: DefaultFailurePenalty,
	}
}

// ServerScore is the weighted value of one active reference server.
type ServerScore struct {
	ServerID     string
	UsedCPU      float64
	AvailableCPU float64
	Score        float64
}

// Result contains detailed fitness metrics
type Result struct {
	RawFitness        float64
	BestServer        string
	FailedAssignments int
	Penalty           float64
	Fitness           float64
	ServerScores      []ServerScore
}

// Evaluate scores a chromosome against the frozen reference snapshot.
func Evaluate(chrom framework.Chromosome, reference framework.Servers, config Config) float64 {
	return evaluate(chrom, reference, config).Fitness
}

// EvaluateWithDetails returns both the fitness and the per-server breakdown.
func EvaluateWithDetails(chrom framework.Chromosome, reference framework.Servers, config Config) (float64, Result) {
	result := evaluate(chrom, reference, config)
	return result.Fitness, result
}

// EvaluatePopulation scores every chromosome. Scores are index-aligned with
// the population.
func EvaluatePopulation(pop framework.Population, reference framework.Servers, config Config) []float64 {
	scores := make([]float64, len(pop))
	for i, chrom := range pop {
		scores[i] = Evaluate(chrom, reference, config)
	}
	return scores
}

// ObjectiveFunc returns a closure over the reference snapshot for use by the
// evolution loop. The reference is cloned once so later changes by the caller
// cannot shift the scale between generations.
func ObjectiveFunc(reference framework.Servers, config Config) func(framework.Chromosome) float64 {
	ref := reference.Clone()
	return func(chrom framework.Chromosome) float64 {
		return Evaluate(chrom, ref, config)
	}
}

// evaluate computes the best-server heuristic: the chromosome is worth the
// highest weighted residual value over all active servers, minus the penalty
// for every gene landing on a failed server.
func evaluate(chrom framework.Chromosome, reference framework.Servers, config Config) Result {
	used := make(map[string]float64, len(reference))
	for _, gene := range chrom {
		used[gene.ServerID] += gene.Complexity
	}

	result := Result{
		RawFitness: math.Inf(-1),
	}
	w := config.Weights
	for _, srv := range reference {
		if !srv.Active() {
			continue
		}

		available := math.Max(0, srv.CPU-used[srv.ID])
		fs := w.CPU*available +
			w.RAM*srv.RAM +
			w.Bandwidth*srv.Bandwidth +
			w.Throughput*srv.Throughput

		result.ServerScores = append(result.ServerScores, ServerScore{
			ServerID:     srv.ID,
			UsedCPU:      used[srv.ID],
			AvailableCPU: available,
			Score:        fs,
		})
		if fs > result.RawFitness {
			result.RawFitness = fs
			result.BestServer = srv.ID
		}
	}

	for _, gene := range chrom {
		if srv, ok := reference.Find(gene.ServerID); ok && !srv.Active() {
			result.FailedAssignments++
		}
	}
	if result.FailedAssignments > 0 {
		result.Penalty = float64(result.FailedAssignments) * config.FailurePenalty
	}

	result.Fitness = result.RawFitness + result.Penalty
	return result
}
