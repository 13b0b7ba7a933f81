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
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// NegativeFitnessPolicy controls how roulette selection turns fitness scores
// that are negative or infinite into selection weights.
type NegativeFitnessPolicy string

const (
	// ShiftNegativeFitness subtracts the lowest finite score from every
	// score when that score is negative, so the worst chromosome gets weight
	// zero. Non-finite scores always get weight zero.
	ShiftNegativeFitness NegativeFitnessPolicy = "shift"
	// ClampNegativeFitness treats every negative score as zero.
	ClampNegativeFitness NegativeFitnessPolicy = "clamp"
)

// ParseNegativeFitnessPolicy validates a policy name. Empty selects shift.
func ParseNegativeFitnessPolicy(name string) (NegativeFitnessPolicy, error) {
	switch NegativeFitnessPolicy(name) {
	case "", ShiftNegativeFitness:
		return ShiftNegativeFitness, nil
	case ClampNegativeFitness:
		return ClampNegativeFitness, nil
	}
	return "", fmt.Errorf("unknown negative fitness policy %q", name)
}

// RouletteSelection samples numParents chromosomes.
//
// When the scores sum to exactly zero, parents are drawn uniformly without
// replacement. Otherwise they are drawn with replacement, proportionally to
// their share of the total. Scores that are negative or infinite are first
// mapped to non-negative weights according to policy.
func RouletteSelection(pop framework.Population, scores []float64, numParents int, policy NegativeFitnessPolicy, rng *rand.Rand) framework.Population {
	selected := make(framework.Population, 0, numParents)
	if len(pop) == 0 || numParents <= 0 {
		return selected
	}

	total := 0.0
	for _, s := range scores {
		total += s
	}

	if total == 0 {
		if numParents <= len(pop) {
			for _, idx := range rng.Perm(len(pop))[:numParents] {
				selected = append(selected, pop[idx])
			}
			return selected
		}
		return uniformWithReplacement(pop, numParents, rng)
	}

	weights := selectionWeights(scores, policy)
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return uniformWithReplacement(pop, numParents, rng)
	}

	for k := 0; k < numParents; k++ {
		target := rng.Float64() * sum
		acc := 0.0
		idx := len(pop) - 1
		for i, w := range weights {
			acc += w
			if target < acc {
				idx = i
				break
			}
		}
		selected = append(selected, pop[idx])
	}

	return selected
}

// selectionWeights maps fitness scores to non-negative roulette weights.
// Non-negative finite scores are used as they are.
func selectionWeights(scores []float64, policy NegativeFitnessPolicy) []float64 {
	weights := make([]float64, len(scores))

	minFinite := math.Inf(1)
	needsAdjust := false
	for _, s := range scores {
		if math.IsInf(s, 0) || math.IsNaN(s) || s < 0 {
			needsAdjust = true
		}
		if !math.IsInf(s, 0) && !math.IsNaN(s) && s < minFinite {
			minFinite = s
		}
	}

	for i, s := range scores {
		switch {
		case math.IsNaN(s) || math.IsInf(s, 0):
			weights[i] = 0
		case !needsAdjust:
			weights[i] = s
		case policy == ClampNegativeFitness:
			weights[i] = math.Max(0, s)
		default:
			weights[i] = s - math.Min(0, minFinite)
		}
	}
	return weights
}

func uniformWithReplacement(pop framework.Population, n int, rng *rand.Rand) framework.Population {
	selected := make(framework.Population, 0, n)
	for i := 0; i < n; i++ {
		selected = append(selected, pop[rng.Intn(len(pop))])
	}
	return selected
}
