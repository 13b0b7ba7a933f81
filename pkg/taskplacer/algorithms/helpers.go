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
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// BestIndex returns the index of the highest score. Ties go to the first
// occurrence; an empty slice yields -1.
func BestIndex(scores []float64) int {
	best := -1
	for i, s := range scores {
		if best == -1 || s > scores[best] {
			best = i
		}
	}
	return best
}

// Best returns the fittest chromosome and its score.
func Best(pop framework.Population, scores []float64) (framework.Chromosome, float64, bool) {
	idx := BestIndex(scores)
	if idx < 0 || idx >= len(pop) {
		return nil, 0, false
	}
	return pop[idx], scores[idx], true
}

// ClonePopulation deep-copies a population.
func ClonePopulation(pop framework.Population) framework.Population {
	out := make(framework.Population, len(pop))
	for i, chrom := range pop {
		out[i] = chrom.Clone()
	}
	return out
}
