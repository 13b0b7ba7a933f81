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
	"golang.org/x/exp/rand"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/constraints"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// DefaultMutationRate is the per-gene mutation probability.
const DefaultMutationRate = 0.20

// Mutate returns a new chromosome in which each gene, with probability rate,
// moves to a random active server that can fit it. Genes with no eligible
// server keep their assignment. The server snapshot is copied on every call
// so concurrent mutations never share state.
func Mutate(chrom framework.Chromosome, servers framework.Servers, rate float64, rng *rand.Rand) framework.Chromosome {
	snapshot := servers.Clone()
	active := snapshot.Active()

	mutated := make(framework.Chromosome, len(chrom))
	for i, gene := range chrom {
		mutated[i] = gene
		if rng.Float64() >= rate {
			continue
		}

		eligible := constraints.EligibleServers(active, gene.Complexity)
		if len(eligible) == 0 {
			continue
		}
		mutated[i].ServerID = eligible[rng.Intn(len(eligible))].ID
	}
	return mutated
}
