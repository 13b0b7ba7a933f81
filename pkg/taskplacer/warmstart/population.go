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

// Package warmstart builds the initial population for a cluster.
//
// The population starts with a baseline chromosome that replicates the
// initial placement wherever the original server survived fault injection,
// followed by randomized feasible chromosomes that give the search diversity.
package warmstart

import (
	"golang.org/x/exp/rand"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/constraints"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/faults"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// Config controls initial population generation.
type Config struct {
	PopulationSize     int
	FailureProbability float64
}

// GenerateChromosome builds one chromosome against an already fault-injected
// server snapshot.
//
// With useOrig set, a task stays on its original server when that server is
// still active. Otherwise the task goes to a random active server with enough
// remaining CPU, or to any active server when none fits. Tasks are dropped
// only when the cluster has no active server at all. Feasibility is checked
// per task against the unconsumed snapshot.
func GenerateChromosome(tasks []framework.Task, servers framework.Servers, useOrig bool, rng *rand.Rand) framework.Chromosome {
	active := servers.Active()
	chromosome := make(framework.Chromosome, 0, len(tasks))

	for _, task := range tasks {
		if len(active) == 0 {
			continue
		}

		var serverID string
		placed := false
		if useOrig {
			if orig, ok := servers.Find(task.OrigServer); ok && orig.Active() {
				serverID, placed = orig.ID, true
			}
		}
		if !placed {
			eligible := constraints.EligibleServers(active, task.Complexity)
			if len(eligible) == 0 {
				eligible = active // allow infeasible if none fit
			}
			serverID = eligible[rng.Intn(len(eligible))].ID
		}

		chromosome = append(chromosome, framework.Gene{
			DeviceID:   task.DeviceID,
			TaskName:   task.Name,
			Complexity: task.Complexity,
			ServerID:   serverID,
		})
	}

	return chromosome
}

// GenerateInitialPopulation fault-injects a private copy of servers and
// builds one baseline chromosome followed by PopulationSize-1 random ones,
// all against that copy. The fault-injected snapshot is returned so later
// stages see the same failures.
func GenerateInitialPopulation(tasks []framework.Task, servers framework.Servers, config Config, rng *rand.Rand) (framework.Population, framework.Servers) {
	faulted := faults.Inject(servers.Clone(), config.FailureProbability, rng)

	population := make(framework.Population, 0, config.PopulationSize)
	if config.PopulationSize <= 0 {
		return population, faulted
	}

	population = append(population, GenerateChromosome(tasks, faulted, true, rng))
	for i := 1; i < config.PopulationSize; i++ {
		population = append(population, GenerateChromosome(tasks, faulted, false, rng))
	}

	return population, faulted
}
