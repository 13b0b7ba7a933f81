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

package taskplacer

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// TaskPlacerArgs holds the arguments used to configure a placement run.
type TaskPlacerArgs struct {
	metav1.TypeMeta `json:",inline"`

	// PopulationSize is the number of chromosomes per cluster and generation.
	PopulationSize int `json:"populationSize,omitempty"`
	// Generations is the exact number of generations evolved per cluster.
	Generations int `json:"generations,omitempty"`

	Weights *WeightConfig `json:"weights,omitempty"`

	MutationRate       *float64 `json:"mutationRate,omitempty"`
	FailureProbability *float64 `json:"failureProbability,omitempty"`
	// FailurePenalty is added to a chromosome's fitness once per task placed
	// on a failed server. Must not be positive.
	FailurePenalty *float64 `json:"failurePenalty,omitempty"`

	// MaxParentAttempts bounds the retries spent drawing two distinct parents.
	MaxParentAttempts int `json:"maxParentAttempts,omitempty"`
	// Crossover is one of one-point, two-point or uniform.
	Crossover string `json:"crossover,omitempty"`
	// NegativeFitnessPolicy is shift or clamp.
	NegativeFitnessPolicy string `json:"negativeFitnessPolicy,omitempty"`

	// Seed makes runs reproducible. Zero picks a time-based seed.
	Seed uint64 `json:"seed,omitempty"`
	// Parallel optimizes clusters concurrently.
	Parallel bool `json:"parallel,omitempty"`
}

// WeightConfig holds the fitness weight per resource. Weights need not sum
// to one.
type WeightConfig struct {
	CPU        float64 `json:"cpu"`
	RAM        float64 `json:"ram"`
	Bandwidth  float64 `json:"bandwidth"`
	Throughput float64 `json:"throughput"`
}
