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
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/algorithms"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/objectives/fitness"
)

const (
	DefaultPopulationSize     = 10
	DefaultGenerations        = 10
	DefaultFailureProbability = 0.5
)

func addDefaultingFuncs(scheme *runtime.Scheme) error {
	return RegisterDefaults(scheme)
}

func RegisterDefaults(scheme *runtime.Scheme) error {
	klog.V(5).InfoS("Registering defaults", "kind", "TaskPlacerArgs")
	scheme.AddTypeDefaultingFunc(&TaskPlacerArgs{}, func(obj interface{}) {
		SetDefaults_TaskPlacerArgs(obj.(*TaskPlacerArgs))
	})
	return nil
}

func SetDefaults_TaskPlacerArgs(obj runtime.Object) {
	args := obj.(*TaskPlacerArgs)

	if args.PopulationSize == 0 {
		args.PopulationSize = DefaultPopulationSize
	}
	if args.Generations == 0 {
		args.Generations = DefaultGenerations
	}
	if args.Weights == nil {
		w := fitness.DefaultConfig().Weights
		args.Weights = &WeightConfig{
			CPU:        w.CPU,
			RAM:        w.RAM,
			Bandwidth:  w.Bandwidth,
			Throughput: w.Throughput,
		}
	}
	if args.MutationRate == nil {
		args.MutationRate = ptr.To(algorithms.DefaultMutationRate)
	}
	if args.FailureProbability == nil {
		args.FailureProbability = ptr.To(DefaultFailureProbability)
	}
	if args.FailurePenalty == nil {
		args.FailurePenalty = ptr.To(fitness.DefaultFailurePenalty)
	}
	if args.MaxParentAttempts == 0 {
		args.MaxParentAttempts = algorithms.DefaultMaxParentAttempts
	}
	if args.Crossover == "" {
		args.Crossover = algorithms.CrossoverTwoPoint
	}
	if args.NegativeFitnessPolicy == "" {
		args.NegativeFitnessPolicy = string(algorithms.ShiftNegativeFitness)
	}
}
