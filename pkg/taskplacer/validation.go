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
	"math"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/algorithms"
)

// ValidateTaskPlacerArgs validates defaulted arguments. All problems are
// reported together.
func ValidateTaskPlacerArgs(obj runtime.Object) error {
	args := obj.(*TaskPlacerArgs)
	var errs field.ErrorList

	if args.PopulationSize < 2 {
		errs = append(errs, field.Invalid(field.NewPath("populationSize"), args.PopulationSize, "must be at least 2"))
	}
	if args.Generations < 1 {
		errs = append(errs, field.Invalid(field.NewPath("generations"), args.Generations, "must be at least 1"))
	}
	if args.MaxParentAttempts < 1 {
		errs = append(errs, field.Invalid(field.NewPath("maxParentAttempts"), args.MaxParentAttempts, "must be at least 1"))
	}

	if args.Weights == nil {
		errs = append(errs, field.Required(field.NewPath("weights"), ""))
	} else {
		weightsPath := field.NewPath("weights")
		for _, w := range []struct {
			name  string
			value float64
		}{
			{"cpu", args.Weights.CPU},
			{"ram", args.Weights.RAM},
			{"bandwidth", args.Weights.Bandwidth},
			{"throughput", args.Weights.Throughput},
		} {
			if math.IsNaN(w.value) || w.value < 0 {
				errs = append(errs, field.Invalid(weightsPath.Child(w.name), w.value, "must not be negative"))
			}
		}
	}

	errs = append(errs, validateProbability(field.NewPath("mutationRate"), args.MutationRate)...)
	errs = append(errs, validateProbability(field.NewPath("failureProbability"), args.FailureProbability)...)

	if args.FailurePenalty == nil {
		errs = append(errs, field.Required(field.NewPath("failurePenalty"), ""))
	} else if math.IsNaN(*args.FailurePenalty) || *args.FailurePenalty > 0 {
		errs = append(errs, field.Invalid(field.NewPath("failurePenalty"), *args.FailurePenalty, "must not be positive"))
	}

	if _, err := algorithms.CrossoverByName(args.Crossover); err != nil {
		errs = append(errs, field.NotSupported(field.NewPath("crossover"), args.Crossover,
			[]string{algorithms.CrossoverOnePoint, algorithms.CrossoverTwoPoint, algorithms.CrossoverUniform}))
	}
	if _, err := algorithms.ParseNegativeFitnessPolicy(args.NegativeFitnessPolicy); err != nil {
		errs = append(errs, field.NotSupported(field.NewPath("negativeFitnessPolicy"), args.NegativeFitnessPolicy,
			[]string{string(algorithms.ShiftNegativeFitness), string(algorithms.ClampNegativeFitness)}))
	}

	return errs.ToAggregate()
}

func validateProbability(path *field.Path, value *float64) field.ErrorList {
	if value == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if math.IsNaN(*value) || *value < 0 || *value > 1 {
		return field.ErrorList{field.Invalid(path, *value, "must be between 0 and 1")}
	}
	return nil
}
