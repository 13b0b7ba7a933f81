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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"k8s.io/utils/ptr"
)

func TestSetDefaults_TaskPlacerArgs(t *testing.T) {
	tests := []struct {
		name string
		in   *TaskPlacerArgs
		want *TaskPlacerArgs
	}{
		{
			name: "empty args",
			in:   &TaskPlacerArgs{},
			want: &TaskPlacerArgs{
				PopulationSize:        10,
				Generations:           10,
				Weights:               &WeightConfig{CPU: 0.1, RAM: 0.3, Bandwidth: 0.2, Throughput: 0.4},
				MutationRate:          ptr.To(0.2),
				FailureProbability:    ptr.To(0.5),
				FailurePenalty:        ptr.To(-1000.0),
				MaxParentAttempts:     10,
				Crossover:             "two-point",
				NegativeFitnessPolicy: "shift",
			},
		},
		{
			name: "explicit zero rates are kept",
			in: &TaskPlacerArgs{
				PopulationSize:        4,
				Generations:           3,
				Weights:               &WeightConfig{RAM: 1},
				MutationRate:          ptr.To(0.0),
				FailureProbability:    ptr.To(0.0),
				FailurePenalty:        ptr.To(0.0),
				MaxParentAttempts:     2,
				Crossover:             "uniform",
				NegativeFitnessPolicy: "clamp",
				Seed:                  7,
				Parallel:              true,
			},
			want: &TaskPlacerArgs{
				PopulationSize:        4,
				Generations:           3,
				Weights:               &WeightConfig{RAM: 1},
				MutationRate:          ptr.To(0.0),
				FailureProbability:    ptr.To(0.0),
				FailurePenalty:        ptr.To(0.0),
				MaxParentAttempts:     2,
				Crossover:             "uniform",
				NegativeFitnessPolicy: "clamp",
				Seed:                  7,
				Parallel:              true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDefaults_TaskPlacerArgs(tt.in)
			if diff := cmp.Diff(tt.want, tt.in); diff != "" {
				t.Errorf("unexpected defaults (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateTaskPlacerArgs(t *testing.T) {
	valid := func() *TaskPlacerArgs {
		args := &TaskPlacerArgs{}
		SetDefaults_TaskPlacerArgs(args)
		return args
	}

	tests := []struct {
		name     string
		mutate   func(*TaskPlacerArgs)
		wantErrs []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*TaskPlacerArgs) {},
		},
		{
			name: "population and generations too small",
			mutate: func(a *TaskPlacerArgs) {
				a.PopulationSize = 1
				a.Generations = -1
			},
			wantErrs: []string{"populationSize", "generations"},
		},
		{
			name: "negative weight",
			mutate: func(a *TaskPlacerArgs) {
				a.Weights.Bandwidth = -0.1
			},
			wantErrs: []string{"weights.bandwidth"},
		},
		{
			name: "rates out of range",
			mutate: func(a *TaskPlacerArgs) {
				a.MutationRate = ptr.To(1.5)
				a.FailureProbability = ptr.To(-0.1)
			},
			wantErrs: []string{"mutationRate", "failureProbability"},
		},
		{
			name: "positive penalty",
			mutate: func(a *TaskPlacerArgs) {
				a.FailurePenalty = ptr.To(10.0)
			},
			wantErrs: []string{"failurePenalty"},
		},
		{
			name: "NaN values",
			mutate: func(a *TaskPlacerArgs) {
				a.Weights.CPU = math.NaN()
				a.MutationRate = ptr.To(math.NaN())
				a.FailureProbability = ptr.To(math.NaN())
				a.FailurePenalty = ptr.To(math.NaN())
			},
			wantErrs: []string{"weights.cpu", "mutationRate", "failureProbability", "failurePenalty"},
		},
		{
			name: "unknown operators",
			mutate: func(a *TaskPlacerArgs) {
				a.Crossover = "k-point"
				a.NegativeFitnessPolicy = "ignore"
			},
			wantErrs: []string{"crossover", "negativeFitnessPolicy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := valid()
			tt.mutate(args)
			err := ValidateTaskPlacerArgs(args)
			if len(tt.wantErrs) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected errors for %v", tt.wantErrs)
			}
			for _, want := range tt.wantErrs {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error to mention %q, got %v", want, err)
				}
			}
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	data := []byte(`
apiVersion: taskplacer.sigs.k8s.io/v1alpha1
kind: TaskPlacerArgs
populationSize: 20
mutationRate: 0
weights:
  cpu: 1
  ram: 0
  bandwidth: 0
  throughput: 0
seed: 42
`)
	args, err := DecodeArgs(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args.PopulationSize != 20 || args.Generations != DefaultGenerations {
		t.Errorf("unexpected sizes: population %d, generations %d", args.PopulationSize, args.Generations)
	}
	if args.MutationRate == nil || *args.MutationRate != 0 {
		t.Errorf("expected explicit zero mutation rate to survive defaulting, got %v", args.MutationRate)
	}
	if diff := cmp.Diff(&WeightConfig{CPU: 1}, args.Weights); diff != "" {
		t.Errorf("unexpected weights (-want +got):\n%s", diff)
	}
	if args.Seed != 42 {
		t.Errorf("expected seed 42, got %d", args.Seed)
	}

	if _, err := DecodeArgs([]byte("populationSize: 5\nunknownField: true\n")); err == nil {
		t.Errorf("expected error for unknown field")
	}
	if _, err := DecodeArgs([]byte("apiVersion: other/v1\n")); err == nil {
		t.Errorf("expected error for foreign apiVersion")
	}
}
