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

package algorithms_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/algorithms"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

func selectionCounts(pop framework.Population, scores []float64, policy algorithms.NegativeFitnessPolicy, draws int) map[string]int {
	rng := rand.New(rand.NewSource(17))
	counts := make(map[string]int)
	for i := 0; i < draws; i++ {
		for _, chrom := range algorithms.RouletteSelection(pop, scores, 2, policy, rng) {
			counts[chrom[0].ServerID]++
		}
	}
	return counts
}

func TestRouletteSelectionProportional(t *testing.T) {
	pop := framework.Population{chromosome("A"), chromosome("B"), chromosome("C")}
	scores := []float64{0, 1, 3}

	counts := selectionCounts(pop, scores, algorithms.ShiftNegativeFitness, 4000)
	if counts["A"] != 0 {
		t.Errorf("zero-fitness chromosome selected %d times", counts["A"])
	}
	ratio := float64(counts["C"]) / float64(counts["B"])
	if ratio < 2.5 || ratio > 3.5 {
		t.Errorf("expected C:B selection ratio near 3, got %.2f (%v)", ratio, counts)
	}
}

func TestRouletteSelectionZeroSum(t *testing.T) {
	pop := framework.Population{chromosome("A"), chromosome("B")}
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 50; i++ {
		parents := algorithms.RouletteSelection(pop, []float64{0, 0}, 2, algorithms.ShiftNegativeFitness, rng)
		if len(parents) != 2 {
			t.Fatalf("expected 2 parents, got %d", len(parents))
		}
		// Without replacement: both chromosomes are returned.
		if parents[0][0].ServerID == parents[1][0].ServerID {
			t.Fatalf("expected distinct parents from uniform sampling without replacement")
		}
	}

	// A zero total from mixed signs also takes the uniform path.
	parents := algorithms.RouletteSelection(pop, []float64{-5, 5}, 2, algorithms.ShiftNegativeFitness, rng)
	if parents[0][0].ServerID == parents[1][0].ServerID {
		t.Errorf("expected uniform sampling without replacement for zero-sum scores")
	}
}

func TestRouletteSelectionNegativeFitness(t *testing.T) {
	pop := framework.Population{chromosome("A"), chromosome("B"), chromosome("C")}

	t.Run("Shift", func(t *testing.T) {
		counts := selectionCounts(pop, []float64{-1000, -900, 60}, algorithms.ShiftNegativeFitness, 2000)
		if counts["A"] != 0 {
			t.Errorf("worst chromosome must get zero weight, selected %d times", counts["A"])
		}
		if counts["C"] <= counts["B"] {
			t.Errorf("expected fittest chromosome to dominate, got %v", counts)
		}
	})

	t.Run("Clamp", func(t *testing.T) {
		counts := selectionCounts(pop, []float64{-1000, -900, 60}, algorithms.ClampNegativeFitness, 500)
		if counts["A"] != 0 || counts["B"] != 0 {
			t.Errorf("negative scores must be clamped to zero weight, got %v", counts)
		}
	})

	t.Run("NegativeInfinity", func(t *testing.T) {
		inf := -1.0 / zero()
		counts := selectionCounts(pop, []float64{inf, 10, 10}, algorithms.ShiftNegativeFitness, 500)
		if counts["A"] != 0 {
			t.Errorf("-Inf chromosome must never be selected, got %v", counts)
		}
	})

	t.Run("AllNegativeInfinity", func(t *testing.T) {
		inf := -1.0 / zero()
		counts := selectionCounts(pop, []float64{inf, inf, inf}, algorithms.ShiftNegativeFitness, 500)
		if counts["A"]+counts["B"]+counts["C"] != 1000 {
			t.Errorf("expected uniform fallback to still return parents, got %v", counts)
		}
	})
}

func zero() float64 { return 0 }

func TestParseNegativeFitnessPolicy(t *testing.T) {
	if p, err := algorithms.ParseNegativeFitnessPolicy(""); err != nil || p != algorithms.ShiftNegativeFitness {
		t.Errorf("expected default shift policy, got %q, %v", p, err)
	}
	if _, err := algorithms.ParseNegativeFitnessPolicy("ignore"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
}
