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

func mutationServers() framework.Servers {
	return framework.Servers{
		{ID: "S1", CPU: 1000, Status: framework.StatusActive},
		{ID: "S2", CPU: 150, Status: framework.StatusActive},
		{ID: "S3", CPU: 5000, Status: framework.StatusFailed},
	}
}

func TestMutateRateExtremes(t *testing.T) {
	chrom := chromosome("S3", "S3", "S3")
	rng := rand.New(rand.NewSource(11))

	unchanged := algorithms.Mutate(chrom, mutationServers(), 0, rng)
	if !unchanged.Equal(chrom) {
		t.Errorf("rate 0 must not change the chromosome: %v", unchanged)
	}

	mutated := algorithms.Mutate(chrom, mutationServers(), 1, rng)
	for i, gene := range mutated {
		if gene.ServerID == "S3" {
			t.Errorf("gene %d stayed on a failed server", i)
		}
		if gene.TaskName != chrom[i].TaskName {
			t.Errorf("gene %d lost its task identity", i)
		}
	}
	if chrom[0].ServerID != "S3" {
		t.Errorf("Mutate modified its input")
	}
}

func TestMutateOnlyTargetsEligibleServers(t *testing.T) {
	// complexities 100, 200, 300: only the first fits S2.
	chrom := chromosome("S1", "S1", "S1")
	rng := rand.New(rand.NewSource(23))

	for trial := 0; trial < 200; trial++ {
		mutated := algorithms.Mutate(chrom, mutationServers(), 1, rng)
		for i, gene := range mutated[1:] {
			if gene.ServerID != "S1" {
				t.Fatalf("gene %d moved to %s which cannot fit it", i+1, gene.ServerID)
			}
		}
	}
}

func TestMutateWithoutEligibleServers(t *testing.T) {
	chrom := chromosome("S3")
	servers := framework.Servers{
		{ID: "S1", CPU: 10, Status: framework.StatusActive},
		{ID: "S3", CPU: 5000, Status: framework.StatusFailed},
	}
	mutated := algorithms.Mutate(chrom, servers, 1, rand.New(rand.NewSource(1)))
	if mutated[0].ServerID != "S3" {
		t.Errorf("expected gene to keep its assignment, got %s", mutated[0].ServerID)
	}
}

func TestMutateDoesNotModifyServers(t *testing.T) {
	servers := mutationServers()
	before := servers.Clone()
	algorithms.Mutate(chromosome("S1", "S2"), servers, 1, rand.New(rand.NewSource(2)))
	for i := range servers {
		if servers[i] != before[i] {
			t.Errorf("server %d changed: %v -> %v", i, before[i], servers[i])
		}
	}
}
