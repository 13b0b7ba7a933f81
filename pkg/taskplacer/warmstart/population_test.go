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

package warmstart_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/constraints"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/warmstart"
)

var tasks = []framework.Task{
	{DeviceID: "Device-1", Name: "toggle", Complexity: 400, OrigServer: "S1"},
	{DeviceID: "Device-1", Name: "dim", Complexity: 700, OrigServer: "S2"},
	{DeviceID: "Device-2", Name: "record", Complexity: 2500, OrigServer: "S1"},
	{DeviceID: "Device-3", Name: "defrost", Complexity: 1200, OrigServer: "S3"},
}

func TestGenerateChromosomeBaseline(t *testing.T) {
	servers := framework.Servers{
		{ID: "S1", CPU: 3000, Status: framework.StatusActive},
		{ID: "S2", CPU: 0, Status: framework.StatusFailed},
		{ID: "S3", CPU: 2000, Status: framework.StatusActive},
	}
	rng := rand.New(rand.NewSource(1))

	chrom := warmstart.GenerateChromosome(tasks, servers, true, rng)
	if len(chrom) != len(tasks) {
		t.Fatalf("expected %d genes, got %d", len(tasks), len(chrom))
	}

	if chrom[0].ServerID != "S1" || chrom[2].ServerID != "S1" || chrom[3].ServerID != "S3" {
		t.Errorf("baseline must keep surviving original assignments, got %v", chrom)
	}
	// S2 failed: the task moves to an eligible active server.
	if chrom[1].ServerID != "S1" && chrom[1].ServerID != "S3" {
		t.Errorf("expected task on failed server to move to an active server, got %s", chrom[1].ServerID)
	}

	if !constraints.TaskIdentityConstraint(tasks)(chrom) {
		t.Errorf("genes are not aligned with the task list")
	}
}

func TestGenerateChromosomeRandomPrefersEligible(t *testing.T) {
	servers := framework.Servers{
		{ID: "S1", CPU: 3000, Status: framework.StatusActive},
		{ID: "S2", CPU: 500, Status: framework.StatusActive},
		{ID: "S3", CPU: 0, Status: framework.StatusFailed},
	}
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 50; i++ {
		chrom := warmstart.GenerateChromosome(tasks, servers, false, rng)
		for _, gene := range chrom {
			if gene.ServerID == "S3" {
				t.Fatalf("gene assigned to failed server: %v", gene)
			}
			if gene.Complexity > 500 && gene.ServerID != "S1" {
				t.Fatalf("gene %v assigned to a server that cannot fit it while S1 could", gene)
			}
		}
	}
}

func TestGenerateChromosomeFallsBackToAnyActive(t *testing.T) {
	servers := framework.Servers{
		{ID: "S1", CPU: 100, Status: framework.StatusActive},
		{ID: "S2", CPU: 0, Status: framework.StatusFailed},
	}
	rng := rand.New(rand.NewSource(9))

	chrom := warmstart.GenerateChromosome(tasks, servers, false, rng)
	if len(chrom) != len(tasks) {
		t.Fatalf("expected over-committed assignment instead of dropped tasks, got %d genes", len(chrom))
	}
	for _, gene := range chrom {
		if gene.ServerID != "S1" {
			t.Errorf("expected fallback to the only active server, got %s", gene.ServerID)
		}
	}
}

func TestGenerateChromosomeNoActiveServers(t *testing.T) {
	servers := framework.Servers{
		{ID: "S1", CPU: 0, Status: framework.StatusFailed},
	}
	rng := rand.New(rand.NewSource(2))

	for _, useOrig := range []bool{true, false} {
		if chrom := warmstart.GenerateChromosome(tasks, servers, useOrig, rng); len(chrom) != 0 {
			t.Errorf("useOrig=%v: expected tasks to be omitted, got %v", useOrig, chrom)
		}
	}
}

func TestGenerateInitialPopulation(t *testing.T) {
	servers := framework.Servers{
		{ID: "S1", CPU: 4000, RAM: 16, Status: framework.StatusActive},
		{ID: "S2", CPU: 3000, RAM: 8, Status: framework.StatusActive},
		{ID: "S3", CPU: 3500, RAM: 12, Status: framework.StatusActive},
	}
	rng := rand.New(rand.NewSource(11))

	pop, faulted := warmstart.GenerateInitialPopulation(tasks, servers, warmstart.Config{
		PopulationSize:     6,
		FailureProbability: 0,
	}, rng)

	if len(pop) != 6 {
		t.Fatalf("expected population of 6, got %d", len(pop))
	}
	for i, gene := range pop[0] {
		if gene.ServerID != tasks[i].OrigServer {
			t.Errorf("baseline gene %d: expected %s, got %s", i, tasks[i].OrigServer, gene.ServerID)
		}
	}
	if len(faulted) != len(servers) {
		t.Errorf("expected faulted snapshot of %d servers, got %d", len(servers), len(faulted))
	}

	pop, faulted = warmstart.GenerateInitialPopulation(tasks, servers, warmstart.Config{
		PopulationSize:     3,
		FailureProbability: 1,
	}, rng)
	for i, chrom := range pop {
		if len(chrom) != 0 {
			t.Errorf("chromosome %d: expected empty chromosome when every server failed, got %v", i, chrom)
		}
	}
	for _, srv := range faulted {
		if srv.Active() {
			t.Errorf("expected %s to be failed", srv.ID)
		}
	}
	for _, srv := range servers {
		if !srv.Active() || srv.CPU == 0 {
			t.Errorf("fault injection leaked into the caller's snapshot: %v", srv)
		}
	}
}

func TestGenerateChromosomeBaselineKeepsUnnamedServer(t *testing.T) {
	servers := framework.Servers{
		{ID: "", CPU: 0, Status: framework.StatusActive},
		{ID: "S1", CPU: 5000, Status: framework.StatusActive},
	}
	placed := []framework.Task{{DeviceID: "d1", Name: "a", Complexity: 300, OrigServer: ""}}
	rng := rand.New(rand.NewSource(2))

	chrom := warmstart.GenerateChromosome(placed, servers, true, rng)
	want := framework.Chromosome{{DeviceID: "d1", TaskName: "a", Complexity: 300, ServerID: ""}}
	if diff := cmp.Diff(want, chrom); diff != "" {
		t.Errorf("baseline moved a task off its surviving server (-want +got):\n%s", diff)
	}
}
