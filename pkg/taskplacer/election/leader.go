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

// Package election picks a coordinating server for a cluster from the best
// assignment the evolution loop found.
package election

import (
	"sigs.k8s.io/taskplacer/pkg/taskplacer/constraints"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// Leader is the elected server together with the number of tasks the best
// chromosome assigns to it.
type Leader struct {
	ServerID  string
	TaskCount int
}

// Elect returns the active server carrying the most genes of best. Ties go to
// the server that first appears in the chromosome. The boolean is false when
// no gene targets an active server, including when every server has failed.
func Elect(best framework.Chromosome, servers framework.Servers) (Leader, bool) {
	active := make(map[string]bool)
	for _, srv := range constraints.ActiveServers(servers) {
		active[srv.ID] = true
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, gene := range best {
		if !active[gene.ServerID] {
			continue
		}
		if _, seen := counts[gene.ServerID]; !seen {
			order = append(order, gene.ServerID)
		}
		counts[gene.ServerID]++
	}

	var leader Leader
	for _, id := range order {
		if counts[id] > leader.TaskCount {
			leader = Leader{ServerID: id, TaskCount: counts[id]}
		}
	}
	return leader, leader.TaskCount > 0
}
