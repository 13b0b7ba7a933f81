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

package constraints

import (
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// Constraint reports whether a chromosome satisfies a hard requirement.
type Constraint func(framework.Chromosome) bool

// ActiveServers returns the servers that can take assignments.
func ActiveServers(servers framework.Servers) framework.Servers {
	return servers.Active()
}

// EligibleServers returns the active servers whose remaining CPU covers the
// given complexity. Each check is independent of other assignments.
func EligibleServers(servers framework.Servers, complexity float64) framework.Servers {
	eligible := make(framework.Servers, 0, len(servers))
	for _, srv := range servers {
		if srv.Active() && complexity <= srv.CPU {
			eligible = append(eligible, srv)
		}
	}
	return eligible
}

// ResourceConstraint checks aggregate feasibility: every gene targets a known
// active server and the summed complexity per server stays within its CPU.
// Chromosome construction does not enforce this, so it is used for reporting.
func ResourceConstraint(servers framework.Servers) Constraint {
	return func(chrom framework.Chromosome) bool {
		used := make(map[string]float64, len(servers))
		for _, gene := range chrom {
			srv, ok := servers.Find(gene.ServerID)
			if !ok || !srv.Active() {
				return false
			}
			used[gene.ServerID] += gene.Complexity
		}

		for _, srv := range servers {
			if used[srv.ID] > srv.CPU {
				return false // CPU capacity exceeded
			}
		}
		return true
	}
}

// TaskIdentityConstraint checks that genes are positionally aligned with the
// task list. Crossover and mutation may only change server assignments.
func TaskIdentityConstraint(tasks []framework.Task) Constraint {
	return func(chrom framework.Chromosome) bool {
		if len(chrom) != len(tasks) {
			return false
		}
		for i, gene := range chrom {
			t := tasks[i]
			if gene.DeviceID != t.DeviceID || gene.TaskName != t.Name || gene.Complexity != t.Complexity {
				return false
			}
		}
		return true
	}
}

// CombineConstraints combines multiple constraints into one
func CombineConstraints(constraints ...Constraint) Constraint {
	return func(chrom framework.Chromosome) bool {
		for _, constraint := range constraints {
			if !constraint(chrom) {
				return false
			}
		}
		return true
	}
}
