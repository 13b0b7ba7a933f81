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

// Package faults simulates server failures on a capacity snapshot.
package faults

import (
	"golang.org/x/exp/rand"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// Inject re-randomizes the health of every server in place. Each server fails
// independently with probability p; a failed server has its CPU forced to
// zero. Prior statuses are overwritten, so calling Inject twice keeps only the
// second draw. Callers that need isolation must pass a clone.
func Inject(servers framework.Servers, p float64, rng *rand.Rand) framework.Servers {
	for i := range servers {
		if rng.Float64() < p {
			servers[i].Status = framework.StatusFailed
			servers[i].CPU = 0
		} else {
			servers[i].Status = framework.StatusActive
		}
	}
	return servers
}

// CountFailed returns the number of failed servers.
func CountFailed(servers framework.Servers) int {
	n := 0
	for _, srv := range servers {
		if !srv.Active() {
			n++
		}
	}
	return n
}

// WithHealth returns a copy of capacity carrying the statuses drawn into
// health. Servers are matched by ID; a failed server has its CPU forced to
// zero, as Inject does. Servers absent from health keep their own status.
func WithHealth(capacity, health framework.Servers) framework.Servers {
	out := capacity.Clone()
	for i := range out {
		srv, ok := health.Find(out[i].ID)
		if !ok {
			continue
		}
		out[i].Status = srv.Status
		if !srv.Active() {
			out[i].CPU = 0
		}
	}
	return out
}
