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

// Package state extracts assignable state from a post-placement snapshot.
package state

import (
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// Extract builds the per-cluster task lists and server snapshots. Each task
// remembers the server it was placed on so the baseline chromosome can
// replicate the initial placement.
func Extract(snapshot framework.Snapshot) (map[string][]framework.Task, map[string]framework.Servers) {
	tasksByCluster := make(map[string][]framework.Task, len(snapshot.Clusters))
	serversByCluster := make(map[string]framework.Servers, len(snapshot.Clusters))

	for _, cluster := range snapshot.Clusters {
		tasks := []framework.Task{}
		servers := make(framework.Servers, 0, len(cluster.Servers))

		for _, srv := range cluster.Servers {
			for _, t := range srv.Tasks {
				tasks = append(tasks, framework.Task{
					DeviceID:   t.DeviceID,
					Name:       t.Name,
					Complexity: t.Complexity,
					OrigServer: srv.ID,
				})
			}
			servers = append(servers, snapshotServer(srv, srv.CPU))
		}

		tasksByCluster[cluster.Name] = tasks
		serversByCluster[cluster.Name] = servers
	}

	return tasksByCluster, serversByCluster
}

// Reference builds the frozen snapshot used for fitness evaluation. CPU is the
// pre-placement capacity when known. The result is never mutated by the
// optimizer.
func Reference(snapshot framework.Snapshot) map[string]framework.Servers {
	ref := make(map[string]framework.Servers, len(snapshot.Clusters))
	for _, cluster := range snapshot.Clusters {
		servers := make(framework.Servers, 0, len(cluster.Servers))
		for _, srv := range cluster.Servers {
			cpu := srv.CPU
			if srv.CPUCapacity > 0 {
				cpu = srv.CPUCapacity
			}
			servers = append(servers, snapshotServer(srv, cpu))
		}
		ref[cluster.Name] = servers
	}
	return ref
}

func snapshotServer(srv framework.PlacedServer, cpu float64) framework.Server {
	status := srv.Status
	if status == "" {
		status = framework.StatusActive
	}
	return framework.Server{
		ID:         srv.ID,
		CPU:        cpu,
		RAM:        srv.RAM,
		Bandwidth:  srv.Bandwidth,
		Throughput: srv.Throughput,
		Status:     status,
	}
}
