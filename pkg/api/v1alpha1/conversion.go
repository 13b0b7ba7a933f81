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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// ToFramework converts the snapshot into the optimizer's data model.
func (s *CapacitySnapshot) ToFramework() framework.Snapshot {
	out := framework.Snapshot{Clusters: make([]framework.ClusterSnapshot, 0, len(s.Spec.Clusters))}
	for _, cluster := range s.Spec.Clusters {
		cs := framework.ClusterSnapshot{
			Name:    cluster.Name,
			Servers: make([]framework.PlacedServer, 0, len(cluster.Servers)),
		}
		for _, srv := range cluster.Servers {
			ps := framework.PlacedServer{
				Server: framework.Server{
					ID:         srv.ID,
					CPU:        srv.CPU,
					RAM:        srv.RAM,
					Bandwidth:  srv.Bandwidth,
					Throughput: srv.Throughput,
					Status:     framework.ServerStatus(srv.Status),
				},
				CPUCapacity: srv.CPUCapacity,
			}
			for _, task := range srv.Tasks {
				ps.Tasks = append(ps.Tasks, framework.PlacedTask{
					DeviceID:   task.DeviceID,
					Name:       task.Name,
					Complexity: task.Complexity,
				})
			}
			cs.Servers = append(cs.Servers, ps)
		}
		out.Clusters = append(out.Clusters, cs)
	}
	return out
}

// NewCapacitySnapshot wraps a framework snapshot for writing to disk.
func NewCapacitySnapshot(name string, snapshot framework.Snapshot) *CapacitySnapshot {
	out := &CapacitySnapshot{
		TypeMeta: metav1.TypeMeta{
			APIVersion: SchemeGroupVersion.String(),
			Kind:       CapacitySnapshotKind,
		},
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec:       CapacitySnapshotSpec{Clusters: make([]Cluster, 0, len(snapshot.Clusters))},
	}
	for _, cs := range snapshot.Clusters {
		cluster := Cluster{Name: cs.Name, Servers: make([]Server, 0, len(cs.Servers))}
		for _, ps := range cs.Servers {
			srv := Server{
				ID:          ps.ID,
				CPU:         ps.CPU,
				CPUCapacity: ps.CPUCapacity,
				RAM:         ps.RAM,
				Bandwidth:   ps.Bandwidth,
				Throughput:  ps.Throughput,
				Status:      string(ps.Status),
			}
			for _, task := range ps.Tasks {
				srv.Tasks = append(srv.Tasks, Task{
					DeviceID:   task.DeviceID,
					Name:       task.Name,
					Complexity: task.Complexity,
				})
			}
			cluster.Servers = append(cluster.Servers, srv)
		}
		out.Spec.Clusters = append(out.Spec.Clusters, cluster)
	}
	return out
}
