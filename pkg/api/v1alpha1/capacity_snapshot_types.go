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
)

// CapacitySnapshot is the post-placement state of a set of clusters, the
// input of a placement run.
type CapacitySnapshot struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec CapacitySnapshotSpec `json:"spec"`
}

// CapacitySnapshotSpec lists the clusters in optimization order.
type CapacitySnapshotSpec struct {
	Clusters []Cluster `json:"clusters"`
}

// Cluster is an independent group of servers.
type Cluster struct {
	Name    string   `json:"name"`
	Servers []Server `json:"servers"`
}

// Server is a compute node and the tasks initially placed on it.
type Server struct {
	ID string `json:"id"`

	// CPU is the remaining capacity after initial placement, in MIPS.
	CPU float64 `json:"cpu"`

	// CPUCapacity is the capacity before initial placement. When unset, CPU
	// is used as the fitness reference.
	CPUCapacity float64 `json:"cpuCapacity,omitempty"`

	// RAM in GB
	RAM float64 `json:"ram"`

	// Bandwidth in Mbps
	Bandwidth float64 `json:"bandwidth"`

	// Throughput in MB/s
	Throughput float64 `json:"throughput"`

	// Status is active or failed. Empty means active.
	Status string `json:"status,omitempty"`

	Tasks []Task `json:"tasks,omitempty"`
}

// Task is a unit of work placed on a server.
type Task struct {
	DeviceID   string  `json:"deviceID"`
	Name       string  `json:"name"`
	Complexity float64 `json:"complexity"`
}
