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

package framework

// ServerStatus is the health state of a server.
type ServerStatus string

const (
	StatusActive ServerStatus = "active"
	StatusFailed ServerStatus = "failed"
)

// Task is one unit of work extracted from a cluster. Complexity is its CPU cost.
type Task struct {
	DeviceID   string
	Name       string
	Complexity float64
	OrigServer string // server the task was placed on before optimization
}

// Server is a capacity snapshot of one compute node. CPU is the remaining
// capacity; RAM, Bandwidth and Throughput are fixed.
type Server struct {
	ID         string
	CPU        float64
	RAM        float64
	Bandwidth  float64
	Throughput float64
	Status     ServerStatus
}

// Active reports whether the server can take assignments. An empty status
// counts as active.
func (s Server) Active() bool {
	return s.Status != StatusFailed
}

// Servers is a cluster's server snapshot.
type Servers []Server

// Clone returns an independent copy of the snapshot.
func (s Servers) Clone() Servers {
	if s == nil {
		return nil
	}
	out := make(Servers, len(s))
	copy(out, s)
	return out
}

// Find returns the server with the given id.
func (s Servers) Find(id string) (Server, bool) {
	for _, srv := range s {
		if srv.ID == id {
			return srv, true
		}
	}
	return Server{}, false
}

// Active returns the active servers in snapshot order.
func (s Servers) Active() Servers {
	out := make(Servers, 0, len(s))
	for _, srv := range s {
		if srv.Active() {
			out = append(out, srv)
		}
	}
	return out
}

// Gene is one task's candidate assignment.
type Gene struct {
	DeviceID   string
	TaskName   string
	Complexity float64
	ServerID   string
}

// Chromosome is a full candidate assignment for a cluster. Genes are
// positionally aligned with the cluster's task list.
type Chromosome []Gene

// Clone returns a copy of the chromosome.
func (c Chromosome) Clone() Chromosome {
	if c == nil {
		return nil
	}
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}

// Equal reports whether both chromosomes hold the same genes in the same order.
func (c Chromosome) Equal(other Chromosome) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Population is an ordered set of chromosomes for one cluster. Fitness scores
// are kept in a parallel slice.
type Population []Chromosome

// PlacedTask is a task already placed on a server by the initial placement.
type PlacedTask struct {
	DeviceID   string
	Name       string
	Complexity float64
}

// PlacedServer is a server as produced by the initial placement step.
type PlacedServer struct {
	Server

	// CPUCapacity is the CPU before initial placement. Zero means unknown,
	// in which case the remaining CPU is used as the reference.
	CPUCapacity float64
	Tasks       []PlacedTask
}

// ClusterSnapshot is one independent cluster.
type ClusterSnapshot struct {
	Name    string
	Servers []PlacedServer
}

// Snapshot is the post-placement state of all clusters.
type Snapshot struct {
	Clusters []ClusterSnapshot
}

// Weights are the fitness weights per resource.
type Weights struct {
	CPU        float64
	RAM        float64
	Bandwidth  float64
	Throughput float64
}
