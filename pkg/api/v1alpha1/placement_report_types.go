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

// PlacementReport is the outcome of a placement run.
type PlacementReport struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec PlacementReportSpec `json:"spec"`
}

// PlacementReportSpec holds one report per cluster, in input order.
type PlacementReportSpec struct {
	// Seed reproduces the run when passed back in the args.
	Seed uint64 `json:"seed"`

	GeneratedAt metav1.Time `json:"generatedAt"`

	Clusters []ClusterReport `json:"clusters"`
}

// ClusterReport describes how one cluster was optimized.
type ClusterReport struct {
	Name string `json:"name"`
	Seed uint64 `json:"seed"`

	// Servers are the servers after fault injection.
	Servers       []ServerReport `json:"servers"`
	FailedServers int            `json:"failedServers"`

	// InitialPopulation is only filled when populations are requested.
	InitialPopulation [][]Assignment     `json:"initialPopulation,omitempty"`
	InitialScores     []Fitness          `json:"initialScores"`
	Generations       []GenerationReport `json:"generations"`

	// Best is the fittest chromosome of the final generation.
	Best              []Assignment `json:"best"`
	BestFitness       Fitness      `json:"bestFitness"`
	RawFitness        Fitness      `json:"rawFitness"`
	Penalty           float64      `json:"penalty"`
	FailedAssignments int          `json:"failedAssignments"`
	BestServer        string       `json:"bestServer,omitempty"`
	Feasible          bool         `json:"feasible"`

	// Leader is omitted when no active server carries a task.
	Leader *Leader `json:"leader,omitempty"`

	DurationSeconds float64 `json:"durationSeconds"`
}

// ServerReport is the status of one server.
type ServerReport struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	// ReferenceCPU is the capacity chromosomes are scored against.
	ReferenceCPU float64 `json:"referenceCPU"`
	// RemainingCPU is the capacity left after initial placement and fault
	// injection.
	RemainingCPU float64 `json:"remainingCPU"`
	RAM          float64 `json:"ram"`
	Bandwidth    float64 `json:"bandwidth"`
	Throughput   float64 `json:"throughput"`

	// AssignedCPU and AssignedTasks describe the best chromosome's load.
	AssignedCPU   float64 `json:"assignedCPU"`
	AssignedTasks int     `json:"assignedTasks"`
}

// GenerationReport summarizes one generation.
type GenerationReport struct {
	Index       int       `json:"index"`
	BestFitness Fitness   `json:"bestFitness"`
	Scores      []Fitness `json:"scores"`

	// Population is only filled when populations are requested.
	Population [][]Assignment `json:"population,omitempty"`
}

// Assignment is one gene: a task and the server it is assigned to.
type Assignment struct {
	DeviceID   string  `json:"deviceID"`
	Task       string  `json:"task"`
	Complexity float64 `json:"complexity"`
	ServerID   string  `json:"serverID"`
	// ServerFailed marks assignments to a failed server.
	ServerFailed bool `json:"serverFailed,omitempty"`
}

// Leader is the elected coordinating server of a cluster.
type Leader struct {
	ServerID  string `json:"serverID"`
	TaskCount int    `json:"taskCount"`
}
