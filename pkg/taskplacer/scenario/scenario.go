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

// Package scenario generates synthetic smart-home workloads and performs the
// greedy initial placement that the optimizer starts from.
package scenario

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// TasksPerDevice is the number of tasks drawn from a device's task pool.
const TasksPerDevice = 2

// DeviceTypes are assigned to generated devices round-robin.
var DeviceTypes = []string{
	"Smart Light", "Smart Fan", "Smart TV", "Smart AC",
	"Smart Door Lock", "Smart Fridge", "Smart Speaker", "Security Camera",
}

// TaskPool lists the tasks each device type can emit.
var TaskPool = map[string][]string{
	"Smart Light":     {"toggle", "dim", "status-update"},
	"Smart Fan":       {"rotate", "adjust-speed"},
	"Smart TV":        {"stream-frame", "change-channel", "volume-adjust"},
	"Smart AC":        {"temp-update", "cooling-mode", "fan-speed"},
	"Smart Door Lock": {"lock", "unlock", "battery-status"},
	"Smart Fridge":    {"temp-check", "defrost", "inventory-scan"},
	"Smart Speaker":   {"play-audio", "set-volume", "voice-command"},
	"Security Camera": {"record", "motion-detect", "stream-feed"},
}

// ComplexityRange is an inclusive range of task complexities in MIPS.
type ComplexityRange struct {
	Low, High int
}

// TaskComplexity holds the complexity range per device type.
var TaskComplexity = map[string]ComplexityRange{
	"Smart Light":     {200, 800},
	"Smart Fan":       {400, 1200},
	"Smart TV":        {1500, 3000},
	"Smart AC":        {1200, 2500},
	"Smart Door Lock": {300, 900},
	"Smart Fridge":    {800, 1600},
	"Smart Speaker":   {800, 1800},
	"Security Camera": {1500, 3000},
}

// DeviceTask is one task in a device's queue.
type DeviceTask struct {
	Name       string
	Complexity float64
}

// Device is a simulated IoT device.
type Device struct {
	ID           string
	Type         string
	CPU          float64 // MIPS
	RAM          float64 // GB
	Bandwidth    float64 // Mbps
	Throughput   float64 // MB/s
	Availability float64
	Tasks        []DeviceTask
}

// GenerateDevices creates n devices with TasksPerDevice distinct tasks each.
func GenerateDevices(n int, rng *rand.Rand) []Device {
	devices := make([]Device, 0, n)
	for i := 0; i < n; i++ {
		deviceType := DeviceTypes[i%len(DeviceTypes)]
		pool := TaskPool[deviceType]
		complexity := TaskComplexity[deviceType]

		tasks := make([]DeviceTask, 0, TasksPerDevice)
		for _, idx := range rng.Perm(len(pool))[:min(TasksPerDevice, len(pool))] {
			tasks = append(tasks, DeviceTask{
				Name:       pool[idx],
				Complexity: float64(complexity.Low + rng.Intn(complexity.High-complexity.Low+1)),
			})
		}

		devices = append(devices, Device{
			ID:           fmt.Sprintf("Device-%d", i+1),
			Type:         deviceType,
			CPU:          float64(500 + rng.Intn(2501)),
			RAM:          round2(0.5 + rng.Float64()*3.5),
			Bandwidth:    round2(1 + rng.Float64()*4),
			Throughput:   round2(0.1 + rng.Float64()*0.9),
			Availability: round2(0.85 + rng.Float64()*0.14),
			Tasks:        tasks,
		})
	}
	return devices
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DefaultClusters returns two clusters of two servers each, with no tasks
// placed yet.
func DefaultClusters() []framework.ClusterSnapshot {
	return []framework.ClusterSnapshot{
		{
			Name: "Cluster 1",
			Servers: []framework.PlacedServer{
				{Server: framework.Server{ID: "S1", CPU: 4000, RAM: 16, Bandwidth: 10, Throughput: 5, Status: framework.StatusActive}},
				{Server: framework.Server{ID: "S2", CPU: 3000, RAM: 8, Bandwidth: 8, Throughput: 4, Status: framework.StatusActive}},
			},
		},
		{
			Name: "Cluster 2",
			Servers: []framework.PlacedServer{
				{Server: framework.Server{ID: "S3", CPU: 3500, RAM: 12, Bandwidth: 9, Throughput: 4, Status: framework.StatusActive}},
				{Server: framework.Server{ID: "S4", CPU: 2500, RAM: 8, Bandwidth: 7, Throughput: 3, Status: framework.StatusActive}},
			},
		},
	}
}

// Place sends every device to a random cluster and assigns each of its tasks
// to the active server with the most remaining CPU that can hold it,
// consuming that CPU. Tasks that fit nowhere are dropped. The input clusters
// are not modified; every server's pre-placement CPU is recorded as its
// CPUCapacity.
func Place(clusters []framework.ClusterSnapshot, devices []Device, rng *rand.Rand) framework.Snapshot {
	snapshot := framework.Snapshot{Clusters: make([]framework.ClusterSnapshot, len(clusters))}
	for i, cluster := range clusters {
		servers := make([]framework.PlacedServer, len(cluster.Servers))
		for j, srv := range cluster.Servers {
			servers[j] = framework.PlacedServer{Server: srv.Server, CPUCapacity: srv.CPU}
			servers[j].Tasks = append([]framework.PlacedTask(nil), srv.Tasks...)
		}
		snapshot.Clusters[i] = framework.ClusterSnapshot{Name: cluster.Name, Servers: servers}
	}
	if len(snapshot.Clusters) == 0 {
		return snapshot
	}

	for _, device := range devices {
		servers := snapshot.Clusters[rng.Intn(len(snapshot.Clusters))].Servers
		for _, task := range device.Tasks {
			if target := mostRemainingCPU(servers, task.Complexity); target != nil {
				target.Tasks = append(target.Tasks, framework.PlacedTask{
					DeviceID:   device.ID,
					Name:       task.Name,
					Complexity: task.Complexity,
				})
				target.CPU -= task.Complexity
			}
		}
	}
	return snapshot
}

// mostRemainingCPU returns the active server with the most remaining CPU
// that fits complexity. Ties go to the earlier server.
func mostRemainingCPU(servers []framework.PlacedServer, complexity float64) *framework.PlacedServer {
	order := make([]int, 0, len(servers))
	for i := range servers {
		if servers[i].Active() {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return servers[order[a]].CPU > servers[order[b]].CPU
	})
	for _, i := range order {
		if complexity <= servers[i].CPU {
			return &servers[i]
		}
	}
	return nil
}
