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

// Package client builds capacity snapshots from a live Kubernetes cluster.
//
// Nodes become servers and pods become tasks. Nodes are grouped into
// clusters by a topology label. CPU is measured in millicores and RAM in
// GiB, while bandwidth and throughput come from node annotations since
// Kubernetes does not model them.
package client

import (
	"fmt"
	"sort"
	"strconv"

	v1 "k8s.io/api/core/v1"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

const (
	DefaultClusterLabel = "topology.kubernetes.io/zone"
	// DefaultClusterName is used for nodes without the cluster label.
	DefaultClusterName = "default"

	BandwidthAnnotation  = "taskplacer.sigs.k8s.io/bandwidth"
	ThroughputAnnotation = "taskplacer.sigs.k8s.io/throughput"
	// DeviceLabel names the device a pod belongs to. Pods without it are
	// grouped by their owning ReplicaSet.
	DeviceLabel = "taskplacer.sigs.k8s.io/device"

	controlPlaneLabel = "node-role.kubernetes.io/control-plane"
	bytesPerGiB       = 1 << 30
)

// BuildSnapshot converts nodes and the pods bound to them into a snapshot.
// Control plane nodes, unbound pods and terminated pods are skipped. Output
// is sorted by cluster, node and pod name so that equal inputs always yield
// equal snapshots.
func BuildSnapshot(nodes []*v1.Node, pods []*v1.Pod, clusterLabel string) (framework.Snapshot, error) {
	if clusterLabel == "" {
		clusterLabel = DefaultClusterLabel
	}

	sorted := make([]*v1.Node, 0, len(nodes))
	for _, node := range nodes {
		if _, ok := node.Labels[controlPlaneLabel]; ok {
			continue
		}
		sorted = append(sorted, node)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	servers := make(map[string]*framework.PlacedServer, len(sorted))
	clusters := make(map[string][]string)
	for _, node := range sorted {
		srv, err := convertNode(node)
		if err != nil {
			return framework.Snapshot{}, err
		}
		servers[node.Name] = &srv

		cluster := node.Labels[clusterLabel]
		if cluster == "" {
			cluster = DefaultClusterName
		}
		clusters[cluster] = append(clusters[cluster], node.Name)
	}

	sortedPods := make([]*v1.Pod, len(pods))
	copy(sortedPods, pods)
	sort.Slice(sortedPods, func(i, j int) bool {
		if sortedPods[i].Namespace != sortedPods[j].Namespace {
			return sortedPods[i].Namespace < sortedPods[j].Namespace
		}
		return sortedPods[i].Name < sortedPods[j].Name
	})

	for _, pod := range sortedPods {
		srv, ok := servers[pod.Spec.NodeName]
		if !ok || isTerminated(pod) {
			continue
		}
		task := convertPod(pod)
		srv.Tasks = append(srv.Tasks, task)
		srv.CPU -= task.Complexity
	}

	names := make([]string, 0, len(clusters))
	for name := range clusters {
		names = append(names, name)
	}
	sort.Strings(names)

	snapshot := framework.Snapshot{Clusters: make([]framework.ClusterSnapshot, 0, len(names))}
	for _, name := range names {
		cluster := framework.ClusterSnapshot{Name: name}
		for _, nodeName := range clusters[name] {
			srv := servers[nodeName]
			if srv.CPU < 0 {
				srv.CPU = 0 // overcommitted
			}
			cluster.Servers = append(cluster.Servers, *srv)
		}
		snapshot.Clusters = append(snapshot.Clusters, cluster)
	}
	return snapshot, nil
}

func convertNode(node *v1.Node) (framework.PlacedServer, error) {
	bandwidth, err := annotationValue(node, BandwidthAnnotation)
	if err != nil {
		return framework.PlacedServer{}, err
	}
	throughput, err := annotationValue(node, ThroughputAnnotation)
	if err != nil {
		return framework.PlacedServer{}, err
	}

	cpu := float64(node.Status.Allocatable.Cpu().MilliValue())
	status := framework.StatusActive
	if !isReady(node) {
		status = framework.StatusFailed
	}

	return framework.PlacedServer{
		Server: framework.Server{
			ID:         node.Name,
			CPU:        cpu,
			RAM:        float64(node.Status.Allocatable.Memory().Value()) / bytesPerGiB,
			Bandwidth:  bandwidth,
			Throughput: throughput,
			Status:     status,
		},
		CPUCapacity: cpu,
	}, nil
}

func annotationValue(node *v1.Node, key string) (float64, error) {
	raw, ok := node.Annotations[key]
	if !ok {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("node %s: invalid %s annotation %q: %w", node.Name, key, raw, err)
	}
	return value, nil
}

func isReady(node *v1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == v1.NodeReady {
			return cond.Status == v1.ConditionTrue
		}
	}
	return false
}

func isTerminated(pod *v1.Pod) bool {
	return pod.Status.Phase == v1.PodSucceeded || pod.Status.Phase == v1.PodFailed
}

func convertPod(pod *v1.Pod) framework.PlacedTask {
	var cpuReq int64
	for _, container := range pod.Spec.Containers {
		cpuReq += container.Resources.Requests.Cpu().MilliValue()
	}

	return framework.PlacedTask{
		DeviceID:   deviceID(pod),
		Name:       pod.Namespace + "/" + pod.Name,
		Complexity: float64(cpuReq),
	}
}

func deviceID(pod *v1.Pod) string {
	if id := pod.Labels[DeviceLabel]; id != "" {
		return id
	}
	for _, owner := range pod.OwnerReferences {
		if owner.Kind == "ReplicaSet" {
			return owner.Name
		}
	}
	return pod.Namespace
}
