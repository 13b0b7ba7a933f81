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

package client

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

func buildTestNode(name, zone, cpu string, ready bool, annotations map[string]string) *v1.Node {
	status := v1.ConditionTrue
	if !ready {
		status = v1.ConditionFalse
	}
	labels := map[string]string{}
	if zone != "" {
		labels[DefaultClusterLabel] = zone
	}
	return &v1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Labels:      labels,
			Annotations: annotations,
		},
		Status: v1.NodeStatus{
			Allocatable: v1.ResourceList{
				v1.ResourceCPU:    resource.MustParse(cpu),
				v1.ResourceMemory: resource.MustParse("16Gi"),
			},
			Conditions: []v1.NodeCondition{{Type: v1.NodeReady, Status: status}},
		},
	}
}

func buildTestPod(name, node, cpu string, labels map[string]string) *v1.Pod {
	return &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			Labels:    labels,
			OwnerReferences: []metav1.OwnerReference{
				{Kind: "ReplicaSet", Name: "web-7d9f"},
			},
		},
		Spec: v1.PodSpec{
			NodeName: node,
			Containers: []v1.Container{{
				Name: "main",
				Resources: v1.ResourceRequirements{
					Requests: v1.ResourceList{v1.ResourceCPU: resource.MustParse(cpu)},
				},
			}},
		},
		Status: v1.PodStatus{Phase: v1.PodRunning},
	}
}

func testObjects() ([]*v1.Node, []*v1.Pod) {
	nodes := []*v1.Node{
		buildTestNode("node-b", "zone-a", "4", true, map[string]string{
			BandwidthAnnotation:  "100",
			ThroughputAnnotation: "50",
		}),
		buildTestNode("node-a", "zone-a", "2", false, nil),
		buildTestNode("node-c", "", "8", true, nil),
	}
	controlPlane := buildTestNode("master", "zone-a", "2", true, nil)
	controlPlane.Labels[controlPlaneLabel] = ""
	nodes = append(nodes, controlPlane)

	completed := buildTestPod("job", "node-b", "1", nil)
	completed.Status.Phase = v1.PodSucceeded

	pods := []*v1.Pod{
		buildTestPod("web-1", "node-b", "500m", map[string]string{DeviceLabel: "Device-1"}),
		buildTestPod("web-2", "node-b", "1500m", nil),
		buildTestPod("unscheduled", "", "1", nil),
		buildTestPod("on-master", "master", "1", nil),
		completed,
	}
	return nodes, pods
}

func expectedSnapshot() framework.Snapshot {
	return framework.Snapshot{Clusters: []framework.ClusterSnapshot{
		{
			Name: DefaultClusterName,
			Servers: []framework.PlacedServer{
				{
					Server:      framework.Server{ID: "node-c", CPU: 8000, RAM: 16, Status: framework.StatusActive},
					CPUCapacity: 8000,
				},
			},
		},
		{
			Name: "zone-a",
			Servers: []framework.PlacedServer{
				{
					Server:      framework.Server{ID: "node-a", CPU: 2000, RAM: 16, Status: framework.StatusFailed},
					CPUCapacity: 2000,
				},
				{
					Server: framework.Server{
						ID: "node-b", CPU: 2000, RAM: 16, Bandwidth: 100, Throughput: 50,
						Status: framework.StatusActive,
					},
					CPUCapacity: 4000,
					Tasks: []framework.PlacedTask{
						{DeviceID: "Device-1", Name: "default/web-1", Complexity: 500},
						{DeviceID: "web-7d9f", Name: "default/web-2", Complexity: 1500},
					},
				},
			},
		},
	}}
}

func TestBuildSnapshot(t *testing.T) {
	nodes, pods := testObjects()
	got, err := BuildSnapshot(nodes, pods, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(expectedSnapshot(), got); diff != "" {
		t.Errorf("unexpected snapshot (-want +got):\n%s", diff)
	}
}

func TestBuildSnapshotInvalidAnnotation(t *testing.T) {
	node := buildTestNode("node-a", "zone-a", "2", true, map[string]string{BandwidthAnnotation: "fast"})
	if _, err := BuildSnapshot([]*v1.Node{node}, nil, ""); err == nil {
		t.Errorf("expected error for malformed bandwidth annotation")
	}
}

func TestBuildSnapshotOvercommittedNode(t *testing.T) {
	node := buildTestNode("node-a", "zone-a", "1", true, nil)
	pods := []*v1.Pod{buildTestPod("big", "node-a", "2", nil)}

	got, err := BuildSnapshot([]*v1.Node{node}, pods, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cpu := got.Clusters[0].Servers[0].CPU; cpu != 0 {
		t.Errorf("expected remaining CPU clamped to 0, got %v", cpu)
	}
}

func TestSnapshotLister(t *testing.T) {
	nodes, pods := testObjects()
	objs := make([]runtime.Object, 0, len(nodes)+len(pods))
	for _, node := range nodes {
		objs = append(objs, node)
	}
	for _, pod := range pods {
		objs = append(objs, pod)
	}
	clientset := fake.NewSimpleClientset(objs...)

	got, err := NewSnapshotLister(clientset, DefaultClusterLabel, "").Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(expectedSnapshot(), got); diff != "" {
		t.Errorf("unexpected snapshot (-want +got):\n%s", diff)
	}
}
