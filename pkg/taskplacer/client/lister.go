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
	"fmt"

	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// SnapshotLister lists nodes and pods and converts them into a snapshot.
type SnapshotLister struct {
	client       kubernetes.Interface
	clusterLabel string
	namespace    string
}

// NewSnapshotLister creates a lister. An empty namespace lists pods in all
// namespaces.
func NewSnapshotLister(client kubernetes.Interface, clusterLabel, namespace string) *SnapshotLister {
	return &SnapshotLister{
		client:       client,
		clusterLabel: clusterLabel,
		namespace:    namespace,
	}
}

// Snapshot reads the current cluster state.
func (l *SnapshotLister) Snapshot(ctx context.Context) (framework.Snapshot, error) {
	logger := klog.FromContext(ctx).WithValues("component", "snapshotLister")

	nodeList, err := l.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return framework.Snapshot{}, fmt.Errorf("listing nodes: %w", err)
	}
	podList, err := l.client.CoreV1().Pods(l.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return framework.Snapshot{}, fmt.Errorf("listing pods: %w", err)
	}

	nodes := make([]*v1.Node, 0, len(nodeList.Items))
	for i := range nodeList.Items {
		nodes = append(nodes, &nodeList.Items[i])
	}
	pods := make([]*v1.Pod, 0, len(podList.Items))
	for i := range podList.Items {
		pods = append(pods, &podList.Items[i])
	}

	snapshot, err := BuildSnapshot(nodes, pods, l.clusterLabel)
	if err != nil {
		return framework.Snapshot{}, err
	}
	logger.V(2).Info("Built snapshot from cluster",
		"nodes", len(nodes),
		"pods", len(pods),
		"clusters", len(snapshot.Clusters))
	return snapshot, nil
}

// NewClientset builds a clientset from kubeconfig, or from the in-cluster
// config when kubeconfig is empty and the process runs inside a pod.
func NewClientset(kubeconfig string) (kubernetes.Interface, error) {
	config, err := restConfig(kubeconfig)
	if err != nil {
		return nil, err
	}
	return kubernetes.NewForConfig(config)
}

func restConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig == "" {
		config, err := rest.InClusterConfig()
		if err == nil {
			return config, nil
		}
		klog.V(2).InfoS("In-cluster config not available, trying kubeconfig", "error", err.Error())
		kubeconfig = clientcmd.NewDefaultClientConfigLoadingRules().GetDefaultFilename()
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build config from kubeconfig: %w", err)
	}
	return config, nil
}
