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

package app

import (
	"github.com/spf13/pflag"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/client"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/tracing"
)

// Options holds everything the run command is configured with.
type Options struct {
	ConfigFile string

	// Input: a snapshot file, the live cluster, or a generated scenario.
	SnapshotFile string
	FromCluster  bool
	Kubeconfig   string
	ClusterLabel string
	Namespace    string
	Devices      int

	// Output
	ReportFile      string
	ChartFile       string
	LoadChartDir    string
	MetricsFile     string
	WithPopulations bool

	Tracing tracing.Config

	// Overrides of the args file, applied only when set on the command line.
	Seed               uint64
	PopulationSize     int
	Generations        int
	FailureProbability float64
	Parallel           bool
}

// NewOptions returns options with their default values.
func NewOptions() *Options {
	return &Options{
		ClusterLabel: client.DefaultClusterLabel,
		Devices:      8,
		Tracing: tracing.Config{
			ServiceName: tracing.DefaultServiceName,
			SampleRate:  1,
		},
	}
}

// AddFlags adds flags for the run command to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "File with TaskPlacerArgs. Defaults are used when empty.")

	fs.StringVar(&o.SnapshotFile, "snapshot", o.SnapshotFile, "CapacitySnapshot file to optimize.")
	fs.BoolVar(&o.FromCluster, "from-cluster", o.FromCluster, "Build the snapshot from the nodes and pods of a Kubernetes cluster.")
	fs.StringVar(&o.Kubeconfig, "kubeconfig", o.Kubeconfig, "Path to a kubeconfig file. The in-cluster config is tried first when empty.")
	fs.StringVar(&o.ClusterLabel, "cluster-label", o.ClusterLabel, "Node label that groups nodes into clusters.")
	fs.StringVar(&o.Namespace, "namespace", o.Namespace, "Only consider pods in this namespace. All namespaces when empty.")
	fs.IntVar(&o.Devices, "devices", o.Devices, "Number of simulated devices when neither --snapshot nor --from-cluster is given.")

	fs.StringVarP(&o.ReportFile, "output", "o", o.ReportFile, "Write the PlacementReport to this file instead of stdout.")
	fs.StringVar(&o.ChartFile, "chart", o.ChartFile, "Write an HTML chart of the fitness history to this file.")
	fs.StringVar(&o.LoadChartDir, "load-chart-dir", o.LoadChartDir, "Write one HTML chart of assigned CPU per server and cluster to this directory.")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write prometheus metrics in text format to this file.")
	fs.BoolVar(&o.WithPopulations, "with-populations", o.WithPopulations, "Include the initial and every generation's population in the report.")

	fs.StringVar(&o.Tracing.CollectorEndpoint, "otel-collector-endpoint", o.Tracing.CollectorEndpoint, "OTLP gRPC endpoint. Tracing is disabled when empty.")
	fs.StringVar(&o.Tracing.ServiceName, "otel-service-name", o.Tracing.ServiceName, "Service name reported with traces.")
	fs.Float64Var(&o.Tracing.SampleRate, "otel-sample-rate", o.Tracing.SampleRate, "Fraction of traces to sample.")
	fs.BoolVar(&o.Tracing.Insecure, "otel-insecure", o.Tracing.Insecure, "Connect to the collector without TLS.")

	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Random seed. Overrides the args file.")
	fs.IntVar(&o.PopulationSize, "population-size", o.PopulationSize, "Chromosomes per generation. Overrides the args file.")
	fs.IntVar(&o.Generations, "generations", o.Generations, "Generations per cluster. Overrides the args file.")
	fs.Float64Var(&o.FailureProbability, "failure-probability", o.FailureProbability, "Per-server failure probability. Overrides the args file.")
	fs.BoolVar(&o.Parallel, "parallel", o.Parallel, "Optimize clusters concurrently. Overrides the args file.")
}
