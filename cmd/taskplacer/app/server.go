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

// Package app implements the taskplacer command line.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"k8s.io/component-base/logs"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"sigs.k8s.io/taskplacer/pkg/api/v1alpha1"
	"sigs.k8s.io/taskplacer/pkg/taskplacer"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/client"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/metrics"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/scenario"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/tracing"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/util"
)

// NewTaskPlacerCommand creates the root command, which runs a placement.
func NewTaskPlacerCommand(out io.Writer) *cobra.Command {
	opts := NewOptions()
	cmd := &cobra.Command{
		Use:   "taskplacer",
		Short: "taskplacer",
		Long:  `Optimizes task placement across server clusters with a genetic algorithm and elects a leader server per cluster.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			placerArgs, err := taskplacer.LoadArgs(opts.ConfigFile)
			if err != nil {
				return err
			}
			applyOverrides(cmd, opts, placerArgs)
			return Run(cmd.Context(), opts, placerArgs, out)
		},
		SilenceUsage: true,
	}
	opts.AddFlags(cmd.Flags())
	logs.AddFlags(cmd.PersistentFlags())
	return cmd
}

func applyOverrides(cmd *cobra.Command, opts *Options, args *taskplacer.TaskPlacerArgs) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		args.Seed = opts.Seed
	}
	if flags.Changed("population-size") {
		args.PopulationSize = opts.PopulationSize
	}
	if flags.Changed("generations") {
		args.Generations = opts.Generations
	}
	if flags.Changed("failure-probability") {
		args.FailureProbability = ptr.To(opts.FailureProbability)
	}
	if flags.Changed("parallel") {
		args.Parallel = opts.Parallel
	}
}

// Run loads a snapshot, optimizes it and writes the outputs.
func Run(ctx context.Context, opts *Options, args *taskplacer.TaskPlacerArgs, out io.Writer) error {
	logger := klog.FromContext(ctx)
	ctx = klog.NewContext(ctx, logger)

	tp, shutdown, err := tracing.NewTracerProvider(ctx, opts.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error(err, "Failed to shut down tracer provider")
		}
	}()

	registry := prometheus.NewRegistry()
	placer, err := taskplacer.New(ctx, args,
		taskplacer.WithMetrics(metrics.NewRecorder(registry)),
		taskplacer.WithTracerProvider(tp))
	if err != nil {
		return err
	}

	snapshot, err := loadSnapshot(ctx, opts, placer.Seed())
	if err != nil {
		return err
	}

	result, err := placer.Run(ctx, snapshot)
	if err != nil {
		return err
	}
	for _, cr := range result.Clusters {
		if cr.Leader == nil {
			logger.Info("Cluster has no leader", "cluster", cr.Cluster)
			continue
		}
		logger.Info("Cluster leader", "cluster", cr.Cluster, "server", cr.Leader.ServerID,
			"taskCount", cr.Leader.TaskCount, "bestFitness", cr.BestFitness)
	}

	report := taskplacer.NewPlacementReport("taskplacer", result, opts.WithPopulations)
	if opts.ReportFile != "" {
		if err := v1alpha1.WriteYAML(opts.ReportFile, report); err != nil {
			return err
		}
		logger.V(1).Info("Wrote report", "path", opts.ReportFile)
	} else {
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}

	if opts.ChartFile != "" {
		if err := util.PlotFitnessHistory(taskplacer.FitnessHistory(result), opts.ChartFile); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		logger.V(1).Info("Wrote chart", "path", opts.ChartFile)
	}
	if opts.LoadChartDir != "" {
		if err := os.MkdirAll(opts.LoadChartDir, 0o755); err != nil {
			return fmt.Errorf("creating chart directory: %w", err)
		}
		for _, cr := range result.Clusters {
			path := filepath.Join(opts.LoadChartDir, cr.Cluster+"-load.html")
			if err := util.PlotServerLoad(cr.Cluster, taskplacer.ServerLoads(cr), path); err != nil {
				return fmt.Errorf("writing load chart for cluster %s: %w", cr.Cluster, err)
			}
		}
		logger.V(1).Info("Wrote load charts", "dir", opts.LoadChartDir)
	}
	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(registry, opts.MetricsFile); err != nil {
			return err
		}
		logger.V(1).Info("Wrote metrics", "path", opts.MetricsFile)
	}
	return nil
}

func loadSnapshot(ctx context.Context, opts *Options, seed uint64) (framework.Snapshot, error) {
	logger := klog.FromContext(ctx)
	switch {
	case opts.SnapshotFile != "" && opts.FromCluster:
		return framework.Snapshot{}, fmt.Errorf("--snapshot and --from-cluster are mutually exclusive")
	case opts.SnapshotFile != "":
		snapshot, err := v1alpha1.LoadCapacitySnapshot(opts.SnapshotFile)
		if err != nil {
			return framework.Snapshot{}, err
		}
		return snapshot.ToFramework(), nil
	case opts.FromCluster:
		clientset, err := client.NewClientset(opts.Kubeconfig)
		if err != nil {
			return framework.Snapshot{}, err
		}
		return client.NewSnapshotLister(clientset, opts.ClusterLabel, opts.Namespace).Snapshot(ctx)
	default:
		logger.V(1).Info("No snapshot given, simulating devices", "devices", opts.Devices)
		return simulate(opts.Devices, seed), nil
	}
}

// simulate generates devices and places them greedily on the default clusters.
func simulate(devices int, seed uint64) framework.Snapshot {
	rng := rand.New(rand.NewSource(seed))
	return scenario.Place(scenario.DefaultClusters(), scenario.GenerateDevices(devices, rng), rng)
}
