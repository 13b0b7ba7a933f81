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

// Package taskplacer optimizes the placement of tasks onto servers, one
// cluster at a time, with a generational genetic algorithm.
//
// For every cluster the placer extracts tasks and servers from a capacity
// snapshot, injects random server failures, builds a warm-started initial
// population, evolves it for a fixed number of generations against the
// frozen pre-placement reference, and elects a leader server from the best
// assignment found.
package taskplacer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/rand"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/algorithms"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/constraints"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/election"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/faults"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/metrics"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/objectives/fitness"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/state"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/tracing"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/warmstart"
)

// ErrEmptySnapshot is returned when there is no cluster to optimize.
var ErrEmptySnapshot = errors.New("snapshot contains no clusters")

// ClusterResult is the outcome of optimizing one cluster.
type ClusterResult struct {
	Cluster string
	Seed    uint64

	Tasks []framework.Task
	// Servers is the fault-injected remaining-CPU snapshot the initial
	// population was built on and the leader was elected from.
	Servers framework.Servers
	// Reference is the frozen snapshot every chromosome was scored against.
	Reference framework.Servers
	// Capacity is Reference with the fault-injected statuses. Mutation picks
	// servers from it and feasibility is checked against it.
	Capacity framework.Servers

	InitialPopulation framework.Population
	InitialScores     []float64
	Generations       []algorithms.Generation

	Best        framework.Chromosome
	BestFitness float64
	BestDetails fitness.Result
	// Feasible reports whether Best keeps every task, uses only active
	// servers and stays within their Capacity.
	Feasible bool

	// Leader is nil when no gene of Best targets an active server.
	Leader *election.Leader

	Duration time.Duration
}

// Result holds one ClusterResult per input cluster, in input order.
type Result struct {
	Seed     uint64
	Clusters []ClusterResult
}

// Option configures a Placer.
type Option func(*Placer)

// WithMetrics records run progress on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Placer) {
		p.recorder = r
	}
}

// WithTracerProvider emits spans through tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Placer) {
		p.tracer = tracing.Tracer(tp)
	}
}

// Placer runs the optimization pipeline for every cluster of a snapshot.
type Placer struct {
	logger    klog.Logger
	args      *TaskPlacerArgs
	seed      uint64
	fitness   fitness.Config
	crossover algorithms.CrossoverFunc
	policy    algorithms.NegativeFitnessPolicy
	recorder  *metrics.Recorder
	tracer    trace.Tracer
}

// New builds a placer from args. Args are copied, defaulted and validated.
func New(ctx context.Context, args *TaskPlacerArgs, opts ...Option) (*Placer, error) {
	if args == nil {
		args = &TaskPlacerArgs{}
	}
	args = args.DeepCopy()
	SetDefaults_TaskPlacerArgs(args)
	if err := ValidateTaskPlacerArgs(args); err != nil {
		return nil, fmt.Errorf("invalid args: %w", err)
	}

	crossover, err := algorithms.CrossoverByName(args.Crossover)
	if err != nil {
		return nil, err
	}
	policy, err := algorithms.ParseNegativeFitnessPolicy(args.NegativeFitnessPolicy)
	if err != nil {
		return nil, err
	}

	seed := args.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	p := &Placer{
		logger: klog.FromContext(ctx).WithValues("component", "taskplacer"),
		args:   args,
		seed:   seed,
		fitness: fitness.Config{
			Weights: framework.Weights{
				CPU:        args.Weights.CPU,
				RAM:        args.Weights.RAM,
				Bandwidth:  args.Weights.Bandwidth,
				Throughput: args.Weights.Throughput,
			},
			FailurePenalty: *args.FailurePenalty,
		},
		crossover: crossover,
		policy:    policy,
		tracer:    tracing.Tracer(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Seed returns the base seed. Cluster i runs with Seed()+i.
func (p *Placer) Seed() uint64 {
	return p.seed
}

// Run optimizes every cluster of snapshot. Clusters share nothing: each gets
// private server copies and its own random source, so results depend only on
// the seed and the input, whether or not clusters run in parallel.
func (p *Placer) Run(ctx context.Context, snapshot framework.Snapshot) (*Result, error) {
	if err := validateSnapshot(snapshot); err != nil {
		return nil, err
	}

	ctx, span := p.tracer.Start(ctx, "taskplacer.Run", trace.WithAttributes(
		attribute.Int("clusters", len(snapshot.Clusters)),
		attribute.Int64("seed", int64(p.seed)),
	))
	defer span.End()

	startTime := time.Now()
	p.printConfig()

	tasks, servers := state.Extract(snapshot)
	references := state.Reference(snapshot)

	result := &Result{
		Seed:     p.seed,
		Clusters: make([]ClusterResult, len(snapshot.Clusters)),
	}
	optimize := func(i int) {
		name := snapshot.Clusters[i].Name
		result.Clusters[i] = p.runCluster(ctx, name, p.seed+uint64(i), tasks[name], servers[name], references[name])
	}

	if p.args.Parallel {
		numWorkers := min(runtime.NumCPU(), len(snapshot.Clusters))
		workChan := make(chan int, len(snapshot.Clusters))
		wg := &sync.WaitGroup{}

		for w := 0; w < numWorkers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range workChan {
					optimize(i)
				}
			}()
		}

		for i := range snapshot.Clusters {
			workChan <- i
		}
		close(workChan)
		wg.Wait()
	} else {
		for i := range snapshot.Clusters {
			optimize(i)
		}
	}

	elected := 0
	for _, cr := range result.Clusters {
		if cr.Leader != nil {
			elected++
		}
	}
	p.logger.Info("Placement complete",
		"clusters", len(result.Clusters),
		"leadersElected", elected,
		"elapsed", time.Since(startTime))
	return result, nil
}

func (p *Placer) runCluster(ctx context.Context, name string, seed uint64, tasks []framework.Task, servers, reference framework.Servers) ClusterResult {
	_, span := p.tracer.Start(ctx, "cluster", trace.WithAttributes(
		attribute.String("cluster", name),
		attribute.Int("tasks", len(tasks)),
		attribute.Int("servers", len(servers)),
	))
	defer span.End()

	logger := p.logger.WithValues("cluster", name)
	startTime := time.Now()
	rng := rand.New(rand.NewSource(seed))

	initial, faulted := warmstart.GenerateInitialPopulation(tasks, servers, warmstart.Config{
		PopulationSize:     p.args.PopulationSize,
		FailureProbability: *p.args.FailureProbability,
	}, rng)
	failed := faults.CountFailed(faulted)
	p.recorder.ObserveFaults(name, failed)
	logger.V(2).Info("Injected faults",
		"failedServers", failed,
		"activeServers", len(faulted)-failed)

	// Placed tasks are already deducted from the remaining CPU, so whole
	// assignments are measured against the pre-placement capacity.
	capacity := faults.WithHealth(reference, faulted)

	ga := algorithms.NewGeneticAlgorithm(algorithms.GAConfig{
		PopulationSize:    p.args.PopulationSize,
		MaxGenerations:    p.args.Generations,
		MutationRate:      *p.args.MutationRate,
		MaxParentAttempts: p.args.MaxParentAttempts,
		Crossover:         p.crossover,
		NegativeFitness:   p.policy,
	}, capacity, fitness.ObjectiveFunc(reference, p.fitness)).
		WithLogger(logger).
		OnGeneration(func(gen algorithms.Generation) {
			p.recorder.ObserveGeneration(name, gen.BestFitness)
		})

	initialScores := ga.EvaluatePopulation(initial)
	evolved := ga.Run(algorithms.ClonePopulation(initial), initialScores, rng)

	cr := ClusterResult{
		Cluster:           name,
		Seed:              seed,
		Tasks:             tasks,
		Servers:           faulted,
		Reference:         reference.Clone(),
		Capacity:          capacity,
		InitialPopulation: initial,
		InitialScores:     initialScores,
		Generations:       evolved.Generations,
		Best:              evolved.Best,
		BestFitness:       evolved.BestFitness,
	}
	_, cr.BestDetails = fitness.EvaluateWithDetails(cr.Best, reference, p.fitness)
	cr.Feasible = constraints.CombineConstraints(
		constraints.TaskIdentityConstraint(tasks),
		constraints.ResourceConstraint(capacity),
	)(cr.Best)

	if leader, ok := election.Elect(cr.Best, faulted); ok {
		cr.Leader = &leader
		logger.V(2).Info("Elected leader", "server", leader.ServerID, "taskCount", leader.TaskCount)
	} else {
		logger.Info("No leader elected, no active server carries a task")
	}
	p.recorder.ObserveElection(cr.Leader != nil)

	cr.Duration = time.Since(startTime)
	p.recorder.ObserveClusterDuration(name, cr.Duration)
	span.SetAttributes(
		attribute.Float64("bestFitness", cr.BestFitness),
		attribute.Bool("feasible", cr.Feasible),
	)
	logger.V(1).Info("Cluster optimized",
		"bestFitness", cr.BestFitness,
		"feasible", cr.Feasible,
		"elapsed", cr.Duration)
	return cr
}

func (p *Placer) printConfig() {
	p.logger.V(2).Info("Placement configuration",
		"populationSize", p.args.PopulationSize,
		"generations", p.args.Generations,
		"mutationRate", *p.args.MutationRate,
		"failureProbability", *p.args.FailureProbability,
		"failurePenalty", p.fitness.FailurePenalty,
		"weights", p.fitness.Weights,
		"crossover", p.args.Crossover,
		"negativeFitnessPolicy", p.policy,
		"seed", p.seed,
		"parallel", p.args.Parallel)
}

// validateSnapshot rejects snapshots whose clusters or servers cannot be
// told apart, including unnamed ones.
func validateSnapshot(snapshot framework.Snapshot) error {
	if len(snapshot.Clusters) == 0 {
		return ErrEmptySnapshot
	}

	var errs []error
	clusters := make(map[string]bool, len(snapshot.Clusters))
	for i, cluster := range snapshot.Clusters {
		if cluster.Name == "" {
			errs = append(errs, fmt.Errorf("cluster %d has no name", i))
			continue
		}
		if clusters[cluster.Name] {
			errs = append(errs, fmt.Errorf("duplicate cluster name %q", cluster.Name))
		}
		clusters[cluster.Name] = true

		servers := make(map[string]bool, len(cluster.Servers))
		for j, srv := range cluster.Servers {
			if srv.ID == "" {
				errs = append(errs, fmt.Errorf("cluster %q: server %d has no id", cluster.Name, j))
				continue
			}
			if servers[srv.ID] {
				errs = append(errs, fmt.Errorf("cluster %q: duplicate server id %q", cluster.Name, srv.ID))
			}
			servers[srv.ID] = true
		}
	}
	return utilerrors.NewAggregate(errs)
}
