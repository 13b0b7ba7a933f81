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

package taskplacer

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"sigs.k8s.io/taskplacer/pkg/api/v1alpha1"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/faults"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
	"sigs.k8s.io/taskplacer/pkg/taskplacer/util"
)

// NewPlacementReport converts a run result into its on-disk form. Per
// generation populations are only included when withPopulations is set.
func NewPlacementReport(name string, result *Result, withPopulations bool) *v1alpha1.PlacementReport {
	report := &v1alpha1.PlacementReport{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1alpha1.SchemeGroupVersion.String(),
			Kind:       v1alpha1.PlacementReportKind,
		},
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: v1alpha1.PlacementReportSpec{
			Seed:        result.Seed,
			GeneratedAt: metav1.Now(),
			Clusters:    make([]v1alpha1.ClusterReport, 0, len(result.Clusters)),
		},
	}
	for _, cr := range result.Clusters {
		report.Spec.Clusters = append(report.Spec.Clusters, clusterReport(cr, withPopulations))
	}
	return report
}

func clusterReport(cr ClusterResult, withPopulations bool) v1alpha1.ClusterReport {
	out := v1alpha1.ClusterReport{
		Name:              cr.Cluster,
		Seed:              cr.Seed,
		FailedServers:     faults.CountFailed(cr.Servers),
		InitialScores:     fitnessValues(cr.InitialScores),
		Generations:       make([]v1alpha1.GenerationReport, 0, len(cr.Generations)),
		Best:              assignments(cr.Best, cr.Servers),
		BestFitness:       v1alpha1.Fitness(cr.BestFitness),
		RawFitness:        v1alpha1.Fitness(cr.BestDetails.RawFitness),
		Penalty:           cr.BestDetails.Penalty,
		FailedAssignments: cr.BestDetails.FailedAssignments,
		BestServer:        cr.BestDetails.BestServer,
		Feasible:          cr.Feasible,
		DurationSeconds:   cr.Duration.Seconds(),
	}

	for _, load := range ServerLoads(cr) {
		srv, _ := cr.Servers.Find(load.ServerID)
		ref, _ := cr.Reference.Find(load.ServerID)
		status := srv.Status
		if status == "" {
			status = framework.StatusActive
		}
		out.Servers = append(out.Servers, v1alpha1.ServerReport{
			ID:            srv.ID,
			Status:        string(status),
			ReferenceCPU:  ref.CPU,
			RemainingCPU:  srv.CPU,
			RAM:           srv.RAM,
			Bandwidth:     srv.Bandwidth,
			Throughput:    srv.Throughput,
			AssignedCPU:   load.Assigned,
			AssignedTasks: countGenes(cr.Best, srv.ID),
		})
	}

	if withPopulations {
		for _, chrom := range cr.InitialPopulation {
			out.InitialPopulation = append(out.InitialPopulation, assignments(chrom, cr.Servers))
		}
	}

	for _, gen := range cr.Generations {
		gr := v1alpha1.GenerationReport{
			Index:       gen.Index,
			BestFitness: v1alpha1.Fitness(gen.BestFitness),
			Scores:      fitnessValues(gen.Scores),
		}
		if withPopulations {
			for _, chrom := range gen.Population {
				gr.Population = append(gr.Population, assignments(chrom, cr.Servers))
			}
		}
		out.Generations = append(out.Generations, gr)
	}

	if cr.Leader != nil {
		out.Leader = &v1alpha1.Leader{
			ServerID:  cr.Leader.ServerID,
			TaskCount: cr.Leader.TaskCount,
		}
	}
	return out
}

// FitnessHistory extracts the best fitness per generation of every cluster.
func FitnessHistory(result *Result) []util.FitnessSeries {
	series := make([]util.FitnessSeries, 0, len(result.Clusters))
	for _, cr := range result.Clusters {
		best := make([]float64, len(cr.Generations))
		for i, gen := range cr.Generations {
			best[i] = gen.BestFitness
		}
		series = append(series, util.FitnessSeries{Cluster: cr.Cluster, Best: best})
	}
	return series
}

// ServerLoads returns the CPU the best chromosome assigns to each server of
// the cluster, in snapshot order.
func ServerLoads(cr ClusterResult) []util.ServerLoad {
	assigned := make(map[string]float64, len(cr.Servers))
	for _, gene := range cr.Best {
		assigned[gene.ServerID] += gene.Complexity
	}

	loads := make([]util.ServerLoad, 0, len(cr.Servers))
	for _, srv := range cr.Servers {
		capacity := srv.CPU
		if ref, ok := cr.Reference.Find(srv.ID); ok {
			capacity = ref.CPU
		}
		loads = append(loads, util.ServerLoad{
			ServerID: srv.ID,
			Assigned: assigned[srv.ID],
			Capacity: capacity,
			Failed:   !srv.Active(),
		})
	}
	return loads
}

func assignments(chrom framework.Chromosome, servers framework.Servers) []v1alpha1.Assignment {
	out := make([]v1alpha1.Assignment, 0, len(chrom))
	for _, gene := range chrom {
		srv, ok := servers.Find(gene.ServerID)
		out = append(out, v1alpha1.Assignment{
			DeviceID:     gene.DeviceID,
			Task:         gene.TaskName,
			Complexity:   gene.Complexity,
			ServerID:     gene.ServerID,
			ServerFailed: ok && !srv.Active(),
		})
	}
	return out
}

func fitnessValues(scores []float64) []v1alpha1.Fitness {
	out := make([]v1alpha1.Fitness, len(scores))
	for i, s := range scores {
		out[i] = v1alpha1.Fitness(s)
	}
	return out
}

func countGenes(chrom framework.Chromosome, serverID string) int {
	n := 0
	for _, gene := range chrom {
		if gene.ServerID == serverID {
			n++
		}
	}
	return n
}
