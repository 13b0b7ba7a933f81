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

// Package metrics exposes prometheus instrumentation for placement runs.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "taskplacer"

const (
	LeaderElected = "elected"
	NoLeader      = "none"
)

// Recorder records per-cluster evolution progress. A nil Recorder is valid
// and records nothing.
type Recorder struct {
	generations     *prometheus.CounterVec
	bestFitness     *prometheus.GaugeVec
	failedServers   *prometheus.GaugeVec
	leaderElections *prometheus.CounterVec
	clusterDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total generations evolved per cluster",
			},
			[]string{"cluster"},
		),
		bestFitness: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "best_fitness",
				Help:      "Fitness of the best chromosome of the latest generation",
			},
			[]string{"cluster"},
		),
		failedServers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "failed_servers",
				Help:      "Servers marked failed by fault injection",
			},
			[]string{"cluster"},
		),
		leaderElections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "leader_elections_total",
				Help:      "Leader elections by outcome",
			},
			[]string{"result"},
		),
		clusterDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cluster_duration_seconds",
				Help:      "Time spent optimizing a single cluster",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"cluster"},
		),
	}
}

// ObserveGeneration records one completed generation.
func (r *Recorder) ObserveGeneration(cluster string, bestFitness float64) {
	if r == nil {
		return
	}
	r.generations.WithLabelValues(cluster).Inc()
	r.bestFitness.WithLabelValues(cluster).Set(bestFitness)
}

// ObserveFaults records the number of failed servers after fault injection.
func (r *Recorder) ObserveFaults(cluster string, failed int) {
	if r == nil {
		return
	}
	r.failedServers.WithLabelValues(cluster).Set(float64(failed))
}

// ObserveElection records the outcome of a leader election.
func (r *Recorder) ObserveElection(elected bool) {
	if r == nil {
		return
	}
	result := NoLeader
	if elected {
		result = LeaderElected
	}
	r.leaderElections.WithLabelValues(result).Inc()
}

// ObserveClusterDuration records how long a cluster took end to end.
func (r *Recorder) ObserveClusterDuration(cluster string, d time.Duration) {
	if r == nil {
		return
	}
	r.clusterDuration.WithLabelValues(cluster).Observe(d.Seconds())
}

// WriteTextfile writes every metric family gathered from g to path in the
// prometheus text exposition format, for node_exporter's textfile collector.
// The file is replaced atomically.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer os.Remove(tmp.Name())

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(tmp, mf); err != nil {
			tmp.Close()
			return fmt.Errorf("encoding metric family %s: %w", mf.GetName(), err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing metrics file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
