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

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveGeneration("S1", 10)
	r.ObserveGeneration("S1", 25)
	r.ObserveGeneration("S2", 5)
	r.ObserveFaults("S1", 3)
	r.ObserveElection(true)
	r.ObserveElection(false)
	r.ObserveElection(true)
	r.ObserveClusterDuration("S1", 20*time.Millisecond)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"generations S1", testutil.ToFloat64(r.generations.WithLabelValues("S1")), 2},
		{"generations S2", testutil.ToFloat64(r.generations.WithLabelValues("S2")), 1},
		{"best fitness S1", testutil.ToFloat64(r.bestFitness.WithLabelValues("S1")), 25},
		{"failed servers S1", testutil.ToFloat64(r.failedServers.WithLabelValues("S1")), 3},
		{"elected", testutil.ToFloat64(r.leaderElections.WithLabelValues(LeaderElected)), 2},
		{"no leader", testutil.ToFloat64(r.leaderElections.WithLabelValues(NoLeader)), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, tt.got)
			}
		})
	}

	if n := testutil.CollectAndCount(r.clusterDuration); n != 1 {
		t.Errorf("expected 1 duration series, got %d", n)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveGeneration("S1", 1)
	r.ObserveFaults("S1", 1)
	r.ObserveElection(true)
	r.ObserveClusterDuration("S1", time.Second)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.ObserveGeneration("S3", 42)

	path := filepath.Join(t.TempDir(), "taskplacer.prom")
	if err := WriteTextfile(reg, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	for _, want := range []string{
		`taskplacer_generations_total{cluster="S3"} 1`,
		`taskplacer_best_fitness{cluster="S3"} 42`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}
