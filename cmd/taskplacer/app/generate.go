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
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"sigs.k8s.io/taskplacer/pkg/api/v1alpha1"
)

// NewGenerateCommand creates a command that writes a simulated snapshot.
func NewGenerateCommand(out io.Writer) *cobra.Command {
	var (
		devices int
		seed    uint64
		output  string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Simulate devices and write the resulting CapacitySnapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if devices < 0 {
				return fmt.Errorf("--devices must not be negative, got %d", devices)
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			snapshot := v1alpha1.NewCapacitySnapshot(fmt.Sprintf("simulated-%d", seed), simulate(devices, seed))
			if output != "" {
				return v1alpha1.WriteYAML(output, snapshot)
			}
			data, err := yaml.Marshal(snapshot)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
		SilenceUsage: true,
	}
	cmd.Flags().IntVar(&devices, "devices", 8, "Number of simulated devices.")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed. Time-based when zero.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the snapshot to this file instead of stdout.")
	return cmd
}
