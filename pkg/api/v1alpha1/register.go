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

package v1alpha1

import (
	"fmt"
	"os"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"
)

// GroupName is the group name used in this package
const GroupName = "taskplacer.sigs.k8s.io"

const (
	CapacitySnapshotKind = "CapacitySnapshot"
	PlacementReportKind  = "PlacementReport"
)

// SchemeGroupVersion is group version used to register these objects
var SchemeGroupVersion = schema.GroupVersion{Group: GroupName, Version: "v1alpha1"}

// LoadCapacitySnapshot reads a snapshot file, rejecting unknown fields and
// foreign kinds.
func LoadCapacitySnapshot(path string) (*CapacitySnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snapshot := &CapacitySnapshot{}
	if err := yaml.UnmarshalStrict(data, snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	if snapshot.Kind != "" && snapshot.Kind != CapacitySnapshotKind {
		return nil, fmt.Errorf("%s: unexpected kind %q, want %q", path, snapshot.Kind, CapacitySnapshotKind)
	}
	return snapshot, nil
}

// WriteYAML marshals obj to a YAML file.
func WriteYAML(path string, obj interface{}) error {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encoding %T: %w", obj, err)
	}
	return os.WriteFile(path, data, 0o644)
}
