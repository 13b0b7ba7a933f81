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
	"fmt"
	"os"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/yaml"
)

// GroupName is the API group of the args file.
const GroupName = "taskplacer.sigs.k8s.io"

var (
	SchemeGroupVersion = schema.GroupVersion{Group: GroupName, Version: "v1alpha1"}

	SchemeBuilder = runtime.NewSchemeBuilder(addKnownTypes, addDefaultingFuncs)
	AddToScheme   = SchemeBuilder.AddToScheme

	scheme = runtime.NewScheme()
)

func init() {
	if err := AddToScheme(scheme); err != nil {
		panic(err)
	}
}

func addKnownTypes(scheme *runtime.Scheme) error {
	scheme.AddKnownTypes(SchemeGroupVersion, &TaskPlacerArgs{})
	return nil
}

// DecodeArgs parses YAML or JSON args, rejecting unknown fields, and applies
// defaults. Validation is left to the caller.
func DecodeArgs(data []byte) (*TaskPlacerArgs, error) {
	args := &TaskPlacerArgs{}
	if err := yaml.UnmarshalStrict(data, args); err != nil {
		return nil, fmt.Errorf("decoding args: %w", err)
	}
	if args.APIVersion != "" && args.APIVersion != SchemeGroupVersion.String() {
		return nil, fmt.Errorf("unsupported apiVersion %q, want %q", args.APIVersion, SchemeGroupVersion.String())
	}
	scheme.Default(args)
	return args, nil
}

// LoadArgs reads args from a file. An empty path yields the defaults.
func LoadArgs(path string) (*TaskPlacerArgs, error) {
	if path == "" {
		args := &TaskPlacerArgs{}
		scheme.Default(args)
		return args, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading args file: %w", err)
	}
	return DecodeArgs(data)
}
