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

package algorithms

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"sigs.k8s.io/taskplacer/pkg/taskplacer/framework"
)

// ErrLengthMismatch is returned when parents are not positionally aligned.
var ErrLengthMismatch = errors.New("parent chromosomes differ in length")

// CrossoverFunc produces one child from two equal-length parents.
type CrossoverFunc func(p1, p2 framework.Chromosome, rng *rand.Rand) (framework.Chromosome, error)

const (
	CrossoverOnePoint = "one-point"
	CrossoverTwoPoint = "two-point"
	CrossoverUniform  = "uniform"
)

// CrossoverByName resolves a crossover operator. Empty selects two-point.
func CrossoverByName(name string) (CrossoverFunc, error) {
	switch name {
	case "", CrossoverTwoPoint:
		return TwoPointCrossover, nil
	case CrossoverOnePoint:
		return OnePointCrossover, nil
	case CrossoverUniform:
		return UniformCrossover, nil
	}
	return nil, fmt.Errorf("unknown crossover %q", name)
}

// TwoPointCrossover picks 0 <= pt1 < pt2 < len and takes the middle segment
// from p2. Parents shorter than two genes yield a copy of p1.
func TwoPointCrossover(p1, p2 framework.Chromosome, rng *rand.Rand) (framework.Chromosome, error) {
	if len(p1) != len(p2) {
		return nil, ErrLengthMismatch
	}
	size := len(p1)
	if size < 2 {
		return p1.Clone(), nil
	}

	pt1 := rng.Intn(size - 1)             // [0, size-2]
	pt2 := pt1 + 1 + rng.Intn(size-pt1-1) // [pt1+1, size-1]

	return TwoPointCrossoverAt(p1, p2, pt1, pt2)
}

// TwoPointCrossoverAt builds p1[:pt1] + p2[pt1:pt2] + p1[pt2:].
func TwoPointCrossoverAt(p1, p2 framework.Chromosome, pt1, pt2 int) (framework.Chromosome, error) {
	if len(p1) != len(p2) {
		return nil, ErrLengthMismatch
	}
	if pt1 < 0 || pt2 < pt1 || pt2 > len(p1) {
		return nil, fmt.Errorf("invalid cut points %d, %d for length %d", pt1, pt2, len(p1))
	}

	child := make(framework.Chromosome, len(p1))
	for i := range p1 {
		if i < pt1 || i >= pt2 {
			child[i] = p1[i]
		} else {
			child[i] = p2[i]
		}
	}
	return child, nil
}

// OnePointCrossover takes the prefix from p1 and the suffix from p2
func OnePointCrossover(p1, p2 framework.Chromosome, rng *rand.Rand) (framework.Chromosome, error) {
	if len(p1) != len(p2) {
		return nil, ErrLengthMismatch
	}
	if len(p1) < 2 {
		return p1.Clone(), nil
	}

	point := 1 + rng.Intn(len(p1)-1)
	return TwoPointCrossoverAt(p1, p2, point, len(p1))
}

// UniformCrossover takes each gene from either parent with equal probability
func UniformCrossover(p1, p2 framework.Chromosome, rng *rand.Rand) (framework.Chromosome, error) {
	if len(p1) != len(p2) {
		return nil, ErrLengthMismatch
	}

	child := make(framework.Chromosome, len(p1))
	for i := range p1 {
		if rng.Float64() < 0.5 {
			child[i] = p1[i]
		} else {
			child[i] = p2[i]
		}
	}
	return child, nil
}
