// Copyright 2020 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package split

// Pipeline threads a single base ModuleSplit through an ordered sequence of
// Splitters, each stage fanning the in-flight family out further
// (spec.md §4.3). Stage order is significant — BuildPipeline fixes it for
// the dimension splitters, whatever order the bundle's config lists them
// in — but is otherwise opaque to the pipeline itself.
type Pipeline struct {
	stages []Splitter
}

// NewPipeline builds a pipeline running the given splitters in order.
func NewPipeline(stages ...Splitter) Pipeline {
	return Pipeline{stages: append([]Splitter(nil), stages...)}
}

// Run threads base through every stage, returning the final split family.
func (p Pipeline) Run(base ModuleSplit) ([]ModuleSplit, error) {
	family := []ModuleSplit{base}
	for _, stage := range p.stages {
		next, err := apply(stage, family)
		if err != nil {
			return nil, err
		}
		family = next
	}
	return family, nil
}
