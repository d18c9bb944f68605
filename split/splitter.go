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

// Splitter takes one agnostic-on-its-dimension ModuleSplit and returns the
// family it explodes into: zero or more targeted splits, plus (usually) one
// default/rest-of-world split that keeps whatever didn't match any directive
// (spec.md §4.2). A Splitter that finds nothing to target returns the input
// split unchanged, as a slice of one.
type Splitter func(ModuleSplit) ([]ModuleSplit, error)

// apply runs a splitter over every split in splits, concatenating the
// results. Used to thread a whole in-flight family through one pipeline
// stage (spec.md §4.3).
func apply(splitter Splitter, splits []ModuleSplit) ([]ModuleSplit, error) {
	var out []ModuleSplit
	for _, s := range splits {
		next, err := splitter(s)
		if err != nil {
			return nil, err
		}
		out = append(out, next...)
	}
	return out, nil
}
