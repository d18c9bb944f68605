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

import "github.com/google/bundlesplit/manifest"

// buildFamily assembles one splitter's result: a default/rest-of-world
// split plus whatever targeted splits were carved out of it. Every targeted
// split is marked non-master and queues the split-requires-splits mutator on
// its family's master (spec.md §4.2); the default split is returned as-is,
// carrying whatever master-ness and targeting it already had. If no targeted
// splits were produced, the default split is returned alone and untouched —
// a splitter that finds nothing to target is the identity.
func buildFamily(def ModuleSplit, targeted []ModuleSplit) []ModuleSplit {
	if len(targeted) == 0 {
		return []ModuleSplit{def}
	}
	out := make([]ModuleSplit, 0, len(targeted)+1)
	out = append(out, def)
	for _, t := range targeted {
		t.IsMaster = false
		t = t.AddPendingMutator(manifest.SetSplitsRequired(true))
		out = append(out, t)
	}
	return out
}
