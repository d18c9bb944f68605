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

import (
	"fmt"
	"strings"

	"github.com/google/bundlesplit/targeting"
)

// splitIDLabels renders each present dimension of an ApkTargeting as one
// dotted-name-safe label, in a fixed dimension order (ABI, language,
// density, TCF, device tier and the rest) (spec.md §4.4 step 8, resolving the spec's split-id
// suffix Open Question: collisions are disambiguated in pipeline encounter
// order, not sorted order).
func splitIDLabels(t targeting.ApkTargeting) []string {
	var labels []string
	if t.Abi != nil {
		for v := range t.Abi.Values {
			labels = append(labels, strings.ToLower(string(v)))
		}
	}
	if t.Language != nil {
		if len(t.Language.Values) == 0 {
			labels = append(labels, "other_lang")
		}
		for v := range t.Language.Values {
			labels = append(labels, string(v))
		}
	}
	if t.Density != nil {
		for v := range t.Density.Values {
			labels = append(labels, strings.ToLower(string(v)))
		}
	}
	if t.Tcf != nil {
		for v := range t.Tcf.Values {
			labels = append(labels, string(v))
		}
	}
	if t.DeviceTier != nil {
		for v := range t.DeviceTier.Values {
			labels = append(labels, fmt.Sprintf("tier_%d", v))
		}
	}
	if t.CountrySet != nil {
		if len(t.CountrySet.Values) == 0 {
			labels = append(labels, "other_countries")
		}
		for v := range t.CountrySet.Values {
			labels = append(labels, "countries_"+string(v))
		}
	}
	if t.Graphics != nil {
		for v := range t.Graphics.Values {
			labels = append(labels, "opengl_"+v.String())
		}
	}
	if t.MultiAbi != nil {
		var abis []string
		for _, a := range targeting.SortedSlice(targeting.Set[targeting.Abi](t.MultiAbi.Values), targeting.LessBySelectionPriority) {
			abis = append(abis, strings.ToLower(string(a)))
		}
		labels = append(labels, strings.Join(abis, "_"))
	}
	return labels
}

// baseSplitID builds a split's id before duplicate disambiguation: the bare
// module name for the family's master/default split, "config.<labels>"
// otherwise (spec.md §4.4 step 8).
func baseSplitID(moduleName string, s ModuleSplit) string {
	if s.IsMaster && s.ApkTargeting.IsDefault() {
		return moduleName
	}
	labels := splitIDLabels(s.ApkTargeting)
	if len(labels) == 0 {
		return moduleName
	}
	return "config." + strings.Join(labels, ".")
}

// assignSplitIDs sets SplitID on every split in family, in order, appending
// "_2", "_3", ... to any id already taken by an earlier split in the family
// (spec.md §4.4 step 8; the order used to break ties is the family's own
// slice order, i.e. the order the pipeline produced them in).
func assignSplitIDs(moduleName string, family []ModuleSplit) []ModuleSplit {
	seen := map[string]int{}
	out := make([]ModuleSplit, len(family))
	for i, s := range family {
		id := baseSplitID(moduleName, s)
		seen[id]++
		if n := seen[id]; n > 1 {
			id = fmt.Sprintf("%s_%d", id, n)
		}
		s.SplitID = id
		out[i] = s
	}
	return out
}
