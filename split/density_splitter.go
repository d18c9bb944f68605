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
	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/targeting"
)

// DensitySplitter partitions a module's density-qualified resource entries
// by screen-density bucket, leaving every other entry (and every
// density-agnostic resource) in the default split (spec.md §4.2 screen
// density splitter). For each bucket, every resource contributes the
// config(s) Android's best-density-match rule (targeting.BestDensityMatches)
// selects for that bucket — not just an exact match — so a resource with
// only LDPI and HDPI configs ends up in both of those buckets' splits and
// also in the MDPI bucket's split, carrying both configs (spec.md §4.2, §8
// scenario 4). This is the splitter's one explicitly additive case: the same
// entry may legitimately appear in more than one targeted split. pinned is
// the set of entry paths the master-resources config has pinned to the
// master split regardless of density (spec.md §6); the density splitter
// never moves a pinned entry.
func DensitySplitter(table *bundlemodel.ResourceTable, pinned targeting.Set[string]) Splitter {
	return func(in ModuleSplit) ([]ModuleSplit, error) {
		if !in.ApkTargeting.IsAgnosticOn(targeting.DimScreenDensity) {
			return nil, errAlreadyTargeted("screenDensity")
		}
		if table == nil {
			return []ModuleSplit{in}, nil
		}

		type resourceDensities struct {
			available targeting.Set[targeting.DensityAlias]
			entryOf   map[targeting.DensityAlias]string
		}
		byResource := map[uint32]resourceDensities{}
		qualifiedPaths := targeting.NewSet[string]()
		seen := targeting.NewSet[targeting.DensityAlias]()
		for _, r := range table.Resources {
			rd := resourceDensities{available: targeting.NewSet[targeting.DensityAlias](), entryOf: map[targeting.DensityAlias]string{}}
			for _, c := range r.Configs {
				if c.Density == "" || c.Density == targeting.Nodpi {
					continue
				}
				rd.available = rd.available.Add(c.Density)
				rd.entryOf[c.Density] = c.EntryPath
				qualifiedPaths = qualifiedPaths.Add(c.EntryPath)
				seen = seen.Add(c.Density)
			}
			if len(rd.available) > 0 {
				byResource[r.ID] = rd
			}
		}
		if len(byResource) == 0 {
			return []ModuleSplit{in}, nil
		}

		entryByPath := map[string]bundlemodel.ModuleEntry{}
		for _, e := range in.Entries {
			entryByPath[e.Path()] = e
		}

		byDensity := map[targeting.DensityAlias][]bundlemodel.ModuleEntry{}
		for _, d := range targeting.DensityBuckets {
			for _, rd := range byResource {
				for _, match := range targeting.BestDensityMatches(rd.available, d) {
					path := rd.entryOf[match]
					e, ok := entryByPath[path]
					if !ok || (pinned != nil && pinned.Has(path)) {
						continue
					}
					byDensity[d] = append(byDensity[d], e)
				}
			}
		}
		if len(byDensity) == 0 {
			return []ModuleSplit{in}, nil
		}

		var rest []bundlemodel.ModuleEntry
		for _, e := range in.Entries {
			if !qualifiedPaths.Has(e.Path()) || (pinned != nil && pinned.Has(e.Path())) {
				rest = append(rest, e)
			}
		}

		var targeted []ModuleSplit
		for _, d := range targeting.DensityBuckets {
			entries, ok := byDensity[d]
			if !ok {
				continue
			}
			t := targeting.ScreenDensityTargeting{
				Values:       targeting.NewSet(d),
				Alternatives: targeting.AlternativesFor(targeting.NewSet(d), seen),
			}
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{Density: &t})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(entries).WithApkTargeting(apk))
		}

		def := in.WithEntries(rest)
		return buildFamily(def, targeted), nil
	}
}
