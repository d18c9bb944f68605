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

// AbiSplitter partitions a module's lib/<abi>/ entries by ABI, leaving
// everything else (dex, manifest, assets, resources) in the default split
// (spec.md §4.2 ABI splitter).
func AbiSplitter(nativeConfig map[string]bundlemodel.NativeDirectoryTargeting) Splitter {
	return func(in ModuleSplit) ([]ModuleSplit, error) {
		if !in.ApkTargeting.IsAgnosticOn(targeting.DimAbi) {
			return nil, errAlreadyTargeted("abi")
		}

		allAbis := targeting.NewSet[targeting.Abi]()
		for _, cfg := range nativeConfig {
			allAbis = allAbis.Add(cfg.Abi)
		}
		if len(allAbis) == 0 {
			return []ModuleSplit{in}, nil
		}

		byAbi := map[targeting.Abi][]bundlemodel.ModuleEntry{}
		var rest []bundlemodel.ModuleEntry
		for _, e := range in.Entries {
			dir := assetsDirOf(e.Path())
			if cfg, ok := nativeConfig[dir]; ok {
				byAbi[cfg.Abi] = append(byAbi[cfg.Abi], e)
				continue
			}
			rest = append(rest, e)
		}
		if len(byAbi) == 0 {
			return []ModuleSplit{in}, nil
		}

		var targeted []ModuleSplit
		for _, abi := range targeting.SortedSlice(allAbis, targeting.LessBySelectionPriority) {
			entries, ok := byAbi[abi]
			if !ok {
				continue
			}
			t := targeting.AbiTargeting{
				Values:       targeting.NewSet(abi),
				Alternatives: targeting.AlternativesFor(targeting.NewSet(abi), allAbis),
			}
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{Abi: &t})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(entries).WithApkTargeting(apk))
		}

		def := in.WithEntries(rest)
		return buildFamily(def, targeted), nil
	}
}
