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

// DeviceTierSplitter partitions a module's assets/*#tier_<n>/ entries by
// declared tier, each targeted split's alternatives being the complement of
// its value within the set of tiers the module declares (spec.md §4.2
// device tier splitter). When suffixStripping is enabled, each entry's
// "#tier_<n>" directory suffix is stripped from its output path (spec.md §6
// suffix_stripping).
func DeviceTierSplitter(assetsConfig map[string]bundlemodel.AssetsDirectoryTargeting, suffixStripping *bundlemodel.SuffixStrippingConfig) Splitter {
	strip := suffixStripping != nil && suffixStripping.IsEnabled()
	return func(in ModuleSplit) ([]ModuleSplit, error) {
		if !in.ApkTargeting.IsAgnosticOn(targeting.DimDeviceTier) {
			return nil, errAlreadyTargeted("deviceTier")
		}

		byValue := map[targeting.DeviceTier][]bundlemodel.ModuleEntry{}
		seen := targeting.NewSet[targeting.DeviceTier]()
		var rest []bundlemodel.ModuleEntry
		for _, e := range in.Entries {
			dir, cfg, ok := assetsConfigFor(assetsConfig, e.Path())
			if !ok || cfg.DeviceTier == nil {
				rest = append(rest, e)
				continue
			}
			if strip {
				e = stripEntrySuffix(e, dir)
			}
			for v := range cfg.DeviceTier.Values {
				byValue[v] = append(byValue[v], e)
				seen = seen.Add(v)
			}
		}
		if len(seen) == 0 {
			return []ModuleSplit{in}, nil
		}

		var targeted []ModuleSplit
		for _, v := range targeting.SortedSlice(seen, func(a, b targeting.DeviceTier) bool { return a < b }) {
			t := targeting.DeviceTierTargeting{
				Values:       targeting.NewSet(v),
				Alternatives: targeting.AlternativesFor(targeting.NewSet(v), seen),
			}
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{DeviceTier: &t})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(byValue[v]).WithApkTargeting(apk))
		}

		def := in.WithEntries(rest)
		return buildFamily(def, targeted), nil
	}
}
