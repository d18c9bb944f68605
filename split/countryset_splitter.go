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

// CountrySetSplitter partitions a module's assets/*#countries_<set>/
// entries by declared country set, plus one rest-of-world split carrying
// whatever default (un-suffixed) directory declared
// AlternativeCountrySetTargeting. Each targeted split's alternatives are the
// union of the other declared country sets (spec.md §4.2 country set
// splitter). When suffixStripping is enabled, each entry's
// "#countries_<set>" directory suffix is stripped from its output path
// (spec.md §6 suffix_stripping).
func CountrySetSplitter(assetsConfig map[string]bundlemodel.AssetsDirectoryTargeting, suffixStripping *bundlemodel.SuffixStrippingConfig) Splitter {
	strip := suffixStripping != nil && suffixStripping.IsEnabled()
	return func(in ModuleSplit) ([]ModuleSplit, error) {
		if !in.ApkTargeting.IsAgnosticOn(targeting.DimCountrySet) {
			return nil, errAlreadyTargeted("countrySet")
		}

		byValue := map[targeting.CountrySet][]bundlemodel.ModuleEntry{}
		seen := targeting.NewSet[targeting.CountrySet]()
		var trueDefault, altEntries []bundlemodel.ModuleEntry
		var altTargeting *targeting.CountrySetTargeting

		for _, e := range in.Entries {
			dir, cfg, ok := assetsConfigFor(assetsConfig, e.Path())
			switch {
			case ok && cfg.CountrySet != nil:
				if strip {
					e = stripEntrySuffix(e, dir)
				}
				for v := range cfg.CountrySet.Values {
					byValue[v] = append(byValue[v], e)
					seen = seen.Add(v)
				}
			case ok && cfg.AlternativeCountrySetTargeting != nil:
				altEntries = append(altEntries, e)
				if altTargeting == nil {
					altTargeting = cfg.AlternativeCountrySetTargeting
				}
			default:
				trueDefault = append(trueDefault, e)
			}
		}
		if len(seen) == 0 && altTargeting == nil {
			return []ModuleSplit{in}, nil
		}

		var targeted []ModuleSplit
		for _, v := range targeting.SortedSlice(seen, func(a, b targeting.CountrySet) bool { return a < b }) {
			t := targeting.CountrySetTargeting{
				Values:       targeting.NewSet(v),
				Alternatives: targeting.AlternativesFor(targeting.NewSet(v), seen),
			}
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{CountrySet: &t})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(byValue[v]).WithApkTargeting(apk))
		}
		if altTargeting != nil {
			t := targeting.CountrySetTargeting{
				Values:       targeting.NewSet[targeting.CountrySet](),
				Alternatives: altTargeting.Values,
			}
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{CountrySet: &t})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(altEntries).WithApkTargeting(apk))
		}

		def := in.WithEntries(trueDefault)
		return buildFamily(def, targeted), nil
	}
}
