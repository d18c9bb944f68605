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

// LanguageSplitter partitions a module's assets/*#lang_<tag>/ entries and
// its locale-qualified resource-table entries by declared language tag, plus
// one assets-only rest-of-world split for any default directory that
// declared AlternativeLanguageTargeting (spec.md §4.2 language splitter). A
// resource config with no Language set is the default locale's resource and
// stays in the master split, exactly like a density-agnostic resource stays
// out of the density splitter's targeted output.
func LanguageSplitter(assetsConfig map[string]bundlemodel.AssetsDirectoryTargeting, table *bundlemodel.ResourceTable) Splitter {
	return func(in ModuleSplit) ([]ModuleSplit, error) {
		if !in.ApkTargeting.IsAgnosticOn(targeting.DimLanguage) {
			return nil, errAlreadyTargeted("language")
		}

		entryByPath := map[string]bundlemodel.ModuleEntry{}
		for _, e := range in.Entries {
			entryByPath[e.Path()] = e
		}

		byValue := map[targeting.Language][]bundlemodel.ModuleEntry{}
		seen := targeting.NewSet[targeting.Language]()
		claimedResourcePaths := targeting.NewSet[string]()
		if table != nil {
			for _, r := range table.Resources {
				for _, c := range r.Configs {
					if c.Language == "" {
						continue
					}
					e, ok := entryByPath[c.EntryPath]
					if !ok {
						continue
					}
					byValue[c.Language] = append(byValue[c.Language], e)
					seen = seen.Add(c.Language)
					claimedResourcePaths = claimedResourcePaths.Add(c.EntryPath)
				}
			}
		}

		var trueDefault, altEntries []bundlemodel.ModuleEntry
		var altTargeting *targeting.LanguageTargeting

		for _, e := range in.Entries {
			if claimedResourcePaths.Has(e.Path()) {
				continue
			}
			_, cfg, ok := assetsConfigFor(assetsConfig, e.Path())
			switch {
			case ok && cfg.Language != nil:
				for v := range cfg.Language.Values {
					byValue[v] = append(byValue[v], e)
					seen = seen.Add(v)
				}
			case ok && cfg.AlternativeLanguageTargeting != nil:
				altEntries = append(altEntries, e)
				if altTargeting == nil {
					altTargeting = cfg.AlternativeLanguageTargeting
				}
			default:
				trueDefault = append(trueDefault, e)
			}
		}
		if len(seen) == 0 && altTargeting == nil {
			return []ModuleSplit{in}, nil
		}

		var targeted []ModuleSplit
		for _, v := range targeting.SortedSlice(seen, func(a, b targeting.Language) bool { return a < b }) {
			t := targeting.LanguageTargeting{
				Values:       targeting.NewSet(v),
				Alternatives: targeting.AlternativesFor(targeting.NewSet(v), seen),
			}
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{Language: &t})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(byValue[v]).WithApkTargeting(apk))
		}
		if altTargeting != nil {
			t := targeting.LanguageTargeting{
				Values:       targeting.NewSet[targeting.Language](),
				Alternatives: altTargeting.Values,
			}
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{Language: &t})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(altEntries).WithApkTargeting(apk))
		}

		def := in.WithEntries(trueDefault)
		return buildFamily(def, targeted), nil
	}
}
