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
	"sort"

	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/targeting"
)

// TcfSplitter partitions a module's assets/*#tcf_<fmt>/ entries, one
// targeted split per declared directory occurrence rather than merged per
// format: sibling directories may declare different alternative sets for the
// same format, so each occurrence's declared targeting (Values and
// Alternatives both) passes through unchanged (spec.md §4.2 texture
// compression format splitter). When suffixStripping is enabled, each
// entry's "#tcf_<fmt>" directory suffix is stripped from its output path
// (spec.md §6 suffix_stripping).
func TcfSplitter(assetsConfig map[string]bundlemodel.AssetsDirectoryTargeting, suffixStripping *bundlemodel.SuffixStrippingConfig) Splitter {
	strip := suffixStripping != nil && suffixStripping.IsEnabled()
	return func(in ModuleSplit) ([]ModuleSplit, error) {
		if !in.ApkTargeting.IsAgnosticOn(targeting.DimTextureCompressionFormat) {
			return nil, errAlreadyTargeted("textureCompressionFormat")
		}

		byDir := map[string][]bundlemodel.ModuleEntry{}
		var rest []bundlemodel.ModuleEntry
		for _, e := range in.Entries {
			dir, cfg, ok := assetsConfigFor(assetsConfig, e.Path())
			if !ok || cfg.Tcf == nil {
				rest = append(rest, e)
				continue
			}
			if strip {
				e = stripEntrySuffix(e, dir)
			}
			byDir[dir] = append(byDir[dir], e)
		}
		if len(byDir) == 0 {
			return []ModuleSplit{in}, nil
		}

		dirs := make([]string, 0, len(byDir))
		for d := range byDir {
			dirs = append(dirs, d)
		}
		sort.Strings(dirs)

		var targeted []ModuleSplit
		for _, dir := range dirs {
			cfg := assetsConfig[dir]
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{Tcf: cfg.Tcf})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(byDir[dir]).WithApkTargeting(apk))
		}

		def := in.WithEntries(rest)
		return buildFamily(def, targeted), nil
	}
}
