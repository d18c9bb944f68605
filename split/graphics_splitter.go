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

// GraphicsSplitter partitions a module's assets/*#opengl_<major.minor>/
// entries, one targeted split per declared directory occurrence, mirroring
// TcfSplitter's per-occurrence handling: different sibling families may
// declare different alternative sets for the same OpenGL version
// (spec.md §4.2 graphics API splitter).
func GraphicsSplitter(assetsConfig map[string]bundlemodel.AssetsDirectoryTargeting) Splitter {
	return func(in ModuleSplit) ([]ModuleSplit, error) {
		if !in.ApkTargeting.IsAgnosticOn(targeting.DimGraphicsApi) {
			return nil, errAlreadyTargeted("graphicsApi")
		}

		byDir := map[string][]bundlemodel.ModuleEntry{}
		var rest []bundlemodel.ModuleEntry
		for _, e := range in.Entries {
			dir, cfg, ok := assetsConfigFor(assetsConfig, e.Path())
			if !ok || cfg.Graphics == nil {
				rest = append(rest, e)
				continue
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
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{Graphics: cfg.Graphics})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries(byDir[dir]).WithApkTargeting(apk))
		}

		def := in.WithEntries(rest)
		return buildFamily(def, targeted), nil
	}
}
