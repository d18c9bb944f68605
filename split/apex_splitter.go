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

// ApexMultiAbiSplitter produces one targeted split per declared APEX image,
// each carrying just that image's payload entry, targeted on the image's ABI
// set as a single MultiAbiTargeting value (spec.md §4.2 APEX multi-ABI
// splitter). Unlike the single-ABI splitter, an image's alternatives are
// other images' whole ABI sets, not individual ABI elements. Entries that
// are not images stay in a default split; when there are none, the family
// is the image splits alone, with no empty default split.
func ApexMultiAbiSplitter(apexImages []bundlemodel.ApexImage) Splitter {
	return func(in ModuleSplit) ([]ModuleSplit, error) {
		if !in.ApkTargeting.IsAgnosticOn(targeting.DimMultiAbi) {
			return nil, errAlreadyTargeted("multiAbi")
		}
		if len(apexImages) == 0 {
			return []ModuleSplit{in}, nil
		}

		entryByPath := map[string]bundlemodel.ModuleEntry{}
		imagePaths := targeting.NewSet[string]()
		for _, e := range in.Entries {
			entryByPath[e.Path()] = e
		}
		for _, img := range apexImages {
			imagePaths = imagePaths.Add(img.Path)
		}

		var rest []bundlemodel.ModuleEntry
		for _, e := range in.Entries {
			if !imagePaths.Has(e.Path()) {
				rest = append(rest, e)
			}
		}

		var targeted []ModuleSplit
		for _, img := range apexImages {
			e, ok := entryByPath[img.Path]
			if !ok {
				continue
			}
			otherAbis := targeting.NewSet[targeting.Abi]()
			for _, other := range apexImages {
				if other.Path == img.Path {
					continue
				}
				for a := range other.Abis {
					otherAbis = otherAbis.Add(a)
				}
			}
			t := targeting.MultiAbiTargeting{
				Values:       targeting.MultiAbi(img.Abis),
				Alternatives: otherAbis,
			}
			apk, err := targeting.Merge(in.ApkTargeting, targeting.ApkTargeting{MultiAbi: &t})
			if err != nil {
				return nil, err
			}
			targeted = append(targeted, in.WithEntries([]bundlemodel.ModuleEntry{e}).WithApkTargeting(apk))
		}

		def := in.WithEntries(rest)
		family := buildFamily(def, targeted)
		if len(rest) == 0 && len(targeted) > 0 {
			return family[1:], nil
		}
		return family, nil
	}
}
