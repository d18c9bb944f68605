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

package targeting

// DensityAlias is one of the named screen-density buckets a resource
// configuration can target. Names come from bundletool's
// ScreenDensity.DensityAlias enum.
type DensityAlias string

const (
	Ldpi   DensityAlias = "LDPI"
	Mdpi   DensityAlias = "MDPI"
	Tvdpi  DensityAlias = "TVDPI"
	Hdpi   DensityAlias = "HDPI"
	Xhdpi  DensityAlias = "XHDPI"
	Xxhdpi DensityAlias = "XXHDPI"
	Xxxhdpi DensityAlias = "XXXHDPI"
	Nodpi  DensityAlias = "NODPI"
)

// DensityBuckets lists the buckets the screen-density splitter produces one
// split per, in resource-config dpi order (spec.md §4.2).
var DensityBuckets = []DensityAlias{Ldpi, Mdpi, Tvdpi, Hdpi, Xhdpi, Xxhdpi, Xxxhdpi}

// densityDpi is the nominal dpi of each named bucket, used for the
// "best-matching" density resolution rule.
var densityDpi = map[DensityAlias]int{
	Ldpi:    120,
	Mdpi:    160,
	Tvdpi:   213,
	Hdpi:    240,
	Xhdpi:   320,
	Xxhdpi:  480,
	Xxxhdpi: 640,
}

// Dpi returns the nominal dots-per-inch value of a density bucket.
func Dpi(d DensityAlias) int { return densityDpi[d] }

func densityLess(a, b DensityAlias) bool { return densityDpi[a] < densityDpi[b] }

// BestDensityMatches implements Android's best-matching density-resolution
// rule (spec.md §4.2 screen density splitter): given the set of buckets a
// resource actually has a config for, pick the bucket(s) a device in
// target's class would be served. An exact match always wins outright.
// Otherwise the nearest bucket on either side of target is a candidate; ties
// break toward the higher density. MDPI is a special case: its device class
// spans a wide dpi range that can be served equally well by the nearest
// lower or higher bucket, so when both sides have a candidate (and neither
// is an exact match) both are returned, letting the runtime resource loader
// pick per-device. Returns nil if available is empty.
func BestDensityMatches(available Set[DensityAlias], target DensityAlias) []DensityAlias {
	if available.Has(target) {
		return []DensityAlias{target}
	}

	targetDpi := Dpi(target)
	var below, above DensityAlias
	belowDist, aboveDist := -1, -1
	for _, b := range DensityBuckets {
		if !available.Has(b) {
			continue
		}
		d := Dpi(b)
		switch {
		case d < targetDpi:
			if belowDist == -1 || targetDpi-d < belowDist {
				belowDist, below = targetDpi-d, b
			}
		case d > targetDpi:
			if aboveDist == -1 || d-targetDpi < aboveDist {
				aboveDist, above = d-targetDpi, b
			}
		}
	}

	switch {
	case belowDist == -1 && aboveDist == -1:
		return nil
	case belowDist == -1:
		return []DensityAlias{above}
	case aboveDist == -1:
		return []DensityAlias{below}
	case target == Mdpi:
		return []DensityAlias{below, above}
	case aboveDist <= belowDist:
		return []DensityAlias{above}
	default:
		return []DensityAlias{below}
	}
}

// ScreenDensityTargeting is the per-split density dimension.
type ScreenDensityTargeting struct {
	Values       Set[DensityAlias]
	Alternatives Set[DensityAlias]
}

func (t ScreenDensityTargeting) isAgnostic() bool {
	return len(t.Values) == 0 && len(t.Alternatives) == 0
}

func (t ScreenDensityTargeting) equal(o ScreenDensityTargeting) bool {
	return t.Values.Equal(o.Values) && t.Alternatives.Equal(o.Alternatives)
}
