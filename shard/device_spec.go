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

package shard

import "github.com/google/bundlesplit/targeting"

// DeviceSpec is the subset of a target device's properties the matcher
// algebra below needs: an ABI preference list (most to least preferred,
// mirroring the extract-apks device spec's ordering), a screen density, a
// supported-locale list, and an SDK version.
type DeviceSpec struct {
	Abis             []targeting.Abi
	ScreenDensity    int
	SupportedLocales []targeting.Language
	SdkVersion       targeting.SdkVersion
}

// MatchesAbi reports whether t accepts one of the device's declared ABIs in
// preference order; an absent targeting matches every device (spec.md §4.5
// device-spec sharding mode).
func MatchesAbi(t *targeting.AbiTargeting, spec DeviceSpec) bool {
	if t == nil {
		return true
	}
	for _, a := range spec.Abis {
		if t.Values.Has(a) {
			return true
		}
	}
	return false
}

// MatchesDensity reports whether t accepts the device's screen density,
// picking the best (closest not-to-exceed, else nearest) bucket the same
// way bundletool's own density resolution does.
func MatchesDensity(t *targeting.ScreenDensityTargeting, spec DeviceSpec) bool {
	if t == nil {
		return true
	}
	best := -1
	for v := range t.Values.Union(t.Alternatives) {
		d := targeting.Dpi(v)
		switch {
		case best < 0,
			d <= spec.ScreenDensity && (best > spec.ScreenDensity || d > best),
			d > spec.ScreenDensity && best > spec.ScreenDensity && d < best:
			best = d
		}
	}
	for v := range t.Values {
		if best >= 0 && targeting.Dpi(v) == best {
			return true
		}
	}
	return false
}

// MatchesLanguage reports whether t accepts one of the device's supported
// locales.
func MatchesLanguage(t *targeting.LanguageTargeting, spec DeviceSpec) bool {
	if t == nil {
		return true
	}
	for _, l := range spec.SupportedLocales {
		if t.Values.Has(l) {
			return true
		}
	}
	return len(t.Values) == 0
}

// Matches reports whether a split's full ApkTargeting is compatible with
// spec across every dimension the matcher understands.
func Matches(t targeting.ApkTargeting, spec DeviceSpec) bool {
	return MatchesAbi(t.Abi, spec) && MatchesDensity(t.Density, spec) && MatchesLanguage(t.Language, spec)
}
