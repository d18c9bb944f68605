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

// SdkVersion is an Android API level, used both as an ApkTargeting min-sdk
// value and as a VariantTargeting axis.
type SdkVersion int32

// Named milestones referenced throughout the splitter and variant-generator
// logic (spec.md §4.4, §4.6), spelled out as concrete API levels the way
// android/api_levels.go names its own milestone levels (FirstLp64Version,
// ApiLevelR, ...) instead of leaving the letters as magic numbers.
var (
	// FirstSplitApkVersion is "L": the first API level that understands
	// split APKs at all. A module targeting only below this fails with
	// TargetsPreL.
	FirstSplitApkVersion SdkVersion = 21

	// FirstUncompressedNativeLibsVersion is "M": native libraries may be
	// stored uncompressed and mapped directly from the APK.
	FirstUncompressedNativeLibsVersion SdkVersion = 23

	// FirstNativeActivityUncompressedVersion is "N": the uncompressed-libs
	// variant escalates to this level when the module declares a native
	// activity, which M-era loaders can't mmap reliably.
	FirstNativeActivityUncompressedVersion SdkVersion = 24

	// FirstDexCompressionVariantVersion is "P": dex files may be stored
	// uncompressed.
	FirstDexCompressionVariantVersion SdkVersion = 28

	// FirstSparseEncodingVersion is "S_V2": the resource table may use the
	// sparse entry encoding.
	FirstSparseEncodingVersion SdkVersion = 32
)

// SdkVersionTargeting is the per-split/per-variant SDK dimension. Unlike the
// other dimensions, a split's Values set is conventionally a single
// half-open minimum ("this split requires API >= min").
type SdkVersionTargeting struct {
	Values       Set[SdkVersion]
	Alternatives Set[SdkVersion]
}

func (t SdkVersionTargeting) isAgnostic() bool {
	return len(t.Values) == 0 && len(t.Alternatives) == 0
}

func (t SdkVersionTargeting) equal(o SdkVersionTargeting) bool {
	return t.Values.Equal(o.Values) && t.Alternatives.Equal(o.Alternatives)
}

// SdkRuntimeTargeting flags a variant as built for the privacy-sandbox SDK
// runtime (spec.md §6 runtime-enabled-SDK config); alternative-population
// keeps this pool independent of the other variants (spec.md §4.7).
type SdkRuntimeTargeting struct {
	RequiresSdkRuntime bool
}
