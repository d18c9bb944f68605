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

// Package variantgen decides how many build-time SDK variants a bundle
// needs, beyond the implicit L+ default, by inspecting what the bundle's
// modules actually contain (spec.md §4.6). Each generator proposes a single
// escalation point; GenerateVariants merges every generator's proposal into
// one well-formed VariantTargeting axis.
package variantgen

import (
	"strings"

	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/targeting"
)

// NativeLibsCompressionVariantGenerator proposes an uncompressed-native-libs
// variant when any module ships native libraries, escalating to N if any
// module declares a native activity (M-era loaders can't mmap reliably
// around one).
func NativeLibsCompressionVariantGenerator(modules []bundlemodel.BundleModule) targeting.SdkVersion {
	hasNativeLibs, hasNativeActivity := false, false
	for _, m := range modules {
		if len(m.NativeConfig) > 0 {
			hasNativeLibs = true
		}
		if m.Manifest.HasNativeActivity {
			hasNativeActivity = true
		}
	}
	if !hasNativeLibs {
		return 0
	}
	if hasNativeActivity {
		return targeting.FirstNativeActivityUncompressedVersion
	}
	return targeting.FirstUncompressedNativeLibsVersion
}

// DexCompressionVariantGenerator proposes an uncompressed-dex variant when
// any module ships a .dex file.
func DexCompressionVariantGenerator(modules []bundlemodel.BundleModule) targeting.SdkVersion {
	for _, m := range modules {
		for _, e := range m.Entries {
			if strings.HasSuffix(e.Path(), ".dex") {
				return targeting.FirstDexCompressionVariantVersion
			}
		}
	}
	return 0
}

// SparseEncodingVariantGenerator proposes a sparse-resource-table-encoding
// variant when any module ships a resource table at all.
func SparseEncodingVariantGenerator(modules []bundlemodel.BundleModule) targeting.SdkVersion {
	for _, m := range modules {
		if m.ResourceTable != nil && len(m.ResourceTable.Resources) > 0 {
			return targeting.FirstSparseEncodingVersion
		}
	}
	return 0
}

// hasRuntimeEnabledSdk reports whether any module declares a
// RuntimeEnabledSdkConfig, the trigger for the independent SDK-runtime
// variant pool (spec.md §4.7).
func hasRuntimeEnabledSdk(modules []bundlemodel.BundleModule) bool {
	for _, m := range modules {
		if len(m.RuntimeEnabledSdkConfigs) > 0 {
			return true
		}
	}
	return false
}

// GenerateVariants runs every generator over the bundle's modules and
// returns the full set of variants a generation run must produce: the
// implicit L+ default, one variant per distinct escalation point any
// generator proposed, and — independently of the SDK axis — one variant for
// the privacy sandbox SDK runtime if any module needs it.
func GenerateVariants(modules []bundlemodel.BundleModule) []targeting.VariantTargeting {
	cuts := targeting.NewSet(targeting.FirstSplitApkVersion)
	for _, sdk := range []targeting.SdkVersion{
		NativeLibsCompressionVariantGenerator(modules),
		DexCompressionVariantGenerator(modules),
		SparseEncodingVariantGenerator(modules),
	} {
		if sdk != 0 {
			cuts = cuts.Add(sdk)
		}
	}

	var variants []targeting.VariantTargeting
	for _, c := range targeting.SortedSlice(cuts, func(a, b targeting.SdkVersion) bool { return a < b }) {
		t := targeting.SdkVersionTargeting{
			Values:       targeting.NewSet(c),
			Alternatives: targeting.AlternativesFor(targeting.NewSet(c), cuts),
		}
		variants = append(variants, targeting.VariantTargeting{Sdk: &t})
	}

	if hasRuntimeEnabledSdk(modules) {
		variants = append(variants, targeting.VariantTargeting{
			SdkRuntime: &targeting.SdkRuntimeTargeting{RequiresSdkRuntime: true},
		})
	}
	return variants
}
