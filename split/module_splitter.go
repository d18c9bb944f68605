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
	"strings"

	"github.com/google/bundlesplit/bserrors"
	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/manifest"
	"github.com/google/bundlesplit/targeting"
)

// DimensionSplitters names the per-dimension Splitter enabled for a bundle,
// nil where that dimension's optimization is off (spec.md §6). Pipeline
// order is fixed, not config-order: abi, density, language, texture
// compression format, device tier, country set, graphics API.
type DimensionSplitters struct {
	Abi        Splitter
	Language   Splitter
	Density    Splitter
	Tcf        Splitter
	DeviceTier Splitter
	CountrySet Splitter
	Graphics   Splitter
}

// BuildPipeline assembles the fixed-order pipeline over whichever
// per-dimension splitters a bundle's config enabled (spec.md §4.3).
func BuildPipeline(s DimensionSplitters) Pipeline {
	var stages []Splitter
	for _, st := range []Splitter{s.Abi, s.Density, s.Language, s.Tcf, s.DeviceTier, s.CountrySet, s.Graphics} {
		if st != nil {
			stages = append(stages, st)
		}
	}
	return NewPipeline(stages...)
}

// ModuleSplitter is the per-module, per-variant orchestrator: it builds the
// base split, threads it through the dimension pipeline and, for APEX
// modules, the multi-ABI splitter, reconciles every non-master split's
// pending manifest mutators onto the master, and assigns final split ids
// (spec.md §4.4).
type ModuleSplitter struct {
	Pipeline Pipeline

	// Config is the ApkGenerationConfiguration surface SplitModule itself
	// reads, beyond the dimension splitters already wired into Pipeline:
	// the placeholder-native-lib ABI set (spec.md §4.4 step 9).
	Config bundlemodel.BundleConfig
}

// SplitModule runs the full per-module split generation for one variant.
func (ms ModuleSplitter) SplitModule(m bundlemodel.BundleModule, variant targeting.VariantTargeting) ([]ModuleSplit, error) {
	if m.Manifest.MaxSdkVersion != nil && targeting.SdkVersion(*m.Manifest.MaxSdkVersion) < targeting.FirstSplitApkVersion {
		return nil, bserrors.NewCommandExecution(bserrors.TargetsPreL,
			"module %q declares maxSdkVersion %d, below the first split-APK-capable level %d",
			m.Name, *m.Manifest.MaxSdkVersion, targeting.FirstSplitApkVersion)
	}

	var base ModuleSplit
	switch m.Kind {
	case bundlemodel.AssetOnly:
		base = ForAssets(m, variant)
	default:
		base = ForModule(m, variant)
	}
	if m.Kind != bundlemodel.AssetOnly {
		base = injectPlaceholderNativeLibs(base, m, ms.Config)
	}
	base = applyVariantCompressionMutators(base, variant)

	family, err := ms.Pipeline.Run(base)
	if err != nil {
		return nil, err
	}

	if len(m.ApexImages) > 0 {
		if family, err = apply(ApexMultiAbiSplitter(m.ApexImages), family); err != nil {
			return nil, err
		}
	}

	if family, err = reconcileMasterMutators(family); err != nil {
		return nil, err
	}

	family = rewriteMasterManifest(family, m, variant)

	return assignSplitIDs(m.Name, family), nil
}

// injectPlaceholderNativeLibs adds a synthetic lib/<abi>/libplaceholder.so
// entry to a base module for every ABI the config's abis_for_placeholder_libs
// set names (spec.md §4.4 step 9): a device whose ABI isn't backed by real
// native code still resolves a native-library directory for the base split.
func injectPlaceholderNativeLibs(base ModuleSplit, m bundlemodel.BundleModule, cfg bundlemodel.BundleConfig) ModuleSplit {
	if m.Kind != bundlemodel.Base || len(cfg.AbisForPlaceholderLibs) == 0 {
		return base
	}
	entries := append([]bundlemodel.ModuleEntry(nil), base.Entries...)
	for _, abi := range targeting.SortedSlice(cfg.AbisForPlaceholderLibs, targeting.LessBySelectionPriority) {
		path := "lib/" + strings.ToLower(string(abi)) + "/libplaceholder.so"
		entries = append(entries, bundlemodel.NewModuleEntry(m.Name, path, bundlemodel.NewBytesContent(path, nil)))
	}
	return base.WithEntries(entries)
}

// rewriteMasterManifest applies the master-only manifest edits spec.md §4.4
// step 7 and the runtime-enabled-SDK step describe: the minSdkVersion floor,
// the instant-variant sandbox/minSdk override, and <uses-sdk-library>
// injection/stripping for a base module's declared runtime-enabled SDKs.
func rewriteMasterManifest(family []ModuleSplit, m bundlemodel.BundleModule, variant targeting.VariantTargeting) []ModuleSplit {
	masterIdx := -1
	for i, s := range family {
		if s.IsMaster {
			masterIdx = i
			break
		}
	}
	if masterIdx < 0 {
		return family
	}

	var muts manifest.MutatorList
	minSdk := m.Manifest.MinSdkVersion
	if minSdk < int32(targeting.FirstSplitApkVersion) {
		minSdk = int32(targeting.FirstSplitApkVersion)
	}
	muts = append(muts, manifest.SetMinSdkVersion(minSdk))

	if variant.Instant {
		muts = append(muts, manifest.SetSandboxVersion(2))
		if minSdk < int32(targeting.FirstSplitApkVersion) {
			muts = append(muts, manifest.SetMinSdkVersion(int32(targeting.FirstSplitApkVersion)))
		}
	}

	if m.Kind == bundlemodel.Base {
		for _, rc := range m.RuntimeEnabledSdkConfigs {
			muts = append(muts, manifest.AddUsesSdkLibrary(manifest.UsesSdkLibrary{
				Name:                        rc.PackageName,
				VersionMajor:                rc.VersionMajor,
				CertDigest:                  rc.CertificateDigest,
				RequiredByPrivacySandboxSdk: true,
			}))
		}
		if len(m.RuntimeEnabledSdkConfigs) > 0 && !(variant.SdkRuntime != nil && variant.SdkRuntime.RequiresSdkRuntime) {
			muts = append(muts, manifest.StripPrivacySandboxRequirement())
		}
	}

	family[masterIdx].Manifest = manifest.Apply(family[masterIdx].Manifest, muts)
	return family
}

// applyVariantCompressionMutators folds the dex/native-library compression
// rules tied to a variant's minimum SDK directly onto the base split,
// before it fans out through the pipeline, so every ABI/config split the
// native-lib entries eventually land in inherits the same
// force_uncompressed flag (spec.md §4.4 step 5, step 7):
//   - minSdk >= M: lib/ entries get force_uncompressed=true and the master
//     manifest gets extractNativeLibs=false. Below M, the reverse.
//   - minSdk >= P (dex compression variant): *.dex entries get
//     force_uncompressed=true.
func applyVariantCompressionMutators(base ModuleSplit, variant targeting.VariantTargeting) ModuleSplit {
	uncompressedNativeLibs, uncompressedDex := false, false
	if variant.Sdk != nil {
		for sdk := range variant.Sdk.Values {
			if sdk >= targeting.FirstUncompressedNativeLibsVersion {
				uncompressedNativeLibs = true
			}
			if sdk >= targeting.FirstDexCompressionVariantVersion {
				uncompressedDex = true
			}
		}
	}

	if uncompressedNativeLibs || uncompressedDex {
		entries := make([]bundlemodel.ModuleEntry, len(base.Entries))
		for i, e := range base.Entries {
			switch {
			case uncompressedNativeLibs && strings.HasPrefix(e.Path(), "lib/"):
				e = e.WithForceUncompressed(true)
			case uncompressedDex && strings.HasSuffix(e.Path(), ".dex"):
				e = e.WithForceUncompressed(true)
			}
			entries[i] = e
		}
		base = base.WithEntries(entries)
	}

	base.Manifest = manifest.Apply(base.Manifest, manifest.MutatorList{manifest.SetExtractNativeLibs(!uncompressedNativeLibs)})
	return base
}

// reconcileMasterMutators merges every split's pending mutators and applies
// the result to the family's master split, failing with
// InconsistentMasterMutators if two splits requested conflicting edits
// (spec.md §4.4 step 6/7, §7).
func reconcileMasterMutators(family []ModuleSplit) ([]ModuleSplit, error) {
	var merged manifest.MutatorList
	masterIdx := -1
	for i, s := range family {
		if s.IsMaster {
			masterIdx = i
		}
		var err error
		if merged, err = merged.Merge(s.PendingMutators); err != nil {
			return nil, bserrors.NewCommandExecution(bserrors.InconsistentMasterMutators, "%v", err)
		}
	}
	if masterIdx < 0 || len(merged) == 0 {
		return family, nil
	}
	family[masterIdx].Manifest = manifest.Apply(family[masterIdx].Manifest, merged)
	return family, nil
}
