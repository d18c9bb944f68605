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

package bundlemodel

import (
	"regexp"

	"github.com/google/blueprint/pathtools"
	"github.com/google/blueprint/proptools"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/google/bundlesplit/bserrors"
	"github.com/google/bundlesplit/targeting"
)

// SplitDimension names one of the optimization dimensions a BundleConfig can
// enable (spec.md §6). Kept as a string, rather than a closed Go enum, since
// it round-trips through the config's on-disk representation and an
// unrecognized value must be a validation error rather than a compile error.
type SplitDimension string

const (
	DimensionAbi                      SplitDimension = "ABI"
	DimensionScreenDensity            SplitDimension = "SCREEN_DENSITY"
	DimensionLanguage                 SplitDimension = "LANGUAGE"
	DimensionTextureCompressionFormat SplitDimension = "TEXTURE_COMPRESSION_FORMAT"
	DimensionDeviceTier               SplitDimension = "DEVICE_TIER"
	DimensionCountrySet               SplitDimension = "COUNTRY_SET"
)

var knownDimensions = targeting.NewSet(
	DimensionAbi, DimensionScreenDensity, DimensionLanguage,
	DimensionTextureCompressionFormat, DimensionDeviceTier, DimensionCountrySet,
)

// suffixStrippingEligible is the set of dimensions spec.md §6 allows
// suffix_stripping on.
var suffixStrippingEligible = targeting.NewSet(
	DimensionTextureCompressionFormat, DimensionDeviceTier, DimensionCountrySet,
)

// SuffixStrippingConfig is the optional per-dimension suffix_stripping
// option (spec.md §6). Enabled/DefaultSuffix are pointers so "not set in the
// config" is distinguishable from "set to false/empty", matching the
// optional-property idiom proptools.BoolDefault/StringDefault exist for.
type SuffixStrippingConfig struct {
	Enabled       *bool
	DefaultSuffix *string
}

func (s SuffixStrippingConfig) enabled() bool        { return proptools.BoolDefault(s.Enabled, false) }
func (s SuffixStrippingConfig) defaultSuffix() string { return proptools.StringDefault(s.DefaultSuffix, "") }

// IsEnabled reports whether this dimension's suffix should be stripped from
// generated entry paths (spec.md §6 suffix_stripping). Exported so the split
// package can apply it without reaching into BundleConfig internals.
func (s SuffixStrippingConfig) IsEnabled() bool { return s.enabled() }

// DefaultSuffix is the suffix (e.g. "etc1" or "tier_0") whose directory
// content should be treated as the module's default/master content when
// suffix_stripping is enabled, matching bundletool's default_suffix option.
func (s SuffixStrippingConfig) DefaultSuffix() string { return s.defaultSuffix() }

// SplitDimensionConfig configures one optimization dimension.
type SplitDimensionConfig struct {
	Dimension       SplitDimension
	SuffixStripping *SuffixStrippingConfig
}

// CompressionConfig is the `compression.*` block of spec.md §6.
type CompressionConfig struct {
	UncompressedGlob []string
}

var knownAbis = targeting.NewSet(
	targeting.ArmEabi, targeting.ArmEabiV7a, targeting.Arm64V8a,
	targeting.X86, targeting.X86_64, targeting.Mips, targeting.Mips64,
)

// MasterResourcesConfig is the `master_resources.*` block of spec.md §6.
type MasterResourcesConfig struct {
	ResourceIDs   []uint32
	ResourceNames []string
}

// BundleConfig is the subset of bundletool's BundleConfig.pb the core reads
// (spec.md §6), modeled as plain Go values rather than hand-generated
// protobuf message code (see DESIGN.md). Extensions carries any
// forward-compatible config keys the core itself does not interpret.
type BundleConfig struct {
	Compression            CompressionConfig
	OptimizationDimensions []SplitDimensionConfig
	MasterResources        MasterResourcesConfig

	// AbisForPlaceholderLibs names the ABIs the base module gets a
	// placeholder lib/<abi>/libplaceholder.so entry injected for, so a
	// device whose ABI isn't backed by real native code still resolves a
	// native-library directory for the base split (spec.md §4.4 step 9).
	AbisForPlaceholderLibs targeting.Set[targeting.Abi]

	Version    string
	Extensions *structpb.Struct
}

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Validate checks the config-level invariants of spec.md §6 that don't
// require looking at a specific module's entries (duplicate/unrecognized
// dimensions, suffix-stripping eligibility, glob syntax, version syntax).
func (c BundleConfig) Validate() error {
	if c.Version != "" && !versionPattern.MatchString(c.Version) {
		return bserrors.NewInvalidBundle(bserrors.InvalidVersion, "malformed bundletool version %q", c.Version)
	}

	seen := targeting.NewSet[SplitDimension]()
	for _, dc := range c.OptimizationDimensions {
		if !knownDimensions.Has(dc.Dimension) {
			return bserrors.NewInvalidBundle(bserrors.UnrecognizedSplitDimension, "unrecognized split dimension %q", dc.Dimension)
		}
		if seen.Has(dc.Dimension) {
			return bserrors.NewInvalidBundle(bserrors.DuplicateSplitDimension, "duplicate split dimension %q", dc.Dimension)
		}
		seen = seen.Add(dc.Dimension)

		if dc.SuffixStripping != nil && dc.SuffixStripping.enabled() {
			if !suffixStrippingEligible.Has(dc.Dimension) {
				return bserrors.NewInvalidBundle(bserrors.InvalidSuffixStrippingDimension,
					"suffix_stripping is not valid for dimension %q", dc.Dimension)
			}
			if dc.Dimension == DimensionTextureCompressionFormat {
				suffix := dc.SuffixStripping.defaultSuffix()
				if suffix != "" && !targeting.KnownTcfAliases.Has(targeting.TextureCompressionFormat(suffix)) {
					return bserrors.NewInvalidBundle(bserrors.InvalidDefaultSuffix,
						"default_suffix %q is not a known texture compression format alias", suffix)
				}
			}
		}
	}

	for a := range c.AbisForPlaceholderLibs {
		if !knownAbis.Has(a) {
			return bserrors.NewInvalidBundle(bserrors.UnrecognizedAbi, "unrecognized abis_for_placeholder_libs entry %q", a)
		}
	}

	for _, g := range c.Compression.UncompressedGlob {
		if _, err := pathtools.MockFs(nil).Glob(g, nil, pathtools.DontFollowSymlinks); err != nil {
			return bserrors.NewInvalidBundle(bserrors.InvalidGlob, "invalid uncompressed_glob %q: %v", g, err)
		}
	}
	return nil
}

// DimensionConfig looks up the configuration for one dimension, if enabled.
func (c BundleConfig) DimensionConfig(d SplitDimension) (SplitDimensionConfig, bool) {
	for _, dc := range c.OptimizationDimensions {
		if dc.Dimension == d {
			return dc, true
		}
	}
	return SplitDimensionConfig{}, false
}

// EnabledDimensions returns the set of dimensions enabled by this config.
func (c BundleConfig) EnabledDimensions() targeting.Set[SplitDimension] {
	s := targeting.NewSet[SplitDimension]()
	for _, dc := range c.OptimizationDimensions {
		s = s.Add(dc.Dimension)
	}
	return s
}

// UncompressedPaths resolves the compression.uncompressed_glob patterns
// against a concrete list of entry paths, reusing the teacher's own glob
// engine (github.com/google/blueprint/pathtools) instead of a hand-rolled
// matcher limited to path/filepath.Match's non-recursive syntax.
func UncompressedPaths(patterns []string, paths []string) (targeting.Set[string], error) {
	result := targeting.NewSet[string]()
	if len(patterns) == 0 {
		return result, nil
	}
	files := make(map[string][]byte, len(paths))
	for _, p := range paths {
		files[p] = nil
	}
	fs := pathtools.MockFs(files)
	for _, pattern := range patterns {
		g, err := fs.Glob(pattern, nil, pathtools.DontFollowSymlinks)
		if err != nil {
			return nil, bserrors.NewInvalidBundle(bserrors.InvalidGlob, "invalid uncompressed_glob %q: %v", pattern, err)
		}
		for _, m := range g.Matches {
			result = result.Add(m)
		}
	}
	return result, nil
}
