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

import (
	"io"
	"testing"

	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/targeting"
)

func entry(path string) bundlemodel.ModuleEntry {
	return bundlemodel.NewModuleEntry("base", path, bundlemodel.NewBytesContent(path, nil))
}

func abiConfig() bundlemodel.BundleConfig {
	return bundlemodel.BundleConfig{OptimizationDimensions: []bundlemodel.SplitDimensionConfig{{Dimension: bundlemodel.DimensionAbi}}}
}

func TestGenerateStandaloneApksOnePerAbi(t *testing.T) {
	modules := []bundlemodel.BundleModule{{
		Name: "base",
		Entries: []bundlemodel.ModuleEntry{
			entry("lib/armeabi-v7a/libfoo.so"),
			entry("lib/x86/libfoo.so"),
			entry("classes.dex"),
		},
		NativeConfig: map[string]bundlemodel.NativeDirectoryTargeting{
			"lib/armeabi-v7a": {Abi: targeting.ArmEabiV7a},
			"lib/x86":         {Abi: targeting.X86},
		},
	}}

	out := GenerateStandaloneApks(modules, abiConfig(), nil)
	if len(out) != 2 {
		t.Fatalf("got %d standalone apks, want 2", len(out))
	}
	for _, s := range out {
		if len(s.Entries) != 2 {
			t.Errorf("standalone apk %s has %d entries, want 2 (one native lib + classes.dex)", s.SplitID, len(s.Entries))
		}
		foundOwnLib, foundOtherLib := false, false
		for _, e := range s.Entries {
			switch e.Path() {
			case "lib/armeabi-v7a/libfoo.so", "lib/x86/libfoo.so":
				if s.ApkTargeting.Abi.Values.Has(libAbi(e.Path())) {
					foundOwnLib = true
				} else {
					foundOtherLib = true
				}
			}
		}
		if !foundOwnLib {
			t.Errorf("standalone apk %s missing its own ABI's native lib", s.SplitID)
		}
		if foundOtherLib {
			t.Errorf("standalone apk %s leaked another ABI's native lib", s.SplitID)
		}
	}
}

func libAbi(path string) targeting.Abi {
	switch {
	case path == "lib/armeabi-v7a/libfoo.so":
		return targeting.ArmEabiV7a
	case path == "lib/x86/libfoo.so":
		return targeting.X86
	default:
		return ""
	}
}

func TestGenerateStandaloneApksNoNativeLibsIsSingleAbiAgnostic(t *testing.T) {
	modules := []bundlemodel.BundleModule{{Name: "base", Entries: []bundlemodel.ModuleEntry{entry("classes.dex")}}}
	out := GenerateStandaloneApks(modules, abiConfig(), nil)
	if len(out) != 1 {
		t.Fatalf("got %d standalone apks, want 1", len(out))
	}
	if out[0].ApkTargeting.Abi != nil {
		t.Errorf("expected abi-agnostic standalone apk when no native libs are declared")
	}
}

// compression.uncompressed_glob (spec.md §6) must force matching entries
// uncompressed in a standalone APK, same as it would in a config split.
func TestGenerateStandaloneApksHonorsUncompressedGlob(t *testing.T) {
	modules := []bundlemodel.BundleModule{{
		Name:    "base",
		Entries: []bundlemodel.ModuleEntry{entry("assets/big.bin"), entry("assets/other.txt")},
	}}
	cfg := bundlemodel.BundleConfig{Compression: bundlemodel.CompressionConfig{UncompressedGlob: []string{"assets/*.bin"}}}

	out := GenerateStandaloneApks(modules, cfg, nil)
	if len(out) != 1 {
		t.Fatalf("got %d standalone apks, want 1", len(out))
	}
	for _, e := range out[0].Entries {
		want := e.Path() == "assets/big.bin"
		if e.ForceUncompressed() != want {
			t.Errorf("entry %s force_uncompressed = %v, want %v", e.Path(), e.ForceUncompressed(), want)
		}
	}
}

func TestGenerateStandaloneApksNoDimensionsEnabledIsSingleShard(t *testing.T) {
	modules := []bundlemodel.BundleModule{{
		Name: "base",
		Entries: []bundlemodel.ModuleEntry{
			entry("lib/armeabi-v7a/libfoo.so"),
			entry("lib/x86/libfoo.so"),
		},
		NativeConfig: map[string]bundlemodel.NativeDirectoryTargeting{
			"lib/armeabi-v7a": {Abi: targeting.ArmEabiV7a},
			"lib/x86":         {Abi: targeting.X86},
		},
	}}
	out := GenerateStandaloneApks(modules, bundlemodel.BundleConfig{}, nil)
	if len(out) != 1 {
		t.Fatalf("got %d standalone apks, want 1 (no dimensions enabled)", len(out))
	}
	if len(out[0].Entries) != 2 {
		t.Errorf("single shard should carry every entry, got %d", len(out[0].Entries))
	}
}

// Cross-producting ABI and screen density must produce one shard per
// combination, each carrying only its own ABI's native lib and only the
// density bucket's best-matching icon, plus every density-agnostic entry
// (spec.md §4.5 step 3).
func TestGenerateStandaloneApksCrossProductsAbiAndDensity(t *testing.T) {
	modules := []bundlemodel.BundleModule{{
		Name: "base",
		Entries: []bundlemodel.ModuleEntry{
			entry("lib/armeabi-v7a/libfoo.so"),
			entry("lib/x86/libfoo.so"),
			entry("res/drawable-hdpi/icon.png"),
			entry("res/drawable-xhdpi/icon.png"),
			entry("classes.dex"),
		},
		NativeConfig: map[string]bundlemodel.NativeDirectoryTargeting{
			"lib/armeabi-v7a": {Abi: targeting.ArmEabiV7a},
			"lib/x86":         {Abi: targeting.X86},
		},
		ResourceTable: &bundlemodel.ResourceTable{
			Resources: []bundlemodel.Resource{{
				ID: 1,
				Configs: []bundlemodel.ResourceConfig{
					{Density: targeting.Hdpi, EntryPath: "res/drawable-hdpi/icon.png"},
					{Density: targeting.Xhdpi, EntryPath: "res/drawable-xhdpi/icon.png"},
				},
			}},
		},
	}}
	cfg := bundlemodel.BundleConfig{OptimizationDimensions: []bundlemodel.SplitDimensionConfig{
		{Dimension: bundlemodel.DimensionAbi}, {Dimension: bundlemodel.DimensionScreenDensity},
	}}

	out := GenerateStandaloneApks(modules, cfg, nil)
	// 2 ABIs x 7 density buckets (every bucket best-matches to hdpi or xhdpi).
	if len(out) != 14 {
		t.Fatalf("got %d shards, want 14 (2 abis x 7 density buckets)", len(out))
	}
	ids := map[string]bool{}
	for _, s := range out {
		if ids[s.SplitID] {
			t.Errorf("duplicate split id %q", s.SplitID)
		}
		ids[s.SplitID] = true
		foundDex := false
		for _, e := range s.Entries {
			if e.Path() == "classes.dex" {
				foundDex = true
			}
		}
		if !foundDex {
			t.Errorf("shard %s missing dimension-agnostic classes.dex", s.SplitID)
		}
	}
}

// FuseModules must resolve a path collision across modules deterministically
// in favor of the first (base) module's own entry, never both.
func TestFuseModulesBaseEntryWinsOnPathConflict(t *testing.T) {
	base := bundlemodel.BundleModule{
		Name:    "base",
		Entries: []bundlemodel.ModuleEntry{bundlemodel.NewModuleEntry("base", "assets/shared.txt", bundlemodel.NewBytesContent("assets/shared.txt", []byte("base")))},
	}
	feature := bundlemodel.BundleModule{
		Name:    "feature",
		Entries: []bundlemodel.ModuleEntry{bundlemodel.NewModuleEntry("feature", "assets/shared.txt", bundlemodel.NewBytesContent("assets/shared.txt", []byte("feature")))},
	}

	fused := FuseModules([]bundlemodel.BundleModule{base, feature})
	if len(fused.Entries) != 1 {
		t.Fatalf("got %d entries, want 1 (conflict resolved)", len(fused.Entries))
	}
	rc, err := fused.Entries[0].Content().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(content) != "base" {
		t.Errorf("content = %q, want the base module's own entry to win", content)
	}
}

// A device-spec mode retains only the cell matching the spec's ABI
// preference, dropping every shard for an ABI the device doesn't support
// (spec.md §4.5 step 5).
func TestGenerateStandaloneApksDeviceSpecRetainsOnlyMatchingCell(t *testing.T) {
	modules := []bundlemodel.BundleModule{{
		Name: "base",
		Entries: []bundlemodel.ModuleEntry{
			entry("lib/armeabi-v7a/libfoo.so"),
			entry("lib/x86/libfoo.so"),
		},
		NativeConfig: map[string]bundlemodel.NativeDirectoryTargeting{
			"lib/armeabi-v7a": {Abi: targeting.ArmEabiV7a},
			"lib/x86":         {Abi: targeting.X86},
		},
	}}
	spec := &DeviceSpec{Abis: []targeting.Abi{targeting.X86}}

	out := GenerateStandaloneApks(modules, abiConfig(), spec)
	if len(out) != 1 {
		t.Fatalf("got %d shards, want 1 (device-spec retention)", len(out))
	}
	if !out[0].ApkTargeting.Abi.Values.Has(targeting.X86) {
		t.Errorf("retained shard targets %v, want x86", out[0].ApkTargeting.Abi.Values)
	}
}

// GenerateShardedSystemSplits must fuse the device spec's own ABI/density
// cell into the system split, and split off every other discovered language
// into its own SPLIT config split instead of bloating the system image with
// every locale (spec.md §4.5).
func TestGenerateShardedSystemSplitsSplitsOffForeignLanguages(t *testing.T) {
	modules := []bundlemodel.BundleModule{{
		Name: "base",
		Entries: []bundlemodel.ModuleEntry{
			entry("res/values/strings.xml"),
			entry("res/values-fr/strings.xml"),
			entry("res/values-de/strings.xml"),
		},
		ResourceTable: &bundlemodel.ResourceTable{
			Resources: []bundlemodel.Resource{{
				ID: 1,
				Configs: []bundlemodel.ResourceConfig{
					{EntryPath: "res/values/strings.xml"},
					{Language: "fr", EntryPath: "res/values-fr/strings.xml"},
					{Language: "de", EntryPath: "res/values-de/strings.xml"},
				},
			}},
		},
	}}
	cfg := bundlemodel.BundleConfig{OptimizationDimensions: []bundlemodel.SplitDimensionConfig{{Dimension: bundlemodel.DimensionLanguage}}}
	spec := &DeviceSpec{SupportedLocales: []targeting.Language{"fr"}}

	out := GenerateShardedSystemSplits(modules, cfg, spec)
	for _, e := range out.SystemSplit.Entries {
		if e.Path() == "res/values-de/strings.xml" {
			t.Errorf("system split leaked the unsupported de locale's resource")
		}
	}
	foundFrInSystem := false
	for _, e := range out.SystemSplit.Entries {
		if e.Path() == "res/values-fr/strings.xml" {
			foundFrInSystem = true
		}
	}
	if !foundFrInSystem {
		t.Errorf("system split should keep the device spec's own supported locale (fr)")
	}
	if len(out.LanguageSplits) != 1 {
		t.Fatalf("got %d language config splits, want 1 (de)", len(out.LanguageSplits))
	}
	if out.LanguageSplits[0].SplitID != "base.config.de" {
		t.Errorf("language split id = %q, want %q", out.LanguageSplits[0].SplitID, "base.config.de")
	}
}

func TestMatchesAbiPicksFirstDevicePreference(t *testing.T) {
	tt := &targeting.AbiTargeting{Values: targeting.NewSet(targeting.Arm64V8a)}
	spec := DeviceSpec{Abis: []targeting.Abi{targeting.Arm64V8a, targeting.ArmEabiV7a}}
	if !MatchesAbi(tt, spec) {
		t.Errorf("expected a match on the device's preferred abi")
	}
	spec2 := DeviceSpec{Abis: []targeting.Abi{targeting.X86}}
	if MatchesAbi(tt, spec2) {
		t.Errorf("expected no match when the device supports neither abi")
	}
}

func TestDeviceSpecExprEvaluatesBoolean(t *testing.T) {
	expr := DeviceSpecExpr{Source: "matches = sdk >= 24 and 'ARM64_V8A' in abis"}
	ok, err := expr.Eval(DeviceSpec{SdkVersion: 28, Abis: []targeting.Abi{targeting.Arm64V8a}})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !ok {
		t.Errorf("expected the expression to match")
	}

	ok, err = expr.Eval(DeviceSpec{SdkVersion: 21, Abis: []targeting.Abi{targeting.Arm64V8a}})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if ok {
		t.Errorf("expected the expression not to match a pre-24 device")
	}
}
