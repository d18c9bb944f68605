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
	"testing"

	"github.com/google/bundlesplit/bserrors"
	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/manifest"
	"github.com/google/bundlesplit/targeting"
)

func TestModuleSplitterAbiAndDensity(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name: "base",
		Entries: []bundlemodel.ModuleEntry{
			entry("lib/armeabi-v7a/libfoo.so"),
			entry("lib/x86/libfoo.so"),
			entry("res/drawable-hdpi/icon.png"),
			entry("res/drawable-xhdpi/icon.png"),
			entry("AndroidManifest.xml"),
		},
		NativeConfig: map[string]bundlemodel.NativeDirectoryTargeting{
			"lib/armeabi-v7a": {Abi: targeting.ArmEabiV7a},
			"lib/x86":         {Abi: targeting.X86},
		},
		ResourceTable: &bundlemodel.ResourceTable{
			Resources: []bundlemodel.Resource{{
				ID:   1,
				Name: "icon",
				Configs: []bundlemodel.ResourceConfig{
					{Density: targeting.Hdpi, EntryPath: "res/drawable-hdpi/icon.png"},
					{Density: targeting.Xhdpi, EntryPath: "res/drawable-xhdpi/icon.png"},
				},
			}},
		},
	}

	ms := ModuleSplitter{Pipeline: BuildPipeline(DimensionSplitters{
		Abi:     AbiSplitter(m.NativeConfig),
		Density: DensitySplitter(m.ResourceTable, nil),
	})}

	family, err := ms.SplitModule(m, targeting.DefaultVariantTargeting())
	if err != nil {
		t.Fatalf("SplitModule: %v", err)
	}
	// The density splitter produces one split per DensityAlias bucket, not
	// just the buckets with an exact-match resource (spec.md §4.2, §8
	// scenario 4): with only HDPI/XHDPI configs available, every one of the
	// 7 buckets resolves to a best match, so master + 2 abi + 7 density.
	if len(family) != 10 {
		t.Fatalf("got %d splits, want 10 (master + 2 abi + 7 density)", len(family))
	}

	ids := map[string]bool{}
	var master *ModuleSplit
	for i := range family {
		s := &family[i]
		if ids[s.SplitID] {
			t.Errorf("duplicate split id %q", s.SplitID)
		}
		ids[s.SplitID] = true
		if s.IsMaster {
			master = s
		}
	}
	if master == nil {
		t.Fatal("no master split")
	}
	if master.SplitID != "base" {
		t.Errorf("master split id = %q, want %q", master.SplitID, "base")
	}
	if !master.Manifest.SplitsRequired() {
		t.Errorf("master manifest should have splits-required set after targeted splits were produced")
	}

	gotEntries := EntryKeys(nil)
	for _, s := range family {
		gotEntries = gotEntries.Union(EntryKeys(s.Entries))
	}
	wantEntries := EntryKeys(m.Entries)
	if !gotEntries.Equal(wantEntries) {
		t.Errorf("entries not conserved across the split family: got %v, want %v", gotEntries, wantEntries)
	}
}

func TestModuleSplitterAppliesNativeLibCompressionForHighMinSdk(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name: "base",
		Entries: []bundlemodel.ModuleEntry{
			entry("AndroidManifest.xml"),
			entry("lib/x86/libfoo.so"),
		},
	}
	ms := ModuleSplitter{Pipeline: BuildPipeline(DimensionSplitters{})}

	variant := targeting.VariantTargeting{Sdk: &targeting.SdkVersionTargeting{Values: targeting.NewSet(targeting.FirstUncompressedNativeLibsVersion)}}
	family, err := ms.SplitModule(m, variant)
	if err != nil {
		t.Fatalf("SplitModule: %v", err)
	}
	if family[0].Manifest.ExtractNativeLibs {
		t.Errorf("expected extractNativeLibs=false for a variant at/above the uncompressed-native-libs SDK")
	}
	for _, e := range family[0].Entries {
		if e.Path() == "lib/x86/libfoo.so" && !e.ForceUncompressed() {
			t.Errorf("expected lib/ entry to be force_uncompressed for a variant at/above the uncompressed-native-libs SDK")
		}
	}
}

func TestModuleSplitterLeavesNativeLibsCompressedBelowM(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name: "base",
		Entries: []bundlemodel.ModuleEntry{
			entry("AndroidManifest.xml"),
			entry("lib/x86/libfoo.so"),
		},
	}
	ms := ModuleSplitter{Pipeline: BuildPipeline(DimensionSplitters{})}

	family, err := ms.SplitModule(m, targeting.DefaultVariantTargeting())
	if err != nil {
		t.Fatalf("SplitModule: %v", err)
	}
	if !family[0].Manifest.ExtractNativeLibs {
		t.Errorf("expected extractNativeLibs=true below the uncompressed-native-libs SDK")
	}
	for _, e := range family[0].Entries {
		if e.Path() == "lib/x86/libfoo.so" && e.ForceUncompressed() {
			t.Errorf("native lib entry should not be force_uncompressed below the uncompressed-native-libs SDK")
		}
	}
}

func TestModuleSplitterAppliesDexCompressionForHighMinSdk(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name:    "base",
		Entries: []bundlemodel.ModuleEntry{entry("AndroidManifest.xml"), entry("classes.dex")},
	}
	ms := ModuleSplitter{Pipeline: BuildPipeline(DimensionSplitters{})}

	variant := targeting.VariantTargeting{Sdk: &targeting.SdkVersionTargeting{Values: targeting.NewSet(targeting.FirstDexCompressionVariantVersion)}}
	family, err := ms.SplitModule(m, variant)
	if err != nil {
		t.Fatalf("SplitModule: %v", err)
	}
	for _, e := range family[0].Entries {
		if e.Path() == "classes.dex" && !e.ForceUncompressed() {
			t.Errorf("expected classes.dex to be force_uncompressed for a dex-compression-enabled variant")
		}
	}
}

func TestModuleSplitterRejectsPreLModule(t *testing.T) {
	maxSdk := int32(19)
	m := bundlemodel.BundleModule{
		Name:     "base",
		Entries:  []bundlemodel.ModuleEntry{entry("AndroidManifest.xml")},
		Manifest: manifest.Manifest{MaxSdkVersion: &maxSdk},
	}
	ms := ModuleSplitter{Pipeline: BuildPipeline(DimensionSplitters{})}

	_, err := ms.SplitModule(m, targeting.DefaultVariantTargeting())
	if err == nil {
		t.Fatal("expected an error for a module targeting only pre-L devices")
	}
	cee, ok := err.(*bserrors.CommandExecutionError)
	if !ok {
		t.Fatalf("err = %v (%T), want *CommandExecutionError", err, err)
	}
	if cee.Kind != bserrors.TargetsPreL {
		t.Errorf("err.Kind = %v, want %v", cee.Kind, bserrors.TargetsPreL)
	}
}

func TestModuleSplitterInjectsPlaceholderNativeLibsForBaseModule(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name:    "base",
		Kind:    bundlemodel.Base,
		Entries: []bundlemodel.ModuleEntry{entry("AndroidManifest.xml")},
	}
	cfg := bundlemodel.BundleConfig{AbisForPlaceholderLibs: targeting.NewSet(targeting.X86, targeting.Arm64V8a)}
	ms := ModuleSplitter{Pipeline: BuildPipeline(DimensionSplitters{}), Config: cfg}

	family, err := ms.SplitModule(m, targeting.DefaultVariantTargeting())
	if err != nil {
		t.Fatalf("SplitModule: %v", err)
	}
	want := targeting.NewSet("lib/arm64_v8a/libplaceholder.so", "lib/x86/libplaceholder.so")
	got := targeting.NewSet[string]()
	for _, e := range family[0].Entries {
		if e.Path() != "AndroidManifest.xml" {
			got = got.Add(e.Path())
		}
	}
	if !got.Equal(want) {
		t.Errorf("placeholder entries = %v, want %v", got, want)
	}
}

func TestModuleSplitterInjectsUsesSdkLibraryForRuntimeEnabledSdk(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name:    "base",
		Kind:    bundlemodel.Base,
		Entries: []bundlemodel.ModuleEntry{entry("AndroidManifest.xml")},
		RuntimeEnabledSdkConfigs: []bundlemodel.RuntimeEnabledSdkConfig{
			{PackageName: "com.example.sdk", VersionMajor: 1, CertificateDigest: "AA:BB"},
		},
	}
	ms := ModuleSplitter{Pipeline: BuildPipeline(DimensionSplitters{})}

	family, err := ms.SplitModule(m, targeting.DefaultVariantTargeting())
	if err != nil {
		t.Fatalf("SplitModule: %v", err)
	}
	if len(family[0].Manifest.UsesSdkLibraries) != 1 {
		t.Fatalf("got %d uses-sdk-library elements, want 1", len(family[0].Manifest.UsesSdkLibraries))
	}
	lib := family[0].Manifest.UsesSdkLibraries[0]
	if lib.Name != "com.example.sdk" {
		t.Errorf("lib.Name = %q, want %q", lib.Name, "com.example.sdk")
	}
	if lib.RequiredByPrivacySandboxSdk {
		t.Errorf("expected requiredByPrivacySandboxSdk stripped for the non-sdk-runtime default variant")
	}

	sandboxVariant := targeting.VariantTargeting{SdkRuntime: &targeting.SdkRuntimeTargeting{RequiresSdkRuntime: true}}
	family2, err := ms.SplitModule(m, sandboxVariant)
	if err != nil {
		t.Fatalf("SplitModule: %v", err)
	}
	if !family2[0].Manifest.UsesSdkLibraries[0].RequiredByPrivacySandboxSdk {
		t.Errorf("expected requiredByPrivacySandboxSdk preserved for the sdk-runtime variant")
	}
}
