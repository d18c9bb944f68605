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

import "testing"

func TestDefaultIsAgnosticEverywhere(t *testing.T) {
	d := Default()
	if !d.IsDefault() {
		t.Errorf("Default() is not IsDefault()")
	}
	for _, dim := range []Dimension{DimAbi, DimScreenDensity, DimLanguage, DimTextureCompressionFormat,
		DimDeviceTier, DimCountrySet, DimGraphicsApi, DimMultiAbi, DimSdkVersion} {
		if !d.IsAgnosticOn(dim) {
			t.Errorf("Default() is not agnostic on %s", dim)
		}
	}
}

func TestMergeDisjointDimensions(t *testing.T) {
	a := ApkTargeting{Abi: &AbiTargeting{Values: NewSet(X86), Alternatives: NewSet(X86_64)}}
	b := ApkTargeting{Density: &ScreenDensityTargeting{Values: NewSet(Hdpi), Alternatives: NewSet(Ldpi)}}

	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.IsAgnosticOn(DimAbi) || merged.IsAgnosticOn(DimScreenDensity) {
		t.Fatalf("merged targeting lost a dimension: %+v", merged)
	}
	if !merged.Abi.Values.Equal(NewSet(X86)) {
		t.Errorf("abi values = %v, want {x86}", merged.Abi.Values)
	}
}

func TestMergeConflictingDimensionFails(t *testing.T) {
	a := ApkTargeting{Abi: &AbiTargeting{Values: NewSet(X86)}}
	b := ApkTargeting{Abi: &AbiTargeting{Values: NewSet(Arm64V8a)}}

	if _, err := Merge(a, b); err == nil {
		t.Fatal("Merge of conflicting abi targetings succeeded, want error")
	}
}

func TestMergeIdenticalDimensionSucceeds(t *testing.T) {
	abi := &AbiTargeting{Values: NewSet(X86), Alternatives: NewSet(Arm64V8a)}
	a := ApkTargeting{Abi: abi}
	b := ApkTargeting{Abi: abi}

	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !merged.Equal(a) {
		t.Errorf("merged = %+v, want %+v", merged, a)
	}
}

func TestEqualIgnoresSetOrdering(t *testing.T) {
	a := ApkTargeting{Abi: &AbiTargeting{Values: NewSet(X86, Arm64V8a)}}
	b := ApkTargeting{Abi: &AbiTargeting{Values: NewSet(Arm64V8a, X86)}}
	if !a.Equal(b) {
		t.Errorf("targetings built from differently-ordered sets compared unequal")
	}
}

func TestAlternativesFor(t *testing.T) {
	among := NewSet(TcfAtc, TcfEtc2, TcfAstc)
	values := NewSet(TcfAtc)
	alts := AlternativesFor(values, among)
	if !alts.Equal(NewSet(TcfEtc2, TcfAstc)) {
		t.Errorf("AlternativesFor = %v, want {etc2, astc}", alts)
	}
}
