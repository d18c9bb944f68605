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

// VariantDimension names one of the axes a VariantTargeting can carry. Only
// a subset of ApkTargeting's dimensions apply at the variant level
// (spec.md §3, §4.7).
type VariantDimension int

const (
	VarDimSdkVersion VariantDimension = iota
	VarDimAbi
	VarDimScreenDensity
	VarDimSdkRuntime
)

func (d VariantDimension) String() string {
	switch d {
	case VarDimSdkVersion:
		return "sdkVersion"
	case VarDimAbi:
		return "abi"
	case VarDimScreenDensity:
		return "screenDensity"
	case VarDimSdkRuntime:
		return "sdkRuntime"
	default:
		return "unknown"
	}
}

// VariantTargeting is the product of optional per-dimension variant-level
// targetings. The zero value is the default variant.
type VariantTargeting struct {
	Sdk        *SdkVersionTargeting
	Abi        *AbiTargeting
	Density    *ScreenDensityTargeting
	SdkRuntime *SdkRuntimeTargeting

	// Instant marks this variant as built for the instant-experience entry
	// point (spec.md §4.4 step 7): its master manifest additionally gets
	// targetSandboxVersion=2 and a minSdkVersion floor of L.
	Instant bool
}

// DefaultVariantTargeting is the empty VariantTargeting: the L+ default
// variant every generation run implicitly includes (spec.md §4.6).
func DefaultVariantTargeting() VariantTargeting { return VariantTargeting{} }

func (t VariantTargeting) IsAgnosticOn(dim VariantDimension) bool {
	switch dim {
	case VarDimSdkVersion:
		return t.Sdk == nil
	case VarDimAbi:
		return t.Abi == nil
	case VarDimScreenDensity:
		return t.Density == nil
	case VarDimSdkRuntime:
		return t.SdkRuntime == nil
	default:
		return true
	}
}

func (t VariantTargeting) Equal(o VariantTargeting) bool {
	sdkRuntimeEq := func(a, b SdkRuntimeTargeting) bool { return a.RequiresSdkRuntime == b.RequiresSdkRuntime }
	return ptrEq(t.Sdk, o.Sdk, SdkVersionTargeting.equal) &&
		ptrEq(t.Abi, o.Abi, AbiTargeting.equal) &&
		ptrEq(t.Density, o.Density, ScreenDensityTargeting.equal) &&
		ptrEq(t.SdkRuntime, o.SdkRuntime, sdkRuntimeEq) &&
		t.Instant == o.Instant
}

// WithSdkMin returns a VariantTargeting whose SDK dimension targets just the
// given minimum SDK version, with no alternatives set (spec.md §4.6).
func WithSdkMin(min SdkVersion) VariantTargeting {
	return VariantTargeting{Sdk: &SdkVersionTargeting{Values: NewSet(min)}}
}
