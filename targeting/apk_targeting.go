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

import "fmt"

// Dimension names one of the targeting axes an ApkTargeting can carry.
type Dimension int

const (
	DimAbi Dimension = iota
	DimScreenDensity
	DimLanguage
	DimTextureCompressionFormat
	DimDeviceTier
	DimCountrySet
	DimGraphicsApi
	DimMultiAbi
	DimSdkVersion
)

func (d Dimension) String() string {
	switch d {
	case DimAbi:
		return "abi"
	case DimScreenDensity:
		return "screenDensity"
	case DimLanguage:
		return "language"
	case DimTextureCompressionFormat:
		return "textureCompressionFormat"
	case DimDeviceTier:
		return "deviceTier"
	case DimCountrySet:
		return "countrySet"
	case DimGraphicsApi:
		return "graphicsApi"
	case DimMultiAbi:
		return "multiAbi"
	case DimSdkVersion:
		return "sdkVersion"
	default:
		return "unknown"
	}
}

// ApkTargeting is the product of optional per-dimension targetings carried
// by a ModuleSplit. The zero value is Default(): "matches everything".
type ApkTargeting struct {
	Abi        *AbiTargeting
	Density    *ScreenDensityTargeting
	Language   *LanguageTargeting
	Tcf        *TextureCompressionFormatTargeting
	DeviceTier *DeviceTierTargeting
	CountrySet *CountrySetTargeting
	Graphics   *GraphicsApiTargeting
	MultiAbi   *MultiAbiTargeting
	Sdk        *SdkVersionTargeting
}

// Default returns the targeting that matches every device: every dimension
// absent.
func Default() ApkTargeting { return ApkTargeting{} }

// IsDefault reports whether every dimension of t is absent.
func (t ApkTargeting) IsDefault() bool {
	return t.Abi == nil && t.Density == nil && t.Language == nil && t.Tcf == nil &&
		t.DeviceTier == nil && t.CountrySet == nil && t.Graphics == nil &&
		t.MultiAbi == nil && t.Sdk == nil
}

// IsAgnosticOn reports whether t leaves dim unspecified.
func (t ApkTargeting) IsAgnosticOn(dim Dimension) bool {
	switch dim {
	case DimAbi:
		return t.Abi == nil
	case DimScreenDensity:
		return t.Density == nil
	case DimLanguage:
		return t.Language == nil
	case DimTextureCompressionFormat:
		return t.Tcf == nil
	case DimDeviceTier:
		return t.DeviceTier == nil
	case DimCountrySet:
		return t.CountrySet == nil
	case DimGraphicsApi:
		return t.Graphics == nil
	case DimMultiAbi:
		return t.MultiAbi == nil
	case DimSdkVersion:
		return t.Sdk == nil
	default:
		return true
	}
}

// Equal reports value equality over the full product; repeated-field order
// is irrelevant since each dimension is stored as a Set.
func (t ApkTargeting) Equal(o ApkTargeting) bool {
	return ptrEq(t.Abi, o.Abi, AbiTargeting.equal) &&
		ptrEq(t.Density, o.Density, ScreenDensityTargeting.equal) &&
		ptrEq(t.Language, o.Language, LanguageTargeting.equal) &&
		ptrEq(t.Tcf, o.Tcf, TextureCompressionFormatTargeting.equal) &&
		ptrEq(t.DeviceTier, o.DeviceTier, DeviceTierTargeting.equal) &&
		ptrEq(t.CountrySet, o.CountrySet, CountrySetTargeting.equal) &&
		ptrEq(t.Graphics, o.Graphics, GraphicsApiTargeting.equal) &&
		ptrEq(t.MultiAbi, o.MultiAbi, MultiAbiTargeting.equal) &&
		ptrEq(t.Sdk, o.Sdk, SdkVersionTargeting.equal)
}

func ptrEq[T any](a, b *T, eq func(T, T) bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return eq(*a, *b)
}

// Merge combines two ApkTargetings dimension-wise. A dimension present in
// both inputs must carry identical Values/Alternatives or Merge fails —
// ApkTargeting has no way to represent "either of two distinct values on the
// same dimension" as a single split's targeting.
func Merge(a, b ApkTargeting) (ApkTargeting, error) {
	out := ApkTargeting{}
	var err error
	if out.Abi, err = mergeDim(a.Abi, b.Abi, AbiTargeting.equal, DimAbi); err != nil {
		return ApkTargeting{}, err
	}
	if out.Density, err = mergeDim(a.Density, b.Density, ScreenDensityTargeting.equal, DimScreenDensity); err != nil {
		return ApkTargeting{}, err
	}
	if out.Language, err = mergeDim(a.Language, b.Language, LanguageTargeting.equal, DimLanguage); err != nil {
		return ApkTargeting{}, err
	}
	if out.Tcf, err = mergeDim(a.Tcf, b.Tcf, TextureCompressionFormatTargeting.equal, DimTextureCompressionFormat); err != nil {
		return ApkTargeting{}, err
	}
	if out.DeviceTier, err = mergeDim(a.DeviceTier, b.DeviceTier, DeviceTierTargeting.equal, DimDeviceTier); err != nil {
		return ApkTargeting{}, err
	}
	if out.CountrySet, err = mergeDim(a.CountrySet, b.CountrySet, CountrySetTargeting.equal, DimCountrySet); err != nil {
		return ApkTargeting{}, err
	}
	if out.Graphics, err = mergeDim(a.Graphics, b.Graphics, GraphicsApiTargeting.equal, DimGraphicsApi); err != nil {
		return ApkTargeting{}, err
	}
	if out.MultiAbi, err = mergeDim(a.MultiAbi, b.MultiAbi, MultiAbiTargeting.equal, DimMultiAbi); err != nil {
		return ApkTargeting{}, err
	}
	if out.Sdk, err = mergeDim(a.Sdk, b.Sdk, SdkVersionTargeting.equal, DimSdkVersion); err != nil {
		return ApkTargeting{}, err
	}
	return out, nil
}

func mergeDim[T any](a, b *T, eq func(T, T) bool, dim Dimension) (*T, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	if !eq(*a, *b) {
		return nil, fmt.Errorf("targeting: conflicting %s targeting in merge", dim)
	}
	return a, nil
}

// AlternativesFor computes the alternatives set for a dimension given the
// full set of values seen across siblings: among minus values.
func AlternativesFor[T comparable](values, among Set[T]) Set[T] {
	return among.Minus(values)
}
