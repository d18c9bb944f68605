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

// Package altpop populates the Alternatives side of a generated variant
// set's targeting, the variant-level counterpart of what each per-dimension
// splitter does for a single module's ApkTargeting (spec.md §4.7).
package altpop

import (
	"github.com/google/bundlesplit/bserrors"
	"github.com/google/bundlesplit/targeting"
)

// Populate fills in Alternatives for every dimension a variant set carries
// Values for, failing with MixedDimensionAgnosticism if some variants
// specify a dimension and others leave it agnostic — a variant set either
// all targets a dimension or none of them do (spec.md §4.7). SDK-runtime
// variants form an independent alternatives pool: a privacy-sandbox variant's
// Abi/ScreenDensity/SdkVersion alternatives are computed only against other
// privacy-sandbox variants, never against the regular pool, so the two pools
// are resolved separately.
func Populate(variants []targeting.VariantTargeting) ([]targeting.VariantTargeting, error) {
	out := append([]targeting.VariantTargeting(nil), variants...)
	for _, idxs := range partitionBySdkRuntimePool(out) {
		pool := make([]targeting.VariantTargeting, len(idxs))
		for i, idx := range idxs {
			pool[i] = out[idx]
		}
		if err := populateSdk(pool); err != nil {
			return nil, err
		}
		if err := populateAbi(pool); err != nil {
			return nil, err
		}
		if err := populateDensity(pool); err != nil {
			return nil, err
		}
		for i, idx := range idxs {
			out[idx] = pool[i]
		}
	}
	return out, nil
}

// partitionBySdkRuntimePool splits variant indices into the privacy-sandbox
// pool (RequiresSdkRuntime) and the regular pool, preserving order within
// each (spec.md §4.7).
func partitionBySdkRuntimePool(variants []targeting.VariantTargeting) [][]int {
	var runtime, regular []int
	for i, v := range variants {
		if v.SdkRuntime != nil && v.SdkRuntime.RequiresSdkRuntime {
			runtime = append(runtime, i)
		} else {
			regular = append(regular, i)
		}
	}
	var pools [][]int
	if len(regular) > 0 {
		pools = append(pools, regular)
	}
	if len(runtime) > 0 {
		pools = append(pools, runtime)
	}
	return pools
}

// checkAgnosticism reports whether every variant is agnostic on dim. A
// mix of agnostic and non-agnostic variants on the same dimension is a
// caller error: there's no well-defined Alternatives set to compute.
func checkAgnosticism(variants []targeting.VariantTargeting, dim targeting.VariantDimension) (allAgnostic bool, err error) {
	agnosticCount := 0
	for _, v := range variants {
		if v.IsAgnosticOn(dim) {
			agnosticCount++
		}
	}
	switch agnosticCount {
	case 0:
		return false, nil
	case len(variants):
		return true, nil
	default:
		return false, bserrors.NewIllegalArgument(bserrors.MixedDimensionAgnosticism,
			"variant set is agnostic on %s for some variants but not others", dim)
	}
}

// populateSdk fills in each variant's SDK Alternatives as the complement of
// its own Values within the full set of declared cut points, plus a
// synthetic maxSdkVersion+1 alternative on the highest variant: the top
// variant's range is open-ended on the device side, but Alternatives must
// still name something above it so a device just below the next hypothetical
// cut point doesn't read as matching every variant at once.
func populateSdk(variants []targeting.VariantTargeting) error {
	agnostic, err := checkAgnosticism(variants, targeting.VarDimSdkVersion)
	if err != nil {
		return err
	}
	if agnostic {
		return nil
	}

	all := targeting.NewSet[targeting.SdkVersion]()
	var maxV targeting.SdkVersion
	for _, v := range variants {
		for s := range v.Sdk.Values {
			all = all.Add(s)
			if s > maxV {
				maxV = s
			}
		}
	}
	for i := range variants {
		values := variants[i].Sdk.Values
		alt := targeting.AlternativesFor(values, all)
		if values.Has(maxV) {
			alt = alt.Add(maxV + 1)
		}
		variants[i].Sdk = &targeting.SdkVersionTargeting{Values: values, Alternatives: alt}
	}
	return nil
}

func populateAbi(variants []targeting.VariantTargeting) error {
	agnostic, err := checkAgnosticism(variants, targeting.VarDimAbi)
	if err != nil {
		return err
	}
	if agnostic {
		return nil
	}

	all := targeting.NewSet[targeting.Abi]()
	for _, v := range variants {
		for a := range v.Abi.Values {
			all = all.Add(a)
		}
	}
	for i := range variants {
		values := variants[i].Abi.Values
		variants[i].Abi = &targeting.AbiTargeting{Values: values, Alternatives: targeting.AlternativesFor(values, all)}
	}
	return nil
}

func populateDensity(variants []targeting.VariantTargeting) error {
	agnostic, err := checkAgnosticism(variants, targeting.VarDimScreenDensity)
	if err != nil {
		return err
	}
	if agnostic {
		return nil
	}

	all := targeting.NewSet[targeting.DensityAlias]()
	for _, v := range variants {
		for d := range v.Density.Values {
			all = all.Add(d)
		}
	}
	for i := range variants {
		values := variants[i].Density.Values
		variants[i].Density = &targeting.ScreenDensityTargeting{Values: values, Alternatives: targeting.AlternativesFor(values, all)}
	}
	return nil
}
