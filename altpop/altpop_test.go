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

package altpop

import (
	"testing"

	"github.com/google/bundlesplit/bserrors"
	"github.com/google/bundlesplit/targeting"
)

func sdkVariant(v targeting.SdkVersion) targeting.VariantTargeting {
	return targeting.VariantTargeting{Sdk: &targeting.SdkVersionTargeting{Values: targeting.NewSet(v)}}
}

func TestPopulateSdkAlternativesAndSyntheticTop(t *testing.T) {
	variants := []targeting.VariantTargeting{sdkVariant(21), sdkVariant(23), sdkVariant(28)}
	out, err := Populate(variants)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	for _, v := range out {
		want := targeting.NewSet[targeting.SdkVersion](21, 23, 28).Minus(v.Sdk.Values)
		if v.Sdk.Values.Has(28) {
			want = want.Add(29)
		}
		if !v.Sdk.Alternatives.Equal(want) {
			t.Errorf("variant %v alternatives = %v, want %v", v.Sdk.Values, v.Sdk.Alternatives, want)
		}
	}
}

func TestPopulateMixedAgnosticismFails(t *testing.T) {
	variants := []targeting.VariantTargeting{sdkVariant(21), targeting.DefaultVariantTargeting()}
	_, err := Populate(variants)
	if err == nil {
		t.Fatal("expected an error for mixed sdk agnosticism")
	}
	iae, ok := err.(*bserrors.IllegalArgumentError)
	if !ok {
		t.Fatalf("err = %v (%T), want *IllegalArgumentError", err, err)
	}
	if iae.Kind != bserrors.MixedDimensionAgnosticism {
		t.Errorf("err.Kind = %v, want %v", iae.Kind, bserrors.MixedDimensionAgnosticism)
	}
}

// SDK-runtime variants form an independent alternatives pool (spec.md §4.7):
// a privacy-sandbox variant's alternatives must only name other
// privacy-sandbox variants, never the regular pool's.
func TestPopulateSdkRuntimeIsIndependentPool(t *testing.T) {
	regular := sdkVariant(21)
	regular2 := sdkVariant(23)
	sandboxed := sdkVariant(21)
	sandboxed.SdkRuntime = &targeting.SdkRuntimeTargeting{RequiresSdkRuntime: true}
	sandboxed2 := sdkVariant(28)
	sandboxed2.SdkRuntime = &targeting.SdkRuntimeTargeting{RequiresSdkRuntime: true}

	out, err := Populate([]targeting.VariantTargeting{regular, regular2, sandboxed, sandboxed2})
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}

	if !out[0].Sdk.Alternatives.Equal(targeting.NewSet[targeting.SdkVersion](23)) {
		t.Errorf("regular variant alternatives = %v, want {23}", out[0].Sdk.Alternatives)
	}
	if !out[2].Sdk.Alternatives.Equal(targeting.NewSet[targeting.SdkVersion](28)) {
		t.Errorf("sandboxed variant alternatives = %v, want {28} only, not leaking the regular pool's 23", out[2].Sdk.Alternatives)
	}
	if !out[3].Sdk.Alternatives.Equal(targeting.NewSet[targeting.SdkVersion](21, 29)) {
		t.Errorf("top sandboxed variant alternatives = %v, want {21, 29}", out[3].Sdk.Alternatives)
	}
}

func TestPopulateAllAgnosticIsNoop(t *testing.T) {
	variants := []targeting.VariantTargeting{targeting.DefaultVariantTargeting(), targeting.DefaultVariantTargeting()}
	out, err := Populate(variants)
	if err != nil {
		t.Fatalf("Populate: %v", err)
	}
	for _, v := range out {
		if v.Sdk != nil {
			t.Errorf("expected sdk dimension to remain agnostic")
		}
	}
}
