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

	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/targeting"
)

// Reproduces the "country-set module with a declared rest-of-world
// alternative" scenario: a latam directory, a sea directory, and a default
// directory that declares AlternativeCountrySetTargeting({latam, sea}).
func TestCountrySetSplitterRestOfWorld(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name: "config.countries",
		Kind: bundlemodel.AssetOnly,
		Entries: []bundlemodel.ModuleEntry{
			entry("assets/images#countries_latam/flag.png"),
			entry("assets/images#countries_sea/flag.png"),
			entry("assets/images/flag.png"),
		},
		AssetsConfig: map[string]bundlemodel.AssetsDirectoryTargeting{
			"assets/images#countries_latam": {
				CountrySet: &targeting.CountrySetTargeting{Values: targeting.NewSet(targeting.CountrySet("latam"))},
			},
			"assets/images#countries_sea": {
				CountrySet: &targeting.CountrySetTargeting{Values: targeting.NewSet(targeting.CountrySet("sea"))},
			},
			"assets/images": {
				AlternativeCountrySetTargeting: &targeting.CountrySetTargeting{
					Values: targeting.NewSet(targeting.CountrySet("latam"), targeting.CountrySet("sea")),
				},
			},
		},
	}

	base := ForAssets(m, targeting.DefaultVariantTargeting())
	out, err := CountrySetSplitter(m.AssetsConfig, nil)(base)
	if err != nil {
		t.Fatalf("CountrySetSplitter: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("got %d splits, want 4 (master + latam + sea + other_countries)", len(out))
	}

	var master *ModuleSplit
	otherCountries := 0
	for i := range out {
		s := &out[i]
		if s.IsMaster {
			master = s
			continue
		}
		if s.ApkTargeting.CountrySet == nil {
			t.Errorf("non-master split missing CountrySet targeting")
			continue
		}
		if len(s.ApkTargeting.CountrySet.Values) == 0 {
			otherCountries++
			if !s.ApkTargeting.CountrySet.Alternatives.Equal(targeting.NewSet(targeting.CountrySet("latam"), targeting.CountrySet("sea"))) {
				t.Errorf("other_countries alternatives = %v", s.ApkTargeting.CountrySet.Alternatives)
			}
			if len(s.Entries) != 1 {
				t.Errorf("other_countries split should carry the default entry, got %d entries", len(s.Entries))
			}
		}
	}
	if master == nil {
		t.Fatal("no master split found")
	}
	if len(master.Entries) != 0 {
		t.Errorf("master should carry no entries, got %d", len(master.Entries))
	}
	if otherCountries != 1 {
		t.Errorf("expected exactly one other_countries split, got %d", otherCountries)
	}
}

// When suffix_stripping is enabled for COUNTRY_SET (spec.md §6), the
// "#countries_<set>" directory suffix must not leak into the output APK's
// entry paths.
func TestCountrySetSplitterStripsSuffixWhenEnabled(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name: "config.countries",
		Kind: bundlemodel.AssetOnly,
		Entries: []bundlemodel.ModuleEntry{
			entry("assets/images#countries_latam/flag.png"),
		},
		AssetsConfig: map[string]bundlemodel.AssetsDirectoryTargeting{
			"assets/images#countries_latam": {
				CountrySet: &targeting.CountrySetTargeting{Values: targeting.NewSet(targeting.CountrySet("latam"))},
			},
		},
	}

	enabled := true
	base := ForAssets(m, targeting.DefaultVariantTargeting())
	out, err := CountrySetSplitter(m.AssetsConfig, &bundlemodel.SuffixStrippingConfig{Enabled: &enabled})(base)
	if err != nil {
		t.Fatalf("CountrySetSplitter: %v", err)
	}
	found := false
	for _, s := range out {
		for _, e := range s.Entries {
			found = true
			if e.Path() != "assets/images/flag.png" {
				t.Errorf("entry path = %q, want suffix stripped to %q", e.Path(), "assets/images/flag.png")
			}
		}
	}
	if !found {
		t.Fatal("no entries found in output splits")
	}
}

func TestCountrySetSplitterIdentityWhenNoDirectives(t *testing.T) {
	m := bundlemodel.BundleModule{
		Name:    "base",
		Entries: []bundlemodel.ModuleEntry{entry("assets/a.bin")},
	}
	base := ForModule(m, targeting.DefaultVariantTargeting())
	out, err := CountrySetSplitter(nil, nil)(base)
	if err != nil {
		t.Fatalf("CountrySetSplitter: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d splits, want 1 (identity)", len(out))
	}
}
