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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/bundlesplit/targeting"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadModuleClassifiesNativeAndAssetsDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib/armeabi-v7a/libfoo.so"))
	writeFile(t, filepath.Join(dir, "lib/arm64-v8a/libfoo.so"))
	writeFile(t, filepath.Join(dir, "assets/images#countries_latam/flag.png"))
	writeFile(t, filepath.Join(dir, "assets/images/flag.png"))
	writeFile(t, filepath.Join(dir, "classes.dex"))

	m, err := loadModule("base", dir)
	if err != nil {
		t.Fatalf("loadModule: %v", err)
	}
	if len(m.Entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(m.Entries))
	}
	if got := m.NativeConfig["lib/armeabi-v7a"].Abi; got != targeting.ArmEabiV7a {
		t.Errorf("lib/armeabi-v7a abi = %v, want %v", got, targeting.ArmEabiV7a)
	}
	if got := m.NativeConfig["lib/arm64-v8a"].Abi; got != targeting.Arm64V8a {
		t.Errorf("lib/arm64-v8a abi = %v, want %v", got, targeting.Arm64V8a)
	}
	cfg, ok := m.AssetsConfig["assets/images#countries_latam"]
	if !ok {
		t.Fatalf("expected a declared config for the countries_latam directory")
	}
	if cfg.CountrySet == nil || !cfg.CountrySet.Values.Has(targeting.CountrySet("latam")) {
		t.Errorf("CountrySet = %+v, want latam", cfg.CountrySet)
	}
}

func TestParseAssetsSuffixRejectsUnknownKey(t *testing.T) {
	if _, err := parseAssetsSuffix("bogus_value"); err == nil {
		t.Error("expected an error for an unrecognized targeted directory key")
	}
}
