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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/blueprint/pathtools"

	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/targeting"
)

// fileContent is an on-disk ContentSource, the CLI's stand-in for whatever
// zip-backed reader a real bundle unpacker would hand the core (spec.md §1
// keeps bundle loading out of the core's scope).
type fileContent struct{ absPath string }

func (c fileContent) Open() (io.ReadCloser, error) { return os.Open(c.absPath) }
func (c fileContent) Key() string                   { return c.absPath }

// loadModule walks one exploded module directory (a pre-unzipped
// base/feature directory, the same shape a bundle's module zip entries
// expand to) and builds the BundleModule the core operates on. Directory
// names under assets/ carrying a "#key_value" suffix are parsed into the
// declared AssetsDirectoryTargeting the same way bundletool's own bundle
// layout encodes them; lib/<abi>/ directories become NativeConfig entries.
func loadModule(name string, dir string) (bundlemodel.BundleModule, error) {
	m := bundlemodel.BundleModule{
		Name:         name,
		Kind:         bundlemodel.Base,
		AssetsConfig: map[string]bundlemodel.AssetsDirectoryTargeting{},
		NativeConfig: map[string]bundlemodel.NativeDirectoryTargeting{},
	}

	result, err := pathtools.OsFs.Glob(filepath.Join(dir, "**/*"), nil, pathtools.FollowSymlinks)
	if err != nil {
		return bundlemodel.BundleModule{}, fmt.Errorf("bundlesplit: globbing %s: %w", dir, err)
	}

	seenDirs := targeting.NewSet[string]()
	for _, abs := range result.Matches {
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(dir, abs)
		if err != nil {
			return bundlemodel.BundleModule{}, fmt.Errorf("bundlesplit: %s is not under %s: %w", abs, dir, err)
		}
		rel = filepath.ToSlash(rel)
		m.Entries = append(m.Entries, bundlemodel.NewModuleEntry(name, rel, fileContent{absPath: abs}))

		entryDir := rel
		if i := strings.LastIndexByte(entryDir, '/'); i >= 0 {
			entryDir = entryDir[:i]
		} else {
			entryDir = ""
		}
		for entryDir != "" && !seenDirs.Has(entryDir) {
			seenDirs = seenDirs.Add(entryDir)
			if err := classifyDirectory(entryDir, m.AssetsConfig, m.NativeConfig); err != nil {
				return bundlemodel.BundleModule{}, err
			}
			if i := strings.LastIndexByte(entryDir, '/'); i >= 0 {
				entryDir = entryDir[:i]
			} else {
				entryDir = ""
			}
		}
	}
	return m, nil
}

// classifyDirectory inspects one module-relative directory path and, if it
// names a targeted assets directory ("assets/<name>#<key>_<value>") or a
// native-library ABI directory ("lib/<abi>"), records it.
func classifyDirectory(dir string, assetsConfig map[string]bundlemodel.AssetsDirectoryTargeting, nativeConfig map[string]bundlemodel.NativeDirectoryTargeting) error {
	switch {
	case dir == "lib" || strings.HasPrefix(dir, "lib/"):
		base := filepath.Base(dir)
		if dir == "lib" {
			return nil
		}
		if abi, ok := knownAbiAliases[strings.ToLower(base)]; ok {
			nativeConfig[dir] = bundlemodel.NativeDirectoryTargeting{Abi: abi}
		}
	case dir == "assets" || strings.HasPrefix(dir, "assets/"):
		base := filepath.Base(dir)
		_, value, ok := strings.Cut(base, "#")
		if !ok {
			return nil
		}
		cfg, err := parseAssetsSuffix(value)
		if err != nil {
			return fmt.Errorf("bundlesplit: %s: %w", dir, err)
		}
		assetsConfig[dir] = cfg
	}
	return nil
}

var knownAbiAliases = map[string]targeting.Abi{
	"armeabi":     "ARMEABI",
	"armeabi-v7a": targeting.ArmEabiV7a,
	"arm64-v8a":   targeting.Arm64V8a,
	"x86":         targeting.X86,
	"x86_64":      "X86_64",
	"mips":        "MIPS",
	"mips64":      "MIPS64",
}

// parseAssetsSuffix parses the "key_value" part of a targeted assets
// directory name into the AssetsDirectoryTargeting it declares. Only one
// dimension is set per directory, mirroring bundletool's own one-dimension-
// per-suffix directory naming convention.
func parseAssetsSuffix(suffix string) (bundlemodel.AssetsDirectoryTargeting, error) {
	key, value, ok := strings.Cut(suffix, "_")
	if !ok {
		return bundlemodel.AssetsDirectoryTargeting{}, fmt.Errorf("malformed targeted directory suffix %q", suffix)
	}
	switch key {
	case "lang":
		return bundlemodel.AssetsDirectoryTargeting{
			Language: &targeting.LanguageTargeting{Values: targeting.NewSet(targeting.Language(value))},
		}, nil
	case "tcf":
		return bundlemodel.AssetsDirectoryTargeting{
			Tcf: &targeting.TextureCompressionFormatTargeting{Values: targeting.NewSet(targeting.TextureCompressionFormat(value))},
		}, nil
	case "tier":
		n, err := strconv.Atoi(value)
		if err != nil {
			return bundlemodel.AssetsDirectoryTargeting{}, fmt.Errorf("bad device tier %q: %w", value, err)
		}
		return bundlemodel.AssetsDirectoryTargeting{
			DeviceTier: &targeting.DeviceTierTargeting{Values: targeting.NewSet(targeting.DeviceTier(n))},
		}, nil
	case "countries":
		return bundlemodel.AssetsDirectoryTargeting{
			CountrySet: &targeting.CountrySetTargeting{Values: targeting.NewSet(targeting.CountrySet(value))},
		}, nil
	case "opengl":
		major, minor, ok := strings.Cut(value, ".")
		if !ok {
			minor = "0"
		}
		maj, err1 := strconv.Atoi(major)
		min, err2 := strconv.Atoi(minor)
		if err1 != nil || err2 != nil {
			return bundlemodel.AssetsDirectoryTargeting{}, fmt.Errorf("bad opengl version %q", value)
		}
		return bundlemodel.AssetsDirectoryTargeting{
			Graphics: &targeting.GraphicsApiTargeting{Values: targeting.NewSet(targeting.OpenGlVersion{Major: int32(maj), Minor: int32(min)})},
		}, nil
	default:
		return bundlemodel.AssetsDirectoryTargeting{}, fmt.Errorf("unrecognized targeted directory key %q", key)
	}
}
