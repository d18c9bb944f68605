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

package bundlemodel

import (
	"github.com/google/bundlesplit/manifest"
	"github.com/google/bundlesplit/targeting"
)

// ModuleKind is one of the three module flavors a bundle can carry
// (spec.md GLOSSARY).
type ModuleKind int

const (
	Base ModuleKind = iota
	Feature
	AssetOnly
)

func (k ModuleKind) String() string {
	switch k {
	case Base:
		return "base"
	case Feature:
		return "feature"
	case AssetOnly:
		return "asset-only"
	default:
		return "unknown"
	}
}

// AssetsDirectoryTargeting is the declared targeting of one
// assets/<dir>#<key>_<value>/ directory (spec.md §3).
type AssetsDirectoryTargeting struct {
	Language   *targeting.LanguageTargeting
	Tcf        *targeting.TextureCompressionFormatTargeting
	DeviceTier *targeting.DeviceTierTargeting
	CountrySet *targeting.CountrySetTargeting
	Graphics   *targeting.GraphicsApiTargeting

	// AlternativeLanguageTargeting/AlternativeCountrySetTargeting, when set
	// on the *default* (un-suffixed) assets directory, name the sibling
	// values a rest-of-world split should advertise as alternatives
	// (spec.md §4.2 language and country-set splitters).
	AlternativeLanguageTargeting   *targeting.LanguageTargeting
	AlternativeCountrySetTargeting *targeting.CountrySetTargeting
}

// NativeDirectoryTargeting is the declared targeting of one lib/<abi>/
// directory.
type NativeDirectoryTargeting struct {
	Abi targeting.Abi
}

// ApexImage is one APEX payload image file and the ABI set it was built
// for (spec.md §4.2 APEX multi-ABI splitter).
type ApexImage struct {
	Path string
	Abis targeting.Set[targeting.Abi]
}

// ResourceConfig is one configuration variant of a resource-table entry
// relevant to the density and language splitters (spec.md §4.2): which
// density bucket and/or locale it was compiled for, and which module entry
// backs it. A config leaves Density or Language zero-valued when that axis
// doesn't apply to it (e.g. a locale-only string resource has no density).
type ResourceConfig struct {
	Density   targeting.DensityAlias
	Language  targeting.Language
	EntryPath string
}

// Resource is one resource-table entry (an id, e.g. drawable/icon) together
// with its per-configuration variants.
type Resource struct {
	ID      uint32
	Name    string
	Configs []ResourceConfig
}

// ResourceTable is the subset of the compiled resource table the core reads:
// enough to run the density splitter and to honor pinned master resources
// (spec.md §6).
type ResourceTable struct {
	Resources []Resource
}

// RuntimeEnabledSdkConfig is one {package_name, ...} tuple from spec.md §6's
// optional runtime-enabled-SDK config.
type RuntimeEnabledSdkConfig struct {
	PackageName              string
	VersionMajor             int32
	VersionMinor             int32
	BuildTimeVersionPatch    int32
	CertificateDigest        string
	ResourcesPackageID       int32
}

const (
	VersionMajorMax = 1_000_000
	VersionMinorMax = 1_000_000
)

// BundleModule is an immutable view of one module's files, manifest, and
// optional per-dimension configs (spec.md §3).
type BundleModule struct {
	Name     string
	Kind     ModuleKind
	Entries  []ModuleEntry
	Manifest manifest.Manifest

	ResourceTable *ResourceTable

	// AssetsConfig maps each targeted-assets directory (its full path,
	// including the "#key_value" suffix when present) to its declared
	// targeting.
	AssetsConfig map[string]AssetsDirectoryTargeting

	// NativeConfig maps each lib/<abi> directory to its targeting.
	NativeConfig map[string]NativeDirectoryTargeting

	ApexImages []ApexImage

	RuntimeEnabledSdkConfigs []RuntimeEnabledSdkConfig
}

// EntryPaths returns the module's entry paths in declaration order, mostly
// useful for tests and for building a pathtools.MockFs view of the module.
func (m BundleModule) EntryPaths() []string {
	paths := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		paths[i] = e.Path()
	}
	return paths
}
