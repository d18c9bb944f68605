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

// Package split is the split-generation core: the per-dimension splitters,
// the pipeline that threads a base split through them, and the per-module
// orchestrator (ModuleSplitter) that assembles the final split families
// (spec.md §2, items 3–9).
package split

import (
	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/manifest"
	"github.com/google/bundlesplit/targeting"
)

// Type is one of the output flavors a ModuleSplit can be packaged as
// (spec.md §3).
type Type int

const (
	TypeSplit Type = iota
	TypeAssetSlice
	TypeStandalone
	TypeInstant
	TypeSystem
	TypeArchive
)

func (t Type) String() string {
	switch t {
	case TypeSplit:
		return "SPLIT"
	case TypeAssetSlice:
		return "ASSET_SLICE"
	case TypeStandalone:
		return "STANDALONE"
	case TypeInstant:
		return "INSTANT"
	case TypeSystem:
		return "SYSTEM"
	case TypeArchive:
		return "ARCHIVE"
	default:
		return "UNKNOWN"
	}
}

// ModuleSplit is the central composite value of the core: a module's name,
// the entries it carries, and the targeting metadata that tells the
// device-side selector (outside this core's scope) when to install it.
//
// A ModuleSplit is immutable in spirit: every splitter returns new values,
// never edits one in place (spec.md §3 Lifecycle).
type ModuleSplit struct {
	ModuleName       string
	SplitType        Type
	IsMaster         bool
	ApkTargeting     targeting.ApkTargeting
	VariantTargeting targeting.VariantTargeting
	Entries          []bundlemodel.ModuleEntry
	Manifest         manifest.Manifest
	ResourceTable    *bundlemodel.ResourceTable

	// PendingMutators are deferred edits a non-master split has requested
	// of its family's master manifest (spec.md §4.2, §4.4 step 6).
	PendingMutators manifest.MutatorList

	// SplitID is empty until assignSplitIDs runs in ModuleSplitter.SplitModule
	// (spec.md §4.4 step 8).
	SplitID string
}

// ForModule builds the initial base split for a code/feature module: all
// entries, master, default ApkTargeting, the given variant's targeting
// (spec.md §4.4 step 1).
func ForModule(m bundlemodel.BundleModule, variant targeting.VariantTargeting) ModuleSplit {
	return ModuleSplit{
		ModuleName:       m.Name,
		SplitType:        TypeSplit,
		IsMaster:         true,
		ApkTargeting:     targeting.Default(),
		VariantTargeting: variant,
		Entries:          append([]bundlemodel.ModuleEntry(nil), m.Entries...),
		Manifest:         m.Manifest,
		ResourceTable:    m.ResourceTable,
	}
}

// ForAssets builds the initial base split for an asset-only module
// (spec.md §4.4 step 3): an ASSET_SLICE master carrying every entry, no
// code-module manifest mutation surface beyond what the asset-oriented
// splitters themselves request.
func ForAssets(m bundlemodel.BundleModule, variant targeting.VariantTargeting) ModuleSplit {
	s := ForModule(m, variant)
	s.SplitType = TypeAssetSlice
	return s
}

// ForApex builds the initial base split driving the APEX multi-ABI
// splitter: one entry per declared image, the rest of the module's entries
// (manifest, etc.) untouched (spec.md §4.2 APEX multi-ABI splitter).
func ForApex(m bundlemodel.BundleModule, variant targeting.VariantTargeting) ModuleSplit {
	return ForModule(m, variant)
}

// WithEntries returns a copy of s with its entry list replaced.
func (s ModuleSplit) WithEntries(entries []bundlemodel.ModuleEntry) ModuleSplit {
	s.Entries = entries
	return s
}

// WithApkTargeting returns a copy of s with its ApkTargeting replaced.
func (s ModuleSplit) WithApkTargeting(t targeting.ApkTargeting) ModuleSplit {
	s.ApkTargeting = t
	return s
}

// WithMaster returns a copy of s with its IsMaster flag set.
func (s ModuleSplit) WithMaster(v bool) ModuleSplit {
	s.IsMaster = v
	return s
}

// AddPendingMutator returns a copy of s with an additional pending
// master-manifest mutator recorded.
func (s ModuleSplit) AddPendingMutator(m manifest.Mutator) ModuleSplit {
	s.PendingMutators = append(append(manifest.MutatorList(nil), s.PendingMutators...), m)
	return s
}

// EntryKeys returns the set of the entries' paths, used by the
// universal entry-conservation/disjointness property tests (spec.md §8).
func EntryKeys(entries []bundlemodel.ModuleEntry) targeting.Set[string] {
	s := targeting.NewSet[string]()
	for _, e := range entries {
		s = s.Add(e.Path())
	}
	return s
}
