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

// Package manifest models the small slice of AndroidManifest.xml semantics
// the split-generation core reads and rewrites. Full manifest parsing/
// protobuf encoding is an external collaborator (spec.md §1); this package
// only carries the fields the core's invariants depend on, plus the
// deferred-mutator mechanism spec.md §9 describes.
package manifest

// Manifest is an immutable view of the fields the core cares about. A
// mutated copy is produced by applying a MutatorList (see mutator.go); the
// core never edits a Manifest's fields directly.
type Manifest struct {
	MinSdkVersion         int32
	MaxSdkVersion         *int32
	TargetSandboxVersion  int32
	ExtractNativeLibs     bool
	HasNativeActivity     bool
	IsInstant             bool
	ExistingSplitName     string
	UsesSdkLibraries      []UsesSdkLibrary

	// splitsRequired backs the android:isSplitRequired manifest attribute;
	// only ever flipped by the SplitsRequired mutator (spec.md §4.2's
	// "split-requires-splits" rule), never set directly by callers.
	splitsRequired bool
}

// SplitsRequired reports whether the splits-required mutator has fired for
// this manifest (spec.md §4.2).
func (m Manifest) SplitsRequired() bool { return m.splitsRequired }

// UsesSdkLibrary is one <uses-sdk-library> element, either already present
// in the module manifest or injected by the orchestrator for a
// RuntimeEnabledSdkConfig (spec.md §6).
type UsesSdkLibrary struct {
	Name                      string
	VersionMajor              int32
	CertDigest                string
	RequiredByPrivacySandboxSdk bool
}

// Clone returns a deep-enough copy for a mutator to edit without aliasing
// the receiver's slices.
func (m Manifest) Clone() Manifest {
	out := m
	if m.MaxSdkVersion != nil {
		v := *m.MaxSdkVersion
		out.MaxSdkVersion = &v
	}
	if m.UsesSdkLibraries != nil {
		out.UsesSdkLibraries = append([]UsesSdkLibrary(nil), m.UsesSdkLibraries...)
	}
	return out
}
