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

package manifest

import "fmt"

// Kind tags a Mutator variant. Two mutators of the same Kind attached to the
// same split family must agree on their value; see MutatorList.Merge.
type Kind string

const (
	KindExtractNativeLibs              Kind = "extractNativeLibs"
	KindSplitsRequired                 Kind = "splitsRequired"
	KindSandboxVersion                 Kind = "targetSandboxVersion"
	KindMinSdkVersion                  Kind = "minSdkVersion"
	KindRemoveSplitNameActivity        Kind = "removeSplitNameActivity"
	KindAddUsesSdkLibrary              Kind = "usesSdkLibrary"
	KindStripPrivacySandboxRequirement Kind = "stripPrivacySandboxRequirement"
)

// Mutator is a deferred function from Manifest to Manifest, tagged so
// conflicting edits to the same element can be detected before either is
// applied (spec.md §9).
type Mutator struct {
	kind       Kind
	boolValue  bool
	intValue   int32
	sdkLibrary UsesSdkLibrary
}

func (m Mutator) Kind() Kind { return m.kind }

func SetExtractNativeLibs(v bool) Mutator { return Mutator{kind: KindExtractNativeLibs, boolValue: v} }
func SetSplitsRequired(v bool) Mutator    { return Mutator{kind: KindSplitsRequired, boolValue: v} }
func SetSandboxVersion(v int32) Mutator   { return Mutator{kind: KindSandboxVersion, intValue: v} }
func SetMinSdkVersion(v int32) Mutator    { return Mutator{kind: KindMinSdkVersion, intValue: v} }
func RemoveSplitNameActivity() Mutator    { return Mutator{kind: KindRemoveSplitNameActivity} }
func AddUsesSdkLibrary(lib UsesSdkLibrary) Mutator {
	return Mutator{kind: KindAddUsesSdkLibrary, sdkLibrary: lib}
}
func StripPrivacySandboxRequirement() Mutator {
	return Mutator{kind: KindStripPrivacySandboxRequirement}
}

// equalValue reports whether two mutators of the same Kind carry the same
// payload, i.e. whether they commute into a single well-defined edit.
func (m Mutator) equalValue(o Mutator) bool {
	if m.kind != o.kind {
		return false
	}
	switch m.kind {
	case KindExtractNativeLibs, KindSplitsRequired:
		return m.boolValue == o.boolValue
	case KindSandboxVersion, KindMinSdkVersion:
		return m.intValue == o.intValue
	case KindRemoveSplitNameActivity, KindStripPrivacySandboxRequirement:
		return true
	case KindAddUsesSdkLibrary:
		return m.sdkLibrary == o.sdkLibrary
	default:
		return false
	}
}

// MutatorList is an ordered, possibly empty, list of pending master-manifest
// edits recorded by a non-master split (spec.md §4.2's "split-requires-splits
// manifest mutator" and §4.4 step 6/7).
type MutatorList []Mutator

// Merge combines the mutator lists recorded by every split in one variant
// into the single list applied to that variant's master split. It fails if
// two mutators share a Kind but disagree on value — spec.md §7's
// InconsistentMasterMutators.
func (l MutatorList) Merge(other MutatorList) (MutatorList, error) {
	out := append(MutatorList(nil), l...)
	for _, m := range other {
		conflict := false
		duplicate := false
		for _, existing := range out {
			if existing.kind != m.kind {
				continue
			}
			if existing.equalValue(m) {
				duplicate = true
			} else {
				conflict = true
			}
			break
		}
		if conflict {
			return nil, fmt.Errorf("conflicting manifest mutators for %s", m.kind)
		}
		if !duplicate {
			out = append(out, m)
		}
	}
	return out, nil
}

// Apply folds every mutator in muts onto m, in order, and returns the
// result. Manifest is never mutated in place (spec.md §5).
func Apply(m Manifest, muts MutatorList) Manifest {
	out := m.Clone()
	for _, mut := range muts {
		switch mut.kind {
		case KindExtractNativeLibs:
			out.ExtractNativeLibs = mut.boolValue
		case KindSplitsRequired:
			// Modeled as a synthetic uses-sdk-library-free flag on the
			// manifest; packaging-layer mutators translate this into the
			// actual android:isSplitRequired manifest attribute.
			out.splitsRequired = mut.boolValue
		case KindSandboxVersion:
			out.TargetSandboxVersion = mut.intValue
		case KindMinSdkVersion:
			out.MinSdkVersion = mut.intValue
		case KindRemoveSplitNameActivity:
			out.ExistingSplitName = ""
		case KindAddUsesSdkLibrary:
			out.UsesSdkLibraries = append(out.UsesSdkLibraries, mut.sdkLibrary)
		case KindStripPrivacySandboxRequirement:
			for i := range out.UsesSdkLibraries {
				out.UsesSdkLibraries[i].RequiredByPrivacySandboxSdk = false
			}
		}
	}
	return out
}
