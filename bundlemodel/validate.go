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
	"regexp"

	"github.com/google/bundlesplit/bserrors"
)

var certDigestPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}:)*[0-9A-Fa-f]{2}$`)

// ValidateRuntimeEnabledSdkConfigs checks the per-field ranges and the
// cross-module uniqueness constraints of spec.md §6: package_name and
// resources_package_id must each be unique across every module in the
// bundle.
func ValidateRuntimeEnabledSdkConfigs(modules []BundleModule) error {
	seenPackage := map[string]string{}     // package_name -> owning module
	seenResourceID := map[int32]string{}   // resources_package_id -> owning module

	for _, m := range modules {
		for _, rc := range m.RuntimeEnabledSdkConfigs {
			if rc.VersionMajor < 0 || rc.VersionMajor > VersionMajorMax {
				return bserrors.NewInvalidBundle(bserrors.InvalidRuntimeEnabledSdkConfig,
					"module %q: version_major %d out of range [0, %d]", m.Name, rc.VersionMajor, VersionMajorMax)
			}
			if rc.VersionMinor < 0 || rc.VersionMinor > VersionMinorMax {
				return bserrors.NewInvalidBundle(bserrors.InvalidRuntimeEnabledSdkConfig,
					"module %q: version_minor %d out of range [0, %d]", m.Name, rc.VersionMinor, VersionMinorMax)
			}
			if rc.BuildTimeVersionPatch < 0 {
				return bserrors.NewInvalidBundle(bserrors.InvalidRuntimeEnabledSdkConfig,
					"module %q: build_time_version_patch must be >= 0", m.Name)
			}
			if rc.ResourcesPackageID < 2 || rc.ResourcesPackageID > 255 {
				return bserrors.NewInvalidBundle(bserrors.InvalidRuntimeEnabledSdkConfig,
					"module %q: resources_package_id %d out of range [2, 255]", m.Name, rc.ResourcesPackageID)
			}
			if !certDigestPattern.MatchString(rc.CertificateDigest) {
				return bserrors.NewInvalidBundle(bserrors.InvalidRuntimeEnabledSdkConfig,
					"module %q: malformed certificate_digest %q", m.Name, rc.CertificateDigest)
			}

			if owner, ok := seenPackage[rc.PackageName]; ok {
				return bserrors.NewInvalidBundle(bserrors.DuplicateRuntimeEnabledSdkConfig,
					"package_name %q declared by both %q and %q", rc.PackageName, owner, m.Name)
			}
			seenPackage[rc.PackageName] = m.Name

			if owner, ok := seenResourceID[rc.ResourcesPackageID]; ok {
				return bserrors.NewInvalidBundle(bserrors.DuplicateRuntimeEnabledSdkConfig,
					"resources_package_id %d declared by both %q and %q", rc.ResourcesPackageID, owner, m.Name)
			}
			seenResourceID[rc.ResourcesPackageID] = m.Name
		}
	}
	return nil
}
