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
	"strings"

	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/bserrors"
)

// assetsDirOf returns the directory portion of an entry path: everything up
// to, but not including, the final path component.
func assetsDirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// assetsConfigFor finds the declared targeting governing path, by walking up
// from path's own directory to the longest ancestor present in assetsConfig.
// A directory's targeting applies to every entry below it, the same way a
// bundle's assets/<dir>#<key>_<value>/ directory governs its whole subtree.
func assetsConfigFor(assetsConfig map[string]bundlemodel.AssetsDirectoryTargeting, path string) (string, bundlemodel.AssetsDirectoryTargeting, bool) {
	dir := assetsDirOf(path)
	for dir != "" {
		if cfg, ok := assetsConfig[dir]; ok {
			return dir, cfg, true
		}
		dir = assetsDirOf(dir)
	}
	return "", bundlemodel.AssetsDirectoryTargeting{}, false
}

// errAlreadyTargeted reports that a splitter was asked to target a dimension
// the incoming split has already resolved, which pipeline composition should
// never allow (spec.md §4.3).
func errAlreadyTargeted(dim string) error {
	return bserrors.NewIllegalArgument(bserrors.AlreadyTargetedOnDimension, "split is already targeted on dimension %q", dim)
}

// stripDirSuffix removes the "#key_value" suffix from a directory's final
// path component, e.g. "assets/foo#tcf_etc1" becomes "assets/foo".
func stripDirSuffix(dir string) string {
	slash := strings.LastIndexByte(dir, '/')
	prefix, base := "", dir
	if slash >= 0 {
		prefix, base = dir[:slash+1], dir[slash+1:]
	}
	if h := strings.IndexByte(base, '#'); h >= 0 {
		base = base[:h]
	}
	return prefix + base
}

// stripEntrySuffix rewrites e's path to drop dir's "#key_value" suffix, used
// when a dimension's suffix_stripping option is enabled (spec.md §6). dir
// must be an ancestor of e.Path() as returned by assetsConfigFor. A no-op if
// dir carries no suffix.
func stripEntrySuffix(e bundlemodel.ModuleEntry, dir string) bundlemodel.ModuleEntry {
	stripped := stripDirSuffix(dir)
	if stripped == dir {
		return e
	}
	rest := strings.TrimPrefix(e.Path(), dir+"/")
	return e.WithPath(stripped + "/" + rest)
}
