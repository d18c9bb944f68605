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

// Package bundlemodel is the immutable view over a parsed App Bundle: its
// modules, their entries, and the BundleConfig options that steer split
// generation. Parsing the zip archive itself is an external collaborator
// (spec.md §1); this package only models the result.
package bundlemodel

import (
	"bytes"
	"io"
)

// ContentSource is an opaque handle to an entry's bytes, resolved lazily at
// packaging time (spec.md §5: "file reads are abstracted behind
// ModuleEntry's content handle"). The core never calls Open.
type ContentSource interface {
	Open() (io.ReadCloser, error)

	// Key uniquely identifies the underlying bytes without reading them, so
	// two ModuleEntry values can be compared for equality cheaply.
	Key() string
}

// ModuleEntry is an immutable file within a module.
type ModuleEntry struct {
	moduleName        string
	path              string
	content           ContentSource
	forceUncompressed bool
}

func NewModuleEntry(moduleName, path string, content ContentSource) ModuleEntry {
	return ModuleEntry{moduleName: moduleName, path: path, content: content}
}

func (e ModuleEntry) ModuleName() string      { return e.moduleName }
func (e ModuleEntry) Path() string             { return e.path }
func (e ModuleEntry) Content() ContentSource   { return e.content }
func (e ModuleEntry) ForceUncompressed() bool  { return e.forceUncompressed }

// WithPath returns a copy of e rewritten to a new path, used by suffix
// stripping (spec.md §4.2).
func (e ModuleEntry) WithPath(path string) ModuleEntry {
	e.path = path
	return e
}

// WithForceUncompressed returns a copy of e with its compression override
// flipped, used by the dex/native-compression variant mutators (spec.md
// §4.4).
func (e ModuleEntry) WithForceUncompressed(v bool) ModuleEntry {
	e.forceUncompressed = v
	return e
}

// Equal reports whether two entries denote the same file: spec.md §3 "Two
// entries compare equal iff paths and content handles do."
func (e ModuleEntry) Equal(o ModuleEntry) bool {
	return e.path == o.path && e.content != nil && o.content != nil && e.content.Key() == o.content.Key()
}

// BytesContent is a trivial in-memory ContentSource, useful for tests and
// for small synthetic entries the core itself injects (placeholder native
// libs, spec.md §4.4 step 9).
type BytesContent struct {
	Data []byte
	key  string
}

func NewBytesContent(key string, data []byte) BytesContent {
	return BytesContent{Data: data, key: key}
}

func (b BytesContent) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

func (b BytesContent) Key() string { return b.key }
