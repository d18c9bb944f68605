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

// Package shard builds STANDALONE APKs: a single self-contained APK fusing
// every module together, for devices that can't install split APKs at all
// (pre-L) or system images that want one fat APK per device class
// (spec.md §4.5).
package shard

import (
	"sort"
	"strings"

	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/split"
	"github.com/google/bundlesplit/targeting"
)

// FuseModules concatenates every module's entries and per-directory configs
// into one synthetic module, keeping the base module's manifest (the first
// module in modules is conventionally the base module, per spec.md §1's
// bundle-loading contract). Identical entry paths declared by more than one
// module are resolved deterministically: the base module's own entry always
// wins (spec.md §4.5 step 1), since it is fused first and every later
// module's conflicting entry is dropped rather than appended alongside it.
func FuseModules(modules []bundlemodel.BundleModule) bundlemodel.BundleModule {
	name := "standalone"
	if len(modules) > 0 {
		name = modules[0].Name
	}
	fused := bundlemodel.BundleModule{Name: name}
	seen := map[string]bool{}
	var resources []bundlemodel.Resource
	for i, m := range modules {
		for _, e := range m.Entries {
			if seen[e.Path()] {
				continue
			}
			seen[e.Path()] = true
			fused.Entries = append(fused.Entries, e)
		}
		for k, v := range m.NativeConfig {
			if fused.NativeConfig == nil {
				fused.NativeConfig = map[string]bundlemodel.NativeDirectoryTargeting{}
			}
			if _, ok := fused.NativeConfig[k]; !ok {
				fused.NativeConfig[k] = v
			}
		}
		for k, v := range m.AssetsConfig {
			if fused.AssetsConfig == nil {
				fused.AssetsConfig = map[string]bundlemodel.AssetsDirectoryTargeting{}
			}
			if _, ok := fused.AssetsConfig[k]; !ok {
				fused.AssetsConfig[k] = v
			}
		}
		if m.ResourceTable != nil {
			resources = append(resources, m.ResourceTable.Resources...)
		}
		if i == 0 {
			fused.Manifest = m.Manifest
		}
	}
	if len(resources) > 0 {
		fused.ResourceTable = &bundlemodel.ResourceTable{Resources: resources}
	}
	return fused
}

// ShardedSystemSplits is the system-image flavor of the sharder's output
// (spec.md §4.5): one fused STANDALONE-like split covering the device-spec's
// own ABI/density cell, plus additional SPLIT-typed language config splits
// for every locale the device-spec cell didn't already carry.
type ShardedSystemSplits struct {
	SystemSplit    split.ModuleSplit
	LanguageSplits []split.ModuleSplit
}

// axis is one dimension of the sharder's cross product: the distinct values
// discovered in the fused module, and a classifier deciding which of those
// values (if any) a given entry belongs to.
type axis struct {
	dim    bundlemodel.SplitDimension
	values []string
	// valueOf returns the values (zero or more, for the additive density
	// case) an entry matches on this axis. An entry matching none of them is
	// axis-agnostic: it rides along in every cell.
	valueOf func(e bundlemodel.ModuleEntry) []string
}

// buildAxes builds one axis per ABI/ScreenDensity/Language dimension enabled
// in the config, discovering that axis's values from the fused module.
// TCF/device-tier/country-set directories are a config-split concern
// (spec.md §4.2); bundletool's own fat-APK path never shards a
// standalone/system APK on them, so enabling those dimensions leaves this
// cross product untouched.
func buildAxes(fused bundlemodel.BundleModule, enabled targeting.Set[bundlemodel.SplitDimension]) []axis {
	var axes []axis
	if enabled.Has(bundlemodel.DimensionAbi) {
		if a := buildAbiAxis(fused); a != nil {
			axes = append(axes, *a)
		}
	}
	if enabled.Has(bundlemodel.DimensionScreenDensity) {
		if a := buildDensityAxis(fused); a != nil {
			axes = append(axes, *a)
		}
	}
	if enabled.Has(bundlemodel.DimensionLanguage) {
		if a := buildLanguageAxis(fused); a != nil {
			axes = append(axes, *a)
		}
	}
	return axes
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}

func buildAbiAxis(fused bundlemodel.BundleModule) *axis {
	if len(fused.NativeConfig) == 0 {
		return nil
	}
	all := targeting.NewSet[targeting.Abi]()
	for _, cfg := range fused.NativeConfig {
		all = all.Add(cfg.Abi)
	}
	values := make([]string, 0, len(all))
	for _, a := range targeting.SortedSlice(all, targeting.LessBySelectionPriority) {
		values = append(values, string(a))
	}
	return &axis{
		dim:    bundlemodel.DimensionAbi,
		values: values,
		valueOf: func(e bundlemodel.ModuleEntry) []string {
			if cfg, ok := fused.NativeConfig[dirOf(e.Path())]; ok {
				return []string{string(cfg.Abi)}
			}
			return nil
		},
	}
}

func buildDensityAxis(fused bundlemodel.BundleModule) *axis {
	if fused.ResourceTable == nil {
		return nil
	}
	type resourceDensities struct {
		available targeting.Set[targeting.DensityAlias]
		entryOf   map[targeting.DensityAlias]string
	}
	byResource := map[uint32]resourceDensities{}
	for _, r := range fused.ResourceTable.Resources {
		rd := resourceDensities{available: targeting.NewSet[targeting.DensityAlias](), entryOf: map[targeting.DensityAlias]string{}}
		for _, c := range r.Configs {
			if c.Density == "" || c.Density == targeting.Nodpi {
				continue
			}
			rd.available = rd.available.Add(c.Density)
			rd.entryOf[c.Density] = c.EntryPath
		}
		if len(rd.available) > 0 {
			byResource[r.ID] = rd
		}
	}
	if len(byResource) == 0 {
		return nil
	}

	byDensity := map[targeting.DensityAlias]targeting.Set[string]{}
	seen := targeting.NewSet[targeting.DensityAlias]()
	for _, d := range targeting.DensityBuckets {
		for _, rd := range byResource {
			for _, match := range targeting.BestDensityMatches(rd.available, d) {
				if byDensity[d] == nil {
					byDensity[d] = targeting.NewSet[string]()
				}
				byDensity[d] = byDensity[d].Add(rd.entryOf[match])
				seen = seen.Add(d)
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	values := make([]string, 0, len(seen))
	for _, d := range targeting.DensityBuckets {
		if byDensity[d] != nil {
			values = append(values, string(d))
		}
	}
	return &axis{
		dim:    bundlemodel.DimensionScreenDensity,
		values: values,
		valueOf: func(e bundlemodel.ModuleEntry) []string {
			var out []string
			for _, d := range targeting.DensityBuckets {
				if byDensity[d] != nil && byDensity[d].Has(e.Path()) {
					out = append(out, string(d))
				}
			}
			return out
		},
	}
}

func buildLanguageAxis(fused bundlemodel.BundleModule) *axis {
	byLanguage := map[targeting.Language]targeting.Set[string]{}
	add := func(lang targeting.Language, path string) {
		if byLanguage[lang] == nil {
			byLanguage[lang] = targeting.NewSet[string]()
		}
		byLanguage[lang] = byLanguage[lang].Add(path)
	}

	if fused.ResourceTable != nil {
		for _, r := range fused.ResourceTable.Resources {
			for _, c := range r.Configs {
				if c.Language != "" {
					add(c.Language, c.EntryPath)
				}
			}
		}
	}
	for dir, cfg := range fused.AssetsConfig {
		if cfg.Language == nil {
			continue
		}
		prefix := dir + "/"
		for _, e := range fused.Entries {
			if strings.HasPrefix(e.Path(), prefix) {
				for v := range cfg.Language.Values {
					add(v, e.Path())
				}
			}
		}
	}
	if len(byLanguage) == 0 {
		return nil
	}

	langs := make([]targeting.Language, 0, len(byLanguage))
	for l := range byLanguage {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	values := make([]string, len(langs))
	for i, l := range langs {
		values[i] = string(l)
	}
	return &axis{
		dim:    bundlemodel.DimensionLanguage,
		values: values,
		valueOf: func(e bundlemodel.ModuleEntry) []string {
			var out []string
			for _, l := range langs {
				if byLanguage[l].Has(e.Path()) {
					out = append(out, string(l))
				}
			}
			return out
		},
	}
}

// cell is one point of the cross product: a concrete value chosen for every
// axis the sharder is cross-producting over.
type cell map[bundlemodel.SplitDimension]string

func crossProduct(axes []axis) []cell {
	cells := []cell{{}}
	for _, ax := range axes {
		var next []cell
		for _, c := range cells {
			for _, v := range ax.values {
				nc := cell{}
				for k, vv := range c {
					nc[k] = vv
				}
				nc[ax.dim] = v
				next = append(next, nc)
			}
		}
		cells = next
	}
	return cells
}

// entriesForCell selects the entries that belong in c: every axis-agnostic
// entry, plus every entry whose axis value(s) include c's value on that axis.
func entriesForCell(fused bundlemodel.BundleModule, axes []axis, c cell) []bundlemodel.ModuleEntry {
	var out []bundlemodel.ModuleEntry
	for _, e := range fused.Entries {
		match := true
		for _, ax := range axes {
			vals := ax.valueOf(e)
			if len(vals) == 0 {
				continue // axis-agnostic: rides along in every cell
			}
			found := false
			for _, v := range vals {
				if v == c[ax.dim] {
					found = true
					break
				}
			}
			if !found {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

func apkTargetingForCell(axes []axis, c cell) targeting.ApkTargeting {
	var t targeting.ApkTargeting
	for _, ax := range axes {
		value := c[ax.dim]
		all := targeting.NewSet(ax.values...)
		alt := all.Minus(targeting.NewSet(value))
		switch ax.dim {
		case bundlemodel.DimensionAbi:
			t.Abi = &targeting.AbiTargeting{
				Values:       targeting.NewSet(targeting.Abi(value)),
				Alternatives: stringSetToAbiSet(alt),
			}
		case bundlemodel.DimensionScreenDensity:
			t.Density = &targeting.ScreenDensityTargeting{
				Values:       targeting.NewSet(targeting.DensityAlias(value)),
				Alternatives: stringSetToDensitySet(alt),
			}
		case bundlemodel.DimensionLanguage:
			t.Language = &targeting.LanguageTargeting{
				Values:       targeting.NewSet(targeting.Language(value)),
				Alternatives: stringSetToLanguageSet(alt),
			}
		}
	}
	return t
}

func stringSetToAbiSet(s targeting.Set[string]) targeting.Set[targeting.Abi] {
	out := targeting.NewSet[targeting.Abi]()
	for v := range s {
		out = out.Add(targeting.Abi(v))
	}
	return out
}

func stringSetToDensitySet(s targeting.Set[string]) targeting.Set[targeting.DensityAlias] {
	out := targeting.NewSet[targeting.DensityAlias]()
	for v := range s {
		out = out.Add(targeting.DensityAlias(v))
	}
	return out
}

func stringSetToLanguageSet(s targeting.Set[string]) targeting.Set[targeting.Language] {
	out := targeting.NewSet[targeting.Language]()
	for v := range s {
		out = out.Add(targeting.Language(v))
	}
	return out
}

// cellLabel renders a cell into the suffix GenerateStandaloneApks appends to
// the fused split id, in axis order, lowercase (e.g. "_x86_hdpi_fr").
func cellLabel(axes []axis, c cell) string {
	var b strings.Builder
	for _, ax := range axes {
		b.WriteByte('_')
		b.WriteString(strings.ToLower(c[ax.dim]))
	}
	return b.String()
}

// cellMatchesDeviceSpec reports whether c's per-axis targeting is compatible
// with spec, reusing the same Matches* algebra ModuleSplit.ApkTargeting is
// checked against elsewhere (spec.md §4.5 step 5).
func cellMatchesDeviceSpec(axes []axis, c cell, spec *DeviceSpec) bool {
	if spec == nil {
		return true
	}
	return Matches(apkTargetingForCell(axes, c), *spec)
}

// languageInSpec reports whether l is one of spec's supported locales, used
// to decide which language config splits GenerateShardedSystemSplits needs
// to emit alongside the system split's own locale.
func languageInSpec(l targeting.Language, spec *DeviceSpec) bool {
	return MatchesLanguage(&targeting.LanguageTargeting{Values: targeting.NewSet(l)}, *spec)
}

// GenerateStandaloneApks produces the fat-APK cross product spec.md §4.5
// describes: one STANDALONE ModuleSplit per combination of values the
// config's enabled ABI/ScreenDensity/Language dimensions discover in the
// fused module, or a single dimension-agnostic shard if none are enabled or
// none of them found any values to cross-product over. When deviceSpec is
// non-nil, only the cells Matches accepts for it are retained (spec.md §4.5
// step 5); a device compatible with several cells, such as one listing two
// of the discovered ABIs, keeps all of them.
func GenerateStandaloneApks(modules []bundlemodel.BundleModule, cfg bundlemodel.BundleConfig, deviceSpec *DeviceSpec) []split.ModuleSplit {
	fused := FuseModules(modules)
	axes := buildAxes(fused, cfg.EnabledDimensions())
	cells := crossProduct(axes)
	uncompressed := uncompressedPathsFor(fused, cfg)

	var out []split.ModuleSplit
	for _, c := range cells {
		if !cellMatchesDeviceSpec(axes, c, deviceSpec) {
			continue
		}
		out = append(out, standaloneFor(fused, axes, c, uncompressed))
	}
	return out
}

// uncompressedPathsFor resolves the config's compression.uncompressed_glob
// patterns against the fused module's entries (spec.md §4.5, §6). The
// patterns are re-validated by BundleConfig.Validate before a config is ever
// used to generate splits, so a glob-syntax error here never happens in
// practice; an error is treated the same as "nothing forced uncompressed".
func uncompressedPathsFor(fused bundlemodel.BundleModule, cfg bundlemodel.BundleConfig) targeting.Set[string] {
	paths, err := bundlemodel.UncompressedPaths(cfg.Compression.UncompressedGlob, fused.EntryPaths())
	if err != nil {
		return targeting.NewSet[string]()
	}
	return paths
}

func standaloneFor(fused bundlemodel.BundleModule, axes []axis, c cell, uncompressed targeting.Set[string]) split.ModuleSplit {
	entries := entriesForCell(fused, axes, c)
	if len(uncompressed) > 0 {
		withFlags := make([]bundlemodel.ModuleEntry, len(entries))
		for i, e := range entries {
			if uncompressed.Has(e.Path()) {
				e = e.WithForceUncompressed(true)
			}
			withFlags[i] = e
		}
		entries = withFlags
	}
	s := split.ModuleSplit{
		ModuleName:       fused.Name,
		SplitType:        split.TypeStandalone,
		IsMaster:         true,
		VariantTargeting: targeting.DefaultVariantTargeting(),
		Entries:          entries,
		Manifest:         fused.Manifest,
		SplitID:          fused.Name,
		ApkTargeting:     apkTargetingForCell(axes, c),
	}
	if len(axes) > 0 {
		s.SplitID = fused.Name + cellLabel(axes, c)
	}
	return s
}

// GenerateShardedSystemSplits builds the system-image flavor of the sharder
// output (spec.md §4.5): deviceSpec must be non-nil, since a system image is
// always built for one concrete device class. The ABI/density cell matching
// deviceSpec becomes the fused SYSTEM split; every other language this
// cross-product discovered but deviceSpec's own cell didn't already carry
// is split off into its own SPLIT-typed config split, so a locale the
// device doesn't report as its primary one is still installable.
func GenerateShardedSystemSplits(modules []bundlemodel.BundleModule, cfg bundlemodel.BundleConfig, deviceSpec *DeviceSpec) ShardedSystemSplits {
	fused := FuseModules(modules)
	enabled := cfg.EnabledDimensions()
	var systemAxes []axis
	if enabled.Has(bundlemodel.DimensionAbi) {
		if a := buildAbiAxis(fused); a != nil {
			systemAxes = append(systemAxes, *a)
		}
	}
	if enabled.Has(bundlemodel.DimensionScreenDensity) {
		if a := buildDensityAxis(fused); a != nil {
			systemAxes = append(systemAxes, *a)
		}
	}

	var systemCell cell
	for _, c := range crossProduct(systemAxes) {
		if cellMatchesDeviceSpec(systemAxes, c, deviceSpec) {
			systemCell = c
			break
		}
	}
	uncompressed := uncompressedPathsFor(fused, cfg)
	system := standaloneFor(fused, systemAxes, systemCell, uncompressed)
	system.SplitType = split.TypeSystem
	system.SplitID = fused.Name

	var languageSplits []split.ModuleSplit
	if cfg.EnabledDimensions().Has(bundlemodel.DimensionLanguage) {
		if langAxis := buildLanguageAxis(fused); langAxis != nil {
			// An entry tagged for a language the device spec doesn't report
			// as supported has no business riding along in the fused system
			// split; pull it out into its own per-language config split
			// instead (spec.md §4.5 step 5), and keep only the locale(s) the
			// device spec does support in the system split itself.
			foreignByPath := map[string]bool{}
			for _, value := range langAxis.values {
				if deviceSpec != nil && languageInSpec(targeting.Language(value), deviceSpec) {
					continue
				}
				for _, e := range entriesForCell(fused, []axis{*langAxis}, cell{bundlemodel.DimensionLanguage: value}) {
					if len(langAxis.valueOf(e)) > 0 {
						foreignByPath[e.Path()] = true
					}
				}
			}
			var kept []bundlemodel.ModuleEntry
			for _, e := range system.Entries {
				if !foreignByPath[e.Path()] {
					kept = append(kept, e)
				}
			}
			system.Entries = kept

			for _, value := range langAxis.values {
				lc := cell{bundlemodel.DimensionLanguage: value}
				if deviceSpec != nil && languageInSpec(targeting.Language(value), deviceSpec) {
					continue
				}
				var entries []bundlemodel.ModuleEntry
				for _, e := range entriesForCell(fused, []axis{*langAxis}, lc) {
					if len(langAxis.valueOf(e)) > 0 {
						entries = append(entries, e)
					}
				}
				if len(entries) == 0 {
					continue
				}
				if len(uncompressed) > 0 {
					withFlags := make([]bundlemodel.ModuleEntry, len(entries))
					for i, e := range entries {
						if uncompressed.Has(e.Path()) {
							e = e.WithForceUncompressed(true)
						}
						withFlags[i] = e
					}
					entries = withFlags
				}
				s := split.ModuleSplit{
					ModuleName:       fused.Name,
					SplitType:        split.TypeSplit,
					VariantTargeting: targeting.DefaultVariantTargeting(),
					Entries:          entries,
					Manifest:         fused.Manifest,
					SplitID:          fused.Name + ".config." + strings.ToLower(value),
					ApkTargeting:     apkTargetingForCell([]axis{*langAxis}, lc),
				}
				languageSplits = append(languageSplits, s)
			}
		}
	}

	return ShardedSystemSplits{SystemSplit: system, LanguageSplits: languageSplits}
}
