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

// Generates one ModuleSplit family per (module, variant) from a set of
// exploded module directories and prints the resulting split descriptors.
// Run it without arguments to see usage details. This is a demonstration
// harness around the split-generation core, not the core itself: bundle
// zip parsing, signing, and on-disk APK packaging are all out of scope
// (spec.md §1) and are left to whatever build system wires this core in.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/bundlesplit/altpop"
	"github.com/google/bundlesplit/bundlemodel"
	"github.com/google/bundlesplit/shard"
	"github.com/google/bundlesplit/split"
	"github.com/google/bundlesplit/targeting"
	"github.com/google/bundlesplit/variantgen"
)

type moduleDirFlag struct {
	dirs map[string]string // module name -> directory
}

func (f *moduleDirFlag) String() string {
	if f == nil || len(f.dirs) == 0 {
		return ""
	}
	var names []string
	for name := range f.dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func (f *moduleDirFlag) Set(v string) error {
	name, dir, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("bad -module value %q, want name=dir", v)
	}
	if f.dirs == nil {
		f.dirs = map[string]string{}
	}
	f.dirs[name] = dir
	return nil
}

var (
	modules    = moduleDirFlag{}
	outDir     = flag.String("o", "", "directory to write split descriptors into (required)")
	standalone = flag.Bool("standalone", false, "also generate fused standalone APKs for pre-L devices")
	dimensions = flag.String("dimensions", "ABI,SCREEN_DENSITY,LANGUAGE,TEXTURE_COMPRESSION_FORMAT,DEVICE_TIER,COUNTRY_SET",
		"comma-separated list of optimization dimensions to enable")
)

func processArgs() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bundlesplit -module name=dir [-module name2=dir2 ...] -o <output-dir> [-standalone] [-dimensions list]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Var(&modules, "module", "repeatable; one module=directory pair per exploded module directory")
	flag.Parse()
	if len(modules.dirs) == 0 || *outDir == "" {
		flag.Usage()
	}
}

func buildConfig() (bundlemodel.BundleConfig, error) {
	cfg := bundlemodel.BundleConfig{}
	for _, d := range strings.Split(*dimensions, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		cfg.OptimizationDimensions = append(cfg.OptimizationDimensions, bundlemodel.SplitDimensionConfig{
			Dimension: bundlemodel.SplitDimension(d),
		})
	}
	if err := cfg.Validate(); err != nil {
		return bundlemodel.BundleConfig{}, err
	}
	return cfg, nil
}

// dimensionSplitters builds the per-dimension Splitter set a config enables,
// wiring each module's own declared configs into the corresponding splitter
// (spec.md §4.3's fixed pipeline order is enforced by split.BuildPipeline,
// not by this function).
func dimensionSplitters(cfg bundlemodel.BundleConfig, m bundlemodel.BundleModule) split.DimensionSplitters {
	var d split.DimensionSplitters
	if _, ok := cfg.DimensionConfig(bundlemodel.DimensionAbi); ok {
		d.Abi = split.AbiSplitter(m.NativeConfig)
	}
	if _, ok := cfg.DimensionConfig(bundlemodel.DimensionLanguage); ok {
		d.Language = split.LanguageSplitter(m.AssetsConfig, m.ResourceTable)
	}
	if _, ok := cfg.DimensionConfig(bundlemodel.DimensionScreenDensity); ok && m.ResourceTable != nil {
		d.Density = split.DensitySplitter(m.ResourceTable, targeting.NewSet[string]())
	}
	if dc, ok := cfg.DimensionConfig(bundlemodel.DimensionTextureCompressionFormat); ok {
		d.Tcf = split.TcfSplitter(m.AssetsConfig, dc.SuffixStripping)
	}
	if dc, ok := cfg.DimensionConfig(bundlemodel.DimensionDeviceTier); ok {
		d.DeviceTier = split.DeviceTierSplitter(m.AssetsConfig, dc.SuffixStripping)
	}
	if dc, ok := cfg.DimensionConfig(bundlemodel.DimensionCountrySet); ok {
		d.CountrySet = split.CountrySetSplitter(m.AssetsConfig, dc.SuffixStripping)
	}
	d.Graphics = split.GraphicsSplitter(m.AssetsConfig)
	return d
}

// splitDescriptor is the on-disk JSON shape one generated ModuleSplit is
// reported as; a real packaging layer would zip Entries' bytes into an APK
// instead of just naming them.
type splitDescriptor struct {
	SplitID      string   `json:"splitId"`
	ModuleName   string   `json:"moduleName"`
	Type         string   `json:"type"`
	IsMaster     bool     `json:"isMaster"`
	ApkTargeting string   `json:"apkTargeting"`
	Entries      []string `json:"entries"`
}

func describe(s split.ModuleSplit) splitDescriptor {
	paths := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		paths[i] = e.Path()
	}
	return splitDescriptor{
		SplitID:      s.SplitID,
		ModuleName:   s.ModuleName,
		Type:         s.SplitType.String(),
		IsMaster:     s.IsMaster,
		ApkTargeting: fmt.Sprintf("%+v", s.ApkTargeting),
		Entries:      paths,
	}
}

func writeDescriptors(dir string, splits []split.ModuleSplit) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, s := range splits {
		b, err := json.MarshalIndent(describe(s), "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(dir, s.SplitID+".json")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	processArgs()

	cfg, err := buildConfig()
	if err != nil {
		log.Fatal(err)
	}

	names := make([]string, 0, len(modules.dirs))
	for name := range modules.dirs {
		names = append(names, name)
	}
	sort.Strings(names)

	var bundleModules []bundlemodel.BundleModule
	for i, name := range names {
		m, err := loadModule(name, modules.dirs[name])
		if err != nil {
			log.Fatal(err)
		}
		if i > 0 {
			m.Kind = bundlemodel.Feature
		}
		bundleModules = append(bundleModules, m)
	}

	if err := bundlemodel.ValidateRuntimeEnabledSdkConfigs(bundleModules); err != nil {
		log.Fatal(err)
	}

	variants := variantgen.GenerateVariants(bundleModules)
	variants, err = altpop.Populate(variants)
	if err != nil {
		log.Fatal(err)
	}

	var all []split.ModuleSplit
	for _, m := range bundleModules {
		splitter := split.ModuleSplitter{Pipeline: split.BuildPipeline(dimensionSplitters(cfg, m)), Config: cfg}
		for _, v := range variants {
			family, err := splitter.SplitModule(m, v)
			if err != nil {
				log.Fatalf("module %s: %v", m.Name, err)
			}
			all = append(all, family...)
		}
	}

	if *standalone {
		all = append(all, shard.GenerateStandaloneApks(bundleModules, cfg, nil)...)
	}

	if err := writeDescriptors(*outDir, all); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d split descriptors to %s", len(all), *outDir)
}
