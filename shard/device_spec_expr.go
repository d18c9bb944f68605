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

package shard

import (
	"fmt"

	"go.starlark.net/starlark"
)

// DeviceSpecExpr is an optional device-eligibility predicate expressed as a
// small starlark script, for callers who need something the fixed matcher
// in device_spec.go can't express — e.g. "sdk >= 24 and 'ARM64_V8A' in
// abis". It is never required: the fixed matcher alone is enough for every
// dimension this core actually splits on.
type DeviceSpecExpr struct {
	Source string
}

// Eval runs the expression against one device spec. The script must assign
// a boolean to the top-level `matches` name; `abis`, `locales`, `density`,
// and `sdk` are predeclared from spec.
func (e DeviceSpecExpr) Eval(spec DeviceSpec) (bool, error) {
	abis := make([]starlark.Value, len(spec.Abis))
	for i, a := range spec.Abis {
		abis[i] = starlark.String(a)
	}
	locales := make([]starlark.Value, len(spec.SupportedLocales))
	for i, l := range spec.SupportedLocales {
		locales[i] = starlark.String(l)
	}

	predeclared := starlark.StringDict{
		"abis":    starlark.NewList(abis),
		"locales": starlark.NewList(locales),
		"density": starlark.MakeInt(spec.ScreenDensity),
		"sdk":     starlark.MakeInt(int(spec.SdkVersion)),
	}

	thread := &starlark.Thread{Name: "device-spec-expr"}
	globals, err := starlark.ExecFile(thread, "device_spec_expr.star", e.Source, predeclared)
	if err != nil {
		return false, fmt.Errorf("shard: device spec expression: %w", err)
	}

	result, ok := globals["matches"]
	if !ok {
		return false, fmt.Errorf("shard: device spec expression did not set `matches`")
	}
	b, ok := result.(starlark.Bool)
	if !ok {
		return false, fmt.Errorf("shard: device spec expression's `matches` must be a bool, got %s", result.Type())
	}
	return bool(b), nil
}
