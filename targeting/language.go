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

package targeting

// Language is a BCP-47-ish language tag as it appears in an
// assets/*#lang_<tag>/ directory name or a locale-qualified resource
// configuration (e.g. "fr", "pt-BR").
type Language string

// LanguageTargeting is the per-split language dimension.
type LanguageTargeting struct {
	Values       Set[Language]
	Alternatives Set[Language]
}

func (t LanguageTargeting) isAgnostic() bool {
	return len(t.Values) == 0 && len(t.Alternatives) == 0
}

func (t LanguageTargeting) equal(o LanguageTargeting) bool {
	return t.Values.Equal(o.Values) && t.Alternatives.Equal(o.Alternatives)
}
