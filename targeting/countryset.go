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

// CountrySet is the alias used in an assets/*#countries_<set>/ directory
// name (e.g. "latam", "sea").
type CountrySet string

// OtherCountries is the empty alias, which never appears as a declared
// directory alias (spec.md §4.2). The country-set splitter does not assign
// it to any split.
const OtherCountries CountrySet = ""

// CountrySetTargeting is the per-split country-set dimension.
type CountrySetTargeting struct {
	Values       Set[CountrySet]
	Alternatives Set[CountrySet]
}

func (t CountrySetTargeting) isAgnostic() bool {
	return len(t.Values) == 0 && len(t.Alternatives) == 0
}

func (t CountrySetTargeting) equal(o CountrySetTargeting) bool {
	return t.Values.Equal(o.Values) && t.Alternatives.Equal(o.Alternatives)
}
