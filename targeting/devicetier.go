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

// DeviceTier is the integer tier alias used in an assets/*#tier_<n>/
// directory name.
type DeviceTier int32

// DeviceTierTargeting is the per-split device-tier dimension.
type DeviceTierTargeting struct {
	Values       Set[DeviceTier]
	Alternatives Set[DeviceTier]
}

func (t DeviceTierTargeting) isAgnostic() bool {
	return len(t.Values) == 0 && len(t.Alternatives) == 0
}

func (t DeviceTierTargeting) equal(o DeviceTierTargeting) bool {
	return t.Values.Equal(o.Values) && t.Alternatives.Equal(o.Alternatives)
}
