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

import "fmt"

// OpenGlVersion is a major.minor OpenGL ES version as it appears in an
// assets/*#opengl_<major.minor>/ directory name.
type OpenGlVersion struct {
	Major, Minor int32
}

func (v OpenGlVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GraphicsApiTargeting is the per-split OpenGL dimension.
type GraphicsApiTargeting struct {
	Values       Set[OpenGlVersion]
	Alternatives Set[OpenGlVersion]
}

func (t GraphicsApiTargeting) isAgnostic() bool {
	return len(t.Values) == 0 && len(t.Alternatives) == 0
}

func (t GraphicsApiTargeting) equal(o GraphicsApiTargeting) bool {
	return t.Values.Equal(o.Values) && t.Alternatives.Equal(o.Alternatives)
}
