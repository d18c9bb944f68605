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

// TextureCompressionFormat is the texture codec alias used in an
// assets/*#tcf_<fmt>/ directory name (e.g. "atc", "etc2", "astc").
// Bundletool recognizes a fixed enum of these; the core itself is agnostic
// to the exact alias set and partitions on whatever aliases the bundle
// actually declares (spec.md §4.2).
type TextureCompressionFormat string

const (
	TcfEtc1Rgb8 TextureCompressionFormat = "etc1_rgb8"
	TcfPaletted TextureCompressionFormat = "paletted"
	TcfThreeDc  TextureCompressionFormat = "three_dc"
	TcfAtc      TextureCompressionFormat = "atc"
	TcfLatc     TextureCompressionFormat = "latc"
	TcfDxt1     TextureCompressionFormat = "dxt1"
	TcfS3tc     TextureCompressionFormat = "s3tc"
	TcfPvrtc    TextureCompressionFormat = "pvrtc"
	TcfAstc     TextureCompressionFormat = "astc"
	TcfEtc2     TextureCompressionFormat = "etc2"
	Tcf3dc      TextureCompressionFormat = "3dc"
)

// KnownTcfAliases is used to validate a configured default_suffix for the
// TCF dimension's suffix-stripping option (spec.md §6).
var KnownTcfAliases = NewSet(
	TcfEtc1Rgb8, TcfPaletted, TcfThreeDc, TcfAtc, TcfLatc, TcfDxt1, TcfS3tc,
	TcfPvrtc, TcfAstc, TcfEtc2, Tcf3dc,
)

// TextureCompressionFormatTargeting is the per-split TCF dimension.
type TextureCompressionFormatTargeting struct {
	Values       Set[TextureCompressionFormat]
	Alternatives Set[TextureCompressionFormat]
}

func (t TextureCompressionFormatTargeting) isAgnostic() bool {
	return len(t.Values) == 0 && len(t.Alternatives) == 0
}

func (t TextureCompressionFormatTargeting) equal(o TextureCompressionFormatTargeting) bool {
	return t.Values.Equal(o.Values) && t.Alternatives.Equal(o.Alternatives)
}
