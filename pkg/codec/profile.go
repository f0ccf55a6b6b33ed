package codec

import (
	"encoding/json"
	"fmt"
)

// Profile - codec2-compatible numeric profile space:
// AVC 0x5000..., VP9 0x8000..., VP8 0xB000...
type Profile uint32

const ProfileUnused Profile = 0

const (
	ProfileAVCBaseline Profile = 0x5000 + iota
	ProfileAVCConstrainedBaseline
	ProfileAVCMain
	ProfileAVCExtended
	ProfileAVCHigh
	ProfileAVCProgressiveHigh
	ProfileAVCConstrainedHigh
	ProfileAVCHigh10
	ProfileAVCProgressiveHigh10
	ProfileAVCHigh422
	ProfileAVCHigh444Predictive
	ProfileAVCHigh10Intra
	ProfileAVCHigh422Intra
	ProfileAVCHigh444Intra
	ProfileAVCCAVLC444Intra
	ProfileAVCScalableBaseline
	ProfileAVCScalableConstrainedBaseline
	ProfileAVCScalableHigh
	ProfileAVCScalableConstrainedHigh
	ProfileAVCScalableHighIntra
	ProfileAVCStereoHigh
	ProfileAVCMultiviewHigh
	ProfileAVCMultiviewDepthHigh
	ProfileAVCEnhancedMultiviewDepthHigh
)

const (
	ProfileVP90 Profile = 0x8000 + iota
	ProfileVP91
	ProfileVP92
	ProfileVP93
)

const (
	ProfileVP80 Profile = 0xB000 + iota
	ProfileVP81
	ProfileVP82
	ProfileVP83
)

// ValidProfile - whether the profile belongs to the kind at all.
// Hardware may report profiles for other codecs in the same snapshot.
func ValidProfile(kind Kind, p Profile) bool {
	switch kind {
	case KindH264:
		return p >= ProfileAVCBaseline && p <= ProfileAVCEnhancedMultiviewDepthHigh
	case KindVP8:
		return p >= ProfileVP80 && p <= ProfileVP83
	case KindVP9:
		return p >= ProfileVP90 && p <= ProfileVP93
	}
	return false
}

var profileNames = map[Profile]string{
	ProfileAVCBaseline:                    "avc-baseline",
	ProfileAVCConstrainedBaseline:         "avc-constrained-baseline",
	ProfileAVCMain:                        "avc-main",
	ProfileAVCExtended:                    "avc-extended",
	ProfileAVCHigh:                        "avc-high",
	ProfileAVCProgressiveHigh:             "avc-progressive-high",
	ProfileAVCConstrainedHigh:             "avc-constrained-high",
	ProfileAVCHigh10:                      "avc-high-10",
	ProfileAVCProgressiveHigh10:           "avc-progressive-high-10",
	ProfileAVCHigh422:                     "avc-high-422",
	ProfileAVCHigh444Predictive:           "avc-high-444-predictive",
	ProfileAVCHigh10Intra:                 "avc-high-10-intra",
	ProfileAVCHigh422Intra:                "avc-high-422-intra",
	ProfileAVCHigh444Intra:                "avc-high-444-intra",
	ProfileAVCCAVLC444Intra:               "avc-cavlc-444-intra",
	ProfileAVCScalableBaseline:            "avc-scalable-baseline",
	ProfileAVCScalableConstrainedBaseline: "avc-scalable-constrained-baseline",
	ProfileAVCScalableHigh:                "avc-scalable-high",
	ProfileAVCScalableConstrainedHigh:     "avc-scalable-constrained-high",
	ProfileAVCScalableHighIntra:           "avc-scalable-high-intra",
	ProfileAVCStereoHigh:                  "avc-stereo-high",
	ProfileAVCMultiviewHigh:               "avc-multiview-high",
	ProfileAVCMultiviewDepthHigh:          "avc-multiview-depth-high",
	ProfileAVCEnhancedMultiviewDepthHigh:  "avc-enhanced-multiview-depth-high",

	ProfileVP80: "vp8-0",
	ProfileVP81: "vp8-1",
	ProfileVP82: "vp8-2",
	ProfileVP83: "vp8-3",

	ProfileVP90: "vp9-0",
	ProfileVP91: "vp9-1",
	ProfileVP92: "vp9-2",
	ProfileVP93: "vp9-3",
}

var profileValues = map[string]Profile{}

func init() {
	for p, s := range profileNames {
		profileValues[s] = p
	}
}

func ParseProfile(s string) (Profile, error) {
	if p, ok := profileValues[s]; ok {
		return p, nil
	}
	return ProfileUnused, fmt.Errorf("codec: unknown profile %q", s)
}

func (p Profile) String() string {
	if s, ok := profileNames[p]; ok {
		return s
	}
	return fmt.Sprintf("profile-0x%04X", uint32(p))
}

func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Profile) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// numeric form is accepted too
		var v uint32
		if err = json.Unmarshal(b, &v); err != nil {
			return err
		}
		*p = Profile(v)
		return nil
	}
	v, err := ParseProfile(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// UnmarshalYAML - config files use the same names as the JSON API
func (p *Profile) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		v, err := ParseProfile(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
	var v uint32
	if err := unmarshal(&v); err != nil {
		return err
	}
	*p = Profile(v)
	return nil
}
