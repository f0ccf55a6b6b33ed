package h264

import (
	"fmt"

	"github.com/v4l2enc/encd/pkg/codec"
)

// profile_idc and constraint flags for the common encoder profiles
var profileIDC = map[codec.Profile][2]byte{
	codec.ProfileAVCBaseline:            {0x42, 0x00},
	codec.ProfileAVCConstrainedBaseline: {0x42, 0x40},
	codec.ProfileAVCMain:                {0x4D, 0x00},
	codec.ProfileAVCExtended:            {0x58, 0x00},
	codec.ProfileAVCHigh:                {0x64, 0x00},
	codec.ProfileAVCProgressiveHigh:     {0x64, 0x08},
	codec.ProfileAVCConstrainedHigh:     {0x64, 0x0C},
	codec.ProfileAVCHigh10:              {0x6E, 0x00},
	codec.ProfileAVCHigh422:             {0x7A, 0x00},
	codec.ProfileAVCHigh444Predictive:   {0xF4, 0x00},
}

var levelIDC = map[codec.Level]byte{
	codec.LevelAVC1:  10,
	codec.LevelAVC11: 11,
	codec.LevelAVC12: 12,
	codec.LevelAVC13: 13,
	codec.LevelAVC2:  20,
	codec.LevelAVC21: 21,
	codec.LevelAVC22: 22,
	codec.LevelAVC3:  30,
	codec.LevelAVC31: 31,
	codec.LevelAVC32: 32,
	codec.LevelAVC4:  40,
	codec.LevelAVC41: 41,
	codec.LevelAVC42: 42,
	codec.LevelAVC5:  50,
	codec.LevelAVC51: 51,
	codec.LevelAVC52: 52,
}

// ProfileLevelID - fmtp profile-level-id hex triplet for the negotiated pair.
// Level 1b is signalled with level_idc 11 plus constraint_set3.
func ProfileLevelID(p codec.Profile, l codec.Level) string {
	idc, ok := profileIDC[p]
	if !ok {
		idc = [2]byte{0x64, 0x00} // treat exotic profiles as High
	}

	profile, capab := idc[0], idc[1]

	var level byte
	if l == codec.LevelAVC1B {
		level = 11
		capab |= 0x10
	} else if v, ok := levelIDC[l]; ok {
		level = v
	} else {
		level = 41
	}

	return fmt.Sprintf("%02X%02X%02X", profile, capab, level)
}
