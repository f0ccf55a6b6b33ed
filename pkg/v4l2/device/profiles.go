package device

import "github.com/v4l2enc/encd/pkg/codec"

// Profile - one (profile, max coded size) pair reported by the device
type Profile struct {
	Profile   codec.Profile
	MaxWidth  uint32
	MaxHeight uint32
}

// V4L2_MPEG_VIDEO_H264_PROFILE_* menu order
var h264Menu = []codec.Profile{
	codec.ProfileAVCBaseline,
	codec.ProfileAVCConstrainedBaseline,
	codec.ProfileAVCMain,
	codec.ProfileAVCExtended,
	codec.ProfileAVCHigh,
	codec.ProfileAVCHigh10,
	codec.ProfileAVCHigh422,
	codec.ProfileAVCHigh444Predictive,
	codec.ProfileAVCHigh10Intra,
	codec.ProfileAVCHigh422Intra,
	codec.ProfileAVCHigh444Intra,
	codec.ProfileAVCCAVLC444Intra,
	codec.ProfileAVCScalableBaseline,
	codec.ProfileAVCScalableHigh,
	codec.ProfileAVCScalableHighIntra,
	codec.ProfileAVCStereoHigh,
	codec.ProfileAVCMultiviewHigh,
}

func profileForMenu(kind codec.Kind, index uint32) codec.Profile {
	switch kind {
	case codec.KindH264:
		if int(index) < len(h264Menu) {
			return h264Menu[index]
		}
	case codec.KindVP8:
		if index <= 3 {
			return codec.ProfileVP80 + codec.Profile(index)
		}
	case codec.KindVP9:
		if index <= 3 {
			return codec.ProfileVP90 + codec.Profile(index)
		}
	}
	return codec.ProfileUnused
}

func formatForKind(kind codec.Kind) (pixFmt, cid uint32) {
	switch kind {
	case codec.KindH264:
		return pixFmtH264, V4L2_CID_MPEG_VIDEO_H264_PROFILE
	case codec.KindVP8:
		return pixFmtVP8, V4L2_CID_MPEG_VIDEO_VP8_PROFILE
	case codec.KindVP9:
		return pixFmtVP9, V4L2_CID_MPEG_VIDEO_VP9_PROFILE
	}
	return 0, 0
}

// coded stream pixel formats produced by hardware encoders
const (
	pixFmtH264 = 'H' | '2'<<8 | '6'<<16 | '4'<<24
	pixFmtVP8  = 'V' | 'P'<<8 | '8'<<16 | '0'<<24
	pixFmtVP9  = 'V' | 'P'<<8 | '9'<<16 | '0'<<24
)

// profile menu controls, V4L2_CID_CODEC_BASE = 0x00990900
const (
	V4L2_CID_MPEG_VIDEO_H264_PROFILE = 0x00990900 + 363
	V4L2_CID_MPEG_VIDEO_VP8_PROFILE  = 0x00990900 + 511
	V4L2_CID_MPEG_VIDEO_VP9_PROFILE  = 0x00990900 + 512
)
