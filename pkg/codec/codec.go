// Package codec holds the codec, profile and level enumerations shared by the
// encoder configuration negotiator and the hosting API. Numeric values follow
// the codec2 profile/level spaces so capability snapshots taken from the
// platform can be used as-is.
package codec

import "fmt"

type Kind byte

const (
	KindH264 Kind = iota + 1
	KindVP8
	KindVP9
)

// Component names from the v4l2_codec2 store.
const (
	NameH264Encoder = "c2.v4l2.avc.encoder"
	NameVP8Encoder  = "c2.v4l2.vp8.encoder"
	NameVP9Encoder  = "c2.v4l2.vp9.encoder"
)

// KindFromName - exact match only, unknown names return zero Kind
func KindFromName(name string) Kind {
	switch name {
	case NameH264Encoder:
		return KindH264
	case NameVP8Encoder:
		return KindVP8
	case NameVP9Encoder:
		return KindVP9
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case KindH264:
		return "H264"
	case KindVP8:
		return "VP8"
	case KindVP9:
		return "VP9"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// OutputMimeType - coded stream MIME type for the kind
func (k Kind) OutputMimeType() string {
	switch k {
	case KindH264:
		return "video/avc"
	case KindVP8:
		return "video/x-vnd.on2.vp8"
	case KindVP9:
		return "video/x-vnd.on2.vp9"
	}
	return ""
}
