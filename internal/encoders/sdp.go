package encoders

import (
	"fmt"

	"github.com/pion/sdp/v3"
	"github.com/v4l2enc/encd/pkg/codec"
	"github.com/v4l2enc/encd/pkg/h264"
	"github.com/v4l2enc/encd/pkg/negotiator"
)

// MarshalSDP - current negotiated configuration as an SDP media section,
// the form downstream RTP consumers expect to see
func MarshalSDP(src string, n *negotiator.Negotiator) ([]byte, error) {
	sd := &sdp.SessionDescription{
		Origin: sdp.Origin{
			Username: "-", SessionID: 1, SessionVersion: 1,
			NetworkType: "IN", AddressType: "IP4", UnicastAddress: "0.0.0.0",
		},
		SessionName: sdp.SessionName(src),
		ConnectionInformation: &sdp.ConnectionInformation{
			NetworkType: "IN", AddressType: "IP4", Address: &sdp.Address{
				Address: "0.0.0.0",
			},
		},
		TimeDescriptions: []sdp.TimeDescription{
			{Timing: sdp.Timing{}},
		},
	}

	const payloadType = 96

	pl := n.ProfileLevel()

	md := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:  "video",
			Protos: []string{"RTP", "AVP"},
		},
		Bandwidth: []sdp.Bandwidth{
			{Type: "AS", Bandwidth: uint64(n.Bitrate()) / 1000},
		},
	}

	switch n.Kind() {
	case codec.KindH264:
		fmtp := "packetization-mode=1;profile-level-id=" +
			h264.ProfileLevelID(pl.Profile, pl.Level)
		md.WithCodec(payloadType, "H264", 90000, 0, fmtp)

	case codec.KindVP8:
		md.WithCodec(payloadType, "VP8", 90000, 0, "")

	case codec.KindVP9:
		fmtp := fmt.Sprintf("profile-id=%d", uint32(pl.Profile-codec.ProfileVP90))
		md.WithCodec(payloadType, "VP9", 90000, 0, fmtp)
	}

	md.WithValueAttribute("framerate", fmt.Sprintf("%g", n.FrameRate()))

	size := n.PictureSize()
	md.WithValueAttribute("x-dimensions", fmt.Sprintf("%d,%d", size.Width, size.Height))

	sd.MediaDescriptions = append(sd.MediaDescriptions, md)

	return sd.Marshal()
}
