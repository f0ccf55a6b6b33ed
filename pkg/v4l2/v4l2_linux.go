package v4l2

import (
	"github.com/v4l2enc/encd/pkg/codec"
	"github.com/v4l2enc/encd/pkg/negotiator"
	"github.com/v4l2enc/encd/pkg/v4l2/device"
)

// Querier - capability querier backed by a V4L2 encoder device node.
// The negotiator invokes it exactly once during construction.
func Querier(path string, kind codec.Kind) negotiator.CapabilityQuerier {
	return func() ([]negotiator.ProfileCapability, error) {
		dev, err := device.Open(path)
		if err != nil {
			return nil, err
		}
		defer dev.Close()

		profiles, err := dev.EncodeProfiles(kind)
		if err != nil {
			return nil, err
		}

		caps := make([]negotiator.ProfileCapability, 0, len(profiles))
		for _, p := range profiles {
			caps = append(caps, negotiator.ProfileCapability{
				Profile:   p.Profile,
				MaxWidth:  p.MaxWidth,
				MaxHeight: p.MaxHeight,
			})
		}
		return caps, nil
	}
}
