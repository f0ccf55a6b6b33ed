//go:build !linux

package v4l2

import (
	"errors"

	"github.com/v4l2enc/encd/pkg/codec"
	"github.com/v4l2enc/encd/pkg/negotiator"
)

func Querier(path string, kind codec.Kind) negotiator.CapabilityQuerier {
	return func() ([]negotiator.ProfileCapability, error) {
		return nil, errors.New("v4l2: " + path + ": only supported on linux")
	}
}
