package negotiator

import "errors"

var (
	// fatal to construction, stored and returned by every later operation
	ErrUnsupportedCodec   = errors.New("negotiator: unsupported codec")
	ErrNoSupportedProfile = errors.New("negotiator: no supported profile")
	ErrDeviceUnavailable  = errors.New("negotiator: device unavailable")

	// per-field rejections, other fields of the transaction still apply
	ErrBadProfile = errors.New("negotiator: bad profile")
	ErrBadLevel   = errors.New("negotiator: bad level")
	ErrBadRange   = errors.New("negotiator: bad value")
)
