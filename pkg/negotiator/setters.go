package negotiator

import (
	"fmt"

	"github.com/v4l2enc/encd/pkg/codec"
	"github.com/v4l2enc/encd/pkg/h264"
)

func (n *Negotiator) setPictureSize(v any, _ bool) (any, error) {
	size, ok := v.(PictureSize)
	if !ok {
		return nil, errType(FieldPictureSize)
	}
	if size.Width < 2 || size.Width > n.maxWidth || size.Width%2 != 0 {
		return nil, fmt.Errorf("%w: width %d not in [2, %d] step 2",
			ErrBadRange, size.Width, n.maxWidth)
	}
	if size.Height < 2 || size.Height > n.maxHeight || size.Height%2 != 0 {
		return nil, fmt.Errorf("%w: height %d not in [2, %d] step 2",
			ErrBadRange, size.Height, n.maxHeight)
	}
	n.size = size
	return size, nil
}

func (n *Negotiator) setFrameRate(v any, _ bool) (any, error) {
	rate, ok := v.(float64)
	if !ok {
		return nil, errType(FieldFrameRate)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("%w: frame rate %v must be positive", ErrBadRange, rate)
	}
	n.frameRate = rate
	return rate, nil
}

func (n *Negotiator) setBitrate(v any, _ bool) (any, error) {
	bitrate, ok := v.(uint32)
	if !ok {
		return nil, errType(FieldBitrate)
	}
	if bitrate > MaxBitrate {
		return nil, fmt.Errorf("%w: bitrate %d above maximum %d", ErrBadRange, bitrate, MaxBitrate)
	}
	n.bitrate = bitrate
	return bitrate, nil
}

func (n *Negotiator) setBitrateMode(v any, _ bool) (any, error) {
	mode, ok := v.(BitrateMode)
	if !ok {
		return nil, errType(FieldBitrateMode)
	}
	if mode != BitrateConst && mode != BitrateVariable {
		return nil, fmt.Errorf("%w: unknown bitrate mode %d", ErrBadRange, mode)
	}
	n.bitrateMode = mode
	return mode, nil
}

// setProfileLevelH264 checks the proposed pair against the level limit table
// using the current picture size, frame rate and bitrate. When the proposed
// level is insufficient the lowest sufficient table level is substituted,
// never the closest one.
func (n *Negotiator) setProfileLevelH264(v any, _ bool) (any, error) {
	pl, ok := v.(ProfileLevel)
	if !ok {
		return nil, errType(FieldProfileLevel)
	}

	// Fall back to the minimal baseline profile when the proposed one is
	// unsupported or below it.
	if !n.supportsProfile(pl.Profile) || pl.Profile < codec.ProfileAVCBaseline {
		if !n.supportsProfile(codec.ProfileAVCBaseline) {
			return nil, fmt.Errorf("%w: neither %s nor %s supported",
				ErrBadProfile, pl.Profile, codec.ProfileAVCBaseline)
		}
		pl.Profile = codec.ProfileAVCBaseline
	}

	targetFS := h264.MacroblockCount(n.size.Width, n.size.Height)
	targetMBPS := float64(targetFS) * n.frameRate

	// Re-offer the remembered level first: it became satisfiable once the
	// dependent fields caught up with the client's intent.
	if n.lowestLevel != codec.LevelUnused && n.lowestLevel < pl.Level {
		pl.Level = n.lowestLevel
	}

	found := false
	needsUpdate := !n.supportsLevel(pl.Level)
	for _, limit := range h264.LevelTable {
		if !n.supportsLevel(limit.Level) {
			continue
		}

		maxBR := h264.MaxBitrateForProfile(pl.Profile, limit.MaxBR)

		if targetFS <= limit.MaxFS && targetMBPS <= limit.MaxMBPS && n.bitrate <= maxBR {
			// Lowest sufficient level. If the scan passed the proposed level
			// on the way here, the proposal was insufficient and gets
			// replaced; remember it so it can be re-offered later.
			if needsUpdate {
				n.lowestLevel = pl.Level
				pl.Level = limit.Level
			}
			found = true
			break
		}
		if pl.Level <= limit.Level {
			needsUpdate = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no level covers %s at %v fps, %d bps",
			ErrBadLevel, n.size, n.frameRate, n.bitrate)
	}

	n.profileLevel = pl
	return pl, nil
}

// setProfileLevelVP9 validates the profile only: VP9 levels are not jointly
// constrained against resolution, frame rate or bitrate here.
func (n *Negotiator) setProfileLevelVP9(v any, _ bool) (any, error) {
	pl, ok := v.(ProfileLevel)
	if !ok {
		return nil, errType(FieldProfileLevel)
	}

	if !n.supportsProfile(pl.Profile) || pl.Profile < codec.ProfileVP90 {
		if !n.supportsProfile(codec.ProfileVP90) {
			return nil, fmt.Errorf("%w: neither %s nor %s supported",
				ErrBadProfile, pl.Profile, codec.ProfileVP90)
		}
		pl.Profile = codec.ProfileVP90
	}

	n.profileLevel = pl
	return pl, nil
}

// setIntraRefresh never fails: a period below one disables the refresh, any
// other period selects the arbitrary (cyclic) mode.
func (n *Negotiator) setIntraRefresh(v any, _ bool) (any, error) {
	ir, ok := v.(IntraRefresh)
	if !ok {
		return nil, errType(FieldIntraRefresh)
	}
	if ir.Period < 1 {
		ir.Mode = IntraRefreshDisabled
		ir.Period = 0
	} else {
		ir.Mode = IntraRefreshArbitrary
	}
	n.intraRefresh = ir
	return ir, nil
}

func (n *Negotiator) setRequestKeyFrame(v any, _ bool) (any, error) {
	request, ok := v.(bool)
	if !ok {
		return nil, errType(FieldRequestKeyFrame)
	}
	n.requestKeyFrame = request
	return request, nil
}

func (n *Negotiator) setKeyFrameIntervalUs(v any, _ bool) (any, error) {
	interval, ok := v.(int64)
	if !ok {
		return nil, errType(FieldKeyFrameIntervalUs)
	}
	// any value is representable, negative and MaxInt64 mean "no periodic
	// key frames" (see KeyFramePeriod)
	n.keyFrameIntervalUs = interval
	return interval, nil
}
