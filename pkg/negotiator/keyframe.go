package negotiator

import "math"

// KeyFramePeriod - number of encoded frames between forced key frames.
// Zero means no periodic forcing: a negative interval or the MaxInt64
// sentinel disables it. Everything else is rounded half away from zero and
// clamped to [1, MaxUint32].
func KeyFramePeriod(intervalUs int64, frameRate float64) uint32 {
	if intervalUs < 0 || intervalUs == math.MaxInt64 {
		return 0
	}
	period := float64(intervalUs) / 1e6 * frameRate
	return uint32(math.Max(math.Min(math.Round(period), float64(math.MaxUint32)), 1))
}

// KeyFramePeriod - derived from the current interval and frame rate fields
func (n *Negotiator) KeyFramePeriod() uint32 {
	if n.err != nil {
		return 0
	}
	return KeyFramePeriod(n.keyFrameIntervalUs, n.frameRate)
}
