package negotiator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/v4l2enc/encd/pkg/codec"
)

// capability snapshot of a typical encoder device
func testCaps() []ProfileCapability {
	return []ProfileCapability{
		{Profile: codec.ProfileAVCBaseline, MaxWidth: 1920, MaxHeight: 1088},
		{Profile: codec.ProfileAVCHigh, MaxWidth: 1920, MaxHeight: 1080},
		{Profile: codec.ProfileVP80, MaxWidth: 1920, MaxHeight: 1080},
		{Profile: codec.ProfileVP90, MaxWidth: 3840, MaxHeight: 2160},
	}
}

func newH264(t *testing.T) *Negotiator {
	n := New(codec.NameH264Encoder, Static(testCaps()...))
	require.NoError(t, n.Err())
	return n
}

func TestNewUnsupportedCodec(t *testing.T) {
	n := New("c2.v4l2.av1.encoder", Static(testCaps()...))
	require.ErrorIs(t, n.Err(), ErrUnsupportedCodec)

	// failed component is inert
	results := n.Apply(false, Update{Name: FieldBitrate, Value: uint32(100000)})
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, ErrUnsupportedCodec)

	_, err := n.Get(FieldBitrate)
	require.ErrorIs(t, err, ErrUnsupportedCodec)
	require.Nil(t, n.Values())
	require.Zero(t, n.KeyFramePeriod())
}

func TestNewNoSupportedProfile(t *testing.T) {
	caps := []ProfileCapability{
		{Profile: codec.ProfileAVCBaseline, MaxWidth: 1920, MaxHeight: 1080},
	}
	n := New(codec.NameVP9Encoder, Static(caps...))
	require.ErrorIs(t, n.Err(), ErrNoSupportedProfile)
	require.Empty(t, n.Values())
}

func TestNewDeviceUnavailable(t *testing.T) {
	query := func() ([]ProfileCapability, error) {
		return nil, errors.New("open /dev/video11: no such device")
	}
	n := New(codec.NameH264Encoder, query)
	require.ErrorIs(t, n.Err(), ErrDeviceUnavailable)
}

func TestDefaults(t *testing.T) {
	n := newH264(t)

	require.Equal(t, PictureSize{320, 240}, n.PictureSize())
	require.Equal(t, 30.0, n.FrameRate())
	require.Equal(t, uint32(64000), n.Bitrate())
	require.Equal(t, BitrateConst, n.BitrateMode())
	require.Equal(t, ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC41}, n.ProfileLevel())
	require.False(t, n.RequestKeyFrame())

	v, err := n.Get(FieldOutputMediaType)
	require.NoError(t, err)
	require.Equal(t, "video/avc", v)

	v, err = n.Get(FieldInputMediaType)
	require.NoError(t, err)
	require.Equal(t, "video/raw", v)

	v, err = n.Get(FieldInputMemoryUsage)
	require.NoError(t, err)
	require.Equal(t, UsageVideoEncoder, v)

	v, err = n.Get(FieldInputAllocators)
	require.NoError(t, err)
	require.Equal(t, []uint32{AllocatorGralloc}, v)

	v, err = n.Get(FieldOutputBlockPools)
	require.NoError(t, err)
	require.Equal(t, []uint64{BlockPoolBasicLinear}, v)

	require.Len(t, n.Values(), 17)
}

func TestPictureSize(t *testing.T) {
	n := newH264(t)

	results := n.Apply(false, Update{FieldPictureSize, PictureSize{1920, 1080}})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.False(t, results[0].Adjusted)
	require.Equal(t, PictureSize{1920, 1080}, n.PictureSize())

	// odd width rejected, previous value retained
	results = n.Apply(false, Update{FieldPictureSize, PictureSize{1921, 1080}})
	require.ErrorIs(t, results[0].Err, ErrBadRange)
	require.Equal(t, PictureSize{1920, 1080}, n.PictureSize())

	// beyond the capability maximum
	results = n.Apply(false, Update{FieldPictureSize, PictureSize{4096, 2160}})
	require.ErrorIs(t, results[0].Err, ErrBadRange)
	require.Equal(t, PictureSize{1920, 1080}, n.PictureSize())

	// independent maximums: 1920x1088 is within the snapshot
	results = n.Apply(false, Update{FieldPictureSize, PictureSize{1920, 1088}})
	require.NoError(t, results[0].Err)
}

func TestSimpleFields(t *testing.T) {
	n := newH264(t)

	results := n.Apply(false,
		Update{FieldFrameRate, 60.0},
		Update{FieldBitrate, uint32(2000000)},
		Update{FieldBitrateMode, BitrateVariable},
	)
	for _, r := range results {
		require.NoError(t, r.Err, r.Name)
	}
	require.Equal(t, 60.0, n.FrameRate())
	require.Equal(t, uint32(2000000), n.Bitrate())
	require.Equal(t, BitrateVariable, n.BitrateMode())

	results = n.Apply(false, Update{FieldFrameRate, -1.0})
	require.ErrorIs(t, results[0].Err, ErrBadRange)
	require.Equal(t, 60.0, n.FrameRate())

	results = n.Apply(false, Update{FieldBitrate, MaxBitrate + 1})
	require.ErrorIs(t, results[0].Err, ErrBadRange)
	require.Equal(t, uint32(2000000), n.Bitrate())
}

// a field rejection never aborts the rest of the transaction
func TestApplyIndependentFields(t *testing.T) {
	n := newH264(t)

	results := n.Apply(false,
		Update{FieldFrameRate, 0.0},
		Update{FieldBitrate, uint32(500000)},
		Update{FieldRequestKeyFrame, true},
	)
	require.Len(t, results, 3)
	require.ErrorIs(t, results[0].Err, ErrBadRange)
	require.NoError(t, results[1].Err)
	require.NoError(t, results[2].Err)
	require.Equal(t, uint32(500000), n.Bitrate())
	require.True(t, n.RequestKeyFrame())
}

func TestApplyDeclarationOrder(t *testing.T) {
	n := newH264(t)

	// level is supplied before the size, but the size setter is declared
	// first and must run first, so level 1 is already satisfiable
	results := n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC1}},
		Update{FieldPictureSize, PictureSize{96, 80}},
	)
	require.Len(t, results, 2)
	require.Equal(t, FieldPictureSize, results[0].Name)
	require.Equal(t, FieldProfileLevel, results[1].Name)
	require.NoError(t, results[1].Err)
	require.False(t, results[1].Adjusted)
	require.Equal(t, codec.LevelAVC1, n.ProfileLevel().Level)
}

func TestApplyUnknownAndReadOnly(t *testing.T) {
	n := newH264(t)

	results := n.Apply(false, Update{"no_such_field", 1})
	require.Len(t, results, 1)
	require.ErrorIs(t, results[0].Err, ErrBadRange)

	results = n.Apply(false, Update{FieldOutputMediaType, "video/x-matroska"})
	require.ErrorIs(t, results[0].Err, ErrBadRange)
	v, _ := n.Get(FieldOutputMediaType)
	require.Equal(t, "video/avc", v)
}

// 1920x1080 at 30 fps is 8160 macroblocks and 244800 MB/s: level 4 covers it
// up to 20 Mbps, 25 Mbps needs level 4.1
func TestH264LevelBoundary(t *testing.T) {
	n := newH264(t)

	results := n.Apply(false,
		Update{FieldPictureSize, PictureSize{1920, 1080}},
		Update{FieldBitrate, uint32(20000000)},
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC1}},
	)
	require.NoError(t, results[2].Err)
	require.True(t, results[2].Adjusted)
	require.Equal(t, codec.LevelAVC4, n.ProfileLevel().Level)

	n = newH264(t)
	results = n.Apply(false,
		Update{FieldPictureSize, PictureSize{1920, 1080}},
		Update{FieldBitrate, uint32(25000000)},
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC1}},
	)
	require.NoError(t, results[2].Err)
	require.Equal(t, codec.LevelAVC41, n.ProfileLevel().Level)
}

// the High profile bitrate multiplier is 1.25: 25 Mbps still fits level 4
func TestH264HighProfileBitrateScaling(t *testing.T) {
	n := newH264(t)

	results := n.Apply(false,
		Update{FieldPictureSize, PictureSize{1920, 1080}},
		Update{FieldBitrate, uint32(25000000)},
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCHigh, codec.LevelAVC1}},
	)
	require.NoError(t, results[2].Err)
	require.Equal(t, codec.ProfileAVCHigh, n.ProfileLevel().Profile)
	require.Equal(t, codec.LevelAVC4, n.ProfileLevel().Level)
}

// an already-sufficient level is kept unchanged
func TestH264LevelIdempotent(t *testing.T) {
	n := newH264(t)

	pl := ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC41}
	for i := 0; i < 3; i++ {
		results := n.Apply(false, Update{FieldProfileLevel, pl})
		require.NoError(t, results[0].Err)
		require.False(t, results[0].Adjusted)
		require.Equal(t, pl, n.ProfileLevel())
	}
}

func TestH264LevelMonotonicBitrate(t *testing.T) {
	bitrates := []uint32{64000, 500000, 2000000, 10000000, 20000000, 50000000}

	var prev codec.Level
	for _, bitrate := range bitrates {
		n := newH264(t)
		results := n.Apply(false,
			Update{FieldPictureSize, PictureSize{1280, 720}},
			Update{FieldBitrate, bitrate},
			Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC1}},
		)
		require.NoError(t, results[2].Err)

		level := n.ProfileLevel().Level
		require.GreaterOrEqual(t, uint32(level), uint32(prev), "bitrate %d", bitrate)
		prev = level
	}
}

func TestH264ProfileFallback(t *testing.T) {
	n := newH264(t)

	// main is not in the snapshot, baseline substitutes
	results := n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCMain, codec.LevelAVC41}})
	require.NoError(t, results[0].Err)
	require.True(t, results[0].Adjusted)
	require.Equal(t, codec.ProfileAVCBaseline, n.ProfileLevel().Profile)

	// snapshot without baseline cannot fall back
	caps := []ProfileCapability{
		{Profile: codec.ProfileAVCHigh, MaxWidth: 1920, MaxHeight: 1080},
	}
	n = New(codec.NameH264Encoder, Static(caps...))
	require.NoError(t, n.Err())

	results = n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCMain, codec.LevelAVC41}})
	require.ErrorIs(t, results[0].Err, ErrBadProfile)
}

// a low level proposed before the dependent fields are lowered must be
// honored once they catch up
func TestH264PendingLevelFloor(t *testing.T) {
	n := newH264(t)

	// level 1 cannot cover the default 320x240 at 30 fps
	results := n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC1}})
	require.NoError(t, results[0].Err)
	require.True(t, results[0].Adjusted)
	require.Equal(t, codec.LevelAVC13, n.ProfileLevel().Level)

	// dependent fields catch up, a later selection re-offers level 1
	results = n.Apply(false, Update{FieldPictureSize, PictureSize{96, 80}})
	require.NoError(t, results[0].Err)

	results = n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC41}})
	require.NoError(t, results[0].Err)
	require.Equal(t, codec.LevelAVC1, n.ProfileLevel().Level)
}

// reconstruction never inherits the pending floor of a prior instance
func TestH264PendingLevelNotShared(t *testing.T) {
	n := newH264(t)
	results := n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC1}})
	require.True(t, results[0].Adjusted)

	n = newH264(t)
	results = n.Apply(false, Update{FieldPictureSize, PictureSize{96, 80}})
	require.NoError(t, results[0].Err)

	pl := ProfileLevel{codec.ProfileAVCBaseline, codec.LevelAVC41}
	results = n.Apply(false, Update{FieldProfileLevel, pl})
	require.NoError(t, results[0].Err)
	require.False(t, results[0].Adjusted)
	require.Equal(t, pl, n.ProfileLevel())
}

func TestVP8ConstProfileLevel(t *testing.T) {
	n := New(codec.NameVP8Encoder, Static(testCaps()...))
	require.NoError(t, n.Err())

	v, err := n.Get(FieldProfileLevel)
	require.NoError(t, err)
	require.Equal(t, ProfileLevel{codec.ProfileVP80, codec.LevelUnused}, v)

	results := n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileVP81, codec.LevelUnused}})
	require.ErrorIs(t, results[0].Err, ErrBadRange)

	v, _ = n.Get(FieldOutputMediaType)
	require.Equal(t, "video/x-vnd.on2.vp8", v)
}

func TestVP9ProfileOnly(t *testing.T) {
	n := New(codec.NameVP9Encoder, Static(testCaps()...))
	require.NoError(t, n.Err())
	require.Equal(t, ProfileLevel{codec.ProfileVP90, codec.LevelVP91}, n.ProfileLevel())

	// unsupported profile falls back to profile 0, the level is never
	// validated against the other fields
	results := n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileVP92, codec.LevelVP962}})
	require.NoError(t, results[0].Err)
	require.True(t, results[0].Adjusted)
	require.Equal(t, ProfileLevel{codec.ProfileVP90, codec.LevelVP962}, n.ProfileLevel())

	// even a nonsensical level value is accepted as-is
	results = n.Apply(false,
		Update{FieldProfileLevel, ProfileLevel{codec.ProfileVP90, codec.LevelAVC5}})
	require.NoError(t, results[0].Err)
	require.Equal(t, codec.LevelAVC5, n.ProfileLevel().Level)
}

func TestIntraRefresh(t *testing.T) {
	n := newH264(t)

	results := n.Apply(false,
		Update{FieldIntraRefresh, IntraRefresh{Mode: IntraRefreshDisabled, Period: 30}})
	require.NoError(t, results[0].Err)
	require.True(t, results[0].Adjusted)

	v, _ := n.Get(FieldIntraRefresh)
	require.Equal(t, IntraRefresh{Mode: IntraRefreshArbitrary, Period: 30}, v)

	results = n.Apply(false,
		Update{FieldIntraRefresh, IntraRefresh{Mode: IntraRefreshArbitrary, Period: 0.5}})
	require.NoError(t, results[0].Err)

	v, _ = n.Get(FieldIntraRefresh)
	require.Equal(t, IntraRefresh{Mode: IntraRefreshDisabled, Period: 0}, v)
}

func TestKeyFramePeriod(t *testing.T) {
	require.Equal(t, uint32(30), KeyFramePeriod(1000000, 30))
	require.Equal(t, uint32(60), KeyFramePeriod(2000000, 30))
	require.Equal(t, uint32(0), KeyFramePeriod(-1, 30))
	require.Equal(t, uint32(0), KeyFramePeriod(math.MaxInt64, 30))
	// clamped to at least one frame
	require.Equal(t, uint32(1), KeyFramePeriod(1, 30))
	// rounding is half away from zero
	require.Equal(t, uint32(2), KeyFramePeriod(50000, 30))

	n := newH264(t)
	require.Equal(t, uint32(30), n.KeyFramePeriod())

	results := n.Apply(false, Update{FieldKeyFrameIntervalUs, int64(-1)})
	require.NoError(t, results[0].Err)
	require.Equal(t, uint32(0), n.KeyFramePeriod())

	results = n.Apply(false,
		Update{FieldKeyFrameIntervalUs, int64(500000)},
		Update{FieldFrameRate, 60.0},
	)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.Equal(t, uint32(30), n.KeyFramePeriod())
}

func TestWrongValueType(t *testing.T) {
	n := newH264(t)

	results := n.Apply(false, Update{FieldBitrate, "fast"})
	require.ErrorIs(t, results[0].Err, ErrBadRange)
	require.Equal(t, uint32(64000), n.Bitrate())

	results = n.Apply(false, Update{FieldRequestKeyFrame, 1})
	require.ErrorIs(t, results[0].Err, ErrBadRange)
}
