// Package negotiator validates and adjusts encoder configuration parameters
// between a hosting media framework and a hardware video encoding device. It
// never encodes anything: it only decides whether a proposed configuration is
// representable by the selected codec and, when it is not, substitutes the
// nearest legal one.
package negotiator

import (
	"fmt"

	"github.com/v4l2enc/encd/pkg/codec"
)

const (
	DefaultFrameRate = 30.0
	// max bitrate of AVC Level 1, used as the default output bitrate
	DefaultBitrate uint32 = 64000
	// max bitrate of AVC Level 4.1, the ceiling for the bitrate field
	MaxBitrate                uint32 = 50000000
	DefaultKeyFrameIntervalUs int64  = 1000000
)

// Fixed platform conventions exposed to the encode pipeline.
const (
	UsageVideoEncoder uint64 = 1 << 16 // gralloc HW_VIDEO_ENCODER usage bit

	AllocatorGralloc uint32 = 0x11
	AllocatorBlob    uint32 = 0x12

	BlockPoolBasicLinear uint64 = 0

	BufferGraphic = "graphic"
	BufferLinear  = "linear"

	MimeVideoRaw = "video/raw"
)

// Field names, in declaration order (see New).
const (
	FieldKind               = "kind"
	FieldPictureSize        = "picture_size"
	FieldFrameRate          = "frame_rate"
	FieldBitrate            = "bitrate"
	FieldBitrateMode        = "bitrate_mode"
	FieldProfileLevel       = "profile_level"
	FieldInputBufferType    = "input_buffer_type"
	FieldInputMemoryUsage   = "input_memory_usage"
	FieldOutputBufferType   = "output_buffer_type"
	FieldInputMediaType     = "input_media_type"
	FieldOutputMediaType    = "output_media_type"
	FieldIntraRefresh       = "intra_refresh"
	FieldRequestKeyFrame    = "request_key_frame"
	FieldKeyFrameIntervalUs = "key_frame_interval_us"
	FieldInputAllocators    = "input_allocators"
	FieldOutputAllocators   = "output_allocators"
	FieldOutputBlockPools   = "output_block_pools"
)

// Negotiator owns the configuration fields of one encoder component. It is
// not safe for concurrent use: the hosting framework guarantees at most one
// in-flight transaction at a time.
type Negotiator struct {
	name string
	kind codec.Kind

	caps      []ProfileCapability // filtered to profiles valid for kind
	maxWidth  uint32
	maxHeight uint32
	levels    []codec.Level // levels the profile_level field may take

	size               PictureSize
	frameRate          float64
	bitrate            uint32
	bitrateMode        BitrateMode
	profileLevel       ProfileLevel
	intraRefresh       IntraRefresh
	requestKeyFrame    bool
	keyFrameIntervalUs int64

	// The lowest level a client asked for but the other fields could not yet
	// satisfy. Size, frame rate, bitrate and level arrive in separate
	// transactions, so a low level proposed before a low resolution would be
	// permanently lost without this memory. Scoped per instance, reset only
	// by reconstruction.
	lowestLevel codec.Level

	fields []*Field
	err    error
}

// New builds a negotiator for the named component, querying the device
// capability snapshot exactly once. The returned instance is never nil: on a
// construction failure the error is stored and every subsequent operation
// reports it instead of doing any work.
func New(name string, query CapabilityQuerier) *Negotiator {
	n := &Negotiator{name: name}

	n.kind = codec.KindFromName(name)
	if n.kind == 0 {
		n.err = fmt.Errorf("%w: %q", ErrUnsupportedCodec, name)
		return n
	}

	snapshot, err := query()
	if err != nil {
		n.err = fmt.Errorf("%w: %s", ErrDeviceUnavailable, err)
		return n
	}

	// Independent maximums: the widest and the tallest supported resolution
	// may come from different profiles.
	for _, cap := range snapshot {
		if !codec.ValidProfile(n.kind, cap.Profile) {
			continue
		}
		n.caps = append(n.caps, cap)
		if cap.MaxWidth > n.maxWidth {
			n.maxWidth = cap.MaxWidth
		}
		if cap.MaxHeight > n.maxHeight {
			n.maxHeight = cap.MaxHeight
		}
	}

	if len(n.caps) == 0 {
		n.err = fmt.Errorf("%w: %s", ErrNoSupportedProfile, name)
		return n
	}

	n.install()

	return n
}

func (n *Negotiator) Name() string {
	return n.name
}

func (n *Negotiator) Kind() codec.Kind {
	return n.kind
}

// Err - stored construction error, nil for a usable component
func (n *Negotiator) Err() error {
	return n.err
}

// Capabilities - the filtered capability snapshot taken at construction
func (n *Negotiator) Capabilities() []ProfileCapability {
	return n.caps
}

// install declares the fields. Order matters: profile_level setters read
// picture_size, frame_rate and bitrate, so those are declared first.
func (n *Negotiator) install() {
	n.size = PictureSize{Width: 320, Height: 240}
	n.frameRate = DefaultFrameRate
	n.bitrate = DefaultBitrate
	n.bitrateMode = BitrateConst
	n.keyFrameIntervalUs = DefaultKeyFrameIntervalUs

	n.addConst(FieldKind, "encoder")

	n.addField(FieldPictureSize,
		func() any { return n.size },
		n.setPictureSize)

	n.addField(FieldFrameRate,
		func() any { return n.frameRate },
		n.setFrameRate)

	n.addField(FieldBitrate,
		func() any { return n.bitrate },
		n.setBitrate)

	n.addField(FieldBitrateMode,
		func() any { return n.bitrateMode },
		n.setBitrateMode)

	switch n.kind {
	case codec.KindH264:
		n.levels = []codec.Level{
			codec.LevelAVC1, codec.LevelAVC1B, codec.LevelAVC11,
			codec.LevelAVC12, codec.LevelAVC13, codec.LevelAVC2,
			codec.LevelAVC21, codec.LevelAVC22, codec.LevelAVC3,
			codec.LevelAVC31, codec.LevelAVC32, codec.LevelAVC4,
			codec.LevelAVC41, codec.LevelAVC42, codec.LevelAVC5,
			codec.LevelAVC51,
		}
		n.profileLevel = ProfileLevel{Profile: n.minProfile(), Level: codec.LevelAVC41}
		n.addField(FieldProfileLevel,
			func() any { return n.profileLevel },
			n.setProfileLevelH264)

	case codec.KindVP8:
		// VP8 has no conventional profiles, profile 0 is reported as a constant
		n.addConst(FieldProfileLevel, ProfileLevel{Profile: codec.ProfileVP80, Level: codec.LevelUnused})

	case codec.KindVP9:
		n.levels = []codec.Level{
			codec.LevelVP91, codec.LevelVP911, codec.LevelVP92,
			codec.LevelVP921, codec.LevelVP93, codec.LevelVP931,
			codec.LevelVP94, codec.LevelVP941, codec.LevelVP95,
			codec.LevelVP951, codec.LevelVP952, codec.LevelVP96,
			codec.LevelVP961, codec.LevelVP962,
		}
		n.profileLevel = ProfileLevel{Profile: n.minProfile(), Level: codec.LevelVP91}
		n.addField(FieldProfileLevel,
			func() any { return n.profileLevel },
			n.setProfileLevelVP9)
	}

	n.addConst(FieldInputBufferType, BufferGraphic)
	n.addConst(FieldInputMemoryUsage, UsageVideoEncoder)
	n.addConst(FieldOutputBufferType, BufferLinear)
	n.addConst(FieldInputMediaType, MimeVideoRaw)
	n.addConst(FieldOutputMediaType, n.kind.OutputMimeType())

	n.addField(FieldIntraRefresh,
		func() any { return n.intraRefresh },
		n.setIntraRefresh)

	n.addField(FieldRequestKeyFrame,
		func() any { return n.requestKeyFrame },
		n.setRequestKeyFrame)

	n.addField(FieldKeyFrameIntervalUs,
		func() any { return n.keyFrameIntervalUs },
		n.setKeyFrameIntervalUs)

	n.addConst(FieldInputAllocators, []uint32{AllocatorGralloc})
	n.addConst(FieldOutputAllocators, []uint32{AllocatorBlob})
	n.addConst(FieldOutputBlockPools, []uint64{BlockPoolBasicLinear})
}

func (n *Negotiator) minProfile() codec.Profile {
	min := n.caps[0].Profile
	for _, cap := range n.caps[1:] {
		if cap.Profile < min {
			min = cap.Profile
		}
	}
	return min
}

func (n *Negotiator) supportsProfile(p codec.Profile) bool {
	for _, cap := range n.caps {
		if cap.Profile == p {
			return true
		}
	}
	return false
}

func (n *Negotiator) supportsLevel(l codec.Level) bool {
	for _, level := range n.levels {
		if level == l {
			return true
		}
	}
	return false
}

// Typed read accessors for the encode pipeline collaborator. All of them
// return zero values on a failed component.

func (n *Negotiator) PictureSize() PictureSize {
	return n.size
}

func (n *Negotiator) FrameRate() float64 {
	return n.frameRate
}

func (n *Negotiator) Bitrate() uint32 {
	return n.bitrate
}

func (n *Negotiator) BitrateMode() BitrateMode {
	return n.bitrateMode
}

func (n *Negotiator) ProfileLevel() ProfileLevel {
	return n.profileLevel
}

func (n *Negotiator) RequestKeyFrame() bool {
	return n.requestKeyFrame
}
