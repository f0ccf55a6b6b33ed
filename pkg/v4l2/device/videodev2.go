//go:build linux

package device

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/videodev2.h

const (
	VIDIOC_QUERYCAP        = 0x80685600
	VIDIOC_ENUM_FMT        = 0xc0405602
	VIDIOC_ENUM_FRAMESIZES = 0xc02c564a
	VIDIOC_QUERYCTRL       = 0xc0445624
	VIDIOC_QUERYMENU       = 0xc02c5625
)

const (
	V4L2_BUF_TYPE_VIDEO_CAPTURE        = 1
	V4L2_BUF_TYPE_VIDEO_CAPTURE_MPLANE = 9

	V4L2_FRMSIZE_TYPE_DISCRETE   = 1
	V4L2_FRMSIZE_TYPE_CONTINUOUS = 2
	V4L2_FRMSIZE_TYPE_STEPWISE   = 3
)

type v4l2_capability struct { // size 104
	driver       [16]byte  // offset 0, size 16
	card         [32]byte  // offset 16, size 32
	bus_info     [32]byte  // offset 48, size 32
	version      uint32    // offset 80, size 4
	capabilities uint32    // offset 84, size 4
	device_caps  uint32    // offset 88, size 4
	reserved     [3]uint32 // offset 92, size 12
}

type v4l2_fmtdesc struct { // size 64
	index       uint32
	typ         uint32
	flags       uint32
	description [32]byte
	pixelformat uint32
	mbus_code   uint32
	reserved    [3]uint32
}

type v4l2_frmsizeenum struct { // size 44
	index        uint32
	pixel_format uint32
	typ          uint32
	// discrete: width, height
	// stepwise: min_width, max_width, step_width, min_height, max_height, step_height
	union    [6]uint32
	reserved [2]uint32
}

type v4l2_queryctrl struct { // size 68
	id            uint32
	typ           uint32
	name          [32]byte
	minimum       int32
	maximum       int32
	step          int32
	default_value int32
	flags         uint32
	reserved      [2]uint32
}

type v4l2_querymenu struct { // size 44
	id       uint32
	index    uint32
	name     [32]byte
	reserved uint32
}
