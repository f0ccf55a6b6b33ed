//go:build linux

// Package device queries V4L2 hardware encoder capabilities: which coded
// formats the device produces, which profiles it supports and the maximum
// coded resolution per format. It never starts streaming.
package device

import (
	"bytes"
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/v4l2enc/encd/pkg/codec"
)

type Device struct {
	fd int
}

func Open(path string) (*Device, error) {
	fd, err := syscall.Open(path, syscall.O_RDWR|syscall.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &Device{fd: fd}, nil
}

func (d *Device) Close() error {
	return syscall.Close(d.fd)
}

type Capability struct {
	Driver  string
	Card    string
	BusInfo string
	Version string
}

func (d *Device) Capability() (*Capability, error) {
	c := v4l2_capability{}
	if err := ioctl(d.fd, VIDIOC_QUERYCAP, unsafe.Pointer(&c)); err != nil {
		return nil, err
	}
	return &Capability{
		Driver:  str(c.driver[:]),
		Card:    str(c.card[:]),
		BusInfo: str(c.bus_info[:]),
		Version: fmt.Sprintf("%d.%d.%d", byte(c.version>>16), byte(c.version>>8), byte(c.version)),
	}, nil
}

// ListCodedFormats - coded pixel formats on the capture queue
// (the encoder output side), both single and multi planar
func (d *Device) ListCodedFormats() ([]uint32, error) {
	var items []uint32

	for _, typ := range []uint32{V4L2_BUF_TYPE_VIDEO_CAPTURE, V4L2_BUF_TYPE_VIDEO_CAPTURE_MPLANE} {
		for i := uint32(0); ; i++ {
			fd := v4l2_fmtdesc{
				index: i,
				typ:   typ,
			}
			if err := ioctl(d.fd, VIDIOC_ENUM_FMT, unsafe.Pointer(&fd)); err != nil {
				if !errors.Is(err, syscall.EINVAL) {
					return nil, err
				}
				break
			}

			items = append(items, fd.pixelformat)
		}
	}

	return items, nil
}

// MaxSize - largest coded frame size the device reports for the format
func (d *Device) MaxSize(pixFmt uint32) (width, height uint32, err error) {
	for i := uint32(0); ; i++ {
		fs := v4l2_frmsizeenum{
			index:        i,
			pixel_format: pixFmt,
		}
		if err = ioctl(d.fd, VIDIOC_ENUM_FRAMESIZES, unsafe.Pointer(&fs)); err != nil {
			if !errors.Is(err, syscall.EINVAL) {
				return 0, 0, err
			}
			break
		}

		switch fs.typ {
		case V4L2_FRMSIZE_TYPE_DISCRETE:
			if fs.union[0] > width {
				width = fs.union[0]
			}
			if fs.union[1] > height {
				height = fs.union[1]
			}
		case V4L2_FRMSIZE_TYPE_CONTINUOUS, V4L2_FRMSIZE_TYPE_STEPWISE:
			// stepwise enumerations are single entry
			return fs.union[1], fs.union[4], nil
		}
	}

	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("device: no frame sizes for %08x", pixFmt)
	}
	return width, height, nil
}

// ListProfileMenu - supported menu indexes of a profile control
func (d *Device) ListProfileMenu(cid uint32) ([]uint32, error) {
	qc := v4l2_queryctrl{id: cid}
	if err := ioctl(d.fd, VIDIOC_QUERYCTRL, unsafe.Pointer(&qc)); err != nil {
		return nil, err
	}

	var items []uint32
	for i := qc.minimum; i <= qc.maximum; i++ {
		qm := v4l2_querymenu{id: cid, index: uint32(i)}
		if err := ioctl(d.fd, VIDIOC_QUERYMENU, unsafe.Pointer(&qm)); err != nil {
			continue // disabled menu entries return EINVAL
		}
		items = append(items, qm.index)
	}

	return items, nil
}

// EncodeProfiles - full capability snapshot for the component kind
func (d *Device) EncodeProfiles(kind codec.Kind) ([]Profile, error) {
	pixFmt, cid := formatForKind(kind)

	formats, err := d.ListCodedFormats()
	if err != nil {
		return nil, err
	}

	found := false
	for _, f := range formats {
		if f == pixFmt {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("device: %s not supported", kind)
	}

	width, height, err := d.MaxSize(pixFmt)
	if err != nil {
		return nil, err
	}

	menu, err := d.ListProfileMenu(cid)
	if err != nil {
		// no profile control: VP8 encoders commonly expose none
		menu = []uint32{0}
	}

	var profiles []Profile
	for _, index := range menu {
		p := profileForMenu(kind, index)
		if p == codec.ProfileUnused {
			continue
		}
		profiles = append(profiles, Profile{
			Profile:   p,
			MaxWidth:  width,
			MaxHeight: height,
		})
	}

	return profiles, nil
}

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if err != 0 {
		return err
	}
	return nil
}

func str(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
