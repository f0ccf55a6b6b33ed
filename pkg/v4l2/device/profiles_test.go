package device

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/v4l2enc/encd/pkg/codec"
)

func TestProfileForMenu(t *testing.T) {
	require.Equal(t, codec.ProfileAVCBaseline, profileForMenu(codec.KindH264, 0))
	require.Equal(t, codec.ProfileAVCMain, profileForMenu(codec.KindH264, 2))
	require.Equal(t, codec.ProfileAVCHigh, profileForMenu(codec.KindH264, 4))
	require.Equal(t, codec.ProfileUnused, profileForMenu(codec.KindH264, 99))

	require.Equal(t, codec.ProfileVP80, profileForMenu(codec.KindVP8, 0))
	require.Equal(t, codec.ProfileVP83, profileForMenu(codec.KindVP8, 3))
	require.Equal(t, codec.ProfileUnused, profileForMenu(codec.KindVP8, 4))

	require.Equal(t, codec.ProfileVP92, profileForMenu(codec.KindVP9, 2))
}

func TestFormatForKind(t *testing.T) {
	pix, cid := formatForKind(codec.KindH264)
	require.Equal(t, uint32('H'|'2'<<8|'6'<<16|'4'<<24), pix)
	require.Equal(t, uint32(0x00990A6B), cid)

	pix, _ = formatForKind(codec.KindVP9)
	require.Equal(t, uint32('V'|'P'<<8|'9'<<16|'0'<<24), pix)
}
