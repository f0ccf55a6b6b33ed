// Package h264 carries the H.264 level constraint tables used by the encoder
// configuration negotiator: Table A-1 limits, the Table A-2 profile bitrate
// scaling and the macroblock throughput math.
package h264

import "github.com/v4l2enc/encd/pkg/codec"

// LevelLimits - one row of Table A-1
type LevelLimits struct {
	Level   codec.Level
	MaxMBPS float64 // max macroblock processing rate, macroblocks per second
	MaxFS   uint64  // max frame size in macroblocks
	MaxBR   uint32  // max video bitrate, bits per second
}

// LevelTable - Table A-1, ascending level order
var LevelTable = []LevelLimits{
	{codec.LevelAVC1, 1485, 99, 64000},
	{codec.LevelAVC1B, 1485, 99, 128000},
	{codec.LevelAVC11, 3000, 396, 192000},
	{codec.LevelAVC12, 6000, 396, 384000},
	{codec.LevelAVC13, 11880, 396, 768000},
	{codec.LevelAVC2, 11880, 396, 2000000},
	{codec.LevelAVC21, 19800, 792, 4000000},
	{codec.LevelAVC22, 20250, 1620, 4000000},
	{codec.LevelAVC3, 40500, 1620, 10000000},
	{codec.LevelAVC31, 108000, 3600, 14000000},
	{codec.LevelAVC32, 216000, 5120, 20000000},
	{codec.LevelAVC4, 245760, 8192, 20000000},
	{codec.LevelAVC41, 245760, 8192, 50000000},
	{codec.LevelAVC42, 522240, 8704, 50000000},
	{codec.LevelAVC5, 589824, 22080, 135000000},
	{codec.LevelAVC51, 983040, 36864, 240000000},
	{codec.LevelAVC52, 2073600, 36864, 240000000},
}

// MacroblockCount - frame size in 16x16 macroblocks, partial blocks count as whole
func MacroblockCount(width, height uint32) uint64 {
	return uint64((width+15)/16) * uint64((height+15)/16)
}

// MaxBitrateForProfile - Table A-2: the maximum bitrate for High profile is
// 1.25 times Base/Extended/Main, 3 times for Hi10P and 4 times for
// Hi422P/Hi444PP.
func MaxBitrateForProfile(p codec.Profile, base uint32) uint32 {
	switch {
	case p >= codec.ProfileAVCHigh422:
		return base * 4
	case p >= codec.ProfileAVCHigh10:
		return base * 3
	case p >= codec.ProfileAVCHigh:
		return uint32(float64(base) * 5.0 / 4.0)
	}
	return base
}
