package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfString(t *testing.T) {
	require.Equal(t, []byte("{log: {level: trace}}"), parseConfString("log.level=trace"))
	require.Equal(t,
		[]byte("{encoders: {cam1: {device: /dev/video11}}}"),
		parseConfString("encoders.cam1.device=/dev/video11"),
	)

	// single key and raw strings are not a key path
	require.Nil(t, parseConfString("level=trace"))
	require.Nil(t, parseConfString("encd.yaml"))
}

func TestMemoryLog(t *testing.T) {
	buf := newMemoryLog(20)

	_, err := buf.Write([]byte("0123456789\n"))
	require.NoError(t, err)
	_, err = buf.Write([]byte("abcdefghij\n"))
	require.NoError(t, err)

	// first line dropped on overflow
	var out sliceWriter
	_, err = buf.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, "abcdefghij\n", string(out))

	buf.Reset()
	out = nil
	_, err = buf.WriteTo(&out)
	require.NoError(t, err)
	require.Empty(t, out)
}

type sliceWriter []byte

func (w *sliceWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
