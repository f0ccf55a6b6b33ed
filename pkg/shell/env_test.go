package shell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceEnvVars(t *testing.T) {
	t.Setenv("ENCD_TEST_DEVICE", "/dev/video11")

	s := ReplaceEnvVars("device: ${ENCD_TEST_DEVICE}")
	require.Equal(t, "device: /dev/video11", s)

	// default when unset
	s = ReplaceEnvVars("listen: ${ENCD_TEST_LISTEN::1984}")
	require.Equal(t, "listen: :1984", s)

	// env wins over default
	s = ReplaceEnvVars("device: ${ENCD_TEST_DEVICE:/dev/video0}")
	require.Equal(t, "device: /dev/video11", s)

	// unknown without default stays as is
	s = ReplaceEnvVars("device: ${ENCD_TEST_UNKNOWN}")
	require.Equal(t, "device: ${ENCD_TEST_UNKNOWN}", s)
}
