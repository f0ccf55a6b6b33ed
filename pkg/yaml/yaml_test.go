package yaml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatch(t *testing.T) {
	b := []byte(`# prefix`)

	b, err := Patch(b, "cam1", "/dev/video11", "encoders")
	require.Nil(t, err)

	require.Equal(t, `# prefix
encoders:
  cam1: /dev/video11
`, string(b))

	b, err = Patch(b, "cam2", []string{"/dev/video11", "/dev/video12"}, "encoders")
	require.Nil(t, err)

	require.Equal(t, `# prefix
encoders:
  cam1: /dev/video11
  cam2:
    - /dev/video11
    - /dev/video12
`, string(b))

	b, err = Patch(b, "cam1", "/dev/video20", "encoders")
	require.Nil(t, err)

	require.Equal(t, `# prefix
encoders:
  cam1: /dev/video20
  cam2:
    - /dev/video11
    - /dev/video12
`, string(b))

	b, err = Patch(b, "cam2", "/dev/video21", "encoders")
	require.Nil(t, err)

	require.Equal(t, `# prefix
encoders:
  cam1: /dev/video20
  cam2: /dev/video21
`, string(b))

	b, err = Patch(b, "cam1", nil, "encoders")
	require.Nil(t, err)

	require.Equal(t, `# prefix
encoders:
  cam2: /dev/video21
`, string(b))
}

func TestPatchNested(t *testing.T) {
	b := []byte(`encoders:
  cam1:
    device: /dev/video11
log:
  level: info
`)

	profiles := map[string]string{
		"avc-baseline": "1920x1088",
		"avc-high":     "1920x1080",
	}

	b, err := Patch(b, "profiles", profiles, "encoders", "cam1")
	require.Nil(t, err)

	require.Equal(t, `encoders:
  cam1:
    device: /dev/video11
    profiles:
      avc-baseline: 1920x1088
      avc-high: 1920x1080
log:
  level: info
`, string(b))
}

func TestMerge(t *testing.T) {
	dst := []byte(`api:
  listen: ":1984"
encoders:
  cam1:
    device: /dev/video11
`)
	src := []byte(`encoders:
  cam2:
    device: /dev/video12
`)

	b, err := Merge(dst, src)
	require.Nil(t, err)

	var v struct {
		API struct {
			Listen string `yaml:"listen"`
		} `yaml:"api"`
		Encoders map[string]struct {
			Device string `yaml:"device"`
		} `yaml:"encoders"`
	}
	require.Nil(t, Unmarshal(b, &v))
	require.Equal(t, ":1984", v.API.Listen)
	require.Len(t, v.Encoders, 2)
	require.Equal(t, "/dev/video11", v.Encoders["cam1"].Device)
	require.Equal(t, "/dev/video12", v.Encoders["cam2"].Device)
}
