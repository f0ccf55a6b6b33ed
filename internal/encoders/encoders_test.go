package encoders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/v4l2enc/encd/pkg/codec"
	"github.com/v4l2enc/encd/pkg/negotiator"
)

func init() {
	log = zerolog.Nop()
}

func testConfig() Config {
	return Config{
		Name: codec.NameH264Encoder,
		Profiles: []negotiator.ProfileCapability{
			{Profile: codec.ProfileAVCBaseline, MaxWidth: 1920, MaxHeight: 1088},
			{Profile: codec.ProfileAVCHigh, MaxWidth: 1920, MaxHeight: 1080},
		},
	}
}

func TestNewStaticProfiles(t *testing.T) {
	n := New("cam1", testConfig())
	require.NoError(t, n.Err())
	require.Equal(t, codec.KindH264, n.Kind())
	require.Same(t, n, Get("cam1"))

	delete(encoders, "cam1")
}

func TestAPIEncodersList(t *testing.T) {
	New("cam1", testConfig())
	New("cam2", Config{Name: "c2.v4l2.av1.encoder"})
	defer delete(encoders, "cam1")
	defer delete(encoders, "cam2")

	r := httptest.NewRequest("GET", "/api/encoders", nil)
	w := httptest.NewRecorder()
	apiEncoders(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var items []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Info string `json:"info"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	require.Equal(t, "cam1", items[0].ID)
	require.Empty(t, items[0].Info)
	require.Equal(t, "cam2", items[1].ID)
	require.Contains(t, items[1].Info, "unsupported codec")
}

func TestAPIEncodersGet(t *testing.T) {
	New("cam1", testConfig())
	defer delete(encoders, "cam1")

	r := httptest.NewRequest("GET", "/api/encoders?src=cam1", nil)
	w := httptest.NewRecorder()
	apiEncoders(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var values map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &values))
	require.Equal(t, "video/raw", values["input_media_type"])
	require.Equal(t, "video/avc", values["output_media_type"])
	require.Equal(t, map[string]any{"width": 320.0, "height": 240.0}, values["picture_size"])
}

func TestAPIEncodersNotFound(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/encoders?src=nope", nil)
	w := httptest.NewRecorder()
	apiEncoders(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPITransaction(t *testing.T) {
	n := New("cam1", testConfig())
	defer delete(encoders, "cam1")

	body := `{
		"picture_size": {"width": 1280, "height": 720},
		"bitrate": 2000000,
		"bitrate_mode": "variable",
		"profile_level": {"profile": "avc-high", "level": "avc-1"}
	}`
	r := httptest.NewRequest("POST", "/api/encoders?src=cam1", strings.NewReader(body))
	w := httptest.NewRecorder()
	apiEncoders(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var results []struct {
		Name     string `json:"name"`
		Adjusted bool   `json:"adjusted"`
		Error    string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 4)

	// applied in field declaration order, not request order
	require.Equal(t, "picture_size", results[0].Name)
	require.Equal(t, "bitrate", results[1].Name)
	require.Equal(t, "bitrate_mode", results[2].Name)
	require.Equal(t, "profile_level", results[3].Name)

	// level 1 cannot cover 720p, the lowest sufficient one is substituted
	require.True(t, results[3].Adjusted)
	require.Empty(t, results[3].Error)

	require.Equal(t, negotiator.PictureSize{Width: 1280, Height: 720}, n.PictureSize())
	require.Equal(t, negotiator.BitrateVariable, n.BitrateMode())
	require.Equal(t, codec.ProfileAVCHigh, n.ProfileLevel().Profile)
	require.Equal(t, codec.LevelAVC31, n.ProfileLevel().Level)
}

func TestAPITransactionEmpty(t *testing.T) {
	New("cam1", testConfig())
	defer delete(encoders, "cam1")

	r := httptest.NewRequest("POST", "/api/encoders?src=cam1", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	apiEncoders(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIKeyFrame(t *testing.T) {
	New("cam1", testConfig())
	defer delete(encoders, "cam1")

	r := httptest.NewRequest("GET", "/api/encoders/keyframe?src=cam1", nil)
	w := httptest.NewRecorder()
	apiKeyFrame(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var v map[string]uint32
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	require.Equal(t, uint32(30), v["period"])
}

func TestMarshalSDP(t *testing.T) {
	n := New("cam1", testConfig())
	defer delete(encoders, "cam1")

	data, err := MarshalSDP("cam1", n)
	require.NoError(t, err)

	s := string(data)
	require.Contains(t, s, "s=cam1")
	require.Contains(t, s, "m=video 0 RTP/AVP 96")
	require.Contains(t, s, "a=rtpmap:96 H264/90000")
	require.Contains(t, s, "profile-level-id=420029")
	require.Contains(t, s, "a=framerate:30")
	require.Contains(t, s, "a=x-dimensions:320,240")
	require.Contains(t, s, "b=AS:64")
}
