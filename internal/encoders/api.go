package encoders

import (
	"encoding/json"
	"net/http"

	"github.com/v4l2enc/encd/internal/api"
	"github.com/v4l2enc/encd/pkg/negotiator"
)

func apiEncoders(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("src")

	if src == "" {
		var items []api.Source
		for _, name := range Sources() {
			item := api.Source{ID: name, Name: Get(name).Name()}
			if err := Get(name).Err(); err != nil {
				item.Info = err.Error()
			}
			items = append(items, item)
		}
		api.ResponseJSON(w, items)
		return
	}

	n := Get(src)
	if n == nil {
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	switch r.Method {
	case "GET":
		if err := n.Err(); err != nil {
			api.Error(w, err)
			return
		}
		api.ResponseJSON(w, n.Values())

	case "POST":
		apiTransaction(w, r, src, n)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// transaction - proposed values for one or more fields, applied atomically
// in the negotiator's field order
type transaction struct {
	PictureSize        *negotiator.PictureSize  `json:"picture_size"`
	FrameRate          *float64                 `json:"frame_rate"`
	Bitrate            *uint32                  `json:"bitrate"`
	BitrateMode        *negotiator.BitrateMode  `json:"bitrate_mode"`
	ProfileLevel       *negotiator.ProfileLevel `json:"profile_level"`
	IntraRefresh       *negotiator.IntraRefresh `json:"intra_refresh"`
	RequestKeyFrame    *bool                    `json:"request_key_frame"`
	KeyFrameIntervalUs *int64                   `json:"key_frame_interval_us"`
}

func (t *transaction) updates() []negotiator.Update {
	var updates []negotiator.Update

	add := func(name string, v any) {
		updates = append(updates, negotiator.Update{Name: name, Value: v})
	}

	if t.PictureSize != nil {
		add(negotiator.FieldPictureSize, *t.PictureSize)
	}
	if t.FrameRate != nil {
		add(negotiator.FieldFrameRate, *t.FrameRate)
	}
	if t.Bitrate != nil {
		add(negotiator.FieldBitrate, *t.Bitrate)
	}
	if t.BitrateMode != nil {
		add(negotiator.FieldBitrateMode, *t.BitrateMode)
	}
	if t.ProfileLevel != nil {
		add(negotiator.FieldProfileLevel, *t.ProfileLevel)
	}
	if t.IntraRefresh != nil {
		add(negotiator.FieldIntraRefresh, *t.IntraRefresh)
	}
	if t.RequestKeyFrame != nil {
		add(negotiator.FieldRequestKeyFrame, *t.RequestKeyFrame)
	}
	if t.KeyFrameIntervalUs != nil {
		add(negotiator.FieldKeyFrameIntervalUs, *t.KeyFrameIntervalUs)
	}

	return updates
}

func apiTransaction(w http.ResponseWriter, r *http.Request, src string, n *negotiator.Negotiator) {
	var tr transaction
	if err := json.NewDecoder(r.Body).Decode(&tr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updates := tr.updates()
	if len(updates) == 0 {
		http.Error(w, "empty transaction", http.StatusBadRequest)
		return
	}

	results := n.Apply(false, updates...)

	if n.Err() == nil {
		api.Broadcast("encoders/config", map[string]any{
			"src": src, "values": n.Values(),
		})
		if tr.RequestKeyFrame != nil && n.RequestKeyFrame() {
			api.Broadcast("encoders/keyframe", map[string]any{"src": src})
		}
	}

	for _, res := range results {
		if res.Err != nil {
			log.Debug().Err(res.Err).Str("src", src).Str("field", res.Name).
				Msg("[encoders] rejected")
		} else if res.Adjusted {
			log.Debug().Str("src", src).Str("field", res.Name).
				Msg("[encoders] adjusted")
		}
	}

	api.ResponseJSON(w, results)
}

func apiKeyFrame(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("src")

	n := Get(src)
	if n == nil {
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	if err := n.Err(); err != nil {
		api.Error(w, err)
		return
	}

	api.ResponseJSON(w, map[string]uint32{"period": n.KeyFramePeriod()})
}

func apiEncodersSDP(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("src")

	n := Get(src)
	if n == nil {
		http.Error(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	if err := n.Err(); err != nil {
		api.Error(w, err)
		return
	}

	data, err := MarshalSDP(src, n)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.Response(w, data, "application/sdp")
}
