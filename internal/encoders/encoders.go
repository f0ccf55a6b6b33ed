package encoders

import (
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"github.com/v4l2enc/encd/internal/api"
	"github.com/v4l2enc/encd/internal/app"
	"github.com/v4l2enc/encd/pkg/codec"
	"github.com/v4l2enc/encd/pkg/negotiator"
	"github.com/v4l2enc/encd/pkg/v4l2"
)

func Init() {
	var cfg struct {
		Mod map[string]Config `yaml:"encoders"`
	}

	app.LoadConfig(&cfg)

	log = app.GetLogger("encoders")

	for src, conf := range cfg.Mod {
		n := New(src, conf)
		if err := n.Err(); err != nil {
			log.Warn().Err(err).Str("src", src).Msg("[encoders] init")
			continue
		}
		log.Info().
			Str("src", src).
			Stringer("codec", n.Kind()).
			Int("profiles", len(n.Capabilities())).
			Msg("[encoders] init")
	}

	api.HandleFunc("api/encoders", apiEncoders)
	api.HandleFunc("api/encoders.sdp", apiEncodersSDP)
	api.HandleFunc("api/encoders/keyframe", apiKeyFrame)
}

type Config struct {
	// component name, ex. c2.v4l2.avc.encoder
	Name string `yaml:"name"`
	// V4L2 device node to query capabilities from, ex. /dev/video11
	Device string `yaml:"device"`
	// static capability list, used instead of the device query
	Profiles []negotiator.ProfileCapability `yaml:"profiles"`
}

var log zerolog.Logger

var encoders = map[string]*negotiator.Negotiator{}

// New builds the negotiator for a config entry and registers it even when
// construction fails: a failed component keeps reporting its stored error.
func New(src string, conf Config) *negotiator.Negotiator {
	query := negotiator.Static(conf.Profiles...)
	if len(conf.Profiles) == 0 {
		query = v4l2.Querier(conf.Device, codec.KindFromName(conf.Name))
	}

	n := negotiator.New(conf.Name, query)
	encoders[src] = n
	return n
}

func Get(src string) *negotiator.Negotiator {
	return encoders[src]
}

func Sources() []string {
	sources := make([]string, 0, len(encoders))
	for src := range encoders {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return sources
}

var ErrNotFound = errors.New("encoders: unknown source")
