package negotiator

import (
	"encoding/json"
	"fmt"

	"github.com/v4l2enc/encd/pkg/codec"
)

// ProfileCapability - one entry of the device capability snapshot
type ProfileCapability struct {
	Profile   codec.Profile `json:"profile" yaml:"profile"`
	MaxWidth  uint32        `json:"max_width" yaml:"max_width"`
	MaxHeight uint32        `json:"max_height" yaml:"max_height"`
}

// CapabilityQuerier - device collaborator, invoked exactly once at construction
type CapabilityQuerier func() ([]ProfileCapability, error)

// Static - capability snapshot known up front (configs, tests)
func Static(caps ...ProfileCapability) CapabilityQuerier {
	return func() ([]ProfileCapability, error) {
		return caps, nil
	}
}

type PictureSize struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

func (s PictureSize) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

type ProfileLevel struct {
	Profile codec.Profile `json:"profile"`
	Level   codec.Level   `json:"level"`
}

type BitrateMode byte

const (
	BitrateConst BitrateMode = iota
	BitrateVariable
)

func (m BitrateMode) String() string {
	switch m {
	case BitrateConst:
		return "const"
	case BitrateVariable:
		return "variable"
	}
	return fmt.Sprintf("BitrateMode(%d)", m)
}

func (m BitrateMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *BitrateMode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "const":
		*m = BitrateConst
	case "variable":
		*m = BitrateVariable
	default:
		return fmt.Errorf("negotiator: unknown bitrate mode %q", s)
	}
	return nil
}

type IntraRefreshMode byte

const (
	IntraRefreshDisabled IntraRefreshMode = iota
	IntraRefreshArbitrary
)

func (m IntraRefreshMode) String() string {
	switch m {
	case IntraRefreshDisabled:
		return "disabled"
	case IntraRefreshArbitrary:
		return "arbitrary"
	}
	return fmt.Sprintf("IntraRefreshMode(%d)", m)
}

func (m IntraRefreshMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *IntraRefreshMode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "disabled":
		*m = IntraRefreshDisabled
	case "arbitrary":
		*m = IntraRefreshArbitrary
	default:
		return fmt.Errorf("negotiator: unknown intra refresh mode %q", s)
	}
	return nil
}

type IntraRefresh struct {
	Mode   IntraRefreshMode `json:"mode"`
	Period float64          `json:"period"`
}
