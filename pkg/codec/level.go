package codec

import (
	"encoding/json"
	"fmt"
)

// Level - codec2-compatible numeric level space, ordered within each codec
type Level uint32

const LevelUnused Level = 0

const (
	LevelAVC1 Level = 0x5000 + iota
	LevelAVC1B
	LevelAVC11
	LevelAVC12
	LevelAVC13
	LevelAVC2
	LevelAVC21
	LevelAVC22
	LevelAVC3
	LevelAVC31
	LevelAVC32
	LevelAVC4
	LevelAVC41
	LevelAVC42
	LevelAVC5
	LevelAVC51
	LevelAVC52
)

const (
	LevelVP91 Level = 0x8000 + iota
	LevelVP911
	LevelVP92
	LevelVP921
	LevelVP93
	LevelVP931
	LevelVP94
	LevelVP941
	LevelVP95
	LevelVP951
	LevelVP952
	LevelVP96
	LevelVP961
	LevelVP962
)

var levelNames = map[Level]string{
	LevelUnused: "unused",

	LevelAVC1:  "avc-1",
	LevelAVC1B: "avc-1b",
	LevelAVC11: "avc-1.1",
	LevelAVC12: "avc-1.2",
	LevelAVC13: "avc-1.3",
	LevelAVC2:  "avc-2",
	LevelAVC21: "avc-2.1",
	LevelAVC22: "avc-2.2",
	LevelAVC3:  "avc-3",
	LevelAVC31: "avc-3.1",
	LevelAVC32: "avc-3.2",
	LevelAVC4:  "avc-4",
	LevelAVC41: "avc-4.1",
	LevelAVC42: "avc-4.2",
	LevelAVC5:  "avc-5",
	LevelAVC51: "avc-5.1",
	LevelAVC52: "avc-5.2",

	LevelVP91:  "vp9-1",
	LevelVP911: "vp9-1.1",
	LevelVP92:  "vp9-2",
	LevelVP921: "vp9-2.1",
	LevelVP93:  "vp9-3",
	LevelVP931: "vp9-3.1",
	LevelVP94:  "vp9-4",
	LevelVP941: "vp9-4.1",
	LevelVP95:  "vp9-5",
	LevelVP951: "vp9-5.1",
	LevelVP952: "vp9-5.2",
	LevelVP96:  "vp9-6",
	LevelVP961: "vp9-6.1",
	LevelVP962: "vp9-6.2",
}

var levelValues = map[string]Level{}

func init() {
	for l, s := range levelNames {
		levelValues[s] = l
	}
}

func ParseLevel(s string) (Level, error) {
	if l, ok := levelValues[s]; ok {
		return l, nil
	}
	return LevelUnused, fmt.Errorf("codec: unknown level %q", s)
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("level-0x%04X", uint32(l))
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var v uint32
		if err = json.Unmarshal(b, &v); err != nil {
			return err
		}
		*l = Level(v)
		return nil
	}
	v, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}
