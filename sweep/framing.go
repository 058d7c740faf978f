package sweep

import "strings"

type Framing uint32

const (
	// FramingRaw treats every non-empty read on the server as one request.
	FramingRaw Framing = iota
	// FramingLength prefixes each payload with a 4-byte big-endian length.
	FramingLength
	FramingUnknown
)

func (f Framing) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

func (f Framing) String() string {
	switch f {
	case FramingRaw:
		return "raw"
	case FramingLength:
		return "length"
	}
	return "unknown"
}

func ParseFraming(s string) Framing {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return FramingRaw
	case "length", "len", "lp":
		return FramingLength
	}
	return FramingUnknown
}
