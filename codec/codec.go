// Package codec selects the encoding of scoreboard reports and run records.
//
// Stored reports carry the codec name in their blob name suffix, so a
// report written with one codec is always read back with the same one.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Names lists the built-in codec names accepted by ByName.
func Names() []string {
	return []string{"json", "go-json", "msgpack"}
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "msgpack":
		return MsgPack{}, true
	default:
		return nil, false
	}
}

// Ext returns the file extension used for blobs written with c.
func Ext(c Codec) string {
	if c.Name() == "msgpack" {
		return ".msgpack"
	}
	return ".json"
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
