package codec

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

// JSON is the standard-library JSON codec.
//
// It is the most portable choice for reports that are consumed by other
// tools (CI dashboards, scripts).
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (JSON) Name() string { return "json" }

// GoJSON encodes reports with github.com/goccy/go-json. Its output decodes
// with JSON and shares the ".json" extension.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

func (GoJSON) Name() string { return "go-json" }

// Append encodes v after dst, for writers that batch several reports.
func (GoJSON) Append(dst []byte, v any) ([]byte, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
