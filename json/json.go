// Package json provides a JSON catalog codec. Documents may carry // and
// /* */ comments and trailing commas; they are stripped before decoding.
package json

import (
	"encoding/json"

	"github.com/tidwall/jsonc"
	"github.com/zoobzio/itemserial"
)

// jsonCodec implements itemserial.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() itemserial.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as indented JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Unmarshal decodes JSON or JSONC data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(jsonc.ToJSON(data), v)
}
