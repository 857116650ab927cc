// Package xml provides an XML catalog codec.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/itemserial"
)

// xmlCodec implements itemserial.Codec for XML.
type xmlCodec struct{}

// New returns an XML codec.
func New() itemserial.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as indented XML with a declaration.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
