package itemserial

// Codec provides content-type aware marshaling of catalog documents.
// Implementations live in the json, yaml, msgpack, xml, bson and cbor
// submodules.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
