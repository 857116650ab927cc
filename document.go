package itemserial

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CatalogDocument is the at-rest form of a Catalog.
type CatalogDocument struct {
	XMLName    xml.Name           `json:"-" yaml:"-" msgpack:"-" bson:"-" cbor:"-" xml:"catalog"`
	Categories []CategoryDocument `json:"categories" yaml:"categories" msgpack:"categories" bson:"categories" cbor:"categories" xml:"category"`
}

// CategoryDocument is the at-rest form of one category.
type CategoryDocument struct {
	Name     string            `json:"name" yaml:"name" msgpack:"name" bson:"name" cbor:"name" xml:"name,attr"`
	Versions []VersionDocument `json:"versions" yaml:"versions" msgpack:"versions" bson:"versions" cbor:"versions" xml:"version"`
	Assets   []string          `json:"assets" yaml:"assets" msgpack:"assets" bson:"assets" cbor:"assets" xml:"asset"`
}

// VersionDocument attaches a width to a format version.
type VersionDocument struct {
	Version int `json:"version" yaml:"version" msgpack:"version" bson:"version" cbor:"version" xml:"version,attr"`
	Bits    int `json:"bits" yaml:"bits" msgpack:"bits" bson:"bits" cbor:"bits" xml:"bits,attr"`
}

// Frame magic numbers used to detect compressed documents.
var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// zstdEncoder and zstdDecoder are shared; both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		panic("itemserial: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("itemserial: zstd decoder initialization failed: " + err.Error())
	}
}

// ParseCompression parses a compression name.
func ParseCompression(name string) (Compression, error) {
	c := Compression(name)
	if !IsValidCompression(c) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCompression, name)
	}
	return c, nil
}

// DetectCompression reports the compression of data by its frame magic.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// compress wraps data in the requested frame.
func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone, "":
		return data, nil

	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, c)
	}
}

// decompress unwraps data according to its detected frame.
func decompress(data []byte) ([]byte, Compression, error) {
	c := DetectCompression(data)
	switch c {
	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, c, fmt.Errorf("zstd decompress: %w", err)
		}
		return out, c, nil

	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, c, fmt.Errorf("lz4 decompress: %w", err)
		}
		return out, c, nil

	default:
		return data, c, nil
	}
}

// NewCatalogFromDocument builds a Catalog from its at-rest form.
func NewCatalogFromDocument(doc CatalogDocument) (*Catalog, error) {
	tables := make([]CategoryTable, 0, len(doc.Categories))
	for _, cd := range doc.Categories {
		t := CategoryTable{
			Name:     Category(cd.Name),
			Versions: make([]VersionWidth, 0, len(cd.Versions)),
			Parts:    cd.Assets,
		}
		for _, v := range cd.Versions {
			t.Versions = append(t.Versions, VersionWidth{Version: v.Version, Bits: v.Bits})
		}
		tables = append(tables, t)
	}
	return NewCatalog(tables...)
}

// Document returns the at-rest form of the catalog.
func (c *Catalog) Document() CatalogDocument {
	doc := CatalogDocument{Categories: make([]CategoryDocument, 0, len(c.order))}
	for _, name := range c.order {
		t := c.tables[name]
		cd := CategoryDocument{
			Name:     string(name),
			Versions: make([]VersionDocument, 0, len(t.versions)),
			Assets:   append([]string{}, t.parts...),
		}
		for _, v := range t.versions {
			cd.Versions = append(cd.Versions, VersionDocument{Version: v.Version, Bits: v.Bits})
		}
		doc.Categories = append(doc.Categories, cd)
	}
	return doc
}

// LoadCatalog decompresses data if needed, decodes it with codec and
// builds a Catalog.
func LoadCatalog(ctx context.Context, data []byte, codec Codec) (*Catalog, error) {
	if codec == nil {
		return nil, newCatalogError(ErrMissingCodec, "", nil)
	}

	start := time.Now()
	var (
		retErr      error
		retCatalog  *Catalog
		compression = CompressionNone
	)
	defer func() {
		emitCatalogLoaded(ctx, codec.ContentType(), compression, len(data),
			time.Since(start), retCatalog, retErr)
	}()

	plain, c, err := decompress(data)
	compression = c
	if err != nil {
		retErr = newCatalogError(ErrInvalidCatalog, "", err)
		return nil, retErr
	}

	var doc CatalogDocument
	if err := codec.Unmarshal(plain, &doc); err != nil {
		retErr = newCatalogError(ErrInvalidCatalog, "", fmt.Errorf("unmarshal: %w", err))
		return nil, retErr
	}

	retCatalog, retErr = NewCatalogFromDocument(doc)
	if retErr != nil {
		retCatalog = nil
		return nil, retErr
	}
	return retCatalog, nil
}

// ReadCatalogFile loads a catalog document from path.
func ReadCatalogFile(ctx context.Context, path string, codec Codec) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newCatalogError(ErrInvalidCatalog, "", err)
	}
	return LoadCatalog(ctx, data, codec)
}

// EncodeCatalog marshals catalog with codec and compresses the result.
func EncodeCatalog(catalog *Catalog, codec Codec, compression Compression) ([]byte, error) {
	if codec == nil {
		return nil, newCatalogError(ErrMissingCodec, "", nil)
	}
	doc := catalog.Document()
	data, err := codec.Marshal(&doc)
	if err != nil {
		return nil, newCatalogError(ErrInvalidCatalog, "", fmt.Errorf("marshal: %w", err))
	}
	return compress(data, compression)
}
