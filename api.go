// Package itemserial decodes and re-encodes game item serial numbers.
//
// A serial is a short binary string that packs an item's balance,
// inventory data, manufacturer and level into variable-width bit fields,
// behind a checksum and a keyed obfuscation layer. The width of each field
// depends on the format version stored in the serial itself, so decoding
// consults a versioned Catalog.
//
// # Wire Format
//
// The envelope is big-endian:
//
//	byte 0      format tag, always 3
//	bytes 1-4   seed, signed 32-bit
//	bytes 5-6   checksum (after de-obfuscation)
//	bytes 7-    plaintext body (after de-obfuscation)
//
// The checksum is CRC-32 (IEEE) over tag, seed, 0xFFFF and the body,
// folded to 16 bits. The body is a little-endian bit stream:
//
//	8 bits   sentinel, always 128
//	7 bits   format version
//	W1 bits  InventoryBalanceData index
//	W2 bits  InventoryData index
//	W3 bits  ManufacturerData index
//	7 bits   level
//	...      tail, carried unchanged
//
// Text transport wraps the raw bytes as BL3(<base64>).
//
// # Basic Usage
//
//	catalog, _ := itemserial.ReadCatalogFile(ctx, "serialdb.json.zst", json.New())
//
//	s, err := itemserial.DecodeText("BL3(AwAAAAC...)", catalog)
//	if err != nil {
//	    // *FormatError or *IntegrityError
//	}
//
//	state, err := s.Parse()
//	if state == itemserial.StateUnsupported {
//	    // newer than the catalog, skip
//	}
//
//	_ = s.SetLevel(57)
//	fmt.Println(s.Text())
//
// # States
//
// A Serial is Unparsed after Decode, Parsed or Unsupported after Parse,
// and Unparsed again after SetLevel rewrites its body. Unsupported is not
// an error; it means the catalog predates the item.
//
// # Batches
//
// Processor fans a batch of serials out over a worker pool. Each item
// succeeds or fails alone; results come back in input order.
//
// # Catalog Codecs
//
// Catalog documents can be stored in any format with a Codec. The
// following implementations are available as submodules:
//
//   - json - JSON, comments accepted on read (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//   - cbor - deterministic CBOR (application/cbor)
//
// Documents may be zstd or lz4 compressed; LoadCatalog detects either.
package itemserial
