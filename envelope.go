package itemserial

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Envelope layout constants.
const (
	// FormatTag is the first byte of every serial.
	FormatTag byte = 3

	// envelopeHeaderLen covers the tag and the 4-byte seed.
	envelopeHeaderLen = 5

	// checksumLen is the size of the stored checksum.
	checksumLen = 2
)

// checksumPlaceholder stands in for the checksum while it is computed.
var checksumPlaceholder = [checksumLen]byte{0xFF, 0xFF}

// Envelope is the outer framing of one serial.
type Envelope struct {
	Tag      byte
	Seed     int32
	Checksum uint16
}

// Open validates the framing of raw, removes the obfuscation and checks the
// checksum. It returns the envelope fields and the plaintext body.
func Open(raw []byte) (Envelope, []byte, error) {
	if len(raw) < envelopeHeaderLen+checksumLen {
		return Envelope{}, nil, &FormatError{
			Err:   ErrTruncated,
			Field: "envelope",
			Cause: fmt.Errorf("need at least %d bytes, got %d", envelopeHeaderLen+checksumLen, len(raw)),
		}
	}
	if raw[0] != FormatTag {
		return Envelope{}, nil, newFormatError("tag", fmt.Errorf("got %d, want %d", raw[0], FormatTag))
	}

	env := Envelope{
		Tag:  raw[0],
		Seed: int32(binary.BigEndian.Uint32(raw[1:envelopeHeaderLen])),
	}

	decoded := Deobfuscate(raw[envelopeHeaderLen:], env.Seed)
	env.Checksum = binary.BigEndian.Uint16(decoded[:checksumLen])
	body := decoded[checksumLen:]

	computed := checksum(raw[:envelopeHeaderLen], body)
	if computed != env.Checksum {
		return Envelope{}, nil, &IntegrityError{Stored: env.Checksum, Computed: computed}
	}

	return env, body, nil
}

// Seal frames body as a complete serial obfuscated with seed.
func Seal(body []byte, seed int32) []byte {
	header := make([]byte, envelopeHeaderLen)
	header[0] = FormatTag
	binary.BigEndian.PutUint32(header[1:], uint32(seed))

	payload := make([]byte, checksumLen, checksumLen+len(body))
	binary.BigEndian.PutUint16(payload, checksum(header, body))
	payload = append(payload, body...)

	return append(header, Obfuscate(payload, seed)...)
}

// checksum computes the CRC-32 of header, the placeholder, and body,
// folded to 16 bits.
func checksum(header, body []byte) uint16 {
	h := crc32.NewIEEE()
	h.Write(header)
	h.Write(checksumPlaceholder[:])
	h.Write(body)
	crc := h.Sum32()
	return uint16((crc >> 16) ^ crc)
}
