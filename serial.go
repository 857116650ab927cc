package itemserial

import (
	"fmt"
	"strings"
)

// Header field layout.
const (
	// headerSentinel opens every item body.
	headerSentinel = 128
	sentinelBits   = 8
	versionBits    = 7
	levelBits      = 7

	// MaxLevel is the largest level the level field can hold.
	MaxLevel = 1<<levelBits - 1
)

// State is the parse state of a Serial.
type State int

const (
	// StateUnparsed means only the plaintext body is known.
	StateUnparsed State = iota

	// StateParsed means the header fields have been extracted.
	StateParsed

	// StateUnsupported means the body uses a format version newer than
	// the catalog knows. Parsing stops there; the serial can still be
	// carried and re-emitted byte-for-byte.
	StateUnsupported
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnparsed:
		return "unparsed"
	case StateParsed:
		return "parsed"
	case StateUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Part is one catalog-driven header field.
type Part struct {
	Bits  int    // Field width used on the wire
	Index int    // 1-based catalog index, 0 when unset
	Name  string // Resolved name, UnknownPart when the index is not in the catalog
}

// Short returns the last dotted component of the part name.
func (p Part) Short() string {
	if i := strings.LastIndexByte(p.Name, '.'); i >= 0 {
		return p.Name[i+1:]
	}
	return p.Name
}

// Header holds the decoded header of a parsed serial.
type Header struct {
	Version       int
	Balance       Part
	InventoryData Part
	Manufacturer  Part
	Level         int
}

// parts returns pointers to the category fields in wire order.
func (h *Header) parts() [len(HeaderCategories)]*Part {
	return [...]*Part{&h.Balance, &h.InventoryData, &h.Manufacturer}
}

// Serial is one item serial. It owns its plaintext body; the Schema is
// borrowed and must outlive it.
//
// A Serial starts Unparsed. Parse moves it to Parsed or Unsupported.
// SetLevel rewrites the body from the parsed fields and returns it to
// Unparsed, so header values and body bytes never disagree.
//
// A Serial is not safe for concurrent use; distinct serials share nothing
// mutable and may be processed in parallel.
type Serial struct {
	schema Schema

	plaintext []byte
	raw       []byte // envelope bytes, nil once the body is rewritten
	seed      int32  // seed of raw
	origSeed  int32

	state   State
	version int // valid in Parsed and Unsupported
	header  Header
	tail    *BitBuffer
}

// Decode opens the envelope of raw and returns an Unparsed serial.
func Decode(raw []byte, schema Schema) (*Serial, error) {
	env, body, err := Open(raw)
	if err != nil {
		return nil, err
	}

	s := NewSerial(body, env.Seed, schema)
	s.raw = append([]byte(nil), raw...)
	return s, nil
}

// DecodeText unwraps BL3(<base64>) text and decodes it.
func DecodeText(text string, schema Schema) (*Serial, error) {
	raw, err := DecodeTextBytes(text)
	if err != nil {
		return nil, err
	}
	return Decode(raw, schema)
}

// NewSerial returns an Unparsed serial over an already verified plaintext
// body. seed records the obfuscation seed the body was stored with.
func NewSerial(plaintext []byte, seed int32, schema Schema) *Serial {
	return &Serial{
		schema:    schema,
		plaintext: append([]byte(nil), plaintext...),
		seed:      seed,
		origSeed:  seed,
	}
}

// State returns the current parse state.
func (s *Serial) State() State {
	return s.state
}

// Parse extracts the header fields from the plaintext body.
//
// A body whose format version exceeds the schema's MaxVersion moves the
// serial to StateUnsupported with a nil error. Structural problems return
// a *FormatError and leave the serial Unparsed. Parsing an already parsed
// or unsupported serial is a no-op.
func (s *Serial) Parse() (State, error) {
	if s.state != StateUnparsed {
		return s.state, nil
	}

	bits := NewBitBuffer(s.plaintext)

	sentinel, err := bits.Eat(sentinelBits)
	if err != nil {
		return s.state, newFormatError("sentinel", err)
	}
	if sentinel != headerSentinel {
		return s.state, newFormatError("sentinel", fmt.Errorf("got %d, want %d", sentinel, headerSentinel))
	}

	v, err := bits.Eat(versionBits)
	if err != nil {
		return s.state, newFormatError("version", err)
	}
	version := int(v)

	if version > s.schema.MaxVersion() {
		s.version = version
		s.state = StateUnsupported
		return s.state, nil
	}

	h := Header{Version: version}
	for i, part := range h.parts() {
		category := HeaderCategories[i]
		width, err := s.schema.BitWidth(category, version)
		if err != nil {
			return s.state, err
		}
		index, err := bits.Eat(width)
		if err != nil {
			return s.state, newFormatError(string(category), err)
		}
		*part = Part{
			Bits:  width,
			Index: int(index),
			Name:  s.schema.PartName(category, int(index)),
		}
	}

	level, err := bits.Eat(levelBits)
	if err != nil {
		return s.state, newFormatError("level", err)
	}
	h.Level = int(level)

	s.header = h
	s.version = version
	s.tail = bits
	s.state = StateParsed
	return s.state, nil
}

// Header returns the parsed header. ok is false unless the serial is in
// StateParsed.
func (s *Serial) Header() (h Header, ok bool) {
	if s.state != StateParsed {
		return Header{}, false
	}
	return s.header, true
}

// Version returns the format version. It is known in the Parsed and
// Unsupported states.
func (s *Serial) Version() (int, error) {
	if s.state == StateUnparsed {
		return 0, ErrNotParsed
	}
	return s.version, nil
}

// Level returns the item level.
func (s *Serial) Level() (int, error) {
	if s.state != StateParsed {
		return 0, ErrNotParsed
	}
	return s.header.Level, nil
}

// SetLevel rewrites the body with a new level. The recorded field widths
// and indices are written back as they were read; the schema is not
// consulted again, so a reloaded catalog cannot change the layout. The
// serial returns to StateUnparsed and will be emitted with seed 0.
func (s *Serial) SetLevel(level int) error {
	if s.state != StateParsed {
		return ErrNotParsed
	}
	if level < 0 || level > MaxLevel {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrLevelRange, level, MaxLevel)
	}

	h := s.header
	bits := NewBitBuffer(nil)
	bits.AppendValue(headerSentinel, sentinelBits)
	bits.AppendValue(uint64(h.Version), versionBits)
	for _, part := range h.parts() {
		bits.AppendValue(uint64(part.Index), part.Bits)
	}
	bits.AppendValue(uint64(level), levelBits)
	bits.AppendBuffer(s.tail)

	s.plaintext = bits.Bytes()
	s.raw = nil
	s.seed = 0
	s.header = Header{}
	s.tail = nil
	s.version = 0
	s.state = StateUnparsed
	return nil
}

// Plaintext returns a copy of the verified plaintext body.
func (s *Serial) Plaintext() []byte {
	return append([]byte(nil), s.plaintext...)
}

// Seed returns the seed Bytes will emit with: the stored seed while the
// serial is unmodified, 0 after SetLevel.
func (s *Serial) Seed() int32 {
	return s.seed
}

// OriginalSeed returns the seed the serial was decoded with.
func (s *Serial) OriginalSeed() int32 {
	return s.origSeed
}

// Bytes returns the full serial. An unmodified decoded serial returns its
// original bytes; otherwise the body is sealed with Seed.
func (s *Serial) Bytes() []byte {
	if s.raw != nil {
		return append([]byte(nil), s.raw...)
	}
	return Seal(s.plaintext, s.seed)
}

// Seal returns the serial sealed with an explicit seed, for example
// OriginalSeed to match stored bytes.
func (s *Serial) Seal(seed int32) []byte {
	return Seal(s.plaintext, seed)
}

// Text returns Bytes wrapped as BL3(<base64>).
func (s *Serial) Text() string {
	return EncodeText(s.Bytes())
}

// Fingerprint hashes the plaintext body. Two serials that differ only in
// obfuscation seed share a fingerprint.
func (s *Serial) Fingerprint(f Fingerprinter) string {
	return f.Fingerprint(s.plaintext)
}
