package itemserial

import (
	"bytes"
	"errors"
	"testing"
)

func TestSerial_EndToEnd(t *testing.T) {
	catalog := testCatalog(t)
	raw := Seal(pistolBody(), 0)

	s, err := Decode(raw, catalog)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if s.State() != StateUnparsed {
		t.Fatalf("State() = %v, want unparsed", s.State())
	}

	state, err := s.Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if state != StateParsed {
		t.Fatalf("Parse() state = %v, want parsed", state)
	}

	h, ok := s.Header()
	if !ok {
		t.Fatal("Header() not available after Parse")
	}
	if h.Version != 0 {
		t.Errorf("Version = %d, want 0", h.Version)
	}
	if h.Balance.Name != "pistol_balance" || h.Balance.Index != 5 || h.Balance.Bits != 8 {
		t.Errorf("Balance = %+v", h.Balance)
	}
	if h.InventoryData.Index != 0 || h.InventoryData.Name != UnknownPart || h.InventoryData.Bits != 6 {
		t.Errorf("InventoryData = %+v", h.InventoryData)
	}
	if h.Manufacturer.Index != 0 || h.Manufacturer.Bits != 4 {
		t.Errorf("Manufacturer = %+v", h.Manufacturer)
	}
	if h.Level != 30 {
		t.Errorf("Level = %d, want 30", h.Level)
	}

	if err := s.SetLevel(50); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}
	if s.State() != StateUnparsed {
		t.Errorf("State() after SetLevel = %v, want unparsed", s.State())
	}
	if _, ok := s.Header(); ok {
		t.Error("Header() should not be available after SetLevel")
	}

	again, err := Decode(s.Bytes(), catalog)
	if err != nil {
		t.Fatalf("Decode(re-encoded) error: %v", err)
	}
	if _, err := again.Parse(); err != nil {
		t.Fatalf("Parse(re-encoded) error: %v", err)
	}
	h2, _ := again.Header()
	if h2.Level != 50 {
		t.Errorf("Level = %d, want 50", h2.Level)
	}
	h2.Level = h.Level
	if h2 != h {
		t.Errorf("re-encoded header = %+v, want %+v with level 50", h2, h)
	}
}

func TestSerial_ReparseAfterSetLevel(t *testing.T) {
	s, err := Decode(Seal(pistolBody(), 0), testCatalog(t))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if _, err := s.Parse(); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := s.SetLevel(72); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}

	if _, err := s.Level(); !errors.Is(err, ErrNotParsed) {
		t.Errorf("Level() before reparse error = %v, want ErrNotParsed", err)
	}
	if _, err := s.Parse(); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if lvl, err := s.Level(); err != nil || lvl != 72 {
		t.Errorf("Level() = %d, %v; want 72", lvl, err)
	}
}

func TestSerial_SetLevelIdempotent(t *testing.T) {
	raw := Seal(pistolBody(), 0)

	s, err := Decode(raw, testCatalog(t))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if _, err := s.Parse(); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	lvl, _ := s.Level()
	if err := s.SetLevel(lvl); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}

	if got := s.Bytes(); !bytes.Equal(got, raw) {
		t.Errorf("Bytes() = %x, want %x", got, raw)
	}
}

func TestSerial_SeedHandling(t *testing.T) {
	const seed int32 = -0x1234567
	raw := Seal(pistolBody(), seed)

	s, err := Decode(raw, testCatalog(t))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if s.Seed() != seed || s.OriginalSeed() != seed {
		t.Errorf("Seed() = %d, OriginalSeed() = %d, want %d", s.Seed(), s.OriginalSeed(), seed)
	}
	if !bytes.Equal(s.Bytes(), raw) {
		t.Error("unmodified Bytes() should return the original serial")
	}

	if _, err := s.Parse(); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := s.SetLevel(31); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}
	if s.Seed() != 0 || s.OriginalSeed() != seed {
		t.Errorf("after SetLevel Seed() = %d, OriginalSeed() = %d", s.Seed(), s.OriginalSeed())
	}

	out := s.Bytes()
	if env, _, err := Open(out); err != nil || env.Seed != 0 {
		t.Errorf("re-encoded envelope = %+v, %v; want seed 0", env, err)
	}

	resealed := s.Seal(s.OriginalSeed())
	env, body, err := Open(resealed)
	if err != nil || env.Seed != seed {
		t.Fatalf("Seal(original) envelope = %+v, %v", env, err)
	}
	if !bytes.Equal(body, s.Plaintext()) {
		t.Error("Seal(original) body differs from plaintext")
	}
}

func TestSerial_Unsupported(t *testing.T) {
	catalog := testCatalog(t)
	body := buildBody(bodyField{128, 8}, bodyField{3, 7}, bodyField{0xFFFF, 16})
	raw := Seal(body, 99)

	s, err := Decode(raw, catalog)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	state, err := s.Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if state != StateUnsupported {
		t.Fatalf("Parse() state = %v, want unsupported", state)
	}
	if v, err := s.Version(); err != nil || v != 3 {
		t.Errorf("Version() = %d, %v; want 3", v, err)
	}
	if _, ok := s.Header(); ok {
		t.Error("Header() should not be available for unsupported serials")
	}
	if err := s.SetLevel(10); !errors.Is(err, ErrNotParsed) {
		t.Errorf("SetLevel() error = %v, want ErrNotParsed", err)
	}
	if !bytes.Equal(s.Bytes(), raw) {
		t.Error("unsupported serial should be carried byte-for-byte")
	}

	// Parse is a no-op once terminal.
	if state, err := s.Parse(); state != StateUnsupported || err != nil {
		t.Errorf("second Parse() = %v, %v", state, err)
	}
}

func TestSerial_VersionSelectsWidths(t *testing.T) {
	body := buildBody(
		bodyField{128, 8},
		bodyField{2, 7},
		bodyField{257, 9},
		bodyField{1, 6},
		bodyField{2, 5},
		bodyField{80, 7},
	)

	s, err := Decode(Seal(body, 5), testCatalog(t))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if _, err := s.Parse(); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	h, _ := s.Header()
	if h.Balance.Bits != 9 || h.Balance.Index != 257 || h.Balance.Name != UnknownPart {
		t.Errorf("Balance = %+v", h.Balance)
	}
	if h.Manufacturer.Bits != 5 || h.Manufacturer.Name != "/Game/Gear/Manufacturers/_Design/Maliwan.Maliwan" {
		t.Errorf("Manufacturer = %+v", h.Manufacturer)
	}
	if h.Manufacturer.Short() != "Maliwan" {
		t.Errorf("Manufacturer.Short() = %q", h.Manufacturer.Short())
	}
	if h.Level != 80 {
		t.Errorf("Level = %d, want 80", h.Level)
	}
}

func TestSerial_ParseFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  []byte
		field string
		trunc bool
	}{
		{"empty body", nil, "sentinel", true},
		{"bad sentinel", buildBody(bodyField{127, 8}, bodyField{0, 7}), "sentinel", false},
		{"no version", []byte{0x80}, "version", true},
		{"short balance", buildBody(bodyField{128, 8}, bodyField{0, 7}, bodyField{1, 1}), string(CategoryBalance), true},
		{"short inventory", buildBody(bodyField{128, 8}, bodyField{0, 7}, bodyField{5, 8}), string(CategoryInventoryData), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSerial(tt.body, 0, testCatalog(t))

			state, err := s.Parse()
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("Parse() error = %v, want ErrFormat", err)
			}
			if state != StateUnparsed {
				t.Errorf("state after failure = %v, want unparsed", state)
			}
			if errors.Is(err, ErrTruncated) != tt.trunc {
				t.Errorf("errors.Is(err, ErrTruncated) = %v, want %v", !tt.trunc, tt.trunc)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("FormatError field = %+v, want %q", fe, tt.field)
			}
		})
	}
}

func TestSerial_SetLevelRange(t *testing.T) {
	s := NewSerial(pistolBody(), 0, testCatalog(t))
	if err := s.SetLevel(5); !errors.Is(err, ErrNotParsed) {
		t.Errorf("SetLevel() on unparsed error = %v, want ErrNotParsed", err)
	}
	if _, err := s.Parse(); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	for _, lvl := range []int{-1, MaxLevel + 1, 1000} {
		if err := s.SetLevel(lvl); !errors.Is(err, ErrLevelRange) {
			t.Errorf("SetLevel(%d) error = %v, want ErrLevelRange", lvl, err)
		}
	}
	if s.State() != StateParsed {
		t.Errorf("failed SetLevel changed state to %v", s.State())
	}
	if err := s.SetLevel(MaxLevel); err != nil {
		t.Errorf("SetLevel(MaxLevel) error: %v", err)
	}
}

func TestSerial_TailCarried(t *testing.T) {
	body := buildBody(
		bodyField{128, 8},
		bodyField{0, 7},
		bodyField{1, 8},
		bodyField{1, 6},
		bodyField{1, 4},
		bodyField{12, 7},
		bodyField{0xDEADBEEF, 32},
		bodyField{0x5, 3},
	)

	s := NewSerial(body, 0, testCatalog(t))
	if _, err := s.Parse(); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if err := s.SetLevel(13); err != nil {
		t.Fatalf("SetLevel() error: %v", err)
	}

	bits := NewBitBuffer(s.Plaintext())
	for _, w := range []int{8, 7, 8, 6, 4, 7} {
		if _, err := bits.Eat(w); err != nil {
			t.Fatalf("Eat(%d) error: %v", w, err)
		}
	}
	if v, _ := bits.Eat(32); v != 0xDEADBEEF {
		t.Errorf("tail word = %#x, want 0xdeadbeef", v)
	}
	if v, _ := bits.Eat(3); v != 0x5 {
		t.Errorf("tail bits = %#x, want 0x5", v)
	}
}

func TestSerial_IndependentOfPlaintextInput(t *testing.T) {
	body := pistolBody()
	s := NewSerial(body, 0, testCatalog(t))
	body[0] = 0

	if _, err := s.Parse(); err != nil {
		t.Errorf("Parse() error after caller mutated input: %v", err)
	}
}

func TestDecodeText(t *testing.T) {
	catalog := testCatalog(t)
	raw := Seal(pistolBody(), 1234)

	s, err := DecodeText(EncodeText(raw), catalog)
	if err != nil {
		t.Fatalf("DecodeText() error: %v", err)
	}
	if s.Text() != EncodeText(raw) {
		t.Errorf("Text() = %q", s.Text())
	}

	if _, err := DecodeText("nope", catalog); !errors.Is(err, ErrInvalidText) {
		t.Errorf("DecodeText(nope) error = %v, want ErrInvalidText", err)
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateUnparsed:    "unparsed",
		StateParsed:      "parsed",
		StateUnsupported: "unsupported",
		State(9):         "state(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestPart_Short(t *testing.T) {
	tests := map[string]string{
		"/Game/Gear/A.Balance_A": "Balance_A",
		"pistol_balance":         "pistol_balance",
		"":                       "",
	}
	for name, want := range tests {
		if got := (Part{Name: name}).Short(); got != want {
			t.Errorf("Short(%q) = %q, want %q", name, got, want)
		}
	}
}
