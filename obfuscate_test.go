package itemserial

import (
	"bytes"
	"math"
	"testing"
)

var testSeeds = []int32{
	1, 2, 31, 32, 33, -1, -2, -32, 0x12345678, -0x12345678,
	math.MaxInt32, math.MinInt32, 0x7FFFFFE0, 1 << 5,
}

func testPayloads() [][]byte {
	long := make([]byte, 97)
	for i := range long {
		long[i] = byte(i * 7)
	}
	return [][]byte{
		{0x42},
		{0x01, 0x02},
		[]byte("item serial payload"),
		long,
	}
}

func TestObfuscate_RoundTrip(t *testing.T) {
	for _, seed := range testSeeds {
		for _, data := range testPayloads() {
			enc := Obfuscate(data, seed)
			if got := Deobfuscate(enc, seed); !bytes.Equal(got, data) {
				t.Errorf("seed %d len %d: Deobfuscate(Obfuscate(b)) != b", seed, len(data))
			}

			dec := Deobfuscate(data, seed)
			if got := Obfuscate(dec, seed); !bytes.Equal(got, data) {
				t.Errorf("seed %d len %d: Obfuscate(Deobfuscate(b)) != b", seed, len(data))
			}
		}
	}
}

func TestObfuscate_ZeroSeedIdentity(t *testing.T) {
	for _, data := range testPayloads() {
		if got := Obfuscate(data, 0); !bytes.Equal(got, data) {
			t.Errorf("Obfuscate(b, 0) = %x, want %x", got, data)
		}
		if got := Deobfuscate(data, 0); !bytes.Equal(got, data) {
			t.Errorf("Deobfuscate(b, 0) = %x, want %x", got, data)
		}
	}
}

func TestObfuscate_ChangesData(t *testing.T) {
	data := []byte("item serial payload")
	if bytes.Equal(Obfuscate(data, 0x12345678), data) {
		t.Error("Obfuscate with a non-zero seed should change the data")
	}
}

func TestObfuscate_DoesNotModifyInput(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	orig := append([]byte(nil), data...)

	_ = Obfuscate(data, 77)
	_ = Deobfuscate(data, 77)

	if !bytes.Equal(data, orig) {
		t.Errorf("input modified: %x", data)
	}
}

func TestObfuscate_Empty(t *testing.T) {
	if got := Obfuscate(nil, 99); len(got) != 0 {
		t.Errorf("Obfuscate(nil) = %x", got)
	}
	if got := Deobfuscate([]byte{}, 99); len(got) != 0 {
		t.Errorf("Deobfuscate(empty) = %x", got)
	}
}

func TestXorKeystream_KnownValue(t *testing.T) {
	// seed 32: state starts at 1, first state is 0x10A860C1.
	data := []byte{0x00}
	xorKeystream(data, 32)
	if data[0] != 0xC1 {
		t.Errorf("first keystream byte = %#x, want 0xc1", data[0])
	}
}

func TestXorKeystream_NegativeSeedShift(t *testing.T) {
	// -32 >> 5 is -1, reinterpreted as 0xFFFFFFFF.
	state := uint64(0xFFFFFFFF)
	state = (state * keystreamMultiplier) % keystreamModulus

	data := []byte{0x00}
	xorKeystream(data, -32)
	if data[0] != byte(state) {
		t.Errorf("first keystream byte = %#x, want %#x", data[0], byte(state))
	}
}

func TestDeobfuscate_Rotation(t *testing.T) {
	// seed 64 has a zero low-5-bit rotation and keystream state 2;
	// seed 66 shares the keystream and rotates by 2.
	data := []byte{10, 20, 30, 40, 50}

	plain := Deobfuscate(data, 64)
	rotated := Deobfuscate(data, 66)

	want := append(append([]byte{}, plain[2:]...), plain[:2]...)
	if !bytes.Equal(rotated, want) {
		t.Errorf("Deobfuscate(seed 66) = %x, want %x", rotated, want)
	}
}

func TestRotationSteps(t *testing.T) {
	tests := []struct {
		seed int32
		n    int
		want int
	}{
		{0x1F, 100, 31},
		{0x1F, 10, 1},
		{0x20, 10, 0},
		{-1, 7, 31 % 7},
		{5, 1, 0},
	}

	for _, tt := range tests {
		if got := rotationSteps(tt.seed, tt.n); got != tt.want {
			t.Errorf("rotationSteps(%d, %d) = %d, want %d", tt.seed, tt.n, got, tt.want)
		}
	}
}
