package itemserial

// Keystream parameters for the serial obfuscation layer.
const (
	keystreamMultiplier = 0x10A860C1
	keystreamModulus    = 0xFFFFFFFB
	rotationMask        = 0x1F
	keystreamShift      = 5
)

// Deobfuscate reverses the keyed XOR and rotation applied to a serial body.
// A zero seed is the identity. The result is a new slice; data is not
// modified.
//
// The transform offers no confidentiality. It exists so that serials can
// be read and written byte-for-byte compatibly with stored items.
func Deobfuscate(data []byte, seed int32) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	if seed == 0 || len(out) == 0 {
		return out
	}

	xorKeystream(out, seed)
	return rotateLeft(out, rotationSteps(seed, len(out)))
}

// Obfuscate is the inverse of Deobfuscate.
func Obfuscate(data []byte, seed int32) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	if seed == 0 || len(out) == 0 {
		return out
	}

	out = rotateRight(out, rotationSteps(seed, len(out)))
	xorKeystream(out, seed)
	return out
}

// xorKeystream XORs data in place with the keystream derived from seed.
// The keystream depends only on byte position, so the pass is its own
// inverse.
func xorKeystream(data []byte, seed int32) {
	// Arithmetic shift on the signed seed, then reinterpret as uint32.
	state := uint64(uint32(seed >> keystreamShift))
	for i := range data {
		state = (state * keystreamMultiplier) % keystreamModulus
		data[i] ^= byte(state)
	}
}

func rotationSteps(seed int32, n int) int {
	return int(uint32(seed)&rotationMask) % n
}

// rotateLeft moves the first steps bytes to the end.
func rotateLeft(data []byte, steps int) []byte {
	if steps == 0 {
		return data
	}
	out := make([]byte, 0, len(data))
	out = append(out, data[steps:]...)
	return append(out, data[:steps]...)
}

// rotateRight moves the last steps bytes to the front.
func rotateRight(data []byte, steps int) []byte {
	if steps == 0 {
		return data
	}
	split := len(data) - steps
	out := make([]byte, 0, len(data))
	out = append(out, data[split:]...)
	return append(out, data[:split]...)
}
