package itemserial

import "fmt"

// maxFieldBits is the widest field Eat can return in one call.
const maxFieldBits = 64

// BitBuffer is an ordered sequence of bits consumed from the front and
// grown at the back.
//
// The byte layout is little-endian: the first byte of the input holds the
// front eight bits, and within the buffer the front bit is the least
// significant bit of that byte. Eat removes bits from the front, so the
// first field written to a serial is the first field read from it.
// AppendValue and AppendBuffer add bits behind everything already present,
// which makes them the inverse of Eat when a buffer is rebuilt field by
// field.
//
// A BitBuffer is not safe for concurrent use.
type BitBuffer struct {
	// bits holds one bit per element, front first.
	bits []uint8
}

// NewBitBuffer returns a buffer holding exactly 8*len(data) bits.
func NewBitBuffer(data []byte) *BitBuffer {
	bits := make([]uint8, 0, len(data)*8)
	for _, b := range data {
		for i := 0; i < 8; i++ {
			bits = append(bits, (b>>i)&1)
		}
	}
	return &BitBuffer{bits: bits}
}

// Len returns the number of bits remaining.
func (b *BitBuffer) Len() int {
	return len(b.bits)
}

// Eat removes the front n bits and returns them as an unsigned integer.
// The first bit removed is the least significant bit of the result, which
// matches the little-endian layout of the buffer.
//
// Reading more bits than remain returns ErrTruncated and leaves the buffer
// untouched; a caller that sees it has declared a field wider than the data.
func (b *BitBuffer) Eat(n int) (uint64, error) {
	if n < 0 || n > maxFieldBits {
		return 0, fmt.Errorf("%w: field width %d out of range", ErrTruncated, n)
	}
	if n > len(b.bits) {
		return 0, fmt.Errorf("%w: need %d bits, %d remain", ErrTruncated, n, len(b.bits))
	}

	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(b.bits[i]) << i
	}
	b.bits = b.bits[n:]
	return v, nil
}

// AppendValue adds the low n bits of v to the buffer. Bits above n are
// ignored. A later Eat(n) positioned at these bits returns v masked to n
// bits.
func (b *BitBuffer) AppendValue(v uint64, n int) {
	for i := 0; i < n; i++ {
		if i >= maxFieldBits {
			b.bits = append(b.bits, 0)
			continue
		}
		b.bits = append(b.bits, uint8((v>>i)&1))
	}
}

// AppendBuffer adds every bit of other, in order, to the buffer. other is
// left unchanged.
func (b *BitBuffer) AppendBuffer(other *BitBuffer) {
	if other == nil {
		return
	}
	b.bits = append(b.bits, other.bits...)
}

// Clone returns an independent copy of the buffer.
func (b *BitBuffer) Clone() *BitBuffer {
	bits := make([]uint8, len(b.bits))
	copy(bits, b.bits)
	return &BitBuffer{bits: bits}
}

// Bytes pads the buffer with zero bits up to the next byte boundary and
// returns its contents using the same layout NewBitBuffer reads. The
// padding lands in the most significant bits of the last byte. The buffer
// itself is not modified.
func (b *BitBuffer) Bytes() []byte {
	out := make([]byte, (len(b.bits)+7)/8)
	for i, bit := range b.bits {
		out[i/8] |= bit << (i % 8)
	}
	return out
}
