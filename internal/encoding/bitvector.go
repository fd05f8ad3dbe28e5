package encoding

import (
	"fmt"
	"math/bits"
	"strings"
)

// BitOrder selects how bit indexes map onto the bits of a byte when a
// vector is read from or written to a byte buffer.
type BitOrder int

const (
	// LSBFirst maps bit i to bit i%8 of byte i/8 ("little" bit order).
	LSBFirst BitOrder = iota
	// MSBFirst maps bit i to bit 7-i%8 of byte i/8.
	MSBFirst
)

func (o BitOrder) String() string {
	switch o {
	case LSBFirst:
		return "little"
	case MSBFirst:
		return "big"
	default:
		return fmt.Sprintf("BitOrder(%d)", int(o))
	}
}

// BitVector is a fixed length sequence of bits.
//
// Bits are stored packed, eight per byte, using the vector's bit order, so
// that Bytes is a copy of the backing buffer. The length never changes
// except through PadTo and Truncate.
type BitVector struct {
	data  []byte
	n     int
	order BitOrder
}

// NewBitVector returns a zero filled vector of n bits.
func NewBitVector(n int, order BitOrder) *BitVector {
	if n < 0 {
		n = 0
	}
	return &BitVector{
		data:  make([]byte, (n+7)/8),
		n:     n,
		order: order,
	}
}

// BitVectorFromBytes returns a vector of len(buf)*8 bits read from buf.
// The buffer is copied.
func BitVectorFromBytes(buf []byte, order BitOrder) *BitVector {
	data := make([]byte, len(buf))
	copy(data, buf)
	return &BitVector{
		data:  data,
		n:     len(buf) * 8,
		order: order,
	}
}

// BitVectorFromBits builds a vector holding the given bits in order. Any
// non-zero value is a set bit.
func BitVectorFromBits(order BitOrder, values ...uint8) *BitVector {
	v := NewBitVector(len(values), order)
	for i, b := range values {
		v.SetBit(i, b)
	}
	return v
}

// Len returns the number of bits in the vector.
func (v *BitVector) Len() int {
	return v.n
}

// Order returns the bit order used for byte conversion.
func (v *BitVector) Order() BitOrder {
	return v.order
}

func (v *BitVector) locate(i int) (int, uint) {
	off := uint(i % 8)
	if v.order == MSBFirst {
		off = 7 - off
	}
	return i >> 3, off
}

func (v *BitVector) check(i int) error {
	if i < 0 || i >= v.n {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, v.n)
	}
	return nil
}

// Get returns bit i.
func (v *BitVector) Get(i int) (uint8, error) {
	if err := v.check(i); err != nil {
		return 0, err
	}
	idx, off := v.locate(i)
	return (v.data[idx] >> off) & 1, nil
}

// Set writes bit i. Any non-zero value sets the bit.
func (v *BitVector) Set(i int, value uint8) error {
	if err := v.check(i); err != nil {
		return err
	}
	idx, off := v.locate(i)
	if value != 0 {
		v.data[idx] |= 1 << off
	} else {
		v.data[idx] &^= 1 << off
	}
	return nil
}

// Bit is Get for indexes known to be valid. It panics otherwise.
func (v *BitVector) Bit(i int) uint8 {
	b, err := v.Get(i)
	if err != nil {
		panic(err)
	}
	return b
}

// SetBit is Set for indexes known to be valid. It panics otherwise.
func (v *BitVector) SetBit(i int, value uint8) {
	if err := v.Set(i, value); err != nil {
		panic(err)
	}
}

// Flip inverts bit i.
func (v *BitVector) Flip(i int) error {
	if err := v.check(i); err != nil {
		return err
	}
	idx, off := v.locate(i)
	v.data[idx] ^= 1 << off
	return nil
}

// Select returns a new vector holding the bits at the given positions, in
// the order the positions are listed.
func (v *BitVector) Select(positions []int) *BitVector {
	out := NewBitVector(len(positions), v.order)
	for j, p := range positions {
		out.SetBit(j, v.Bit(p))
	}
	return out
}

// SelectWhere returns a new vector holding, in ascending position order,
// the bits whose position satisfies pred.
func (v *BitVector) SelectWhere(pred func(position int) bool) *BitVector {
	positions := make([]int, 0, v.n)
	for i := 0; i < v.n; i++ {
		if pred(i) {
			positions = append(positions, i)
		}
	}
	return v.Select(positions)
}

// PadTo extends the vector with zero bits up to n bits.
func (v *BitVector) PadTo(n int) error {
	if n < v.n {
		return fmt.Errorf("%w: cannot pad %d bits to %d", ErrInvalidLength, v.n, n)
	}
	if need := (n + 7) / 8; need > len(v.data) {
		data := make([]byte, need)
		copy(data, v.data)
		v.data = data
	}
	v.n = n
	return nil
}

// Truncate drops every bit at or after position n.
func (v *BitVector) Truncate(n int) error {
	if n < 0 || n > v.n {
		return fmt.Errorf("%w: cannot truncate %d bits to %d", ErrInvalidLength, v.n, n)
	}
	for i := n; i < len(v.data)*8 && i < v.n; i++ {
		v.SetBit(i, 0)
	}
	v.data = v.data[:(n+7)/8]
	v.n = n
	return nil
}

// Xor returns the element-wise exclusive or of v and other.
func (v *BitVector) Xor(other *BitVector) (*BitVector, error) {
	if v.n != other.n {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, v.n, other.n)
	}
	out := NewBitVector(v.n, v.order)
	if v.order == other.order {
		for i := range out.data {
			out.data[i] = v.data[i] ^ other.data[i]
		}
		return out, nil
	}
	for i := 0; i < v.n; i++ {
		out.SetBit(i, v.Bit(i)^other.Bit(i))
	}
	return out, nil
}

// Parity returns 1 when an odd number of bits are set, 0 otherwise.
// Padding bits beyond Len are always zero so whole bytes can be counted.
func (v *BitVector) Parity() uint8 {
	count := 0
	for _, b := range v.data {
		count += bits.OnesCount8(b)
	}
	return uint8(count & 1)
}

// Bytes packs the vector into a new buffer of ceil(Len/8) bytes. The unused
// bits of a final partial byte are zero.
func (v *BitVector) Bytes() []byte {
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

// Uint interprets the vector as an unsigned little-endian integer: bit i
// contributes 2^i. Vectors longer than 64 bits must not have bits set past
// position 63.
func (v *BitVector) Uint() uint64 {
	var out uint64
	for i := 0; i < v.n && i < 64; i++ {
		out |= uint64(v.Bit(i)) << uint(i)
	}
	return out
}

// Clone returns an independent copy of v.
func (v *BitVector) Clone() *BitVector {
	return &BitVector{
		data:  v.Bytes(),
		n:     v.n,
		order: v.order,
	}
}

// Equal reports whether both vectors hold the same bits.
func (v *BitVector) Equal(other *BitVector) bool {
	if v.n != other.n {
		return false
	}
	for i := 0; i < v.n; i++ {
		if v.Bit(i) != other.Bit(i) {
			return false
		}
	}
	return true
}

// Slice lists the bits in position order, one value per element.
func (v *BitVector) Slice() []uint8 {
	out := make([]uint8, v.n)
	for i := range out {
		out[i] = v.Bit(i)
	}
	return out
}

// String renders the bits in position order, e.g. "1010".
func (v *BitVector) String() string {
	var sb strings.Builder
	sb.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if v.Bit(i) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
