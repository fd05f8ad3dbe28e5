package encoding

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitVectorZeroFilled(t *testing.T) {
	bv := NewBitVector(13, LSBFirst)

	require.Equal(t, 13, bv.Len())
	require.Equal(t, []byte{0, 0}, bv.Bytes())
	require.Equal(t, "0000000000000", bv.String())
}

func TestBitVectorFromBytesLittle(t *testing.T) {
	bv := BitVectorFromBytes([]byte{0x74}, LSBFirst)

	require.Equal(t, 8, bv.Len())
	require.Equal(t, []uint8{0, 0, 1, 0, 1, 1, 1, 0}, bv.Slice())
}

func TestBitVectorFromBytesBig(t *testing.T) {
	bv := BitVectorFromBytes([]byte{0x74}, MSBFirst)

	require.Equal(t, []uint8{0, 1, 1, 1, 0, 1, 0, 0}, bv.Slice())
	require.Equal(t, []byte{0x74}, bv.Bytes())
}

func TestBitVectorGetSetOutOfRange(t *testing.T) {
	bv := NewBitVector(4, LSBFirst)

	_, err := bv.Get(4)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = bv.Get(-1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.ErrorIs(t, bv.Set(9, 1), ErrIndexOutOfRange)
	require.ErrorIs(t, bv.Flip(4), ErrIndexOutOfRange)
	require.Panics(t, func() { bv.Bit(4) })
}

func TestBitVectorSetAndFlip(t *testing.T) {
	bv := NewBitVector(10, LSBFirst)

	require.NoError(t, bv.Set(9, 1))
	require.NoError(t, bv.Set(3, 7))
	b, err := bv.Get(3)
	require.NoError(t, err)
	require.Equal(t, uint8(1), b)

	require.NoError(t, bv.Flip(3))
	require.Equal(t, uint8(0), bv.Bit(3))
	require.Equal(t, []byte{0x00, 0x02}, bv.Bytes())
}

func TestBitVectorSelectWhere(t *testing.T) {
	bv := BitVectorFromBits(LSBFirst, 1, 0, 1, 1, 0, 0, 1)

	odd := bv.SelectWhere(func(p int) bool { return p%2 == 1 })
	require.Equal(t, []uint8{0, 1, 0}, odd.Slice())
	// source untouched
	require.Equal(t, "1011001", bv.String())

	picked := bv.Select([]int{6, 0, 2})
	require.Equal(t, []uint8{1, 1, 1}, picked.Slice())
}

func TestBitVectorPadTo(t *testing.T) {
	bv := BitVectorFromBits(LSBFirst, 1, 1, 1)

	require.NoError(t, bv.PadTo(3))
	require.Equal(t, 3, bv.Len())

	require.NoError(t, bv.PadTo(12))
	require.Equal(t, "111000000000", bv.String())
	require.Equal(t, []byte{0x07, 0x00}, bv.Bytes())

	require.ErrorIs(t, bv.PadTo(5), ErrInvalidLength)
}

func TestBitVectorTruncateClearsTail(t *testing.T) {
	bv := BitVectorFromBytes([]byte{0xff, 0xff}, LSBFirst)

	require.NoError(t, bv.Truncate(13))
	require.Equal(t, 13, bv.Len())
	require.Equal(t, []byte{0xff, 0x1f}, bv.Bytes())
	require.Equal(t, uint8(1), bv.Parity())

	require.ErrorIs(t, bv.Truncate(14), ErrInvalidLength)
}

func TestBitVectorXor(t *testing.T) {
	a := BitVectorFromBits(LSBFirst, 1, 0, 1, 0)
	b := BitVectorFromBits(LSBFirst, 1, 1, 0, 0)

	x, err := a.Xor(b)
	require.NoError(t, err)
	require.Equal(t, []uint8{0, 1, 1, 0}, x.Slice())

	_, err = a.Xor(NewBitVector(5, LSBFirst))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestBitVectorParity(t *testing.T) {
	assert.Equal(t, uint8(0), NewBitVector(9, LSBFirst).Parity())
	assert.Equal(t, uint8(1), BitVectorFromBits(LSBFirst, 1, 0, 0).Parity())
	assert.Equal(t, uint8(0), BitVectorFromBits(LSBFirst, 1, 0, 1).Parity())
	assert.Equal(t, uint8(1), BitVectorFromBytes([]byte{0x74, 0x01}, LSBFirst).Parity())
}

func TestBitVectorUint(t *testing.T) {
	require.Equal(t, uint64(11), BitVectorFromBits(LSBFirst, 1, 1, 0, 1).Uint())
	require.Equal(t, uint64(0), NewBitVector(7, LSBFirst).Uint())
}

func TestBitVectorBytesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, order := range []BitOrder{LSBFirst, MSBFirst} {
		for n := 0; n < 64; n++ {
			buf := make([]byte, n)
			rng.Read(buf)
			require.Equal(t, buf, BitVectorFromBytes(buf, order).Bytes(), "order %s len %d", order, n)
		}
	}
}

func TestBitVectorCloneIsIndependent(t *testing.T) {
	bv := BitVectorFromBits(LSBFirst, 1, 0, 1)
	cp := bv.Clone()

	cp.SetBit(1, 1)
	require.True(t, cp.Equal(BitVectorFromBits(LSBFirst, 1, 1, 1)))
	require.False(t, cp.Equal(bv))
}
