package encoding

import (
	"fmt"
	"math/bits"
)

// Layout is the fixed bit arrangement of a Hamming word for one block size.
//
// Position 0 holds the global parity bit, every power of two holds a
// parity-group bit and all remaining positions carry data bits in
// ascending order. A Layout is immutable once built and may be shared.
type Layout struct {
	BlockSize   int
	DataBits    int
	ParityBits  int
	TotalBits   int
	OutputBytes int

	dataPositions   []int
	parityPositions []int
	groups          [][]int
}

// NewLayout derives the layout for blocks of blockSize bytes.
func NewLayout(blockSize int) (*Layout, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidBlockSize, blockSize)
	}
	l := &Layout{
		BlockSize: blockSize,
		DataBits:  blockSize * 8,
	}
	l.ParityBits = ParityBitsFor(l.DataBits)
	l.TotalBits = l.DataBits + l.ParityBits + 1
	l.OutputBytes = (l.TotalBits + 7) / 8

	l.dataPositions = make([]int, 0, l.DataBits)
	for p := 1; p < l.TotalBits; p++ {
		if !isPowerOfTwo(p) {
			l.dataPositions = append(l.dataPositions, p)
		}
	}

	l.parityPositions = make([]int, l.ParityBits)
	l.groups = make([][]int, l.ParityBits)
	for i := 0; i < l.ParityBits; i++ {
		l.parityPositions[i] = 1 << uint(i)
		for _, p := range l.dataPositions {
			if p&(1<<uint(i)) != 0 {
				l.groups[i] = append(l.groups[i], p)
			}
		}
	}
	return l, nil
}

// DataPositions lists the data-carrying positions in ascending order.
func (l *Layout) DataPositions() []int {
	return append([]int(nil), l.dataPositions...)
}

// ParityPositions lists the parity-group positions 1, 2, 4, ...
func (l *Layout) ParityPositions() []int {
	return append([]int(nil), l.parityPositions...)
}

// Group lists the data positions covered by parity bit 2^i.
func (l *Layout) Group(i int) []int {
	return append([]int(nil), l.groups[i]...)
}

// Role names what a position of the word carries.
func (l *Layout) Role(p int) string {
	switch {
	case p < 0 || p >= l.TotalBits:
		return "none"
	case p == 0:
		return "global"
	case isPowerOfTwo(p):
		return "parity"
	default:
		return "data"
	}
}

func (l *Layout) String() string {
	return fmt.Sprintf("block=%dB data=%d parity=%d total=%d out=%dB",
		l.BlockSize, l.DataBits, l.ParityBits, l.TotalBits, l.OutputBytes)
}

// ParityBitsFor returns the smallest k with 2^k >= dataBits+k+1.
func ParityBitsFor(dataBits int) int {
	k := 0
	for (1 << uint(k)) < dataBits+k+1 {
		k++
	}
	return k
}

// LegacyParityBits is floor(log2(dataBits))+1. It agrees with ParityBitsFor
// for 8, 16, 32 and 64 data bits but undercounts when dataBits+k+1 crosses
// a power of two, e.g. for 248 data bits.
func LegacyParityBits(dataBits int) int {
	if dataBits < 1 {
		return 0
	}
	return bits.Len(uint(dataBits))
}

func isPowerOfTwo(p int) bool {
	return p > 0 && p&(p-1) == 0
}
