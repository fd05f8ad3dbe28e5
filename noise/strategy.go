package noise

import (
	"fmt"
	"math/rand"
)

// Strategy decides which bits of a frame a noisy link flips.
type Strategy interface {
	Name() string
	// Corrupt flips bits among the first width bits of frame in place and
	// returns the flipped bit positions.
	Corrupt(frame []byte, width int, rng *rand.Rand) []int
}

const (
	StrategyNone   = "none"
	StrategySingle = "single"
	StrategyDouble = "double"
	StrategyBER    = "ber"
)

// New returns the named strategy. rate is the per-frame probability for
// single and double, and the per-bit probability for ber.
func New(name string, rate float64) (Strategy, error) {
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("noise rate %.3f outside [0,1]", rate)
	}
	switch name {
	case StrategyNone, "":
		return None{}, nil
	case StrategySingle:
		return NewSingle(rate), nil
	case StrategyDouble:
		return NewDouble(rate), nil
	case StrategyBER:
		return NewBER(rate), nil
	default:
		return nil, fmt.Errorf("unknown noise strategy %q", name)
	}
}

// None leaves frames untouched.
type None struct{}

func (None) Name() string {
	return StrategyNone
}

func (None) Corrupt([]byte, int, *rand.Rand) []int {
	return nil
}

// pickPosition draws a bit from [1, width). Position 0 carries the global
// parity of a Hamming word; a flip there alone is detected, not corrected.
func pickPosition(width int, rng *rand.Rand) int {
	return 1 + rng.Intn(width-1)
}

func flipAt(frame []byte, pos int) {
	frame[pos/8] ^= 1 << uint(pos%8)
}
