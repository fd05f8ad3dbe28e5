package noise

import "math/rand"

// Double behaves like Single and then, with probability Second, flips a
// second distinct bit. Bit 0 is spared as in Single. Frames hit twice can
// only be detected, not repaired.
type Double struct {
	Rate   float64
	Second float64
}

func NewDouble(rate float64) *Double {
	return &Double{
		Rate:   rate,
		Second: 0.5,
	}
}

func (d *Double) Name() string {
	return StrategyDouble
}

func (d *Double) Corrupt(frame []byte, width int, rng *rand.Rand) []int {
	if width < 2 {
		return nil
	}
	var flipped []int
	if rng.Float64() < d.Rate {
		pos := pickPosition(width, rng)
		flipAt(frame, pos)
		flipped = append(flipped, pos)
	}
	if width > 2 && rng.Float64() < d.Second {
		pos := pickPosition(width, rng)
		for len(flipped) == 1 && pos == flipped[0] {
			pos = pickPosition(width, rng)
		}
		flipAt(frame, pos)
		flipped = append(flipped, pos)
	}
	return flipped
}
