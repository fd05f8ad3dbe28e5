package noise

import "math/rand"

// BER flips every bit independently with probability Rate.
type BER struct {
	Rate float64
}

func NewBER(rate float64) *BER {
	return &BER{Rate: rate}
}

func (b *BER) Name() string {
	return StrategyBER
}

func (b *BER) Corrupt(frame []byte, width int, rng *rand.Rand) []int {
	var flipped []int
	for pos := 0; pos < width; pos++ {
		if rng.Float64() < b.Rate {
			flipAt(frame, pos)
			flipped = append(flipped, pos)
		}
	}
	return flipped
}
