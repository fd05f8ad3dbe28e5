package noise

import "math/rand"

// Single flips one random bit of a frame with probability Rate, never the
// global parity bit, so every corrupted frame stays correctable.
type Single struct {
	Rate float64
}

func NewSingle(rate float64) *Single {
	return &Single{Rate: rate}
}

func (s *Single) Name() string {
	return StrategySingle
}

func (s *Single) Corrupt(frame []byte, width int, rng *rand.Rand) []int {
	if width < 2 || rng.Float64() >= s.Rate {
		return nil
	}
	pos := pickPosition(width, rng)
	flipAt(frame, pos)
	return []int{pos}
}
