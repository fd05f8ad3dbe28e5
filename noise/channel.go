package noise

import (
	"math/rand"
	"sync"
	"time"

	log "github.com/harlequix/secded/log"
	"github.com/harlequix/secded/protocol"
)

// Config selects and seeds the noise injected by a Channel. A zero Seed
// picks one from the clock.
type Config struct {
	NoiseStrategy string
	NoiseRate     float64
	NoiseSeed     int64
}

// Stats counts what a Channel did to the frames passing through it.
type Stats struct {
	Frames    int
	Corrupted int
	Flips     int
}

// Channel is a FrameSink that corrupts frames before handing them on.
type Channel struct {
	sink     protocol.FrameSink
	width    int
	strategy Strategy
	rng      *rand.Rand
	logger   *log.Logger

	mu    sync.Mutex
	stats Stats
}

// NewChannel wraps sink. Only the first width bits of each frame, the
// meaningful part of a Hamming word, are ever flipped.
func NewChannel(sink protocol.FrameSink, width int, cfg Config) (*Channel, error) {
	strategy, err := New(cfg.NoiseStrategy, cfg.NoiseRate)
	if err != nil {
		return nil, err
	}
	seed := cfg.NoiseSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := log.NewLogger("Noise")
	logger.WithField("strategy", strategy.Name()).WithField("rate", cfg.NoiseRate).WithField("seed", seed).Debug("noisy channel ready")
	return &Channel{
		sink:     sink,
		width:    width,
		strategy: strategy,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger,
	}, nil
}

// WriteFrame corrupts a copy of frame and forwards it.
func (c *Channel) WriteFrame(frame []byte) error {
	noisy := append([]byte(nil), frame...)

	c.mu.Lock()
	flipped := c.strategy.Corrupt(noisy, c.width, c.rng)
	c.stats.Frames++
	if len(flipped) > 0 {
		c.stats.Corrupted++
		c.stats.Flips += len(flipped)
	}
	index := c.stats.Frames - 1
	c.mu.Unlock()

	if len(flipped) > 0 {
		c.logger.WithField("frame", index).WithField("bits", flipped).Info("sending frame with noise")
	}
	return c.sink.WriteFrame(noisy)
}

// Stats returns a snapshot of the counters.
func (c *Channel) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
