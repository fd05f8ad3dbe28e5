package decoding

import (
	"errors"
	"fmt"
	"sync"

	"github.com/harlequix/secded/internal/encoding"
	log "github.com/harlequix/secded/log"
)

// ErrDoubleError is returned when AbortOnDoubleError is set and a frame
// could not be trusted.
var ErrDoubleError = errors.New("double error detected")

// Options controls how a Decoder reports and reacts to corrupted frames.
type Options struct {
	Verbosity          encoding.Verbosity
	AbortOnDoubleError bool
}

// Stats counts decoded frames by outcome.
type Stats struct {
	Blocks    int
	Clean     int
	Corrected int
	Double    int
}

// Trusted reports whether every block decoded to trustworthy data.
func (s Stats) Trusted() bool {
	return s.Double == 0
}

func (s Stats) String() string {
	return fmt.Sprintf("%d blocks, %d corrected, %d double errors", s.Blocks, s.Corrected, s.Double)
}

// Decoder decodes frames one at a time and keeps running statistics. The
// statistics are safe for concurrent use; the codec is not, so concurrent
// callers use Fork to get a Decoder with a private codec and shared stats.
type Decoder struct {
	codec *encoding.Codec
	opts  Options
	log   *log.Logger

	mu    *sync.Mutex
	stats *Stats
}

func NewDecoder(codec *encoding.Codec, opts Options) *Decoder {
	d := &Decoder{
		codec: codec,
		opts:  opts,
		log:   log.NewLogger("Decoder"),
		mu:    &sync.Mutex{},
		stats: &Stats{},
	}
	if opts.Verbosity >= encoding.Steps && codec.Tracer() == nil {
		codec.SetTracer(log.StepTracer(d.log))
	}
	return d
}

// Fork returns a decoder sharing statistics but owning a clone of the codec.
func (d *Decoder) Fork() *Decoder {
	return &Decoder{
		codec: d.codec.Clone(),
		opts:  d.opts,
		log:   d.log,
		mu:    d.mu,
		stats: d.stats,
	}
}

// FrameSize is the number of bytes DecodeFrame expects.
func (d *Decoder) FrameSize() int {
	return d.codec.FrameSize()
}

// DecodeFrame decodes the frame at position index of the stream.
func (d *Decoder) DecodeFrame(index int, frame []byte) (encoding.DecodeResult, error) {
	res, err := d.codec.Decode(frame)
	if err != nil {
		d.log.WithField("block", index).WithError(err).Error("cannot decode frame")
		return res, err
	}
	d.record(res.Status)
	if d.reports(res.Status) {
		d.report(index, frame, res)
	}
	if res.Status == encoding.DoubleErrorDetected && d.opts.AbortOnDoubleError {
		return res, fmt.Errorf("%w in block %d", ErrDoubleError, index)
	}
	return res, nil
}

// reports tells whether the verbosity asks for a record of this outcome:
// double errors from OnlyErrors up, every block from Results up.
func (d *Decoder) reports(status encoding.DecodeStatus) bool {
	if status == encoding.DoubleErrorDetected {
		return d.opts.Verbosity >= encoding.OnlyErrors
	}
	return d.opts.Verbosity >= encoding.Results
}

func (d *Decoder) report(index int, frame []byte, res encoding.DecodeResult) {
	entry := d.log.WithField("block", index).WithField("frame", fmt.Sprintf("%x", frame)).WithField("data", fmt.Sprintf("%x", res.Data))
	switch res.Status {
	case encoding.NoError:
		entry.Info("no errors detected")
	case encoding.SingleErrorCorrected:
		entry.WithField("bit", res.Syndrome).Info("single error corrected")
	case encoding.DoubleErrorDetected:
		entry.WithField("syndrome", res.Syndrome).Warn("double error detected, data is corrupted")
	}
}

func (d *Decoder) record(status encoding.DecodeStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.Blocks++
	switch status {
	case encoding.NoError:
		d.stats.Clean++
	case encoding.SingleErrorCorrected:
		d.stats.Corrected++
	case encoding.DoubleErrorDetected:
		d.stats.Double++
	}
}

// Stats returns a snapshot of the counters.
func (d *Decoder) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return *d.stats
}
