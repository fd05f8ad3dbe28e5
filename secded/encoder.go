package secded

import (
	"context"
	"fmt"
	"io"

	"github.com/harlequix/secded/internal/encoding"
	"github.com/harlequix/secded/internal/format"
	log "github.com/harlequix/secded/log"
	"github.com/harlequix/secded/protocol"
)

// EncodeStats describes a finished encode run.
type EncodeStats struct {
	Blocks  int
	Padding int
	Digest  string
}

// Encoder splits a stream into blocks and writes one Hamming frame per
// block, encoding blocks in parallel while keeping their order.
type Encoder struct {
	codecs    []*encoding.Codec
	verbosity encoding.Verbosity
	logger    *log.Logger
}

// NewEncoder prepares workers private copies of codec. Full step tracing
// forces a single worker so the trace reads in block order.
func NewEncoder(codec *encoding.Codec, workers int, verbosity encoding.Verbosity) *Encoder {
	logger := log.NewLogger("Encoder")
	if verbosity >= encoding.Steps {
		workers = 1
		if codec.Tracer() == nil {
			codec.SetTracer(log.StepTracer(logger))
		}
	}
	if workers < 1 {
		workers = 1
	}
	codecs := make([]*encoding.Codec, workers)
	for i := range codecs {
		codecs[i] = codec.Clone()
	}
	return &Encoder{
		codecs:    codecs,
		verbosity: verbosity,
		logger:    logger,
	}
}

// FrameSize is the size of every frame the encoder emits.
func (e *Encoder) FrameSize() int {
	return e.codecs[0].FrameSize()
}

// Encode reads src to the end and writes the frames to sink.
func (e *Encoder) Encode(ctx context.Context, src io.Reader, sink protocol.FrameSink) (EncodeStats, error) {
	var stats EncodeStats
	blocks := format.NewBlockReader(src, e.codecs[0].BlockSize())
	digest := NewDigest()
	padding := 0

	next := func() ([]byte, error) {
		block, err := blocks.Next()
		if err != nil {
			return nil, err
		}
		padding = block.Padding
		digest.Write(block.Data)
		return block.Data, nil
	}
	work := func(worker, index int, in []byte) ([]byte, error) {
		frame, err := e.codecs[worker].Encode(in)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", index, err)
		}
		if e.verbosity >= encoding.Results {
			e.logger.WithField("block", index).WithField("data", fmt.Sprintf("%x", in)).WithField("frame", fmt.Sprintf("%x", frame)).Info("encoded")
		}
		return frame, nil
	}
	emit := func(index int, frame []byte) error {
		stats.Blocks++
		return sink.WriteFrame(frame)
	}

	if err := dispatch(ctx, len(e.codecs), next, work, emit); err != nil {
		return stats, err
	}
	stats.Padding = padding
	stats.Digest = digest.Sum()
	e.logger.WithField("blocks", stats.Blocks).WithField("padding", stats.Padding).WithField("sha3", stats.Digest).Debug("encode finished")
	return stats, nil
}
