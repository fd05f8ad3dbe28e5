package secded

import (
	"context"
	"io"

	"github.com/harlequix/secded/internal/decoding"
	"github.com/harlequix/secded/internal/encoding"
	"github.com/harlequix/secded/protocol"
)

// DecodeReport describes a finished decode run.
type DecodeReport struct {
	decoding.Stats
	Digest string
}

// Decoder turns a frame stream back into data, decoding frames in
// parallel while keeping their order.
type Decoder struct {
	workers []*decoding.Decoder
	main    *decoding.Decoder
}

// NewDecoder prepares workers decoders sharing statistics. Full step
// tracing forces a single worker.
func NewDecoder(codec *encoding.Codec, workers int, opts decoding.Options) *Decoder {
	main := decoding.NewDecoder(codec, opts)
	if opts.Verbosity >= encoding.Steps || workers < 1 {
		workers = 1
	}
	forks := make([]*decoding.Decoder, workers)
	for i := range forks {
		forks[i] = main.Fork()
	}
	return &Decoder{
		workers: forks,
		main:    main,
	}
}

// FrameSize is the size of the frames the decoder reads.
func (d *Decoder) FrameSize() int {
	return d.main.FrameSize()
}

// Decode reads frames from src until it ends and writes the recovered
// blocks to dst. The report is filled in even when decoding stops early.
func (d *Decoder) Decode(ctx context.Context, src protocol.FrameSource, dst io.Writer) (DecodeReport, error) {
	digest := NewDigest()
	work := func(worker, index int, frame []byte) ([]byte, error) {
		res, err := d.workers[worker].DecodeFrame(index, frame)
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	}
	emit := func(index int, data []byte) error {
		digest.Write(data)
		_, err := dst.Write(data)
		return err
	}

	err := dispatch(ctx, len(d.workers), src.Next, work, emit)
	return DecodeReport{
		Stats:  d.main.Stats(),
		Digest: digest.Sum(),
	}, err
}
