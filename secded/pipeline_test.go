package secded

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/harlequix/secded/internal/decoding"
	"github.com/harlequix/secded/internal/encoding"
	"github.com/harlequix/secded/noise"
	"github.com/harlequix/secded/protocol"
	"github.com/stretchr/testify/require"
)

func encodeAll(t *testing.T, blockSize, workers int, payload []byte) ([]byte, EncodeStats) {
	t.Helper()
	codec, err := encoding.NewCodec(blockSize)
	require.NoError(t, err)
	enc := NewEncoder(codec, workers, encoding.Quiet)

	var out bytes.Buffer
	stats, err := enc.Encode(context.Background(), bytes.NewReader(payload), protocol.NewFrameWriter(&out, enc.FrameSize()))
	require.NoError(t, err)
	return out.Bytes(), stats
}

func decodeAll(t *testing.T, blockSize, workers int, frames []byte, opts decoding.Options) ([]byte, DecodeReport, error) {
	t.Helper()
	codec, err := encoding.NewCodec(blockSize)
	require.NoError(t, err)
	dec := NewDecoder(codec, workers, opts)

	var out bytes.Buffer
	report, err := dec.Decode(context.Background(), protocol.NewFrameReader(bytes.NewReader(frames), dec.FrameSize()), &out)
	return out.Bytes(), report, err
}

func TestPipelineRoundTrip(t *testing.T) {
	payload := make([]byte, 4096)
	rand.New(rand.NewSource(11)).Read(payload)

	for _, size := range []int{1, 3, 8} {
		frames, stats := encodeAll(t, size, 4, payload)
		codec, _ := encoding.NewCodec(size)
		require.Equal(t, stats.Blocks*codec.FrameSize(), len(frames))

		data, report, err := decodeAll(t, size, 4, frames, decoding.Options{})
		require.NoError(t, err)
		require.Equal(t, payload, data[:len(payload)])
		require.Len(t, data, len(payload)+stats.Padding)
		require.Equal(t, stats.Digest, report.Digest)
		require.Equal(t, stats.Blocks, report.Blocks)
		require.Equal(t, stats.Blocks, report.Clean)
	}
}

func TestPipelinePadsLastBlock(t *testing.T) {
	frames, stats := encodeAll(t, 4, 2, []byte("hello world"))
	require.Equal(t, 3, stats.Blocks)
	require.Equal(t, 1, stats.Padding)

	data, _, err := decodeAll(t, 4, 2, frames, decoding.Options{})
	require.NoError(t, err)
	require.Equal(t, []byte("hello world\x00"), data)
}

func TestPipelineCorrectsSingleNoise(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	codec, err := encoding.NewCodec(2)
	require.NoError(t, err)
	enc := NewEncoder(codec, 3, encoding.Quiet)

	var wire bytes.Buffer
	writer := protocol.NewFrameWriter(&wire, enc.FrameSize())
	channel, err := noise.NewChannel(writer, codec.Layout().TotalBits, noise.Config{
		NoiseStrategy: noise.StrategySingle,
		NoiseRate:     1,
		NoiseSeed:     5,
	})
	require.NoError(t, err)
	stats, err := enc.Encode(context.Background(), bytes.NewReader(payload), channel)
	require.NoError(t, err)
	require.Equal(t, stats.Blocks, channel.Stats().Corrupted)

	data, report, err := decodeAll(t, 2, 3, wire.Bytes(), decoding.Options{})
	require.NoError(t, err)
	require.Equal(t, payload, data[:len(payload)])
	require.Equal(t, stats.Blocks, report.Corrected)
	require.True(t, report.Trusted())
	require.Equal(t, stats.Digest, report.Digest)
}

func TestPipelineDoubleError(t *testing.T) {
	frames, _ := encodeAll(t, 1, 1, []byte("tttt"))
	// second frame: bits 4 and 11
	frames[2] ^= 1 << 4
	frames[3] ^= 1 << 3

	data, report, err := decodeAll(t, 1, 2, frames, decoding.Options{})
	require.NoError(t, err)
	require.Equal(t, []byte("t4tt"), data)
	require.Equal(t, 1, report.Double)
	require.False(t, report.Trusted())

	_, report, err = decodeAll(t, 1, 2, frames, decoding.Options{AbortOnDoubleError: true})
	require.ErrorIs(t, err, decoding.ErrDoubleError)
	require.Equal(t, 1, report.Double)
}

func TestPipelineStopsAtSentinel(t *testing.T) {
	var wire bytes.Buffer
	codec, err := encoding.NewCodec(1)
	require.NoError(t, err)
	enc := NewEncoder(codec, 2, encoding.Quiet)
	writer := protocol.NewFrameWriter(&wire, enc.FrameSize())
	_, err = enc.Encode(context.Background(), bytes.NewReader([]byte("ok")), writer)
	require.NoError(t, err)
	require.NoError(t, writer.Done())

	data, report, err := decodeAll(t, 1, 2, wire.Bytes(), decoding.Options{})
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), data)
	require.Equal(t, 2, report.Blocks)
}

func TestPipelineTruncatedFrame(t *testing.T) {
	frames, _ := encodeAll(t, 1, 1, []byte("ab"))

	_, _, err := decodeAll(t, 1, 1, frames[:3], decoding.Options{})
	require.ErrorIs(t, err, protocol.ErrTruncatedFrame)
}

func TestEncoderStepsUseOneWorker(t *testing.T) {
	codec, err := encoding.NewCodec(1)
	require.NoError(t, err)
	rec := &encoding.Recorder{}
	codec.SetTracer(rec)

	enc := NewEncoder(codec, 8, encoding.Steps)
	require.Len(t, enc.codecs, 1)

	var out bytes.Buffer
	_, err = enc.Encode(context.Background(), bytes.NewReader([]byte("t")), protocol.NewFrameWriter(&out, enc.FrameSize()))
	require.NoError(t, err)
	require.Equal(t, []byte{0x55, 0x0f}, out.Bytes())
	require.Equal(t, "global-parity", rec.Stages()[len(rec.Stages())-1])
}
