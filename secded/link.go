package secded

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/harlequix/secded/backends"
	"github.com/harlequix/secded/internal/encoding"
	log "github.com/harlequix/secded/log"
	"github.com/harlequix/secded/noise"
	"github.com/harlequix/secded/protocol"
)

var linkLogger *log.Logger

func init() {
	linkLogger = log.NewLogger("Link")
}

// SendReport describes a finished send.
type SendReport struct {
	Session string
	EncodeStats
	Noise noise.Stats
}

// ReceiveReport describes a finished receive.
type ReceiveReport struct {
	Session string
	DecodeReport
	Frames int
}

// Send encodes src, passes every frame through the configured noise and
// writes it to addr, followed by the end of stream sentinel.
func Send(ctx context.Context, backend backends.Backend, addr string, src io.Reader, config Config) (SendReport, error) {
	report := SendReport{Session: uuid.New().String()}
	logger := linkLogger.With("session", report.Session)

	codec, err := encoding.NewCodec(config.BlockSize)
	if err != nil {
		return report, err
	}
	encoder := NewEncoder(codec, config.Workers, config.Level())

	conn, err := backend.Dial(ctx, addr)
	if err != nil {
		return report, fmt.Errorf("dialing %s: %w", addr, err)
	}
	logger.WithField("addr", addr).WithField("layout", codec.Layout().String()).Info("sending")

	writer := protocol.NewFrameWriter(conn, encoder.FrameSize())
	channel, err := noise.NewChannel(writer, codec.Layout().TotalBits, config.NoiseConfig())
	if err != nil {
		conn.Close()
		return report, err
	}
	stats, err := encoder.Encode(ctx, src, channel)
	report.EncodeStats = stats
	report.Noise = channel.Stats()
	if err != nil {
		conn.Close()
		return report, err
	}
	if err := writer.Done(); err != nil {
		conn.Close()
		return report, err
	}
	if err := conn.Close(); err != nil {
		return report, err
	}
	logger.WithField("frames", writer.Frames()).WithField("corrupted", report.Noise.Corrupted).WithField("sha3", report.Digest).Info("sent")
	return report, nil
}

// Receive accepts one stream from listener and writes the decoded data to
// dst. The stream ends at the sentinel or when the sender goes away.
func Receive(ctx context.Context, listener backends.Listener, dst io.Writer, config Config) (ReceiveReport, error) {
	report := ReceiveReport{Session: uuid.New().String()}
	logger := linkLogger.With("session", report.Session)

	codec, err := encoding.NewCodec(config.BlockSize)
	if err != nil {
		return report, err
	}
	decoder := NewDecoder(codec, config.Workers, config.DecodingOptions())

	conn, err := listener.Accept(ctx)
	if err != nil {
		return report, err
	}
	defer conn.Close()
	logger.WithField("addr", listener.Addr().String()).Info("receiving")

	reader := protocol.NewFrameReader(conn, decoder.FrameSize())
	report.DecodeReport, err = decoder.Decode(ctx, reader, dst)
	report.Frames = reader.Frames()
	if err != nil {
		return report, err
	}
	logger.WithField("frames", report.Frames).WithField("stats", report.Stats.String()).WithField("sha3", report.Digest).Info("received")
	return report, nil
}
