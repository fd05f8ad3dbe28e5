package decoding

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/harlequix/secded/internal/encoding"
	log "github.com/harlequix/secded/log"
	"github.com/stretchr/testify/require"
)

func newDecoder(t *testing.T, opts Options) *Decoder {
	t.Helper()
	codec, err := encoding.NewCodec(1)
	require.NoError(t, err)
	return NewDecoder(codec, opts)
}

func TestDecoderCountsOutcomes(t *testing.T) {
	d := newDecoder(t, Options{})

	res, err := d.DecodeFrame(0, []byte{0x55, 0x0f})
	require.NoError(t, err)
	require.Equal(t, []byte("t"), res.Data)

	res, err = d.DecodeFrame(1, []byte{0x55, 0x07})
	require.NoError(t, err)
	require.Equal(t, encoding.SingleErrorCorrected, res.Status)

	res, err = d.DecodeFrame(2, []byte{0x45, 0x07})
	require.NoError(t, err)
	require.Equal(t, encoding.DoubleErrorDetected, res.Status)

	stats := d.Stats()
	require.Equal(t, Stats{Blocks: 3, Clean: 1, Corrected: 1, Double: 1}, stats)
	require.False(t, stats.Trusted())
}

func TestDecoderAbortOnDoubleError(t *testing.T) {
	d := newDecoder(t, Options{AbortOnDoubleError: true})

	res, err := d.DecodeFrame(4, []byte{0x45, 0x07})
	require.ErrorIs(t, err, ErrDoubleError)
	require.Equal(t, encoding.DoubleErrorDetected, res.Status)
}

func TestDecoderShortFrame(t *testing.T) {
	d := newDecoder(t, Options{})

	_, err := d.DecodeFrame(0, []byte{0x55})
	require.ErrorIs(t, err, encoding.ErrInvalidLength)
	require.Equal(t, 0, d.Stats().Blocks)
}

func TestDecoderForksShareStats(t *testing.T) {
	d := newDecoder(t, Options{})

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(f *Decoder) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if _, err := f.DecodeFrame(i, []byte{0x55, 0x0f}); err != nil {
					t.Error(err)
				}
			}
		}(d.Fork())
	}
	wg.Wait()

	require.Equal(t, 100, d.Stats().Blocks)
	require.Equal(t, 100, d.Stats().Clean)
}

func TestDecoderStepsAttachesTracer(t *testing.T) {
	codec, err := encoding.NewCodec(1)
	require.NoError(t, err)

	NewDecoder(codec, Options{Verbosity: encoding.Steps})
	require.NotNil(t, codec.Tracer())
}

func decodeLogged(t *testing.T, verbosity encoding.Verbosity) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetVerbosity(encoding.Steps)
	defer func() {
		log.SetVerbosity(encoding.Quiet)
		log.SetOutput(os.Stderr)
	}()

	d := newDecoder(t, Options{Verbosity: verbosity})
	for i, frame := range [][]byte{{0x55, 0x0f}, {0x55, 0x07}, {0x45, 0x07}} {
		_, err := d.DecodeFrame(i, frame)
		require.NoError(t, err)
	}
	return buf.String()
}

func TestDecoderReportsByVerbosity(t *testing.T) {
	require.Empty(t, decodeLogged(t, encoding.Quiet))

	out := decodeLogged(t, encoding.OnlyErrors)
	require.Contains(t, out, "double error detected")
	require.NotContains(t, out, "single error corrected")
	require.NotContains(t, out, "no errors detected")

	out = decodeLogged(t, encoding.Results)
	require.Contains(t, out, "no errors detected")
	require.Contains(t, out, "single error corrected")
	require.Contains(t, out, "double error detected")
}
