package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Sentinel is sent after the last frame to mark the end of a transfer.
const Sentinel = "DONE"

var (
	// ErrFrameSize is returned when a frame of the wrong length is written.
	ErrFrameSize = errors.New("frame has wrong size")
	// ErrTruncatedFrame is returned when the stream ends inside a frame.
	ErrTruncatedFrame = errors.New("truncated frame")
)

// FrameWriter writes fixed size frames.
type FrameWriter struct {
	w      io.Writer
	size   int
	frames int
}

func NewFrameWriter(w io.Writer, size int) *FrameWriter {
	return &FrameWriter{w: w, size: size}
}

// WriteFrame writes one frame with a single Write call.
func (fw *FrameWriter) WriteFrame(frame []byte) error {
	if len(frame) != fw.size {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrFrameSize, fw.size, len(frame))
	}
	if _, err := fw.w.Write(frame); err != nil {
		return err
	}
	fw.frames++
	return nil
}

// Done writes the end of stream sentinel.
func (fw *FrameWriter) Done() error {
	_, err := io.WriteString(fw.w, Sentinel)
	return err
}

// Frames returns how many frames were written.
func (fw *FrameWriter) Frames() int {
	return fw.frames
}

// FrameReader reads fixed size frames until the end of the stream or the
// sentinel. The sentinel only counts when it sits on a frame boundary and
// is the last thing in the stream, so a frame that happens to start with
// "DONE" is still delivered.
type FrameReader struct {
	r      *bufio.Reader
	size   int
	frames int
}

func NewFrameReader(r io.Reader, size int) *FrameReader {
	bufSize := 4096
	if size+len(Sentinel)+1 > bufSize {
		bufSize = size + len(Sentinel) + 1
	}
	return &FrameReader{
		r:    bufio.NewReaderSize(r, bufSize),
		size: size,
	}
}

// Next returns the next frame, or io.EOF once the stream has ended.
func (fr *FrameReader) Next() ([]byte, error) {
	if fr.atSentinel() {
		return nil, io.EOF
	}
	frame := make([]byte, fr.size)
	n, err := io.ReadFull(fr.r, frame)
	switch {
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: %d of %d bytes", ErrTruncatedFrame, n, fr.size)
	case err != nil:
		return nil, err
	}
	fr.frames++
	return frame, nil
}

func (fr *FrameReader) atSentinel() bool {
	peek, err := fr.r.Peek(len(Sentinel) + 1)
	return len(peek) == len(Sentinel) && err != nil && bytes.Equal(peek, []byte(Sentinel))
}

// Frames returns how many frames were read.
func (fr *FrameReader) Frames() int {
	return fr.frames
}

// FrameSink consumes frames, e.g. a FrameWriter or a noisy channel in
// front of one.
type FrameSink interface {
	WriteFrame(frame []byte) error
}

// FrameSource produces frames until io.EOF.
type FrameSource interface {
	Next() ([]byte, error)
}
