package encoding

import "fmt"

// Codec encodes fixed size blocks into extended Hamming (SECDED) words and
// decodes them back, correcting one flipped bit and detecting two.
//
// Encode and Decode only read the codec's layout. The tracer is the one
// mutable piece of state: do not call SetTracer while other goroutines use
// the codec; give each worker its own Clone instead.
type Codec struct {
	layout *Layout
	tracer Tracer
}

// Option configures a Codec.
type Option func(*Codec)

// WithTracer attaches a trace sink that receives every algorithm step.
func WithTracer(t Tracer) Option {
	return func(c *Codec) {
		c.tracer = t
	}
}

// NewCodec builds a codec for blocks of blockSize bytes.
func NewCodec(blockSize int, opts ...Option) (*Codec, error) {
	layout, err := NewLayout(blockSize)
	if err != nil {
		return nil, err
	}
	c := &Codec{layout: layout}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Layout returns the codec's bit layout.
func (c *Codec) Layout() *Layout {
	return c.layout
}

// BlockSize is the number of bytes Encode accepts.
func (c *Codec) BlockSize() int {
	return c.layout.BlockSize
}

// FrameSize is the number of bytes Encode produces.
func (c *Codec) FrameSize() int {
	return c.layout.OutputBytes
}

// SetTracer replaces the trace sink; nil disables tracing.
func (c *Codec) SetTracer(t Tracer) {
	c.tracer = t
}

// Tracer returns the current trace sink, possibly nil.
func (c *Codec) Tracer() Tracer {
	return c.tracer
}

// Clone returns a codec sharing the layout with its own tracer setting.
func (c *Codec) Clone() *Codec {
	return &Codec{layout: c.layout, tracer: c.tracer}
}

func (c *Codec) emit(op, stage string, in, out interface{}) {
	c.tracer.Emit(Step{Op: op, Stage: stage, Input: in, Output: out})
}

// Encode turns exactly BlockSize bytes into a FrameSize byte Hamming word.
func (c *Codec) Encode(input []byte) ([]byte, error) {
	if len(input) != c.layout.BlockSize {
		return nil, fmt.Errorf("%w: encode wants %d bytes, got %d",
			ErrInvalidLength, c.layout.BlockSize, len(input))
	}
	data := BitVectorFromBytes(input, LSBFirst)
	if err := data.PadTo(c.layout.DataBits); err != nil {
		return nil, err
	}
	return c.encodeBits(data, c.tracer != nil).Bytes(), nil
}

func (c *Codec) encodeBits(data *BitVector, trace bool) *BitVector {
	l := c.layout
	word := NewBitVector(l.TotalBits, LSBFirst)
	for j, p := range l.dataPositions {
		word.SetBit(p, data.Bit(j))
	}
	if trace {
		c.emit("encode", "copy-data", data.Clone(), word.Clone())
	}

	for i, group := range l.groups {
		covered := word.Select(group)
		word.SetBit(l.parityPositions[i], covered.Parity())
		if trace {
			c.emit("encode", fmt.Sprintf("parity-C%d", l.parityPositions[i]), covered, covered.Parity())
		}
	}

	word.SetBit(0, word.Parity())
	if trace {
		c.emit("encode", "global-parity", nil, word.Clone())
	}
	return word
}

// Decode checks and repairs a Hamming word. Input must hold at least
// FrameSize bytes; extra trailing bytes are ignored. Bit errors never make
// Decode fail, they are reported through the result's Status.
func (c *Codec) Decode(input []byte) (DecodeResult, error) {
	l := c.layout
	if len(input) < l.OutputBytes {
		return DecodeResult{}, fmt.Errorf("%w: decode wants at least %d bytes, got %d",
			ErrInvalidLength, l.OutputBytes, len(input))
	}
	trace := c.tracer != nil

	received := BitVectorFromBytes(input[:l.OutputBytes], LSBFirst)
	if err := received.Truncate(l.TotalBits); err != nil {
		return DecodeResult{}, err
	}
	candidate := received.Select(l.dataPositions)
	reference := c.encodeBits(candidate, false)
	if trace {
		c.emit("decode", "received", nil, received.Clone())
		c.emit("decode", "data", received.Clone(), candidate.Clone())
		c.emit("decode", "reference", candidate.Clone(), reference.Clone())
	}

	syndromeBits, err := received.Select(l.parityPositions).Xor(reference.Select(l.parityPositions))
	if err != nil {
		return DecodeResult{}, err
	}
	syndrome := int(syndromeBits.Uint())
	// The reference word is a valid codeword and so always has even parity;
	// the mismatch is the overall parity of what was received.
	global := received.Parity() ^ reference.Parity()
	if trace {
		c.emit("decode", "syndrome", syndromeBits, syndrome)
		c.emit("decode", "global-parity", received.Parity(), global)
	}

	result := DecodeResult{Syndrome: syndrome}
	switch {
	case syndrome == 0 && global == 0:
		result.Status = NoError
		result.Data = candidate.Bytes()
	case syndrome != 0 && global == 1 && syndrome < l.TotalBits:
		result.Status = SingleErrorCorrected
		reference.SetBit(syndrome, reference.Bit(syndrome)^1)
		result.Data = reference.Select(l.dataPositions).Bytes()
		if trace {
			c.emit("decode", "correct", syndrome, reference.Clone())
		}
	default:
		// Two flips, a flipped global bit, or a syndrome naming a position
		// outside the word: detectable but not correctable.
		result.Status = DoubleErrorDetected
		result.Data = candidate.Bytes()
	}
	if trace {
		c.emit("decode", "status", syndrome, result.Status)
	}
	return result, nil
}
