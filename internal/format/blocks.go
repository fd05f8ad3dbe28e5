package format

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Block is one fixed size chunk of the input stream.
type Block struct {
	Index   int
	Data    []byte
	Padding int
}

// Len returns the block size in bytes, padding included.
func (b *Block) Len() int {
	return len(b.Data)
}

// Payload returns the bytes that came from the stream, without padding.
func (b *Block) Payload() []byte {
	return b.Data[:len(b.Data)-b.Padding]
}

// String renders the block bits most significant first, byte by byte.
func (b *Block) String() string {
	var sb strings.Builder
	for i, v := range b.Data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.8b", v)
	}
	return sb.String()
}

// BlockReader splits a stream into blocks of a fixed size. The final short
// block, if any, is zero padded to the full size.
type BlockReader struct {
	r     io.Reader
	size  int
	index int
	done  bool
}

func NewBlockReader(r io.Reader, size int) *BlockReader {
	return &BlockReader{
		r:    r,
		size: size,
	}
}

// Next returns the next block or io.EOF once the stream is exhausted.
func (br *BlockReader) Next() (*Block, error) {
	if br.done {
		return nil, io.EOF
	}
	buf := make([]byte, br.size)
	n, err := io.ReadFull(br.r, buf)
	switch {
	case errors.Is(err, io.EOF):
		br.done = true
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		br.done = true
	case err != nil:
		return nil, err
	}
	block := &Block{
		Index:   br.index,
		Data:    buf,
		Padding: br.size - n,
	}
	br.index++
	return block, nil
}

// Count returns how many blocks have been produced so far.
func (br *BlockReader) Count() int {
	return br.index
}
