package format

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockReaderExactBlocks(t *testing.T) {
	br := NewBlockReader(bytes.NewReader([]byte("abcdef")), 3)

	b, err := br.Next()
	require.NoError(t, err)
	require.Equal(t, 0, b.Index)
	require.Equal(t, []byte("abc"), b.Data)
	require.Equal(t, 0, b.Padding)

	b, err = br.Next()
	require.NoError(t, err)
	require.Equal(t, 1, b.Index)
	require.Equal(t, []byte("def"), b.Data)

	_, err = br.Next()
	require.Equal(t, io.EOF, err)
	require.Equal(t, 2, br.Count())
}

func TestBlockReaderPadsLastBlock(t *testing.T) {
	br := NewBlockReader(bytes.NewReader([]byte("abcde")), 4)

	_, err := br.Next()
	require.NoError(t, err)
	b, err := br.Next()
	require.NoError(t, err)
	require.Equal(t, []byte{'e', 0, 0, 0}, b.Data)
	require.Equal(t, 3, b.Padding)
	require.Equal(t, []byte("e"), b.Payload())

	_, err = br.Next()
	require.Equal(t, io.EOF, err)
}

func TestBlockReaderEmpty(t *testing.T) {
	br := NewBlockReader(bytes.NewReader(nil), 2)

	_, err := br.Next()
	require.Equal(t, io.EOF, err)
	require.Equal(t, 0, br.Count())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestBlockReaderPropagatesErrors(t *testing.T) {
	br := NewBlockReader(failingReader{}, 2)

	_, err := br.Next()
	require.EqualError(t, err, "disk on fire")
}

func TestBlockString(t *testing.T) {
	b := &Block{Data: []byte{0x74, 0x01}}
	require.Equal(t, "01110100 00000001", b.String())
}
