package encoding

import "errors"

var (
	// ErrInvalidBlockSize is returned when a layout is requested for a block
	// size smaller than one byte.
	ErrInvalidBlockSize = errors.New("invalid block size")
	// ErrInvalidLength is returned when a buffer or vector has the wrong size
	// for the requested operation.
	ErrInvalidLength = errors.New("invalid length")
	// ErrIndexOutOfRange indicates a bit index outside of a vector.
	ErrIndexOutOfRange = errors.New("bit index out of range")
	// ErrLengthMismatch indicates an operation on two vectors of different
	// lengths.
	ErrLengthMismatch = errors.New("bit vector length mismatch")
)
