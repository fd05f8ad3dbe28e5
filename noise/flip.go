package noise

import (
	"fmt"
	"io"
	"os"
)

// FlipBit inverts bit number bit of buf, counting from the least
// significant bit of the first byte.
func FlipBit(buf []byte, bit int) error {
	if bit < 0 || bit >= len(buf)*8 {
		return fmt.Errorf("bit %d outside of %d byte buffer", bit, len(buf))
	}
	flipAt(buf, bit)
	return nil
}

// FlipBitInFile inverts one bit of a file in place.
func FlipBitInFile(path string, bit int64) error {
	if bit < 0 {
		return fmt.Errorf("negative bit %d", bit)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	off := bit / 8
	b := make([]byte, 1)
	if _, err := f.ReadAt(b, off); err != nil {
		if err == io.EOF {
			return fmt.Errorf("bit %d is past the end of %s", bit, path)
		}
		return err
	}
	b[0] ^= 1 << uint(bit%8)
	if _, err := f.WriteAt(b, off); err != nil {
		return err
	}
	return f.Close()
}
