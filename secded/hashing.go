package secded

import (
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Digest accumulates a SHA3-256 hash of a transfer's blocks so that both
// ends of a link can compare what they saw.
type Digest struct {
	h hash.Hash
}

func NewDigest() *Digest {
	return &Digest{h: sha3.New256()}
}

func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

// Sum returns the hex encoded digest so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
