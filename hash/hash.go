// Package hash provides the blake3 digests used to identify replicated envelopes.
package hash

import "encoding/hex"

// Size of a digest in bytes.
const Size = 32

// Digest is a blake3-256 hash.
type Digest [Size]byte

// String returns the hex encoding of the first four bytes.
func (d Digest) String() string {
	return hex.EncodeToString(d[:4])
}

// Hex returns the full hex encoding.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Sum hashes the concatenation of chunks.
func Sum(chunks ...[]byte) Digest {
	hasher := GetHasher()
	defer PutHasher(hasher)
	for _, chunk := range chunks {
		hasher.Write(chunk)
	}
	var d Digest
	hasher.Sum(d[:0])
	return d
}
