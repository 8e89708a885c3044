package hash

import (
	"sync"

	"github.com/zeebo/blake3"
)

var pool = &sync.Pool{
	New: func() any {
		return blake3.New()
	},
}

// GetHasher returns a reset blake3 hasher from the pool.
func GetHasher() *blake3.Hasher {
	return pool.Get().(*blake3.Hasher)
}

// PutHasher resets the hasher and returns it to the pool.
func PutHasher(hasher *blake3.Hasher) {
	hasher.Reset()
	pool.Put(hasher)
}
