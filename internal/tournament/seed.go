package tournament

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// cryptoFallbackSeed produces a non-deterministic seed for pairing when the
// caller supplies none. It prefers a cryptographic random source and falls
// back to the wall clock only if that source is unavailable, which should
// not happen on any supported platform.
func cryptoFallbackSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return int64(binary.LittleEndian.Uint64(buf[:]))
	}
	return time.Now().UnixNano()
}
