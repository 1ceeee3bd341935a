package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"fortio.org/safecast"

	"vmfkit/internal/kv"
)

// Digest is a SHA-256 value used as a cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// combineDigest: H(content || part1 || part2 ...). parts уже в детерминированном порядке.
func combineDigest(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// statsKey mixes the options that can change a parse outcome into the
// content hash. The encoding is already reflected in the decoded content.
func statsKey(content [32]byte, opts Options) Digest {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = kv.DefaultMaxDepth
	}
	d, err := safecast.Conv[uint32](depth)
	if err != nil {
		d = ^uint32(0)
	}
	var buf [6]byte
	binary.LittleEndian.PutUint16(buf[0:2], diskCacheSchemaVersion)
	binary.LittleEndian.PutUint32(buf[2:6], d)
	return combineDigest(content, buf[:])
}
