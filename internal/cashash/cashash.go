// Package cashash provides the 64-bit xxHash digest and path-sharding
// rule shared by every content-addressed component of ditiear.
package cashash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Hash is the 16-character lowercase hex rendering of an xxHash64 digest.
// The first character is the shard directory; the remainder is the file
// name within it (see Shard).
type Hash string

// chunkSize is the bounded read size used when streaming a file through
// the hasher; 1 KiB is sufficient per spec.
const chunkSize = 1024

// FileHash streams path in bounded chunks through xxHash64 and returns
// the resulting 16-hex digest.
func FileHash(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cashash: open %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("cashash: read %s: %w", path, err)
	}

	return fromSum(h.Sum64()), nil
}

// BytesHash hashes an in-memory byte slice the same way FileHash hashes
// a file's contents.
func BytesHash(data []byte) Hash {
	return fromSum(xxhash.Sum64(data))
}

func fromSum(sum uint64) Hash {
	var b [8]byte
	b[0] = byte(sum >> 56)
	b[1] = byte(sum >> 48)
	b[2] = byte(sum >> 40)
	b[3] = byte(sum >> 32)
	b[4] = byte(sum >> 24)
	b[5] = byte(sum >> 16)
	b[6] = byte(sum >> 8)
	b[7] = byte(sum)
	return Hash(hex.EncodeToString(b[:]))
}

// Shard splits a Hash into its shard directory (the first hex char) and
// the remaining file name (the other 15 hex chars), per I3.
func Shard(h Hash) (dir, name string) {
	s := string(h)
	return s[:1], s[1:]
}

// Valid reports whether h has the expected 16-hex-character shape.
func (h Hash) Valid() bool {
	if len(h) != 16 {
		return false
	}
	_, err := hex.DecodeString(string(h))
	return err == nil
}

func (h Hash) String() string { return string(h) }
