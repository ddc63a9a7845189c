// Package validator computes entity-tags from response bodies.
package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/crc32"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"

	"github.com/ilpanich/etag-middleware/rfc7232"
)

// Algorithm names the hash function used to derive the opaque-tag.
type Algorithm string

const (
	// SHA256 uses SHA-256, truncated to 128 bits. This is the default.
	SHA256 Algorithm = "sha256"
	// BLAKE3 uses BLAKE3, truncated to 128 bits.
	BLAKE3 Algorithm = "blake3"
	// XXHash uses the 64-bit xxHash. It is fast but not collision resistant against
	// deliberately crafted bodies.
	XXHash Algorithm = "xxhash"
	// CRC32 uses the IEEE CRC-32 checksum, formatted without leading zeros.
	// It produces the same tags as earlier deployments of this middleware, at the
	// cost of a much higher collision probability.
	CRC32 Algorithm = "crc32"
)

// truncated digest length in bytes for the cryptographic algorithms
const digestSize = 16

var sums = map[Algorithm]func([]byte) string{
	SHA256: func(b []byte) string {
		sum := sha256.Sum256(b)
		return hex.EncodeToString(sum[:digestSize])
	},
	BLAKE3: func(b []byte) string {
		sum := blake3.Sum256(b)
		return hex.EncodeToString(sum[:digestSize])
	},
	XXHash: func(b []byte) string {
		return strconv.FormatUint(xxhash.Sum64(b), 16)
	},
	CRC32: func(b []byte) string {
		return strconv.FormatUint(uint64(crc32.ChecksumIEEE(b)), 16)
	},
}

// ParseAlgorithm returns the algorithm with the given (case-insensitive) name.
// An empty name selects SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return SHA256, nil
	}
	a := Algorithm(strings.ToLower(name))
	if _, ok := sums[a]; !ok {
		return "", errors.Errorf("unsupported hash algorithm %q", name)
	}
	return a, nil
}

// Computer derives entity-tags from complete response bodies.
// It holds no mutable state and may be shared between goroutines.
type Computer struct {
	algorithm Algorithm
	sum       func([]byte) string
}

// New returns a Computer using the given algorithm. The zero Algorithm selects SHA256.
func New(algorithm Algorithm) (*Computer, error) {
	a, err := ParseAlgorithm(string(algorithm))
	if err != nil {
		return nil, err
	}
	return &Computer{algorithm: a, sum: sums[a]}, nil
}

// Algorithm returns the algorithm in use.
func (c *Computer) Algorithm() Algorithm {
	return c.algorithm
}

// Compute returns the entity-tag for body. The opaque-tag depends only on the bytes
// of body, so equal bodies always yield equal tags. An empty body yields the tag of
// the empty sequence. body is not modified.
func (c *Computer) Compute(body []byte, weak bool) rfc7232.EntityTag {
	return rfc7232.EntityTag{
		Opaque: c.sum(body),
		Weak:   weak,
	}
}
