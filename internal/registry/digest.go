package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	digestPrefix  = "sha256:"
	prefixLen     = len(digestPrefix)
	digestSize    = sha256.Size
	digestHexLen  = digestSize * 2
	digestFullLen = prefixLen + digestHexLen
)

// Digest is a SHA-256 content hash. Only SHA-256 is supported; other OCI
// digest algorithms are rejected during parsing.
type Digest [digestSize]byte

// Errors returned while parsing a digest string.
var (
	ErrDigestWrongLength = errors.New("wrong length")
	ErrDigestWrongPrefix = errors.New("wrong prefix")
	ErrDigestHexDecode   = errors.New("hex decoding error")
)

// NewDigest wraps a raw 32-byte SHA-256 sum.
func NewDigest(sum [digestSize]byte) Digest {
	return Digest(sum)
}

// DigestFromBytes computes the digest of b.
func DigestFromBytes(b []byte) Digest {
	return Digest(sha256.Sum256(b))
}

// ParseDigest parses the canonical "sha256:<64 hex chars>" wire form.
func ParseDigest(raw string) (Digest, error) {
	if len(raw) != digestFullLen {
		return Digest{}, ErrDigestWrongLength
	}
	if raw[:prefixLen] != digestPrefix {
		return Digest{}, ErrDigestWrongPrefix
	}

	var d Digest
	n, err := hex.Decode(d[:], []byte(raw[prefixLen:]))
	if err != nil || n != digestSize {
		return Digest{}, ErrDigestHexDecode
	}
	return d, nil
}

// String returns the canonical "sha256:<hex>" wire form.
func (d Digest) String() string {
	return digestPrefix + hex.EncodeToString(d[:])
}

// Hex returns just the lowercase hex portion, without the algorithm prefix.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// MarshalText implements encoding.TextMarshaler so Digest can be used
// directly as a map key or struct field in JSON without manual plumbing.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return fmt.Errorf("parsing digest: %w", err)
	}
	*d = parsed
	return nil
}
