package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestRoundTrip(t *testing.T) {
	d := DigestFromBytes([]byte("hello world"))
	parsed, err := ParseDigest(d.String())
	assert.NoError(t, err)
	assert.Equal(t, d, parsed)
	assert.Equal(t, d.String(), parsed.String())
}

func TestParseDigestWrongLength(t *testing.T) {
	_, err := ParseDigest("sha256:deadbeef")
	assert.ErrorIs(t, err, ErrDigestWrongLength)
}

func TestParseDigestWrongPrefix(t *testing.T) {
	hex := DigestFromBytes([]byte("x")).Hex()
	raw := "sha512:" + hex
	_, err := ParseDigest(raw)
	assert.ErrorIs(t, err, ErrDigestWrongPrefix)
}

func TestParseDigestHexDecodeError(t *testing.T) {
	bad := "sha256:" + string(make([]byte, 64))
	_, err := ParseDigest(bad)
	assert.ErrorIs(t, err, ErrDigestHexDecode)
}

func TestDigestFromBytesMatchesSHA256(t *testing.T) {
	input := []byte("596a7d877b33569d199046aaf293ecf45026445be36de1818d50b4f1850762ad")
	d := DigestFromBytes(input)
	assert.Len(t, d.Hex(), 64)
	sum := sha256.Sum256(input)
	assert.Equal(t, hex.EncodeToString(sum[:]), d.Hex())
}
