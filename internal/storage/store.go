// Package storage implements the content-addressed blob and manifest
// store described by the registry's core: staged uploads are verified
// and atomically committed under their SHA-256 digest; manifests are
// stored by digest and optionally aliased by tag.
package storage

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/ocireg/registry/internal/registry"
)

// UploadID identifies a staged, in-progress upload. UUIDv4 is sufficient;
// nothing beyond uniqueness and client-opacity is required of it.
type UploadID = uuid.UUID

// BlobMetadata is what HEAD requests need without opening a stream.
type BlobMetadata struct {
	Size int64
}

// Store is the storage component's interface to the protocol handler.
// Implementations must uphold the concurrency guarantees in SPEC_FULL.md
// §5: a reader racing a finalize either sees the blob absent or complete,
// never partial, and tag writes are atomic.
type Store interface {
	// BeginUpload allocates a fresh upload ID and empty staging area.
	BeginUpload(ctx context.Context) (UploadID, error)

	// UploadWriter returns an append-only writer for the given upload,
	// positioned at offset. The supported subset only accepts offset 0;
	// any other value returns a KindNotSupported error.
	UploadWriter(ctx context.Context, id UploadID, offset int64) (io.WriteCloser, error)

	// FinalizeUpload closes the staging object, verifies its SHA-256
	// equals expected, and commits it into the blob namespace. A
	// pre-existing blob under the same digest makes this a no-op
	// success. A digest mismatch discards the staged bytes and returns
	// a KindDigestMismatch error.
	FinalizeUpload(ctx context.Context, id UploadID, expected registry.Digest) error

	// BlobReader opens a streaming reader for a committed blob. ok is
	// false if no such blob exists.
	BlobReader(ctx context.Context, digest registry.Digest) (r io.ReadCloser, ok bool, err error)

	// BlobMetadata returns size information without opening a stream.
	BlobMetadata(ctx context.Context, digest registry.Digest) (meta BlobMetadata, ok bool, err error)

	// PutManifest stores manifest bytes under their own SHA-256 digest.
	// If ref.Ref is a Tag, the tag is atomically repointed at the new
	// digest. If ref.Ref is a DigestReference, the supplied digest must
	// match the computed one or the call fails with KindDigestMismatch.
	PutManifest(ctx context.Context, ref registry.ManifestReference, data []byte) (registry.Digest, error)

	// GetManifest resolves ref (tag or digest) to its stored bytes. ok is
	// false if no manifest is bound to that reference.
	GetManifest(ctx context.Context, ref registry.ManifestReference) (data []byte, ok bool, err error)
}
