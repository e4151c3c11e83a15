package storage

import (
	"context"
	"crypto/sha256"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/ocireg/registry/internal/cache"
	"github.com/ocireg/registry/internal/logx"
	"github.com/ocireg/registry/internal/registry"
)

// FilesystemStore is the registry's only shipped Store implementation:
// blobs and manifests live under a root directory, committed via
// rename-based atomicity. See SPEC_FULL.md §4.1 for the exact layout.
type FilesystemStore struct {
	layout   *layout
	tagCache cache.TagCache
	log      *logx.Logger
}

// NewFilesystemStore initializes the directory layout under root and
// returns a ready Store. tagCache may be cache.NoopTagCache{} to disable
// the optional read-through cache.
func NewFilesystemStore(root string, tagCache cache.TagCache, log *logx.Logger) (*FilesystemStore, error) {
	l, err := newLayout(root, log)
	if err != nil {
		return nil, err
	}
	if tagCache == nil {
		tagCache = cache.NoopTagCache{}
	}
	return &FilesystemStore{layout: l, tagCache: tagCache, log: log}, nil
}

func (s *FilesystemStore) BeginUpload(ctx context.Context) (UploadID, error) {
	id := uuid.New()
	f, err := os.Create(s.layout.uploadPath(id))
	if err != nil {
		s.log.WithFunc().WithError(err).Error("failed to create upload staging file")
		return UploadID{}, registry.Wrap(registry.KindStorageIO, err)
	}
	defer f.Close()
	return id, nil
}

func (s *FilesystemStore) UploadWriter(ctx context.Context, id UploadID, offset int64) (io.WriteCloser, error) {
	if offset != 0 {
		return nil, registry.NotSupported("non-zero upload offset")
	}

	f, err := os.OpenFile(s.layout.uploadPath(id), os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		s.log.WithFunc().WithError(err).Error("failed to open upload staging file")
		return nil, registry.Wrap(registry.KindLocalWriteFailed, err)
	}
	return f, nil
}

func (s *FilesystemStore) FinalizeUpload(ctx context.Context, id UploadID, expected registry.Digest) error {
	stagingPath := s.layout.uploadPath(id)

	staged, err := os.Open(stagingPath)
	if err != nil {
		s.log.WithFunc().WithError(err).Error("failed to open staged upload for finalize")
		return registry.Wrap(registry.KindStorageIO, err)
	}

	hasher := sha256.New()
	if _, err := io.Copy(hasher, staged); err != nil {
		staged.Close()
		return registry.Wrap(registry.KindStorageIO, err)
	}
	staged.Close()

	var sum [sha256.Size]byte
	copy(sum[:], hasher.Sum(nil))
	computed := registry.NewDigest(sum)

	if computed != expected {
		os.Remove(stagingPath)
		s.log.WithFunc().WithField("expected", expected.String()).WithField("computed", computed.String()).
			Warn("finalize digest mismatch, discarding staged upload")
		return registry.NewError(registry.KindDigestMismatch)
	}

	blobPath := s.layout.blobPath(expected)
	if _, err := os.Stat(blobPath); err == nil {
		// Content-addressed idempotence: the blob already exists.
		os.Remove(stagingPath)
		return nil
	}

	if err := os.MkdirAll(s.layout.root+"/blobs", 0o755); err != nil {
		return registry.Wrap(registry.KindStorageIO, err)
	}
	if err := os.Rename(stagingPath, blobPath); err != nil {
		s.log.WithFunc().WithError(err).Error("failed to commit blob")
		return registry.Wrap(registry.KindStorageIO, err)
	}
	return nil
}

func (s *FilesystemStore) BlobReader(ctx context.Context, digest registry.Digest) (io.ReadCloser, bool, error) {
	f, err := os.Open(s.layout.blobPath(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, registry.Wrap(registry.KindStorageIO, err)
	}
	return f, true, nil
}

func (s *FilesystemStore) BlobMetadata(ctx context.Context, digest registry.Digest) (BlobMetadata, bool, error) {
	info, err := os.Stat(s.layout.blobPath(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return BlobMetadata{}, false, nil
		}
		return BlobMetadata{}, false, registry.Wrap(registry.KindStorageIO, err)
	}
	return BlobMetadata{Size: info.Size()}, true, nil
}

func (s *FilesystemStore) PutManifest(ctx context.Context, ref registry.ManifestReference, data []byte) (registry.Digest, error) {
	computed := registry.DigestFromBytes(data)

	if digestRef, ok := ref.Ref.(registry.DigestReference); ok && digestRef.Digest != computed {
		return registry.Digest{}, registry.NewError(registry.KindDigestMismatch)
	}

	revisionPath := s.layout.manifestRevisionPath(ref.Location, computed)
	if err := writeFileAtomic(revisionPath, data, 0o644); err != nil {
		s.log.WithFunc().WithError(err).Error("failed to write manifest revision")
		return registry.Digest{}, registry.Wrap(registry.KindStorageIO, err)
	}

	if tag, ok := ref.Ref.(registry.Tag); ok {
		tagPath := s.layout.tagPath(ref.Location, tag)
		if err := writeFileAtomic(tagPath, []byte(computed.Hex()), 0o644); err != nil {
			s.log.WithFunc().WithError(err).Error("failed to update tag pointer")
			return registry.Digest{}, registry.Wrap(registry.KindStorageIO, err)
		}

		key := cache.Key{Repository: ref.Location.Repository, Image: ref.Location.Image, Tag: string(tag)}
		s.tagCache.Set(ctx, key, computed.Hex())
	}

	return computed, nil
}

func (s *FilesystemStore) GetManifest(ctx context.Context, ref registry.ManifestReference) ([]byte, bool, error) {
	switch r := ref.Ref.(type) {
	case registry.DigestReference:
		return s.readManifestRevision(ref.Location, r.Digest)
	case registry.Tag:
		digest, ok, err := s.resolveTag(ctx, ref.Location, r)
		if err != nil || !ok {
			return nil, ok, err
		}
		return s.readManifestRevision(ref.Location, digest)
	default:
		return nil, false, nil
	}
}

func (s *FilesystemStore) resolveTag(ctx context.Context, loc registry.ImageLocation, tag registry.Tag) (registry.Digest, bool, error) {
	key := cache.Key{Repository: loc.Repository, Image: loc.Image, Tag: string(tag)}
	if hex, ok := s.tagCache.Get(ctx, key); ok {
		if d, err := registry.ParseDigest("sha256:" + hex); err == nil {
			return d, true, nil
		}
	}

	raw, err := os.ReadFile(s.layout.tagPath(loc, tag))
	if err != nil {
		if os.IsNotExist(err) {
			return registry.Digest{}, false, nil
		}
		return registry.Digest{}, false, registry.Wrap(registry.KindStorageIO, err)
	}

	d, err := registry.ParseDigest("sha256:" + string(raw))
	if err != nil {
		return registry.Digest{}, false, registry.Wrap(registry.KindStorageIO, err)
	}
	s.tagCache.Set(ctx, key, d.Hex())
	return d, true, nil
}

func (s *FilesystemStore) readManifestRevision(loc registry.ImageLocation, digest registry.Digest) ([]byte, bool, error) {
	data, err := os.ReadFile(s.layout.manifestRevisionPath(loc, digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, registry.Wrap(registry.KindStorageIO, err)
	}
	return data, true, nil
}
