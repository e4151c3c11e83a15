package storage

import (
	"os"
	"path/filepath"

	"github.com/ocireg/registry/internal/logx"
	"github.com/ocireg/registry/internal/registry"
)

// layout centralizes the on-disk directory structure, following the
// teacher's PathManager: one small type owning every path computation so
// the rest of the store never concatenates path segments itself.
type layout struct {
	root string
}

func newLayout(root string, log *logx.Logger) (*layout, error) {
	dirs := []string{"uploads", "blobs", "manifests"}
	for _, dir := range dirs {
		path := filepath.Join(root, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			log.WithFunc().WithError(err).WithField("path", path).Error("failed to create storage directory")
			return nil, err
		}
	}
	return &layout{root: root}, nil
}

func (l *layout) uploadPath(id UploadID) string {
	return filepath.Join(l.root, "uploads", id.String())
}

func (l *layout) blobPath(d registry.Digest) string {
	return filepath.Join(l.root, "blobs", d.Hex())
}

func (l *layout) imageDir(loc registry.ImageLocation) string {
	return filepath.Join(l.root, "manifests", loc.Repository, loc.Image)
}

func (l *layout) manifestRevisionPath(loc registry.ImageLocation, d registry.Digest) string {
	return filepath.Join(l.imageDir(loc), "revisions", d.Hex())
}

func (l *layout) tagPath(loc registry.ImageLocation, tag registry.Tag) string {
	return filepath.Join(l.imageDir(loc), "tags", string(tag))
}
