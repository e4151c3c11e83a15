package storage

import (
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to a temp file in the same directory as
// path, then renames it into place. Same-directory rename is required for
// the atomicity guarantees in SPEC_FULL.md §4.1/§5: a concurrent reader
// either sees the old contents (or nothing) or the full new contents,
// never a torn write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
