package build

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so path holds either the old or the new contents.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	name := tmp.Name()

	_, werr := tmp.Write(data)
	if err := errors.Join(werr, tmp.Close()); err != nil {
		_ = fs.Remove(name)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := fs.Chmod(name, 0o644); err != nil {
		_ = fs.Remove(name)
		return fmt.Errorf("setting mode of %s: %w", path, err)
	}
	if err := fs.Rename(name, path); err != nil {
		_ = fs.Remove(name)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
