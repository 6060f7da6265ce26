package imagecodec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"rowpool/internal/faults"
)

// LockPath returns the advisory lock file guarding writes to path.
func LockPath(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, "."+name+".lock")
}

// writeLocked holds the output lock while encode fills a temporary file,
// then renames it over path.
func writeLocked(path string, encode func(io.Writer) error) error {
	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "lock", path, err)
	}
	if !ok {
		return faults.Wrap(faults.ErrResource, "imagecodec", "lock",
			fmt.Sprintf("%s is being written by another process", path), nil)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "write", path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := encode(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "write", path, err)
	}
	if err := tmp.Close(); err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "write", path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "write", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "rename", path, err)
	}
	committed = true
	return nil
}
