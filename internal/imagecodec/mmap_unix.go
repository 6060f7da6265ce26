//go:build unix

package imagecodec

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"rowpool/internal/faults"
)

// readMapped maps path read-only for the duration of use. The slice passed
// to use is invalid once it returns.
func readMapped(path string, use func([]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "mmap", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "mmap", path, err)
	}
	size := info.Size()
	if size == 0 {
		return faults.Wrap(faults.ErrResource, "imagecodec", "mmap", fmt.Sprintf("%s is empty", path), nil)
	}
	if int64(int(size)) != size {
		return faults.Wrap(faults.ErrResource, "imagecodec", "mmap", fmt.Sprintf("%s is too large to map", path), nil)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "mmap", path, err)
	}
	useErr := use(data)
	if err := unix.Munmap(data); err != nil && useErr == nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "munmap", path, err)
	}
	return useErr
}
