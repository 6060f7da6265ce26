//go:build !unix

package imagecodec

func readMapped(path string, use func([]byte) error) error {
	return readWhole(path, use)
}
