package progress_test

import (
	"fmt"
	"os"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
