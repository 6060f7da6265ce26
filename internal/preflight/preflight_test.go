package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"rowpool/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckInputFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "in.bmp")
	testsupport.WriteBMP(t, good, 4, 4)
	empty := filepath.Join(dir, "empty.bmp")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		pass bool
	}{
		{"readable", good, true},
		{"missing", filepath.Join(dir, "missing.bmp"), false},
		{"empty", empty, false},
		{"directory", dir, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckInputFile("input", tc.path)
			if result.Passed != tc.pass {
				t.Fatalf("Passed = %v, detail %s", result.Passed, result.Detail)
			}
		})
	}
}

func TestCheckOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.bmp")
	testsupport.WriteBMP(t, input, 2, 2)

	tests := []struct {
		name   string
		output string
		pass   bool
	}{
		{"bmp", filepath.Join(dir, "out.bmp"), true},
		{"png", filepath.Join(dir, "out.png"), true},
		{"unsupported extension", filepath.Join(dir, "out.gif"), false},
		{"same as input", input, false},
		{"missing directory", filepath.Join(dir, "nope", "out.bmp"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckOutputPath("output", input, tc.output)
			if result.Passed != tc.pass {
				t.Fatalf("Passed = %v, detail %s", result.Passed, result.Detail)
			}
		})
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil, Request{}); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutHistory())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	results := RunAll(cfg, Request{})
	if len(results) != 1 {
		t.Fatalf("expected only the log directory check, got %d results", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("expected pass, got %s", results[0].Detail)
	}
}

func TestRunAll_FullRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	dir := testsupport.BaseDir(cfg)
	input := filepath.Join(dir, "in.bmp")
	testsupport.WriteBMP(t, input, 3, 3)

	results := RunAll(cfg, Request{Input: input, Output: filepath.Join(dir, "out.bmp")})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	results = RunAll(cfg, Request{Input: filepath.Join(dir, "missing.bmp"), Output: filepath.Join(dir, "out.bmp")})
	if failed := Failed(results); len(failed) != 1 || failed[0].Name != "Input image" {
		t.Fatalf("expected single input failure, got %+v", failed)
	}
}
