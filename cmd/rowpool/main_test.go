package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rowpool/internal/contrast"
	"rowpool/internal/faults"
	"rowpool/internal/history"
	"rowpool/internal/testsupport"
)

func darkened(t *testing.T, width, height int, factor uint8) []byte {
	t.Helper()
	want := testsupport.GradientBuffer(t, width, height)
	d := contrast.Darken{Factor: factor}
	var out []byte
	for y := 0; y < want.Height; y++ {
		row, err := want.Row(y)
		if err != nil {
			t.Fatalf("Row: %v", err)
		}
		d.Apply(row)
		out = append(out, row...)
	}
	return out
}

func rowsOf(t *testing.T, path string) []byte {
	t.Helper()
	buf := testsupport.ReadImage(t, path)
	var out []byte
	for y := 0; y < buf.Height; y++ {
		row, err := buf.Row(y)
		if err != nil {
			t.Fatalf("Row: %v", err)
		}
		out = append(out, row...)
	}
	return out
}

func TestRunDarkensImageAndRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithScheduler(4, 2, ""), testsupport.WithFactor(128))
	input := filepath.Join(env.baseDir, "in.bmp")
	testsupport.WriteBMP(t, input, 13, 10)
	output := filepath.Join(env.baseDir, "out.png")

	out, _, err := runCLI(t, []string{"run", input, "-o", output}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Time taken:")
	requireContains(t, out, "microseconds")
	requireContains(t, out, "Queue")

	if got, want := rowsOf(t, output), darkened(t, 13, 10, 128); string(got) != string(want) {
		t.Fatal("output pixels differ from expected darkening")
	}

	store, err := history.Open(env.cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer store.Close()
	runs, err := store.List(t.Context(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].Height != 10 || runs[0].Factor != 128 || runs[0].MaxInFlight != 2 {
		t.Fatalf("unexpected run %+v", runs[0])
	}

	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, runs[0].ID[:8])

	out, _, err = runCLI(t, []string{"history", "show", runs[0].ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, output)
}

func TestRunDefaultOutputAndFlagOverrides(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	input := filepath.Join(env.baseDir, "photo.bmp")
	testsupport.WriteBMP(t, input, 6, 9)

	for _, strategy := range []string{"sequential", "sectors", "interleaved"} {
		output := filepath.Join(env.baseDir, "photo_dark.bmp")
		_ = os.Remove(output)
		out, _, err := runCLI(t, []string{"run", input, "--strategy", strategy, "--factor", "40", "--pool", "3", "--mmap"}, env.configPath)
		if err != nil {
			t.Fatalf("run --strategy %s: %v", strategy, err)
		}
		requireContains(t, out, strings.ToUpper(strategy[:1])+strategy[1:])
		if got, want := rowsOf(t, output), darkened(t, 6, 9, 40); string(got) != string(want) {
			t.Fatalf("strategy %s output differs", strategy)
		}
	}
	if _, err := os.Stat(env.cfg.Paths.HistoryDB); !os.IsNotExist(err) {
		t.Fatalf("history database should not exist when disabled: %v", err)
	}
}

func TestRunFailsWithoutWritingOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "missing.bmp")

	_, _, err := runCLI(t, []string{"run", missing}, env.configPath)
	if !errors.Is(err, faults.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if code := faults.ExitCode(err); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if _, statErr := os.Stat(filepath.Join(env.baseDir, "missing_dark.bmp")); !os.IsNotExist(statErr) {
		t.Fatalf("output should not exist: %v", statErr)
	}
}

func TestRunRejectsBadKnobs(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.bmp")
	testsupport.WriteBMP(t, input, 2, 2)

	cases := [][]string{
		{"run", input, "--strategy", "random"},
		{"run", input, "--max-in-flight", "0"},
		{"run", input, "--factor", "300"},
		{"run", input, "--progress", "fireworks"},
	}
	for _, args := range cases {
		_, _, err := runCLI(t, args, env.configPath)
		if !errors.Is(err, faults.ErrConfiguration) {
			t.Fatalf("%v: expected configuration error, got %v", args[2:], err)
		}
		if code := faults.ExitCode(err); code != 2 {
			t.Fatalf("%v: exit code = %d, want 2", args[2:], code)
		}
	}
}

func TestBenchComparesStrategies(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "bench.bmp")
	testsupport.WriteBMP(t, input, 20, 15)

	out, _, err := runCLI(t, []string{"bench", input, "--repeat", "2", "--max-in-flight", "3"}, env.configPath)
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	for _, label := range []string{"Queue", "Sequential", "Sectors", "Interleaved", "best of 2"} {
		requireContains(t, out, label)
	}
	if strings.Contains(out, "DIFFERS") {
		t.Fatalf("strategies disagreed:\n%s", out)
	}
	if strings.Count(out, "identical") != 4 {
		t.Fatalf("expected four identical rows:\n%s", out)
	}
}

func TestHistoryClearAndEmptyList(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.bmp")
	testsupport.WriteBMP(t, input, 3, 3)
	if _, _, err := runCLI(t, []string{"run", input}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 1 runs")

	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	if _, _, err := runCLI(t, []string{"history", "show", "nope"}, env.configPath); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "in.bmp")
	testsupport.WriteBMP(t, input, 2, 2)

	out, _, err := runCLI(t, []string{"check", input}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Input image")
	requireContains(t, out, "ok")

	out, _, err = runCLI(t, []string{"check", input, "-o", filepath.Join(env.baseDir, "out.gif")}, env.configPath)
	if !errors.Is(err, faults.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	requireContains(t, out, "FAIL")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.baseDir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[scheduler]\nworkers = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, []string{"config", "validate"}, bad)
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := map[string]string{
		"/a/b/photo.bmp": "/a/b/photo_dark.bmp",
		"img.PNG":        "img_dark.PNG",
		"scan.tiff":      "scan_dark.bmp",
	}
	for in, want := range tests {
		if got := defaultOutputPath(in); got != want {
			t.Fatalf("defaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}
