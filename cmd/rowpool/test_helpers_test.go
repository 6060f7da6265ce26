package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rowpool/internal/config"
	"rowpool/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("ROWPOOL_POOL_SIZE", "")
	t.Setenv("ROWPOOL_MAX_IN_FLIGHT", "")
	os.Unsetenv("ROWPOOL_POOL_SIZE")
	os.Unsetenv("ROWPOOL_MAX_IN_FLIGHT")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[scheduler]
pool_size = %d
max_in_flight = %d
strategy = %q

[contrast]
factor = %d

[monitor]
renderer = %q

[paths]
log_dir = %q
history_db = %q

[history]
enabled = %t

[logging]
level = "warn"
`,
		cfg.Scheduler.PoolSize,
		cfg.Scheduler.MaxInFlight,
		cfg.Scheduler.Strategy,
		cfg.Contrast.Factor,
		cfg.Monitor.Renderer,
		cfg.Paths.LogDir,
		cfg.Paths.HistoryDB,
		cfg.History.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
