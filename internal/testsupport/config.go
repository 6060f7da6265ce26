package testsupport

import (
	"path/filepath"
	"testing"

	"rowpool/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose paths live under a unique temp directory.
// The monitor is silenced and history is enabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "state", "history.db")
	cfgVal.Monitor.Renderer = config.RendererNone
	cfgVal.Scheduler.PoolSize = 4
	cfgVal.History.Enabled = true

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithScheduler overrides the pool size, cap, and strategy.
func WithScheduler(poolSize, maxInFlight int, strategy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scheduler.PoolSize = poolSize
		b.cfg.Scheduler.MaxInFlight = maxInFlight
		if strategy != "" {
			b.cfg.Scheduler.Strategy = strategy
		}
	}
}

// WithFactor overrides the contrast factor.
func WithFactor(factor int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Contrast.Factor = factor
	}
}

// WithoutHistory disables run history.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
