package config

const (
	defaultConfigPath     = "~/.config/rowpool/config.toml"
	defaultLogDir         = "~/.local/share/rowpool/logs"
	defaultHistoryDB      = "~/.local/share/rowpool/history.db"
	defaultMaxInFlight    = 12
	defaultStrategy       = StrategyQueue
	defaultContrastFactor = 128
	defaultMonitorMillis  = 1
	defaultRenderer       = RendererAuto
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Strategy names accepted by scheduler.strategy.
const (
	StrategyQueue       = "queue"
	StrategySequential  = "sequential"
	StrategySectors     = "sectors"
	StrategyInterleaved = "interleaved"
)

// Renderer names accepted by monitor.renderer.
const (
	RendererAuto    = "auto"
	RendererPercent = "percent"
	RendererBar     = "bar"
	RendererLog     = "log"
	RendererNone    = "none"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scheduler: Scheduler{
			PoolSize:    0,
			MaxInFlight: defaultMaxInFlight,
			Strategy:    defaultStrategy,
		},
		Contrast: Contrast{
			Factor: defaultContrastFactor,
		},
		Monitor: Monitor{
			IntervalMillis: defaultMonitorMillis,
			Renderer:       defaultRenderer,
		},
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
