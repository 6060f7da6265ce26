package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeScheduler(); err != nil {
		return err
	}
	c.normalizeMonitor()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeScheduler() error {
	if c.Scheduler.PoolSize == 0 {
		if value, ok := os.LookupEnv("ROWPOOL_POOL_SIZE"); ok {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("ROWPOOL_POOL_SIZE: %w", err)
			}
			c.Scheduler.PoolSize = n
		}
	}
	if c.Scheduler.PoolSize == 0 {
		c.Scheduler.PoolSize = runtime.NumCPU()
	}
	if value, ok := os.LookupEnv("ROWPOOL_MAX_IN_FLIGHT"); ok && c.Scheduler.MaxInFlight == defaultMaxInFlight {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("ROWPOOL_MAX_IN_FLIGHT: %w", err)
		}
		c.Scheduler.MaxInFlight = n
	}
	c.Scheduler.Strategy = strings.ToLower(strings.TrimSpace(c.Scheduler.Strategy))
	if c.Scheduler.Strategy == "" {
		c.Scheduler.Strategy = defaultStrategy
	}
	return nil
}

func (c *Config) normalizeMonitor() {
	c.Monitor.Renderer = strings.ToLower(strings.TrimSpace(c.Monitor.Renderer))
	if c.Monitor.Renderer == "" {
		c.Monitor.Renderer = defaultRenderer
	}
	if c.Monitor.IntervalMillis == 0 {
		c.Monitor.IntervalMillis = defaultMonitorMillis
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Normalize re-applies defaulting after callers override fields directly,
// for example from command-line flags.
func (c *Config) Normalize() error {
	return c.normalize()
}
