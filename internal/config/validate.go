package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScheduler(); err != nil {
		return err
	}
	if err := c.validateContrast(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScheduler() error {
	if c.Scheduler.PoolSize < 1 {
		return errors.New("scheduler.pool_size must be positive")
	}
	if c.Scheduler.MaxInFlight < 1 {
		return errors.New("scheduler.max_in_flight must be positive")
	}
	switch c.Scheduler.Strategy {
	case StrategyQueue, StrategySequential, StrategySectors, StrategyInterleaved:
	default:
		return fmt.Errorf("scheduler.strategy: unsupported value %q (want %s)", c.Scheduler.Strategy,
			strings.Join([]string{StrategyQueue, StrategySequential, StrategySectors, StrategyInterleaved}, ", "))
	}
	return nil
}

func (c *Config) validateContrast() error {
	if c.Contrast.Factor < 0 || c.Contrast.Factor > 255 {
		return errors.New("contrast.factor must be between 0 and 255")
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if c.Monitor.IntervalMillis < 1 {
		return errors.New("monitor.interval_ms must be positive")
	}
	switch c.Monitor.Renderer {
	case RendererAuto, RendererPercent, RendererBar, RendererLog, RendererNone:
	default:
		return fmt.Errorf("monitor.renderer: unsupported value %q", c.Monitor.Renderer)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
