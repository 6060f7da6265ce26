package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"rowpool/internal/config"
	"rowpool/internal/faults"
	"rowpool/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = faults.Wrap(faults.ErrConfiguration, "config", "load", "", err)
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = *c.logLevelFlag
			if err := cfg.Normalize(); err != nil {
				c.configErr = faults.Wrap(faults.ErrConfiguration, "config", "log-level", "", err)
				return
			}
			if err := cfg.Validate(); err != nil {
				c.configErr = faults.Wrap(faults.ErrConfiguration, "config", "log-level", "", err)
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = faults.Wrap(faults.ErrResource, "config", "directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// configCopy returns a private copy that a command may mutate with flag
// overrides.
func (c *commandContext) configCopy() (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cp := *cfg
	return &cp, nil
}

func (c *commandContext) logger(cfg *config.Config, stderr io.Writer) (*slog.Logger, error) {
	logger, err := logging.NewFromConfigTo(cfg, stderr)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "logging", "init", "", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
