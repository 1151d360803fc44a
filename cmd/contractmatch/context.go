package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/FACorreiaa/contract-matcher/pkg/config"
	"github.com/FACorreiaa/contract-matcher/pkg/logger"
)

type commandContext struct {
	envFlag   *string
	levelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(envFlag, levelFlag *string) *commandContext {
	return &commandContext{
		envFlag:   envFlag,
		levelFlag: levelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var files []string
		if c.envFlag != nil && strings.TrimSpace(*c.envFlag) != "" {
			files = append(files, strings.TrimSpace(*c.envFlag))
		}
		cfg, err := config.Load(files...)
		if err != nil {
			c.configErr = err
			return
		}
		if c.levelFlag != nil && strings.TrimSpace(*c.levelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.levelFlag)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger writes to w, normally the command's stderr so stdout stays parseable.
func (c *commandContext) logger(w io.Writer) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return logger.New(w, logger.Options{})
	}
	return logger.New(w, logger.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
}
