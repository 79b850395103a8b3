package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tubemeta/internal/config"
	"tubemeta/internal/fetcher"
	"tubemeta/internal/logging"
	"tubemeta/internal/mediaid"
	"tubemeta/internal/metacache"
	"tubemeta/internal/ytdlp"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
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
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = err
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(stderr io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, stderr)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// openCache opens the configured metadata cache. Callers must Close it.
func (c *commandContext) openCache(logger *slog.Logger, warmUp bool) (*metacache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return metacache.Open(cfg.Paths.CacheDir,
		metacache.WithWarmUp(warmUp),
		metacache.WithLogger(logger),
	)
}

// fetchService wires the registry, cache and yt-dlp client. The returned
// cleanup closes the cache.
func (c *commandContext) fetchService(cmd *cobra.Command) (*fetcher.Service, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	cache, err := c.openCache(logger, cfg.Cache.WarmUp)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = cache.Close() }

	client, err := ytdlp.NewFromConfig(cfg, ytdlp.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	svc, err := fetcher.New(mediaid.DefaultRegistry(), cache, client, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
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
