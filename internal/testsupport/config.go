package testsupport

import (
	"path/filepath"
	"testing"

	"tubemeta/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Level = "warn"

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

// WithWarmUp toggles cache warm-up on the test config.
func WithWarmUp(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.WarmUp = enabled
	}
}

// WithYTDLPScript writes script as an executable under the config's temp
// directory and points ytdlp.binary at it.
func WithYTDLPScript(script string) ConfigOption {
	return func(b *configBuilder) {
		target := filepath.Join(b.baseDir, "bin", "yt-dlp")
		WriteExecutable(b.t, target, script)
		b.cfg.YTDLP.Binary = target
	}
}
