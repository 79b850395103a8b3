package config

const (
	defaultConfigPath    = "~/.config/tubemeta/config.toml"
	defaultLogDir        = "~/.local/share/tubemeta/logs"
	defaultYTDLPBinary   = "yt-dlp"
	defaultSocketTimeout = 15
	defaultFetchTimeout  = 120
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
		},
		Cache: Cache{
			WarmUp: false,
		},
		YTDLP: YTDLP{
			Binary:        defaultYTDLPBinary,
			SocketTimeout: defaultSocketTimeout,
			FetchTimeout:  defaultFetchTimeout,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
