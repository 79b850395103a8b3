package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"tubemeta/internal/config"
	"tubemeta/internal/logging"
	"tubemeta/internal/metadata"
	"tubemeta/internal/services"
)

const component = "ytdlp"

// Executor abstracts command execution for testability. Run returns the
// command's stdout.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithSocketTimeout sets yt-dlp's --socket-timeout in seconds. Zero omits the flag.
func WithSocketTimeout(seconds int) Option {
	return func(c *Client) { c.socketTimeout = seconds }
}

// WithFetchTimeout bounds one whole yt-dlp run. Zero disables the bound.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.fetchTimeout = timeout }
}

// WithExtraArgs appends arguments before the URL separator.
func WithExtraArgs(args ...string) Option {
	return func(c *Client) { c.extraArgs = append([]string(nil), args...) }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary        string
	socketTimeout int
	fetchTimeout  time.Duration
	extraArgs     []string
	exec          Executor
	logger        *slog.Logger
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, component)
	return client, nil
}

// NewFromConfig builds a client from the [ytdlp] configuration section.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	base := []Option{
		WithSocketTimeout(cfg.YTDLP.SocketTimeout),
		WithFetchTimeout(cfg.FetchTimeout()),
		WithExtraArgs(cfg.YTDLP.ExtraArgs...),
	}
	return New(cfg.YTDLP.Binary, append(base, opts...)...)
}

// Binary returns the configured executable.
func (c *Client) Binary() string {
	return c.binary
}

// Args returns the yt-dlp argument list used to fetch rawURL.
func (c *Client) Args(rawURL string) []string {
	args := []string{"--dump-single-json", "--no-warnings"}
	if c.socketTimeout > 0 {
		args = append(args, "--socket-timeout", strconv.Itoa(c.socketTimeout))
	}
	args = append(args, c.extraArgs...)
	return append(args, "--", rawURL)
}

// Fetch runs yt-dlp for rawURL and returns its JSON output as a document.
func (c *Client) Fetch(ctx context.Context, rawURL string) (metadata.Document, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return metadata.Document{}, services.Wrap(services.ErrRemoteFetch, component, "fetch", "empty url", nil)
	}

	runCtx := ctx
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	started := time.Now()
	output, err := c.exec.Run(runCtx, c.binary, c.Args(rawURL))
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("timed out after %s: %w", c.fetchTimeout, err)
		}
		return metadata.Document{}, services.Wrap(services.ErrRemoteFetch, component, "fetch", rawURL, err)
	}

	doc, err := metadata.Parse(output)
	if err != nil {
		return metadata.Document{}, services.Wrap(services.ErrRemoteFetch, component, "fetch", "decode yt-dlp output", err)
	}
	logging.WithContext(ctx, c.logger).Debug("yt-dlp fetch complete",
		logging.String("url", rawURL),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("bytes", len(output)),
	)
	return doc, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return nil, fmt.Errorf("%w: %s", err, detail)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
