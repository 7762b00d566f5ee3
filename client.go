// Package literati is a Go client SDK for the book content API. It wires
// the typed HTTP transport, the persistent response cache, the repository
// policy layer and the streaming chat client together with explicit
// construction; nothing is reached through global state.
package literati

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"literati/internal/config"
	"literati/internal/util"
	"literati/pkg/api"
	"literati/pkg/auth"
	"literati/pkg/cache"
	"literati/pkg/repo"
	"literati/pkg/stream"
)

// Repository modes.
const (
	ModeRemote = config.ModeRemote
	ModeLocal  = config.ModeLocal
	ModeHybrid = config.ModeHybrid
)

// Cache backends.
const (
	CacheBackendFile  = config.CacheBackendFile
	CacheBackendRedis = config.CacheBackendRedis
)

// Config carries everything needed to assemble an SDK.
type Config struct {
	BaseURL   string
	AuthToken string
	LogLevel  string

	RequestTimeout time.Duration
	StreamTimeout  time.Duration
	// MaxRetries: zero selects the transport default, -1 disables retries.
	MaxRetries     int
	RetryDelay     time.Duration

	Mode          string
	CacheBackend  string
	CacheDir      string
	RedisAddr     string
	RedisPassword string

	StrictStreamFrames bool

	// LogWriter overrides the log destination, mainly for tests.
	LogWriter io.Writer
}

// LoadConfig reads and validates a YAML config file (with environment
// overrides) and maps it into a Config.
func LoadConfig(path string) (Config, error) {
	fc, err := config.Load(path)
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseURL:            fc.BaseURL,
		AuthToken:          fc.AuthToken,
		LogLevel:           fc.LogLevel,
		RequestTimeout:     config.MustDuration(fc.RequestTimeout),
		StreamTimeout:      config.MustDuration(fc.StreamTimeout),
		MaxRetries:         fc.MaxRetries,
		RetryDelay:         config.MustDuration(fc.RetryDelay),
		Mode:               fc.Mode,
		CacheBackend:       fc.CacheBackend,
		CacheDir:           fc.CacheDir,
		RedisAddr:          fc.RedisAddr,
		RedisPassword:      fc.RedisPassword,
		StrictStreamFrames: fc.StrictStreamFrames,
	}, nil
}

// SDK is the assembled client. Collaborators are exported so callers can
// reach the layer they need: most code talks to Books, chat UIs to Chat,
// maintenance tasks to Cache.
type SDK struct {
	Books  repo.Repository
	Chat   *stream.Client
	Cache  cache.Store
	API    *api.Client
	Logger *slog.Logger
}

// New assembles an SDK from the config. Construction happens once at
// startup; the result is safe for concurrent use.
func New(cfg Config) (*SDK, error) {
	logger := util.NewLogger(cfg.LogLevel, cfg.LogWriter)
	tokens := auth.NewJWTTokenProvider(cfg.AuthToken)

	apiClient := api.NewClient(cfg.BaseURL, api.Options{
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Timeout:    cfg.RequestTimeout,
		Tokens:     tokens,
		Logger:     logger,
	})

	var store cache.Store
	switch cfg.CacheBackend {
	case CacheBackendRedis:
		redisStore, err := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		store = redisStore
	case CacheBackendFile, "":
		fileStore, err := cache.NewFileStore(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		store = fileStore
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}

	remote := repo.NewRemote(apiClient)
	var books repo.Repository
	switch cfg.Mode {
	case ModeRemote:
		books = remote
	case ModeLocal:
		books = repo.NewLocal(store)
	case ModeHybrid, "":
		books = repo.NewHybrid(remote, store, repo.HybridOptions{Logger: logger})
	default:
		return nil, fmt.Errorf("unknown repository mode %q", cfg.Mode)
	}

	chat := stream.NewClient(cfg.BaseURL, stream.Options{
		Timeout:      cfg.StreamTimeout,
		Tokens:       tokens,
		Logger:       logger,
		StrictFrames: cfg.StrictStreamFrames,
	})

	return &SDK{
		Books:  books,
		Chat:   chat,
		Cache:  store,
		API:    apiClient,
		Logger: logger,
	}, nil
}

// Close releases backend resources (currently the Redis connection pool).
func (s *SDK) Close() error {
	if closer, ok := s.Cache.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
