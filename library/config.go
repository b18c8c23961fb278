package library

import (
	"log/slog"
	"path/filepath"
	"strings"

	cr "github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment under the LIBRARY_ prefix.
type Config struct {
	DataDir  string `envconfig:"DATA_DIR" default:"data"`
	Store    string `envconfig:"STORE" default:"json"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("library", &cfg); err != nil {
		return Config{}, cr.Wrap(err, "process env config")
	}
	return cfg, nil
}

// OpenStore builds the configured store backend: "json" (default) keeps
// three snapshot files in the data dir, "sqlite" keeps a single database
// file.
func (cfg Config) OpenStore(logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case "", "json":
		return NewSnapshotStore(cfg.DataDir, logger), nil
	case "sqlite":
		return NewDatabase(filepath.Join(cfg.DataDir, "library.db"), logger)
	default:
		return nil, cr.Mark(cr.Newf("unknown store backend %q", cfg.Store), ErrInvalidInput)
	}
}

func (cfg Config) SlogLevel() slog.Level {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
