package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// config is read from the environment; an optional dotenv file is loaded
// first and never overrides variables that are already set.
type config struct {
	Lang         string     `env:"OKSKEMA_LANG" envDefault:"en"`
	Format       string     `env:"OKSKEMA_FORMAT"`
	Concurrency  int        `env:"OKSKEMA_CONCURRENCY" envDefault:"0"`
	LogLevel     slog.Level `env:"OKSKEMA_LOG_LEVEL" envDefault:"info"`
	Addr         string     `env:"OKSKEMA_ADDR" envDefault:":8080"`
	MaxBodyBytes int64      `env:"OKSKEMA_MAX_BODY_BYTES" envDefault:"1048576"`
}

func loadConfig(envFile string) (config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	cfg, err := env.ParseAs[config]()
	if err != nil {
		return config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
