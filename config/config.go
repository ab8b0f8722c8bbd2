// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads runtime configuration for the crypt binaries from the
// environment, with command line flags taking precedence
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	DBPath          string        `env:"CRYPT_DB_PATH"           envDefault:"crypt.db"`
	PollInterval    time.Duration `env:"CRYPT_POLL_INTERVAL"     envDefault:"2s"`
	BatchSize       int           `env:"CRYPT_BATCH_SIZE"        envDefault:"100"`
	CheckpointEvery int           `env:"CRYPT_CHECKPOINT_EVERY"  envDefault:"500"`
	MaxEntryRetries int           `env:"CRYPT_MAX_ENTRY_RETRIES" envDefault:"5"`
	LogLevel        string        `env:"CRYPT_LOG_LEVEL"         envDefault:"info"`
	// OtelEndpoint enables trace export when set
	OtelEndpoint string `env:"CRYPT_OTEL_ENDPOINT"`
	ServiceName  string `env:"CRYPT_SERVICE_NAME" envDefault:"crypt-indexer"`
	// ProgramID is the base58 id of the ledger program whose log entries are
	// indexed. Empty means the default.
	ProgramID string `env:"CRYPT_PROGRAM_ID"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterFlags adds a flag for each setting to fs. Flag defaults are the
// values already loaded, so a flag only overrides when given.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DBPath, "db", c.DBPath, "path to the SQLite database")
	fs.DurationVar(
		&c.PollInterval,
		"poll-interval",
		c.PollInterval,
		"delay between event log polls",
	)
	fs.IntVar(&c.BatchSize, "batch-size", c.BatchSize, "maximum log entries read per poll")
	fs.IntVar(
		&c.CheckpointEvery,
		"checkpoint-every",
		c.CheckpointEvery,
		"applied entries between checkpoints (0 saves only on shutdown)",
	)
	fs.IntVar(
		&c.MaxEntryRetries,
		"max-entry-retries",
		c.MaxEntryRetries,
		"decode attempts before an entry is skipped",
	)
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.OtelEndpoint, "otel-endpoint", c.OtelEndpoint, "OTLP HTTP endpoint URL")
	fs.StringVar(&c.ProgramID, "program-id", c.ProgramID, "ledger program id (base58)")
}

func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %s", c.PollInterval))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", c.BatchSize))
	}
	if c.CheckpointEvery < 0 {
		errs = append(errs, fmt.Errorf("checkpoint interval must not be negative, got %d", c.CheckpointEvery))
	}
	if c.MaxEntryRetries <= 0 {
		errs = append(errs, fmt.Errorf("max entry retries must be positive, got %d", c.MaxEntryRetries))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Program(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}

// Program returns the configured program id
func (c *Config) Program() (identity.Address, error) {
	if c.ProgramID == "" {
		return identity.DefaultProgramID, nil
	}
	addr, err := identity.ParseAddress(c.ProgramID)
	if err != nil {
		return identity.Address{}, fmt.Errorf("invalid program id: %w", err)
	}
	return addr, nil
}
