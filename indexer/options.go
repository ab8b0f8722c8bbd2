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

package indexer

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/cryptcards/identity"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultPollInterval    = 2 * time.Second
	DefaultBatchSize       = 100
	DefaultCheckpointEvery = 500
	DefaultMaxEntryRetries = 5
)

// IndexerConfig holds configuration for an Indexer
type IndexerConfig struct {
	// PollInterval is the delay between polls of the event log
	PollInterval time.Duration
	// BatchSize is the maximum number of entries read per poll
	BatchSize int
	Logger    *slog.Logger
	// Checkpointer persists the projection. Checkpointing is disabled when nil.
	Checkpointer Checkpointer
	// CheckpointEvery is the number of applied entries between checkpoints
	CheckpointEvery int
	// MaxEntryRetries is the number of consecutive decode failures after
	// which an entry is skipped
	MaxEntryRetries int
	// Tracer defaults to the global tracer provider
	Tracer trace.Tracer
	// ProgramID restricts indexing to entries that invoke this program.
	// Every entry is indexed when nil.
	ProgramID *identity.Address
}

func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		PollInterval:    DefaultPollInterval,
		BatchSize:       DefaultBatchSize,
		CheckpointEvery: DefaultCheckpointEvery,
		MaxEntryRetries: DefaultMaxEntryRetries,
	}
}

// IndexerOption is a functional option for configuring an Indexer
type IndexerOption func(*IndexerConfig)

func WithPollInterval(interval time.Duration) IndexerOption {
	return func(c *IndexerConfig) {
		if interval > 0 {
			c.PollInterval = interval
		}
	}
}

func WithBatchSize(size int) IndexerOption {
	return func(c *IndexerConfig) {
		if size > 0 {
			c.BatchSize = size
		}
	}
}

func WithLogger(logger *slog.Logger) IndexerOption {
	return func(c *IndexerConfig) {
		c.Logger = logger
	}
}

func WithCheckpointer(cp Checkpointer) IndexerOption {
	return func(c *IndexerConfig) {
		c.Checkpointer = cp
	}
}

// WithCheckpointEvery sets the number of applied entries between
// checkpoints. A value of 0 saves only on Stop.
func WithCheckpointEvery(n int) IndexerOption {
	return func(c *IndexerConfig) {
		if n >= 0 {
			c.CheckpointEvery = n
		}
	}
}

func WithMaxEntryRetries(n int) IndexerOption {
	return func(c *IndexerConfig) {
		if n > 0 {
			c.MaxEntryRetries = n
		}
	}
}

func WithTracer(tracer trace.Tracer) IndexerOption {
	return func(c *IndexerConfig) {
		c.Tracer = tracer
	}
}

// WithProgramID skips log entries that do not invoke programID
func WithProgramID(programID identity.Address) IndexerOption {
	return func(c *IndexerConfig) {
		c.ProgramID = &programID
	}
}
