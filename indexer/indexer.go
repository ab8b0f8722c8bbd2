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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/cryptcards/analytics"
	"github.com/blinklabs-io/cryptcards/event"
	"github.com/blinklabs-io/cryptcards/eventlog"
	"github.com/blinklabs-io/cryptcards/identity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/blinklabs-io/cryptcards/indexer"

// Checkpointer persists projection snapshots between runs
type Checkpointer interface {
	// LoadCheckpoint returns the newest saved snapshot, or nil if there is none
	LoadCheckpoint(ctx context.Context) (*Snapshot, error)
	SaveCheckpoint(ctx context.Context, snap *Snapshot) error
}

// Indexer follows the ledger event log and maintains a Projection of it
type Indexer struct {
	config     IndexerConfig
	source     eventlog.Source
	projection *Projection
	metrics    *Metrics
	logger     *slog.Logger
	tracer     trace.Tracer

	// lifecycle
	mu     sync.Mutex
	cancel context.CancelFunc
	doneCh chan struct{}

	// pollMu guards the fields below and serializes polls
	pollMu          sync.Mutex
	sinceCheckpoint int
	failedSeq       uint64
	failures        int
}

func New(source eventlog.Source, opts ...IndexerOption) *Indexer {
	cfg := DefaultIndexerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Indexer{
		config:     cfg,
		source:     source,
		projection: NewProjection(),
		metrics:    NewMetrics(),
		logger:     logger.With("component", "indexer"),
		tracer:     tracer,
	}
}

// Start restores the last checkpoint and runs the poll loop in the
// background until Stop is called or ctx is done
func (i *Indexer) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cancel != nil {
		return ErrAlreadyStarted
	}
	if err := i.Restore(ctx); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	i.cancel = cancel
	i.doneCh = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		i.Run(runCtx)
	}(i.doneCh)
	return nil
}

// Stop halts the poll loop, waits for it to exit and saves a final checkpoint
func (i *Indexer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cancel == nil {
		return ErrNotStarted
	}
	i.cancel()
	<-i.doneCh
	i.cancel = nil
	i.doneCh = nil
	return i.Checkpoint(context.Background())
}

// Run polls the event log until ctx is done. Poll failures are logged and
// retried on the next tick.
func (i *Indexer) Run(ctx context.Context) {
	i.logger.Info(
		"indexer running",
		"cursor", i.projection.Cursor(),
		"poll_interval", i.config.PollInterval,
	)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			i.logger.Info("indexer stopped", "cursor", i.projection.Cursor())
			return
		case <-timer.C:
		}
		n, err := i.Poll(ctx)
		if err != nil && ctx.Err() == nil {
			i.logger.Warn("poll failed", "error", err)
		}
		wait := i.config.PollInterval
		// Keep reading while the log is ahead of us
		if err == nil && n >= i.config.BatchSize {
			wait = 0
		}
		timer.Reset(wait)
	}
}

// Poll reads and applies one batch of log entries and returns the number of
// entries consumed. Failures are returned as *TransportError.
func (i *Indexer) Poll(ctx context.Context) (int, error) {
	i.pollMu.Lock()
	defer i.pollMu.Unlock()
	cursor := i.projection.Cursor()
	ctx, span := i.tracer.Start(
		ctx,
		"indexer.poll",
		trace.WithAttributes(
			attribute.Int64("indexer.cursor", int64(cursor)), // #nosec G115
		),
	)
	defer span.End()
	n, err := i.poll(ctx, cursor)
	span.SetAttributes(
		attribute.Int("indexer.entries", n),
		attribute.Int64("indexer.cursor_after", int64(i.projection.Cursor())), // #nosec G115
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return n, err
}

func (i *Indexer) poll(ctx context.Context, cursor uint64) (int, error) {
	entries, err := i.source.EntriesAfter(ctx, cursor, i.config.BatchSize)
	i.metrics.RecordPoll(err)
	if err != nil {
		return 0, &TransportError{Op: "fetch", Err: err}
	}
	consumed := 0
	for _, entry := range entries {
		if !i.ownsEntry(entry) {
			if i.projection.Skip(entry.Seq) {
				i.metrics.RecordFiltered()
				i.sinceCheckpoint++
			}
			consumed++
			continue
		}
		events, err := event.ParseLogs(entry.Logs)
		if err != nil {
			i.metrics.RecordDecodeError()
			if !i.retriesExhausted(entry.Seq) {
				i.checkpointIfDue(ctx)
				return consumed, &TransportError{Op: "decode", Seq: entry.Seq, Err: err}
			}
			i.logger.Error(
				"skipping undecodable log entry",
				"seq", entry.Seq,
				"attempts", i.failures,
				"error", err,
			)
			i.failedSeq, i.failures = 0, 0
			if i.projection.Skip(entry.Seq) {
				i.metrics.RecordSkip()
				i.sinceCheckpoint++
			}
			consumed++
			continue
		}
		applied := i.projection.Apply(entry.Seq, events)
		i.metrics.RecordApply(len(events), applied)
		consumed++
		if !applied {
			i.logger.Debug("skipped duplicate log entry", "seq", entry.Seq)
			continue
		}
		i.sinceCheckpoint++
		for _, e := range events {
			i.logger.Debug(
				"applied event",
				"seq", entry.Seq,
				"kind", e.Kind().String(),
				"mint_id", e.CardID(),
			)
		}
	}
	i.checkpointIfDue(ctx)
	return consumed, nil
}

func (i *Indexer) ownsEntry(entry eventlog.Entry) bool {
	if i.config.ProgramID == nil {
		return true
	}
	return event.InvokesProgram(entry.Logs, i.config.ProgramID.String())
}

func (i *Indexer) retriesExhausted(seq uint64) bool {
	if seq != i.failedSeq {
		i.failedSeq = seq
		i.failures = 0
	}
	i.failures++
	return i.failures >= i.config.MaxEntryRetries
}

func (i *Indexer) checkpointIfDue(ctx context.Context) {
	if i.config.CheckpointEvery <= 0 || i.sinceCheckpoint < i.config.CheckpointEvery {
		return
	}
	if err := i.checkpoint(ctx); err != nil {
		i.logger.Warn("checkpoint failed", "error", err)
	}
}

// Checkpoint saves the current projection through the configured
// Checkpointer. It does nothing when none is configured.
func (i *Indexer) Checkpoint(ctx context.Context) error {
	i.pollMu.Lock()
	defer i.pollMu.Unlock()
	return i.checkpoint(ctx)
}

func (i *Indexer) checkpoint(ctx context.Context) error {
	if i.config.Checkpointer == nil {
		return nil
	}
	snap := i.projection.Snapshot()
	err := i.config.Checkpointer.SaveCheckpoint(ctx, snap)
	i.metrics.RecordCheckpoint(err)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	i.sinceCheckpoint = 0
	i.logger.Debug("saved checkpoint", "cursor", snap.Cursor)
	return nil
}

// Restore loads the newest checkpoint into the projection if it is ahead of
// the current state
func (i *Indexer) Restore(ctx context.Context) error {
	if i.config.Checkpointer == nil {
		return nil
	}
	i.pollMu.Lock()
	defer i.pollMu.Unlock()
	snap, err := i.config.Checkpointer.LoadCheckpoint(ctx)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	if snap == nil || snap.Cursor <= i.projection.Cursor() {
		return nil
	}
	if err := i.projection.Restore(snap); err != nil {
		return fmt.Errorf("restore checkpoint: %w", err)
	}
	i.logger.Info(
		"restored checkpoint",
		"cursor", snap.Cursor,
		"cards", len(snap.Cards),
	)
	return nil
}

func (i *Indexer) Projection() *Projection {
	return i.projection
}

// Stats returns the indexer metrics along with the current cursor
func (i *Indexer) Stats() Stats {
	ret := i.metrics.Stats()
	ret.Cursor = i.projection.Cursor()
	return ret
}

// GetCard returns a card by mint id. Burned cards are still returned.
func (i *Indexer) GetCard(mintID uint64) (IndexedCard, bool) {
	return i.projection.Card(mintID)
}

// CardsByOwner returns the live cards held by owner
func (i *Indexer) CardsByOwner(owner identity.Address) []IndexedCard {
	return i.projection.CardsByOwner(owner)
}

func (i *Indexer) CollectionMetrics(now time.Time) analytics.CollectionMetrics {
	return i.projection.Metrics(now)
}
