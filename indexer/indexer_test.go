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

package indexer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/cryptcards/card"
	"github.com/blinklabs-io/cryptcards/cardledger"
	"github.com/blinklabs-io/cryptcards/eventlog"
	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/blinklabs-io/cryptcards/indexer"
	"github.com/blinklabs-io/cryptcards/internal/test"
	test_ledger "github.com/blinklabs-io/cryptcards/internal/test/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
)

type memoryCheckpointer struct {
	mu    sync.Mutex
	snap  *indexer.Snapshot
	saves int
	fail  bool
}

func (c *memoryCheckpointer) LoadCheckpoint(ctx context.Context) (*indexer.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap, nil
}

func (c *memoryCheckpointer) SaveCheckpoint(ctx context.Context, snap *indexer.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return test_ledger.ErrInjected
	}
	c.snap = snap
	c.saves++
	return nil
}

func (c *memoryCheckpointer) Saves() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

// replaySource hands back the entry at the cursor again on every read, the
// way an at-least-once source may
type replaySource struct {
	eventlog.Source
}

func (s *replaySource) EntriesAfter(
	ctx context.Context,
	after uint64,
	limit int,
) ([]eventlog.Entry, error) {
	if after > 0 {
		after--
	}
	return s.Source.EntriesAfter(ctx, after, limit)
}

func TestEndToEndIndexing(t *testing.T) {
	h := test_ledger.NewHarness(t)
	h.Initialize(t, testAuthority, 1000, 0)
	res, err := h.Ledger.Mint(testMinter, test_ledger.MintArgs("abc123", card.RarityCommon))
	require.NoError(t, err)
	require.NoError(t, h.Ledger.Transfer(testMinter, res.Address, testOther))
	require.NoError(t, h.Ledger.Burn(testOther, res.Address))

	idx := indexer.New(h.Log)
	n, err := idx.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	c, ok := idx.GetCard(0)
	require.True(t, ok)
	assert.True(t, c.Burned)
	assert.Empty(t, idx.CardsByOwner(testOther))
	counters := idx.Projection().Counters()
	assert.Equal(t, uint64(1), counters.TotalMinted)
	assert.Equal(t, uint64(1), counters.TotalBurned)
	assert.Equal(t, uint64(1), counters.TotalTransfers)

	stats := idx.Stats()
	assert.Equal(t, uint64(4), stats.Cursor)
	assert.Equal(t, uint64(4), stats.EntriesApplied)
	assert.Equal(t, uint64(3), stats.EventsApplied)
	assert.Equal(t, uint64(1), stats.Polls)

	// Nothing new
	n, err = idx.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	m := idx.CollectionMetrics(h.Clock.Now())
	assert.Equal(t, uint64(1), m.TotalCards)
	assert.Equal(t, uint64(0), m.ActiveCards)
}

func TestPollFiltersOtherPrograms(t *testing.T) {
	h := test_ledger.NewHarness(t)
	h.Initialize(t, testAuthority, 0, 0)
	otherProgram := test.MockAddress("other-program")
	other, err := cardledger.New(
		cardledger.NewMemoryStore(),
		h.Log,
		cardledger.WithClock(h.Clock.Now),
		cardledger.WithProgramID(otherProgram),
	)
	require.NoError(t, err)
	require.NoError(t, other.InitializeCollection(testAuthority, "", 0, 0))

	_, err = h.Ledger.Mint(testMinter, test_ledger.MintArgs("abc123", card.RarityCommon))
	require.NoError(t, err)
	_, err = other.Mint(testMinter, test_ledger.MintArgs("zzz999", card.RarityLegendary))
	require.NoError(t, err)

	idx := indexer.New(h.Log, indexer.WithProgramID(identity.DefaultProgramID))
	n, err := idx.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	c, ok := idx.GetCard(0)
	require.True(t, ok)
	assert.Equal(t, "abc123", c.TxHash)
	counters := idx.Projection().Counters()
	assert.Equal(t, uint64(1), counters.TotalMinted)
	assert.Equal(t, uint64(0), counters.RarityCounts[card.RarityLegendary])
	stats := idx.Stats()
	assert.Equal(t, uint64(4), stats.Cursor)
	assert.Equal(t, uint64(2), stats.EntriesApplied)
	assert.Equal(t, uint64(2), stats.FilteredEntries)

	// Without a program filter every entry is applied
	all := indexer.New(h.Log)
	_, err = all.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), all.Stats().EntriesApplied)
	assert.Equal(t, uint64(0), all.Stats().FilteredEntries)
}

func TestPollBatchSize(t *testing.T) {
	h := buildHistory(t)
	head, err := h.Log.Head(context.Background())
	require.NoError(t, err)

	idx := indexer.New(h.Log, indexer.WithBatchSize(3))
	n, err := idx.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint64(3), idx.Stats().Cursor)
	for idx.Stats().Cursor < head {
		_, err := idx.Poll(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, head, idx.Stats().Cursor)
}

func TestPollFetchFailure(t *testing.T) {
	h := buildHistory(t)
	h.Log.FailReads(2)
	idx := indexer.New(h.Log)

	for range 2 {
		n, err := idx.Poll(context.Background())
		require.Error(t, err)
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, indexer.ErrTransport)
		assert.ErrorIs(t, err, test_ledger.ErrInjected)
		var transportErr *indexer.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, "fetch", transportErr.Op)
	}
	assert.Equal(t, uint64(0), idx.Stats().Cursor)

	_, err := idx.Poll(context.Background())
	require.NoError(t, err)
	stats := idx.Stats()
	assert.Equal(t, uint64(2), stats.FetchErrors)
	assert.Equal(t, uint64(3), stats.Polls)
	assert.Equal(t, 3, h.Log.ReadAttempts())
	assert.Equal(t, uint64(4), idx.Projection().Counters().TotalMinted)
}

func TestPollSkipsPoisonEntry(t *testing.T) {
	h := test_ledger.NewHarness(t)
	h.Initialize(t, testAuthority, 0, 0)
	_, err := h.Ledger.Mint(testMinter, test_ledger.MintArgs(test.MockTxHash(0), card.RarityCommon))
	require.NoError(t, err)
	_, err = h.Log.MemoryLog.Append([]string{"Program data: !!not base64!!"})
	require.NoError(t, err)
	_, err = h.Ledger.Mint(testMinter, test_ledger.MintArgs(test.MockTxHash(1), card.RarityCommon))
	require.NoError(t, err)

	idx := indexer.New(h.Log, indexer.WithMaxEntryRetries(3))
	for range 2 {
		_, err := idx.Poll(context.Background())
		require.ErrorIs(t, err, indexer.ErrTransport)
		var transportErr *indexer.TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, "decode", transportErr.Op)
		assert.Equal(t, uint64(3), transportErr.Seq)
		// Entries before the bad one are kept
		assert.Equal(t, uint64(2), idx.Stats().Cursor)
	}

	n, err := idx.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	stats := idx.Stats()
	assert.Equal(t, uint64(4), stats.Cursor)
	assert.Equal(t, uint64(3), stats.DecodeErrors)
	assert.Equal(t, uint64(1), stats.SkippedEntries)
	assert.Equal(t, uint64(2), idx.Projection().Counters().TotalMinted)
}

func TestPollSkipsDuplicateEntries(t *testing.T) {
	h := buildHistory(t)
	idx := indexer.New(&replaySource{Source: h.Log})

	_, err := idx.Poll(context.Background())
	require.NoError(t, err)
	before := idx.Projection().Counters()
	digest, err := idx.Projection().Digest()
	require.NoError(t, err)

	n, err := idx.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, before, idx.Projection().Counters())
	after, err := idx.Projection().Digest()
	require.NoError(t, err)
	assert.Equal(t, digest, after)
	assert.Equal(t, uint64(1), idx.Stats().DuplicatesSkipped)
}

func TestCheckpointing(t *testing.T) {
	h := buildHistory(t)
	cp := &memoryCheckpointer{}
	idx := indexer.New(
		h.Log,
		indexer.WithCheckpointer(cp),
		indexer.WithCheckpointEvery(4),
		indexer.WithBatchSize(3),
	)
	_, err := idx.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cp.Saves())
	_, err = idx.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cp.Saves())
	assert.Equal(t, uint64(6), cp.snap.Cursor)

	cp.fail = true
	require.ErrorIs(t, idx.Checkpoint(context.Background()), test_ledger.ErrInjected)
	assert.Equal(t, uint64(1), idx.Stats().CheckpointErrors)
	cp.fail = false

	restored := indexer.New(h.Log, indexer.WithCheckpointer(cp))
	require.NoError(t, restored.Restore(context.Background()))
	assert.Equal(t, uint64(6), restored.Stats().Cursor)
	want, err := idx.Projection().Digest()
	require.NoError(t, err)
	got, err := restored.Projection().Digest()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := buildHistory(t)
	cp := &memoryCheckpointer{}
	idx := indexer.New(
		h.Log,
		indexer.WithCheckpointer(cp),
		indexer.WithPollInterval(5*time.Millisecond),
		indexer.WithCheckpointEvery(0),
	)
	require.ErrorIs(t, idx.Stop(), indexer.ErrNotStarted)
	require.NoError(t, idx.Start(context.Background()))
	require.ErrorIs(t, idx.Start(context.Background()), indexer.ErrAlreadyStarted)

	head, err := h.Log.Head(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return idx.Stats().Cursor == head
	}, 2*time.Second, 5*time.Millisecond)

	// New entries are picked up while running
	_, err = h.Ledger.Mint(testOther, test_ledger.MintArgs("late", card.RarityRare))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return idx.Stats().Cursor == head+1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, cp.Saves())

	require.NoError(t, idx.Stop())
	assert.Equal(t, 1, cp.Saves())
	assert.Equal(t, head+1, cp.snap.Cursor)

	// A restarted indexer resumes from the checkpoint
	idx = indexer.New(
		h.Log,
		indexer.WithCheckpointer(cp),
		indexer.WithPollInterval(5*time.Millisecond),
	)
	require.NoError(t, idx.Start(context.Background()))
	assert.Equal(t, head+1, idx.Stats().Cursor)
	require.NoError(t, idx.Stop())
}

func TestRunSurvivesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := buildHistory(t)
	h.Log.FailReads(3)
	idx := indexer.New(h.Log, indexer.WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		idx.Run(ctx)
	}()
	head, err := h.Log.Head(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return idx.Stats().Cursor == head
	}, 2*time.Second, time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, uint64(3), idx.Stats().FetchErrors)
}

func TestPollSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	h := buildHistory(t)
	h.Log.FailReads(1)
	idx := indexer.New(h.Log, indexer.WithTracer(tp.Tracer("test")))
	_, err := idx.Poll(context.Background())
	require.Error(t, err)
	_, err = idx.Poll(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, "indexer.poll", span.Name())
	}
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.NotEqual(t, codes.Error, spans[1].Status().Code)
}
