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

package test_ledger

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
	"github.com/blinklabs-io/cryptcards/soul"
)

// GenesisTime is the starting time of every mock clock
var GenesisTime = time.Unix(1700000000, 0).UTC()

// Clock is a manually advanced clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: GenesisTime}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ErrInjected is returned by mocks configured to fail
var ErrInjected = errors.New("injected failure")

// Log wraps a MemoryLog so appends and reads can be made to fail on demand
type Log struct {
	*eventlog.MemoryLog
	mu           sync.Mutex
	failAppends  bool
	failReads    int
	readAttempts int
}

func NewLog() *Log {
	return &Log{MemoryLog: eventlog.NewMemoryLog()}
}

// FailAppends makes every following Append fail until reset
func (l *Log) FailAppends(fail bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failAppends = fail
}

// FailReads makes the next n reads fail
func (l *Log) FailReads(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failReads = n
}

// ReadAttempts returns the number of EntriesAfter calls made so far
func (l *Log) ReadAttempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAttempts
}

func (l *Log) Append(logs []string) (uint64, error) {
	l.mu.Lock()
	fail := l.failAppends
	l.mu.Unlock()
	if fail {
		return 0, ErrInjected
	}
	return l.MemoryLog.Append(logs)
}

func (l *Log) EntriesAfter(
	ctx context.Context,
	after uint64,
	limit int,
) ([]eventlog.Entry, error) {
	l.mu.Lock()
	l.readAttempts++
	if l.failReads > 0 {
		l.failReads--
		l.mu.Unlock()
		return nil, ErrInjected
	}
	l.mu.Unlock()
	return l.MemoryLog.EntriesAfter(ctx, after, limit)
}

// Harness is a ledger backed by in-memory storage with a mock clock
type Harness struct {
	Store  *cardledger.MemoryStore
	Log    *Log
	Clock  *Clock
	Ledger *cardledger.Ledger
}

func NewHarness(t testing.TB, opts ...cardledger.LedgerOption) *Harness {
	t.Helper()
	h := &Harness{
		Store: cardledger.NewMemoryStore(),
		Log:   NewLog(),
		Clock: NewClock(),
	}
	opts = append([]cardledger.LedgerOption{cardledger.WithClock(h.Clock.Now)}, opts...)
	l, err := cardledger.New(h.Store, h.Log, opts...)
	if err != nil {
		t.Fatalf("unexpected error creating ledger: %s", err)
	}
	h.Ledger = l
	return h
}

// Initialize creates the collection with authority as owner and treasury
func (h *Harness) Initialize(
	t testing.TB,
	authority identity.Address,
	maxSupply uint64,
	mintFee uint64,
) {
	t.Helper()
	err := h.Ledger.InitializeCollection(
		authority,
		"https://crypt.cards/collection.json",
		maxSupply,
		mintFee,
	)
	if err != nil {
		t.Fatalf("unexpected error initializing collection: %s", err)
	}
}

// MintArgs returns valid mint arguments for a transaction
func MintArgs(txHash string, rarity card.Rarity) cardledger.MintArgs {
	return cardledger.MintArgs{
		TxHash:        txHash,
		Rarity:        rarity,
		CardType:      card.TypeSwap,
		Title:         "420.00 SOL SWAP on JUPITER",
		NarrationHash: soul.HashNarration("the chart went vertical"),
		Platform:      "JUPITER",
		Pnl:           "+69.0%",
		TxTimestamp:   GenesisTime.Unix() - 3600,
		SoundtrackID:  "track-01",
	}
}
