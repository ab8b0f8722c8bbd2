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

// Package eventlog defines the append-only log that carries ledger events to
// the indexer, along with an in-memory implementation.
package eventlog

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var ErrInvalidLimit = errors.New("limit must be positive")

// Entry is one committed ledger operation. Seq starts at 1 and increases by
// one for every entry, so a cursor of 0 means nothing has been read.
type Entry struct {
	Seq  uint64
	Logs []string
}

// Appender adds the log lines of one committed operation and returns the
// sequence number assigned to it
type Appender interface {
	Append(logs []string) (uint64, error)
}

// Source reads entries in sequence order
type Source interface {
	// EntriesAfter returns up to limit entries with Seq greater than after
	EntriesAfter(ctx context.Context, after uint64, limit int) ([]Entry, error)
	// Head returns the sequence number of the newest entry
	Head(ctx context.Context) (uint64, error)
}

type Log interface {
	Appender
	Source
}

// MemoryLog is a Log held in memory
type MemoryLog struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(logs []string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq := uint64(len(l.entries)) + 1
	l.entries = append(
		l.entries,
		Entry{Seq: seq, Logs: slices.Clone(logs)},
	)
	return seq, nil
}

func (l *MemoryLog) EntriesAfter(
	ctx context.Context,
	after uint64,
	limit int,
) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if after >= uint64(len(l.entries)) {
		return nil, nil
	}
	end := min(after+uint64(limit), uint64(len(l.entries)))
	ret := make([]Entry, 0, end-after)
	for _, e := range l.entries[after:end] {
		ret = append(ret, Entry{Seq: e.Seq, Logs: slices.Clone(e.Logs)})
	}
	return ret, nil
}

func (l *MemoryLog) Head(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.entries)), nil
}
