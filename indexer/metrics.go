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
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks indexer activity. Counters are safe for concurrent use.
type Metrics struct {
	polls             atomic.Uint64
	entriesApplied    atomic.Uint64
	eventsApplied     atomic.Uint64
	duplicatesSkipped atomic.Uint64
	fetchErrors       atomic.Uint64
	decodeErrors      atomic.Uint64
	skippedEntries    atomic.Uint64
	filteredEntries   atomic.Uint64
	checkpointsSaved  atomic.Uint64
	checkpointErrors  atomic.Uint64

	mu           sync.RWMutex
	lastPollTime time.Time
	startTime    time.Time
}

// Stats is a point-in-time copy of the indexer metrics
type Stats struct {
	Polls             uint64
	EntriesApplied    uint64
	EventsApplied     uint64
	DuplicatesSkipped uint64
	FetchErrors       uint64
	DecodeErrors      uint64
	SkippedEntries    uint64
	FilteredEntries   uint64
	CheckpointsSaved  uint64
	CheckpointErrors  uint64
	Cursor            uint64
	LastPollTime      time.Time
	StartTime         time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

func (m *Metrics) RecordPoll(err error) {
	m.polls.Add(1)
	if err != nil {
		m.fetchErrors.Add(1)
	}
	m.mu.Lock()
	m.lastPollTime = time.Now()
	m.mu.Unlock()
}

// RecordApply records one log entry. Entries that were already applied count
// as duplicates.
func (m *Metrics) RecordApply(events int, applied bool) {
	if !applied {
		m.duplicatesSkipped.Add(1)
		return
	}
	m.entriesApplied.Add(1)
	m.eventsApplied.Add(uint64(events)) // #nosec G115
}

func (m *Metrics) RecordDecodeError() {
	m.decodeErrors.Add(1)
}

func (m *Metrics) RecordSkip() {
	m.skippedEntries.Add(1)
}

// RecordFiltered counts an entry that belongs to another program
func (m *Metrics) RecordFiltered() {
	m.filteredEntries.Add(1)
}

func (m *Metrics) RecordCheckpoint(err error) {
	if err != nil {
		m.checkpointErrors.Add(1)
	} else {
		m.checkpointsSaved.Add(1)
	}
}

func (m *Metrics) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Polls:             m.polls.Load(),
		EntriesApplied:    m.entriesApplied.Load(),
		EventsApplied:     m.eventsApplied.Load(),
		DuplicatesSkipped: m.duplicatesSkipped.Load(),
		FetchErrors:       m.fetchErrors.Load(),
		DecodeErrors:      m.decodeErrors.Load(),
		SkippedEntries:    m.skippedEntries.Load(),
		FilteredEntries:   m.filteredEntries.Load(),
		CheckpointsSaved:  m.checkpointsSaved.Load(),
		CheckpointErrors:  m.checkpointErrors.Load(),
		LastPollTime:      m.lastPollTime,
		StartTime:         m.startTime,
	}
}
