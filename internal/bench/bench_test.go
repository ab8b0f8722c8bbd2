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

package bench

import (
	"testing"

	"github.com/blinklabs-io/cryptcards/cardledger"
	"github.com/blinklabs-io/cryptcards/event"
	"github.com/blinklabs-io/cryptcards/eventlog"
	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/blinklabs-io/cryptcards/indexer"
	"github.com/blinklabs-io/cryptcards/scoring"
	"github.com/blinklabs-io/cryptcards/soul"
)

func BenchmarkSoulCompute(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = soul.ComputeString(SampleTxHash)
	}
}

func BenchmarkScore(b *testing.B) {
	f := scoring.Features{
		TxType:       scoring.TxTypeSwap,
		SolAmount:    150,
		IsDefiSource: true,
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = scoring.DefaultScorer().Score(f)
	}
}

func BenchmarkExplain(b *testing.B) {
	f := scoring.Features{
		TxType:       scoring.TxTypeSwap,
		SolAmount:    150,
		IsMemecoin:   true,
		IsDefiSource: true,
		NetSol:       -12,
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = scoring.DefaultScorer().Explain(f)
	}
}

func BenchmarkDeriveCardAddress(b *testing.B) {
	minter := identity.HashAddress([]byte("bench-minter"))
	b.ReportAllocs()
	for b.Loop() {
		_ = identity.CardAddress(identity.DefaultProgramID, SampleTxHash, minter)
	}
}

func BenchmarkEventEncode(b *testing.B) {
	e := SampleMinted()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := event.Encode(e); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEventDecode(b *testing.B) {
	data, err := event.Encode(SampleMinted())
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := event.Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLedgerMint(b *testing.B) {
	l, err := cardledger.New(cardledger.NewMemoryStore(), eventlog.NewMemoryLog())
	if err != nil {
		b.Fatal(err)
	}
	authority := identity.HashAddress([]byte("bench-authority"))
	if err := l.InitializeCollection(authority, "", 0, 0); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	i := 0
	for b.Loop() {
		if _, err := l.Mint(authority, SampleMintArgs(i)); err != nil {
			b.Fatal(err)
		}
		i++
	}
}

func BenchmarkProjectionReplay(b *testing.B) {
	log, err := BuildLog(500)
	if err != nil {
		b.Fatal(err)
	}
	entries, err := LoadEntries(log)
	if err != nil {
		b.Fatal(err)
	}
	parsed := make([][]event.Event, len(entries))
	for i, entry := range entries {
		parsed[i], err = event.ParseLogs(entry.Logs)
		if err != nil {
			b.Fatal(err)
		}
	}
	b.ReportAllocs()
	for b.Loop() {
		p := indexer.NewProjection()
		for i, entry := range entries {
			p.Apply(entry.Seq, parsed[i])
		}
	}
}

func BenchmarkSnapshotDigest(b *testing.B) {
	log, err := BuildLog(500)
	if err != nil {
		b.Fatal(err)
	}
	idx := indexer.New(log, indexer.WithBatchSize(10000))
	if _, err := idx.Poll(b.Context()); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := idx.Projection().Digest(); err != nil {
			b.Fatal(err)
		}
	}
}
