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

// Package bench provides benchmarks and allocation regression tests for the
// hot paths of card minting and indexing.
package bench

import (
	"context"
	"fmt"

	"github.com/blinklabs-io/cryptcards/card"
	"github.com/blinklabs-io/cryptcards/cardledger"
	"github.com/blinklabs-io/cryptcards/event"
	"github.com/blinklabs-io/cryptcards/eventlog"
	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/blinklabs-io/cryptcards/soul"
)

// SampleTxHash is a realistic 88 character transaction signature
const SampleTxHash = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"

// SampleMinted returns a fully populated CardMinted event
func SampleMinted() *event.CardMinted {
	return &event.CardMinted{
		MintID:    42,
		Owner:     identity.HashAddress([]byte("bench-owner")),
		TxHash:    SampleTxHash,
		Rarity:    card.RarityLegendary,
		CardType:  card.TypeBigMove,
		Title:     "150.00 SOL SWAP on JUPITER",
		SoulSeed:  soul.ComputeString(SampleTxHash),
		Timestamp: 1700000000,
	}
}

// SampleMintArgs returns valid mint arguments for the i-th transaction
func SampleMintArgs(i int) cardledger.MintArgs {
	return cardledger.MintArgs{
		TxHash:        fmt.Sprintf("bench-tx-%06d", i),
		Rarity:        card.Rarity(i % card.NumRarities),
		CardType:      card.Type(i % card.NumTypes),
		Title:         "42.00 SOL SWAP on RAYDIUM",
		NarrationHash: soul.HashNarration("bench"),
		Platform:      "RAYDIUM",
		Pnl:           "+12.0%",
		TxTimestamp:   1700000000,
	}
}

// BuildLog returns an event log holding an initialized collection followed by
// n minted cards, with every third card transferred
func BuildLog(n int) (*eventlog.MemoryLog, error) {
	log := eventlog.NewMemoryLog()
	l, err := cardledger.New(cardledger.NewMemoryStore(), log)
	if err != nil {
		return nil, err
	}
	authority := identity.HashAddress([]byte("bench-authority"))
	minter := identity.HashAddress([]byte("bench-minter"))
	other := identity.HashAddress([]byte("bench-other"))
	if err := l.InitializeCollection(authority, "", 0, 0); err != nil {
		return nil, err
	}
	for i := range n {
		res, err := l.Mint(minter, SampleMintArgs(i))
		if err != nil {
			return nil, err
		}
		if i%3 == 0 {
			if err := l.Transfer(minter, res.Address, other); err != nil {
				return nil, err
			}
		}
	}
	return log, nil
}

// LoadEntries reads every entry of log
func LoadEntries(log eventlog.Source) ([]eventlog.Entry, error) {
	ctx := context.Background()
	head, err := log.Head(ctx)
	if err != nil {
		return nil, err
	}
	if head == 0 {
		return nil, nil
	}
	return log.EntriesAfter(ctx, 0, int(head)) // #nosec G115
}
