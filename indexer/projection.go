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
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/blinklabs-io/cryptcards/analytics"
	"github.com/blinklabs-io/cryptcards/card"
	"github.com/blinklabs-io/cryptcards/cbor"
	"github.com/blinklabs-io/cryptcards/event"
	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/blinklabs-io/cryptcards/soul"
	"golang.org/x/crypto/blake2b"
)

const transferWindow = 24 * 60 * 60

// IndexedCard is the projected view of a card
type IndexedCard struct {
	cbor.StructAsArray
	MintID           uint64
	Minter           identity.Address
	Owner            identity.Address
	TxHash           string
	Rarity           card.Rarity
	CardType         card.Type
	Title            string
	SoulSeed         soul.Seed
	InteractionCount uint64
	MintedAt         int64
	LastTransferAt   int64
	Burned           bool
	BurnedAt         int64
}

// Address returns the ledger address of the card under programID
func (c *IndexedCard) Address(programID identity.Address) identity.Address {
	return identity.CardAddress(programID, c.TxHash, c.Minter)
}

// Counters are the aggregate statistics of the projection
type Counters struct {
	cbor.StructAsArray
	TotalMinted        uint64
	TotalBurned        uint64
	TotalTransfers     uint64
	TotalInteractions  uint64
	TotalUpgrades      uint64
	TotalVerifications uint64
	// RarityCounts follows upgrades but is not reduced by burns
	RarityCounts [card.NumRarities]uint64
	TypeCounts   [card.NumTypes]uint64
}

// Snapshot is the serializable state of a Projection
type Snapshot struct {
	cbor.StructAsArray
	Cursor        uint64
	Cards         []IndexedCard
	Counters      Counters
	TransferTimes []int64
}

// Digest returns the BLAKE2b-256 hash of the snapshot's CBOR encoding
func (s *Snapshot) Digest() ([32]byte, error) {
	data, err := cbor.Encode(s)
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// Projection is the read model built from ledger events. Each log entry is
// applied at most once, tracked by the sequence cursor.
type Projection struct {
	mu       sync.RWMutex
	cursor   uint64
	cards    map[uint64]*IndexedCard
	owners   map[identity.Address]map[uint64]struct{}
	counters Counters
	// transfer timestamps within the last window, relative to the newest
	transferTimes []int64
}

func NewProjection() *Projection {
	return &Projection{
		cards:  make(map[uint64]*IndexedCard),
		owners: make(map[identity.Address]map[uint64]struct{}),
	}
}

// Cursor returns the sequence number of the last applied entry
func (p *Projection) Cursor() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cursor
}

// Apply applies the events of the log entry seq as a unit. It returns false
// without changing anything when seq has already been applied.
func (p *Projection) Apply(seq uint64, events []event.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq <= p.cursor {
		return false
	}
	for _, e := range events {
		p.applyEvent(e)
	}
	p.cursor = seq
	return true
}

// Skip advances the cursor past seq without applying anything
func (p *Projection) Skip(seq uint64) bool {
	return p.Apply(seq, nil)
}

func (p *Projection) applyEvent(e event.Event) {
	switch e := e.(type) {
	case *event.CardMinted:
		if _, ok := p.cards[e.MintID]; ok {
			return
		}
		p.cards[e.MintID] = &IndexedCard{
			MintID:   e.MintID,
			Minter:   e.Owner,
			Owner:    e.Owner,
			TxHash:   e.TxHash,
			Rarity:   e.Rarity,
			CardType: e.CardType,
			Title:    e.Title,
			SoulSeed: e.SoulSeed,
			MintedAt: e.Timestamp,
		}
		p.addOwner(e.Owner, e.MintID)
		p.counters.TotalMinted++
		if e.Rarity.Valid() {
			p.counters.RarityCounts[e.Rarity]++
		}
		if e.CardType.Valid() {
			p.counters.TypeCounts[e.CardType]++
		}
	case *event.CardTransferred:
		if c, ok := p.cards[e.MintID]; ok && !c.Burned {
			p.removeOwner(c.Owner, e.MintID)
			c.Owner = e.To
			c.LastTransferAt = e.Timestamp
			p.addOwner(e.To, e.MintID)
		}
		p.counters.TotalTransfers++
		p.recordTransfer(e.Timestamp)
	case *event.CardBurned:
		if c, ok := p.cards[e.MintID]; ok && !c.Burned {
			c.Burned = true
			c.BurnedAt = e.Timestamp
			p.removeOwner(c.Owner, e.MintID)
		}
		p.counters.TotalBurned++
	case *event.RarityUpgraded:
		if c, ok := p.cards[e.MintID]; ok {
			if c.Rarity.Valid() && p.counters.RarityCounts[c.Rarity] > 0 {
				p.counters.RarityCounts[c.Rarity]--
			}
			c.Rarity = e.NewRarity
			if e.NewRarity.Valid() {
				p.counters.RarityCounts[e.NewRarity]++
			}
		}
		p.counters.TotalUpgrades++
	case *event.CardInteraction:
		if c, ok := p.cards[e.CardMintID]; ok && c.InteractionCount < math.MaxUint64 {
			c.InteractionCount++
		}
		p.counters.TotalInteractions++
	case *event.CardVerified:
		p.counters.TotalVerifications++
	}
}

func (p *Projection) addOwner(owner identity.Address, mintID uint64) {
	ids, ok := p.owners[owner]
	if !ok {
		ids = make(map[uint64]struct{})
		p.owners[owner] = ids
	}
	ids[mintID] = struct{}{}
}

func (p *Projection) removeOwner(owner identity.Address, mintID uint64) {
	ids, ok := p.owners[owner]
	if !ok {
		return
	}
	delete(ids, mintID)
	if len(ids) == 0 {
		delete(p.owners, owner)
	}
}

func (p *Projection) recordTransfer(ts int64) {
	p.transferTimes = append(p.transferTimes, ts)
	newest := slices.Max(p.transferTimes)
	p.transferTimes = slices.DeleteFunc(p.transferTimes, func(t int64) bool {
		return t < newest-transferWindow
	})
}

// Card returns the card with the given mint id. Burned cards are returned
// with Burned set.
func (p *Projection) Card(mintID uint64) (IndexedCard, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.cards[mintID]
	if !ok {
		return IndexedCard{}, false
	}
	return *c, true
}

// CardsByOwner returns the unburned cards held by owner in mint order
func (p *Projection) CardsByOwner(owner identity.Address) []IndexedCard {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := p.owners[owner]
	ret := make([]IndexedCard, 0, len(ids))
	for id := range ids {
		ret = append(ret, *p.cards[id])
	}
	slices.SortFunc(ret, func(a, b IndexedCard) int {
		return cmp.Compare(a.MintID, b.MintID)
	})
	return ret
}

func (p *Projection) Counters() Counters {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counters
}

// Metrics computes collection metrics as of now
func (p *Projection) Metrics(now time.Time) analytics.CollectionMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ts := now.Unix()
	ret := analytics.CollectionMetrics{
		TotalCards:        p.counters.TotalMinted,
		BurnedCards:       p.counters.TotalBurned,
		UniqueOwners:      uint64(len(p.owners)),
		TotalInteractions: p.counters.TotalInteractions,
	}
	for _, c := range p.cards {
		if ts-c.MintedAt <= transferWindow {
			ret.MintsLast24h++
		}
		if ts-c.MintedAt <= 7*transferWindow {
			ret.MintsLast7d++
		}
		if c.Burned {
			continue
		}
		ret.ActiveCards++
		ret.Rarity.Add(c.Rarity)
		ret.Types.Add(c.CardType)
	}
	if ret.ActiveCards > 0 {
		ret.AvgInteractionsPerCard = float64(ret.TotalInteractions) / float64(ret.ActiveCards)
	}
	for _, t := range p.transferTimes {
		if ts-t <= transferWindow {
			ret.TransfersLast24h++
		}
	}
	return ret
}

// Snapshot returns a deep copy of the projection state. Cards are ordered by
// mint id so equal projections produce equal encodings.
func (p *Projection) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ret := &Snapshot{
		Cursor:   p.cursor,
		Cards:    make([]IndexedCard, 0, len(p.cards)),
		Counters: p.counters,
	}
	for _, c := range p.cards {
		ret.Cards = append(ret.Cards, *c)
	}
	slices.SortFunc(ret.Cards, func(a, b IndexedCard) int {
		return cmp.Compare(a.MintID, b.MintID)
	})
	if len(p.transferTimes) > 0 {
		ret.TransferTimes = slices.Clone(p.transferTimes)
	}
	return ret
}

// Digest returns the digest of the current snapshot
func (p *Projection) Digest() ([32]byte, error) {
	return p.Snapshot().Digest()
}

// Restore replaces the projection state with snap
func (p *Projection) Restore(snap *Snapshot) error {
	var tmp Snapshot
	if err := cbor.Clone(&tmp, snap); err != nil {
		return fmt.Errorf("copy snapshot: %w", err)
	}
	cards := make(map[uint64]*IndexedCard, len(tmp.Cards))
	owners := make(map[identity.Address]map[uint64]struct{})
	for i := range tmp.Cards {
		c := &tmp.Cards[i]
		if _, ok := cards[c.MintID]; ok {
			return fmt.Errorf("snapshot has duplicate card #%d", c.MintID)
		}
		cards[c.MintID] = c
		if c.Burned {
			continue
		}
		ids, ok := owners[c.Owner]
		if !ok {
			ids = make(map[uint64]struct{})
			owners[c.Owner] = ids
		}
		ids[c.MintID] = struct{}{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor = tmp.Cursor
	p.cards = cards
	p.owners = owners
	p.counters = tmp.Counters
	p.transferTimes = tmp.TransferTimes
	return nil
}
