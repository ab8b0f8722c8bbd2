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

package event

import (
	"crypto/sha256"
	"fmt"

	"github.com/blinklabs-io/cryptcards/card"
	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/blinklabs-io/cryptcards/soul"
)

const DiscriminatorSize = 8

type Kind uint8

const (
	KindCardMinted Kind = iota + 1
	KindCardTransferred
	KindCardBurned
	KindRarityUpgraded
	KindCardInteraction
	KindCardVerified
)

var kindNames = map[Kind]string{
	KindCardMinted:      "CardMinted",
	KindCardTransferred: "CardTransferred",
	KindCardBurned:      "CardBurned",
	KindRarityUpgraded:  "RarityUpgraded",
	KindCardInteraction: "CardInteraction",
	KindCardVerified:    "CardVerified",
}

var (
	discriminators       = map[Kind][DiscriminatorSize]byte{}
	kindsByDiscriminator = map[[DiscriminatorSize]byte]Kind{}
)

func init() {
	for kind, name := range kindNames {
		sum := sha256.Sum256([]byte(name))
		var disc [DiscriminatorSize]byte
		copy(disc[:], sum[:DiscriminatorSize])
		discriminators[kind] = disc
		kindsByDiscriminator[disc] = kind
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Discriminator is the first 8 bytes of the SHA-256 digest of the event name
func (k Kind) Discriminator() [DiscriminatorSize]byte {
	return discriminators[k]
}

// Event is one of the ledger events. The set of implementations is closed.
type Event interface {
	Kind() Kind
	// CardID is the mint id of the card the event is about
	CardID() uint64
	encode(w *writer)
	decode(r *reader)
}

type CardMinted struct {
	MintID    uint64
	Owner     identity.Address
	TxHash    string
	Rarity    card.Rarity
	CardType  card.Type
	Title     string
	SoulSeed  soul.Seed
	Timestamp int64
}

func (e *CardMinted) Kind() Kind     { return KindCardMinted }
func (e *CardMinted) CardID() uint64 { return e.MintID }

func (e *CardMinted) encode(w *writer) {
	w.u64(e.MintID)
	w.fixed(e.Owner[:])
	w.str(e.TxHash)
	w.u8(uint8(e.Rarity))
	w.u8(uint8(e.CardType))
	w.str(e.Title)
	w.fixed(e.SoulSeed[:])
	w.i64(e.Timestamp)
}

func (e *CardMinted) decode(r *reader) {
	e.MintID = r.u64()
	r.fixed(e.Owner[:])
	e.TxHash = r.str()
	e.Rarity = card.Rarity(r.u8())
	e.CardType = card.Type(r.u8())
	e.Title = r.str()
	r.fixed(e.SoulSeed[:])
	e.Timestamp = r.i64()
}

type CardTransferred struct {
	MintID    uint64
	From      identity.Address
	To        identity.Address
	TxHash    string
	Timestamp int64
}

func (e *CardTransferred) Kind() Kind     { return KindCardTransferred }
func (e *CardTransferred) CardID() uint64 { return e.MintID }

func (e *CardTransferred) encode(w *writer) {
	w.u64(e.MintID)
	w.fixed(e.From[:])
	w.fixed(e.To[:])
	w.str(e.TxHash)
	w.i64(e.Timestamp)
}

func (e *CardTransferred) decode(r *reader) {
	e.MintID = r.u64()
	r.fixed(e.From[:])
	r.fixed(e.To[:])
	e.TxHash = r.str()
	e.Timestamp = r.i64()
}

type CardBurned struct {
	MintID    uint64
	Owner     identity.Address
	TxHash    string
	Rarity    card.Rarity
	Timestamp int64
}

func (e *CardBurned) Kind() Kind     { return KindCardBurned }
func (e *CardBurned) CardID() uint64 { return e.MintID }

func (e *CardBurned) encode(w *writer) {
	w.u64(e.MintID)
	w.fixed(e.Owner[:])
	w.str(e.TxHash)
	w.u8(uint8(e.Rarity))
	w.i64(e.Timestamp)
}

func (e *CardBurned) decode(r *reader) {
	e.MintID = r.u64()
	r.fixed(e.Owner[:])
	e.TxHash = r.str()
	e.Rarity = card.Rarity(r.u8())
	e.Timestamp = r.i64()
}

type RarityUpgraded struct {
	MintID    uint64
	Owner     identity.Address
	OldRarity card.Rarity
	NewRarity card.Rarity
	Timestamp int64
}

func (e *RarityUpgraded) Kind() Kind     { return KindRarityUpgraded }
func (e *RarityUpgraded) CardID() uint64 { return e.MintID }

func (e *RarityUpgraded) encode(w *writer) {
	w.u64(e.MintID)
	w.fixed(e.Owner[:])
	w.u8(uint8(e.OldRarity))
	w.u8(uint8(e.NewRarity))
	w.i64(e.Timestamp)
}

func (e *RarityUpgraded) decode(r *reader) {
	e.MintID = r.u64()
	r.fixed(e.Owner[:])
	e.OldRarity = card.Rarity(r.u8())
	e.NewRarity = card.Rarity(r.u8())
	e.Timestamp = r.i64()
}

type CardInteraction struct {
	CardMintID      uint64
	User            identity.Address
	InteractionType card.InteractionType
	Timestamp       int64
}

func (e *CardInteraction) Kind() Kind     { return KindCardInteraction }
func (e *CardInteraction) CardID() uint64 { return e.CardMintID }

func (e *CardInteraction) encode(w *writer) {
	w.u64(e.CardMintID)
	w.fixed(e.User[:])
	w.u8(uint8(e.InteractionType))
	w.i64(e.Timestamp)
}

func (e *CardInteraction) decode(r *reader) {
	e.CardMintID = r.u64()
	r.fixed(e.User[:])
	e.InteractionType = card.InteractionType(r.u8())
	e.Timestamp = r.i64()
}

type CardVerified struct {
	MintID    uint64
	TxHash    string
	Verified  bool
	Timestamp int64
}

func (e *CardVerified) Kind() Kind     { return KindCardVerified }
func (e *CardVerified) CardID() uint64 { return e.MintID }

func (e *CardVerified) encode(w *writer) {
	w.u64(e.MintID)
	w.str(e.TxHash)
	w.boolean(e.Verified)
	w.i64(e.Timestamp)
}

func (e *CardVerified) decode(r *reader) {
	e.MintID = r.u64()
	e.TxHash = r.str()
	e.Verified = r.boolean()
	e.Timestamp = r.i64()
}

func newEvent(kind Kind) Event {
	switch kind {
	case KindCardMinted:
		return &CardMinted{}
	case KindCardTransferred:
		return &CardTransferred{}
	case KindCardBurned:
		return &CardBurned{}
	case KindRarityUpgraded:
		return &RarityUpgraded{}
	case KindCardInteraction:
		return &CardInteraction{}
	case KindCardVerified:
		return &CardVerified{}
	}
	return nil
}
