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

package cardledger

import (
	"github.com/blinklabs-io/cryptcards/card"
	"github.com/blinklabs-io/cryptcards/cbor"
	"github.com/blinklabs-io/cryptcards/identity"
	"github.com/blinklabs-io/cryptcards/soul"
)

// Field limits, in bytes
const (
	MaxTxHashLen     = 88
	MaxTitleLen      = 100
	MaxPlatformLen   = 32
	MaxPnlLen        = 32
	MaxSoundtrackLen = 32
	MaxURILen        = 200
)

// Reserved record sizes, used to size rent deposits. Each includes an 8 byte
// record header and the maximum length of every variable field.
const (
	CollectionSpace = 8 + 32 + 8 + 8 + (4 + MaxURILen) + 8 + 32 + 1 + 8 + 1

	CardSpace = 8 + 32 + 8 + (4 + MaxTxHashLen) + 1 + 1 + (4 + MaxTitleLen) +
		32 + 32 + (4 + MaxPlatformLen) + (4 + MaxPnlLen) + 8 + 8 + 8 +
		(4 + MaxSoundtrackLen) + 1

	InteractionSpace = 8 + 32 + 32 + 1 + 32 + 8 + 1
)

// Collection is the singleton configuration governing minting
type Collection struct {
	cbor.StructAsArray
	Authority identity.Address
	// TotalMinted never decreases and is also the next mint id
	TotalMinted uint64
	// MaxSupply of 0 means unbounded
	MaxSupply uint64
	URI       string
	MintFee   uint64
	Treasury  identity.Address
	Paused    bool
	CreatedAt int64
	Bump      uint8
}

func (c *Collection) CanMint() bool {
	return !c.Paused && (c.MaxSupply == 0 || c.TotalMinted < c.MaxSupply)
}

// Card is a minted card record
type Card struct {
	cbor.StructAsArray
	Owner            identity.Address
	MintID           uint64
	TxHash           string
	Rarity           card.Rarity
	CardType         card.Type
	Title            string
	NarrationHash    [32]byte
	SoulSeed         soul.Seed
	Platform         string
	Pnl              string
	TxTimestamp      int64
	MintedAt         int64
	InteractionCount uint64
	SoundtrackID     string
	Bump             uint8
}

// Interaction records that a user interacted with a card. There is at most
// one per (card, user) pair.
type Interaction struct {
	cbor.StructAsArray
	Card            identity.Address
	User            identity.Address
	InteractionType card.InteractionType
	CommentHash     [32]byte
	CreatedAt       int64
	Bump            uint8
}

// CollectionStats is the public view of the collection
type CollectionStats struct {
	Authority   identity.Address
	TotalMinted uint64
	MaxSupply   uint64
	MintFee     uint64
	Paused      bool
	CreatedAt   int64
}
