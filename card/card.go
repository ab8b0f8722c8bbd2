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

// Package card holds the enumerations shared by every component that deals
// with crypt cards: rarity tiers, card types and interaction types.
package card

import (
	"fmt"
	"strings"
)

const (
	// MaxBatchSize is the largest number of cards a single batch mint may create
	MaxBatchSize = 8

	NumRarities = 3
	NumTypes    = 5
)

type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityLegendary
)

var rarityNames = [NumRarities]string{"COMMON", "RARE", "LEGENDARY"}

func (r Rarity) String() string {
	if !r.Valid() {
		return fmt.Sprintf("RARITY(%d)", uint8(r))
	}
	return rarityNames[r]
}

func (r Rarity) Valid() bool {
	return r < NumRarities
}

// CanUpgradeTo reports whether a card of rarity r may move to target.
// Rarity never decreases, and staying at the same tier is not an upgrade.
func (r Rarity) CanUpgradeTo(target Rarity) bool {
	return target.Valid() && target > r
}

// ParseRarity accepts a rarity name in any case
func ParseRarity(name string) (Rarity, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range rarityNames {
		if n == upper {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rarity: %q", name)
}

type Type uint8

const (
	TypeSwap Type = iota
	TypeRug
	TypeMint
	TypeDiamondHands
	TypeBigMove
)

var typeNames = [NumTypes]string{
	"SWAP",
	"RUG",
	"MINT",
	"DIAMOND_HANDS",
	"BIG_MOVE",
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TYPE(%d)", uint8(t))
	}
	return typeNames[t]
}

func (t Type) Valid() bool {
	return t < NumTypes
}

type InteractionType uint8

const (
	InteractionLike InteractionType = iota
	InteractionComment
	InteractionShare
	InteractionBookmark
)

func (i InteractionType) String() string {
	switch i {
	case InteractionLike:
		return "LIKE"
	case InteractionComment:
		return "COMMENT"
	case InteractionShare:
		return "SHARE"
	case InteractionBookmark:
		return "BOOKMARK"
	default:
		return fmt.Sprintf("INTERACTION(%d)", uint8(i))
	}
}

func (i InteractionType) Valid() bool {
	return i <= InteractionBookmark
}
