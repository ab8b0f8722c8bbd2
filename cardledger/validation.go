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
	"strings"

	"github.com/blinklabs-io/cryptcards/card"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// MintArgs describes one card to mint
type MintArgs struct {
	TxHash        string
	Rarity        card.Rarity
	CardType      card.Type
	Title         string
	NarrationHash [32]byte
	Platform      string
	Pnl           string
	TxTimestamp   int64
	SoundtrackID  string
}

// Validate checks field lengths and enum ranges
func (a *MintArgs) Validate() error {
	if len(a.TxHash) == 0 || len(a.TxHash) > MaxTxHashLen {
		return newError(CodeTxHashTooLong, "got %d bytes", len(a.TxHash))
	}
	if !a.Rarity.Valid() {
		return newError(CodeInvalidRarity, "got %d", uint8(a.Rarity))
	}
	if !a.CardType.Valid() {
		return newError(CodeInvalidCardType, "got %d", uint8(a.CardType))
	}
	if len(a.Title) > MaxTitleLen {
		return newError(CodeTitleTooLong, "got %d bytes", len(a.Title))
	}
	if len(a.Platform) > MaxPlatformLen {
		return newError(CodePlatformTooLong, "got %d bytes", len(a.Platform))
	}
	if len(a.Pnl) > MaxPnlLen {
		return newError(CodePnlTooLong, "got %d bytes", len(a.Pnl))
	}
	if len(a.SoundtrackID) > MaxSoundtrackLen {
		return newError(CodeSoundtrackTooLong, "got %d bytes", len(a.SoundtrackID))
	}
	return nil
}

func validateURI(uri string) error {
	if len(uri) > MaxURILen {
		return newError(CodeURITooLong, "got %d bytes", len(uri))
	}
	return nil
}

// IsValidTxSignature reports whether sig looks like a base58 transaction
// signature
func IsValidTxSignature(sig string) bool {
	if len(sig) < 32 || len(sig) > MaxTxHashLen {
		return false
	}
	for _, c := range sig {
		if !strings.ContainsRune(base58Alphabet, c) {
			return false
		}
	}
	return true
}

// IsValidWalletAddress reports whether addr has the shape of a base58 wallet
// address. It does not decode the address.
func IsValidWalletAddress(addr string) bool {
	if len(addr) < 32 || len(addr) > 44 {
		return false
	}
	for _, c := range addr {
		if !isASCIIAlphanumeric(c) {
			return false
		}
	}
	return true
}

func isASCIIAlphanumeric(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
