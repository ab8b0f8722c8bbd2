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

package soul

import (
	"crypto/sha256"
	"encoding/hex"
)

const SeedSize = 32

const (
	// Mix stage multipliers. These must never change: stored seeds of
	// existing cards are recomputed with them during verification.
	mixMultiplierA uint64 = 0x517cc1b727220a95
	mixMultiplierB uint64 = 0x6c62272e07bb0142
	// Proof mixing multiplier
	proofMultiplier uint64 = 0x9e3779b97f4a7c15

	forwardAddend  byte = 37
	backwardAddend byte = 53
)

// Seed is the 32-byte soul seed derived from a transaction identifier
type Seed [SeedSize]byte

func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}

func (s Seed) Bytes() []byte {
	return s[:]
}

// Compute derives the soul seed for a transaction identifier.
//
// The cascade is not cryptographic. It is tuned for uniformly distributed
// visual parameters: fold the input into 32 positions, run two
// multiply/xor-shift rounds per position, then chain neighbouring bytes
// forwards and backwards so a single changed input byte reaches every output
// position.
func Compute(txHash []byte) Seed {
	var seed Seed

	// Fold
	for i, b := range txHash {
		seed[i%SeedSize] ^= b
	}

	// Mix
	for i := range seed {
		h := uint64(seed[i])
		h *= mixMultiplierA
		h ^= h >> 17
		h *= mixMultiplierB
		h ^= h >> 11
		seed[i] = byte(h)
	}

	// Diffuse
	for i := 1; i < SeedSize; i++ {
		seed[i] ^= seed[i-1] + forwardAddend
	}
	for i := SeedSize - 2; i >= 0; i-- {
		seed[i] ^= seed[i+1] + backwardAddend
	}

	return seed
}

// ComputeString is Compute over the UTF-8 bytes of a transaction signature
func ComputeString(txHash string) Seed {
	return Compute([]byte(txHash))
}

// Verify reports whether stored is the seed for txHash
func Verify(txHash string, stored Seed) bool {
	return ComputeString(txHash) == stored
}

// UpgradeProof returns the proof a card with the given transaction and seed
// must present to move to newRarity
func UpgradeProof(txHash string, seed Seed, newRarity uint8) Seed {
	proof := ComputeString(txHash)
	for i := range proof {
		proof[i] ^= seed[i]
	}
	proof[0] ^= newRarity
	for i := range proof {
		h := uint64(proof[i])
		h *= proofMultiplier
		h ^= h >> 13
		proof[i] = byte(h)
	}
	return proof
}

// VerifyUpgradeProof checks proof against the expected upgrade proof
func VerifyUpgradeProof(
	txHash string,
	seed Seed,
	newRarity uint8,
	proof Seed,
) bool {
	return UpgradeProof(txHash, seed, newRarity) == proof
}

// HashNarration returns the SHA-256 digest stored as a card's narration hash
func HashNarration(text string) [32]byte {
	return sha256.Sum256([]byte(text))
}
