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

package soul_test

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/blinklabs-io/cryptcards/internal/test"
	"github.com/blinklabs-io/cryptcards/soul"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diffCount(a, b soul.Seed) int {
	count := 0
	for i := range a {
		if a[i] != b[i] {
			count++
		}
	}
	return count
}

func TestComputeKnownVectors(t *testing.T) {
	testDefs := []struct {
		input   string
		seedHex string
	}{
		{
			input:   "",
			seedHex: "4b16fe7fdb1a6e7b433646ff335a864b2b46fe2f5b8a4e2b4306666f532ae67b",
		},
		{
			input:   "abc123",
			seedHex: "ffffac8790fce2bd53d4769d1fbc7a0d1b648e0dc79c72dd2354665d0ffc6aad",
		},
	}
	for _, testDef := range testDefs {
		seed := soul.ComputeString(testDef.input)
		assert.Equal(t, testDef.seedHex, seed.String(), "input %q", testDef.input)
	}
}

func TestComputeDeterministic(t *testing.T) {
	for i := range 100 {
		tx := test.MockTxHash(i)
		assert.Equal(t, soul.ComputeString(tx), soul.ComputeString(tx))
		assert.Equal(t, soul.ComputeString(tx), soul.Compute([]byte(tx)))
	}
}

func TestComputeUniqueness(t *testing.T) {
	seen := make(map[soul.Seed]int, 500)
	for i := range 500 {
		seed := soul.ComputeString(test.MockTxHash(i))
		prev, ok := seen[seed]
		require.False(t, ok, "seeds %d and %d collided", prev, i)
		seen[seed] = i
	}
}

func TestComputeAvalancheSingleCharChange(t *testing.T) {
	for i := range 50 {
		base := soul.ComputeString(fmt.Sprintf("test_tx_hash_%04d", i))
		changed := soul.ComputeString(fmt.Sprintf("test_tx_hash_%04d", i+1))
		assert.GreaterOrEqual(t, diffCount(base, changed), 14, "input %d", i)
	}
}

func TestComputeAvalancheRandomByteFlip(t *testing.T) {
	const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	rng := rand.New(rand.NewSource(42))
	const samples = 2000
	total := 0
	for range samples {
		buf := make([]byte, 88)
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		flipped := make([]byte, len(buf))
		copy(flipped, buf)
		pos := rng.Intn(len(buf))
		for flipped[pos] == buf[pos] {
			flipped[pos] = alphabet[rng.Intn(len(alphabet))]
		}
		total += diffCount(soul.Compute(buf), soul.Compute(flipped))
	}
	avg := float64(total) / samples
	assert.Greater(t, avg, 14.0, "average changed bytes %.2f", avg)
}

func TestComputeByteDistribution(t *testing.T) {
	var histogram [256]int
	for i := range 1000 {
		seed := soul.ComputeString(test.MockTxHash(i))
		for _, b := range seed {
			histogram[b]++
		}
	}
	seenValues := 0
	for _, count := range histogram {
		if count > 0 {
			seenValues++
		}
	}
	assert.Greater(t, seenValues, 200)
}

func TestComputeEdgeInputs(t *testing.T) {
	assert.Len(t, soul.ComputeString("").Bytes(), soul.SeedSize)
	long := soul.ComputeString(strings.Repeat("x", 10_000))
	assert.NotEqual(t, soul.Seed{}, long)
}

func TestVerify(t *testing.T) {
	seed := soul.ComputeString("4xK7m9pR2abc")
	assert.True(t, soul.Verify("4xK7m9pR2abc", seed))
	assert.False(t, soul.Verify("fake_tx", seed))
}

func TestUpgradeProof(t *testing.T) {
	seed := soul.ComputeString("abc123")
	proof := soul.UpgradeProof("abc123", seed, 2)
	assert.Equal(
		t,
		"8d00000000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(proof[:]),
	)
	assert.True(t, soul.VerifyUpgradeProof("abc123", seed, 2, proof))
	assert.False(t, soul.VerifyUpgradeProof("abc123", seed, 1, proof))
	assert.False(t, soul.VerifyUpgradeProof("abc123", seed, 2, soul.Seed{}))
	// A proof built over a mismatched transaction/seed pair is rejected
	otherSeed := soul.ComputeString("other_tx")
	assert.False(t, soul.VerifyUpgradeProof("abc123", seed, 2, soul.UpgradeProof("other_tx", seed, 2)))
	assert.False(t, soul.VerifyUpgradeProof("abc123", seed, 2, soul.UpgradeProof("abc123", otherSeed, 2)))
}

func TestExtractTraits(t *testing.T) {
	traits := soul.ExtractTraits(soul.ComputeString("abc123"))
	assert.Equal(
		t,
		soul.Traits{
			EyeStyle:    7,
			GlowEyes:    true,
			HatType:     22,
			GlassesType: 3,
			MouthItem:   0,
			NeckItem:    0,
			TeethStyle:  4,
			NoseStyle:   1,
			HasScar:     false,
			HasCrack:    true,
			HasEyepatch: false,
		},
		traits,
	)
	assert.Equal(t, "Backwards Cap", traits.HatName())
	assert.Equal(t, "Heart Glasses", traits.GlassesName())
	assert.Equal(t, uint8(3), traits.AccessoryCount())
}

func TestExtractTraitsRanges(t *testing.T) {
	for i := range 200 {
		traits := soul.ExtractTraits(soul.ComputeString(test.MockTxHash(i)))
		assert.Less(t, traits.EyeStyle, uint8(8))
		assert.Less(t, traits.HatType, uint8(30))
		assert.Less(t, traits.GlassesType, uint8(12))
		assert.Less(t, traits.NoseStyle, uint8(4))
		assert.LessOrEqual(t, traits.AccessoryCount(), uint8(7))
		assert.NotEmpty(t, traits.HatName())
	}
}

func TestHashNarration(t *testing.T) {
	h := soul.HashNarration("test")
	assert.Equal(
		t,
		"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		hex.EncodeToString(h[:]),
	)
	assert.NotEqual(t, h, soul.HashNarration("different"))
}
