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

package analytics_test

import (
	"testing"

	"github.com/blinklabs-io/cryptcards/analytics"
	"github.com/blinklabs-io/cryptcards/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDiamondHands(t *testing.T) {
	p, ok := analytics.DetectDiamondHands(10.0, 2.0, 8.0, "SOL")
	require.True(t, ok)
	assert.Equal(t, analytics.PatternDiamondHands, p.Kind)
	assert.Equal(t, uint32(80), p.Percent)
	assert.Equal(t, uint32(25), p.RarityBonus())
	assert.Equal(t, "HELD SOL THROUGH 80% DRAWDOWN", p.Title())
	assert.Equal(t, card.TypeDiamondHands, p.CardType())

	// Not enough drawdown
	_, ok = analytics.DetectDiamondHands(10.0, 8.0, 10.0, "SOL")
	assert.False(t, ok)
	// Did not recover to half the entry price
	_, ok = analytics.DetectDiamondHands(10.0, 1.0, 4.9, "SOL")
	assert.False(t, ok)
	_, ok = analytics.DetectDiamondHands(0, 0, 1, "SOL")
	assert.False(t, ok)

	p, ok = analytics.DetectDiamondHands(10.0, 1.0, 5.0, "SOL")
	require.True(t, ok)
	assert.Equal(t, uint32(40), p.RarityBonus())
	p, ok = analytics.DetectDiamondHands(10.0, 6.0, 10.0, "SOL")
	require.True(t, ok)
	assert.Equal(t, uint32(15), p.RarityBonus())
}

func TestDetectRugPull(t *testing.T) {
	p, ok := analytics.DetectRugPull(5.0, 0.01, "SQUID")
	require.True(t, ok)
	// 99.8% truncates to 99
	assert.Equal(t, uint32(99), p.Percent)
	assert.Equal(t, uint32(20), p.RarityBonus())
	assert.Equal(t, "SQUID - RUGGED (99% LOSS)", p.Title())
	assert.Equal(t, card.TypeRug, p.CardType())

	p, ok = analytics.DetectRugPull(5.0, 0, "SQUID")
	require.True(t, ok)
	assert.Equal(t, uint32(30), p.RarityBonus())

	_, ok = analytics.DetectRugPull(5.0, 3.0, "TOKEN")
	assert.False(t, ok)
	_, ok = analytics.DetectRugPull(-1, 0, "TOKEN")
	assert.False(t, ok)
}

func TestDetectQuickFlip(t *testing.T) {
	p, ok := analytics.DetectQuickFlip(1.0, 3.0, 3600, "BONK")
	require.True(t, ok)
	assert.Equal(t, uint32(200), p.Percent)
	assert.Equal(t, uint32(1), p.HoldHours)
	assert.Equal(t, uint32(25), p.RarityBonus())
	assert.Equal(t, "BONK FLIPPED +200% IN 1H", p.Title())
	assert.Equal(t, card.TypeSwap, p.CardType())

	_, ok = analytics.DetectQuickFlip(1.0, 3.0, 100000, "BONK")
	assert.False(t, ok)
	// Losing flips never match, even though the percentage is negative
	_, ok = analytics.DetectQuickFlip(3.0, 1.0, 60, "BONK")
	assert.False(t, ok)

	p, ok = analytics.DetectQuickFlip(1.0, 20.0, 86400, "WIF")
	require.True(t, ok)
	assert.Equal(t, uint32(40), p.RarityBonus())
	assert.Equal(t, uint32(24), p.HoldHours)
}

func TestDetectOtherPatterns(t *testing.T) {
	p, ok := analytics.DetectEarlyMint("DeGods", 5, 10000)
	require.True(t, ok)
	assert.Equal(t, "EARLY MINT #5 - DeGods", p.Title())
	assert.Equal(t, uint32(50), p.RarityBonus())
	late, ok := analytics.DetectEarlyMint("DeGods", 500, 10000)
	require.True(t, ok)
	assert.Greater(t, p.RarityBonus(), late.RarityBonus())
	_, ok = analytics.DetectEarlyMint("Big", 1500, 100000)
	assert.False(t, ok)
	_, ok = analytics.DetectEarlyMint("Huge", 1500, 1000000)
	assert.True(t, ok)
	_, ok = analytics.DetectEarlyMint("X", 0, 0)
	assert.False(t, ok)

	p, ok = analytics.DetectWhaleMove(500)
	require.True(t, ok)
	assert.Equal(t, "500 SOL WHALE MOVE", p.Title())
	assert.Equal(t, uint32(30), p.RarityBonus())
	assert.Equal(t, card.TypeBigMove, p.CardType())
	_, ok = analytics.DetectWhaleMove(100)
	assert.False(t, ok)

	p, ok = analytics.DetectColdStorage(75, true)
	require.True(t, ok)
	assert.Equal(t, "75 SOL TO COLD STORAGE", p.Title())
	_, ok = analytics.DetectColdStorage(75, false)
	assert.False(t, ok)
	_, ok = analytics.DetectColdStorage(49, true)
	assert.False(t, ok)

	p, ok = analytics.DetectGenesisTransaction(true)
	require.True(t, ok)
	assert.Equal(t, card.TypeMint, p.CardType())
	_, ok = analytics.DetectGenesisTransaction(false)
	assert.False(t, ok)

	p, ok = analytics.DetectCrashSurvivor(75.5, true)
	require.True(t, ok)
	assert.Equal(t, "SURVIVED 75% CRASH", p.Title())
	assert.Equal(t, uint32(45), p.RarityBonus())
	_, ok = analytics.DetectCrashSurvivor(75, false)
	assert.False(t, ok)

	p, ok = analytics.DetectAirdropReceiver("JUP", 0, 12)
	require.True(t, ok)
	assert.Equal(t, "JUP AIRDROP CLAIMED", p.Title())
	assert.Equal(t, uint32(30), p.RarityBonus())
	_, ok = analytics.DetectAirdropReceiver("JUP", 0.1, 12)
	assert.False(t, ok)

	p, ok = analytics.DetectTokenLauncher("CRYPT", 250)
	require.True(t, ok)
	assert.Equal(t, "LAUNCHED CRYPT", p.Title())
	_, ok = analytics.DetectTokenLauncher("CRYPT", 99)
	assert.False(t, ok)
}

func TestPatternCatalogue(t *testing.T) {
	patterns := []analytics.Pattern{
		{Kind: analytics.PatternDiamondHands, Token: "SOL", Percent: 75},
		{Kind: analytics.PatternRugPull, Token: "SQUID", Percent: 99},
		{Kind: analytics.PatternEarlyMint, Collection: "DeGods", MintNumber: 5, TotalSupply: 10000},
		{Kind: analytics.PatternQuickFlip, Token: "BONK", Percent: 20},
		{Kind: analytics.PatternWhaleMove, SolAmount: 500},
		{Kind: analytics.PatternColdStorage, SolAmount: 60},
		{Kind: analytics.PatternGenesisTransaction},
		{Kind: analytics.PatternCrashSurvivor, Percent: 55},
		{Kind: analytics.PatternAirdropReceiver, Token: "JUP"},
		{Kind: analytics.PatternTokenLauncher, Token: "CRYPT"},
	}
	for _, p := range patterns {
		assert.NotEmpty(t, p.Title(), p.Kind.String())
		assert.Positive(t, p.RarityBonus(), p.Kind.String())
		assert.True(t, p.CardType().Valid(), p.Kind.String())
	}
}

func TestDetectAll(t *testing.T) {
	matches := analytics.DetectAll(analytics.Observation{
		Token:            "BONK",
		BuyPrice:         10,
		LowPrice:         0.5,
		CurrentPrice:     0.5,
		SolAmount:        250,
		FreshDestination: true,
	})
	var kinds []analytics.PatternKind
	for _, m := range matches {
		kinds = append(kinds, m.Kind)
	}
	assert.Equal(
		t,
		[]analytics.PatternKind{
			analytics.PatternRugPull,
			analytics.PatternWhaleMove,
			analytics.PatternColdStorage,
		},
		kinds,
	)

	matches = analytics.DetectAll(analytics.Observation{
		Token:       "WIF",
		BuyPrice:    1,
		SellPrice:   2,
		Sold:        true,
		HoldSeconds: 7200,
		FirstTx:     true,
	})
	require.Len(t, matches, 2)
	assert.Equal(t, analytics.PatternQuickFlip, matches[0].Kind)
	assert.Equal(t, analytics.PatternGenesisTransaction, matches[1].Kind)

	assert.Empty(t, analytics.DetectAll(analytics.Observation{}))
}
