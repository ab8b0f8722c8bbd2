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

package analytics

import (
	"fmt"
	"math"

	"github.com/blinklabs-io/cryptcards/card"
)

type PatternKind uint8

const (
	PatternDiamondHands PatternKind = iota
	PatternRugPull
	PatternEarlyMint
	PatternQuickFlip
	PatternWhaleMove
	PatternColdStorage
	PatternGenesisTransaction
	PatternCrashSurvivor
	PatternAirdropReceiver
	PatternTokenLauncher
)

func (k PatternKind) String() string {
	switch k {
	case PatternDiamondHands:
		return "DiamondHands"
	case PatternRugPull:
		return "RugPull"
	case PatternEarlyMint:
		return "EarlyMint"
	case PatternQuickFlip:
		return "QuickFlip"
	case PatternWhaleMove:
		return "WhaleMove"
	case PatternColdStorage:
		return "ColdStorage"
	case PatternGenesisTransaction:
		return "GenesisTransaction"
	case PatternCrashSurvivor:
		return "CrashSurvivor"
	case PatternAirdropReceiver:
		return "AirdropReceiver"
	case PatternTokenLauncher:
		return "TokenLauncher"
	default:
		return fmt.Sprintf("PatternKind(%d)", uint8(k))
	}
}

// Detector thresholds
const (
	diamondHandsMinDrawdownPct = 30
	diamondHandsMinRecovery    = 0.5
	rugPullMinLossPct          = 90
	quickFlipMaxHoldSeconds    = 86400
	quickFlipMinProfitPct      = 20
	earlyMintMaxNumber         = 1000
	earlyMintSupplyPct         = 1
	whaleMoveMinSol            = 100.0
	coldStorageMinSol          = 50.0
	crashSurvivorMinDrawdown   = 50
	tokenLauncherMinVolumeSol  = 100.0
)

// Pattern is a detected notable moment. Only the fields relevant to Kind are
// populated.
type Pattern struct {
	Kind PatternKind
	// Token symbol or name for token-based patterns
	Token string
	// Collection name for EarlyMint
	Collection string
	// Drawdown, loss or profit percentage, truncated
	Percent     uint32
	MintNumber  uint32
	TotalSupply uint32
	HoldHours   uint32
	SolAmount   float64
}

// CardType is the card type a card minted for this pattern should carry
func (p Pattern) CardType() card.Type {
	switch p.Kind {
	case PatternDiamondHands, PatternCrashSurvivor:
		return card.TypeDiamondHands
	case PatternRugPull:
		return card.TypeRug
	case PatternEarlyMint, PatternGenesisTransaction, PatternTokenLauncher:
		return card.TypeMint
	case PatternWhaleMove, PatternColdStorage:
		return card.TypeBigMove
	default:
		return card.TypeSwap
	}
}

// RarityBonus is added to the transaction score when the pattern matches
func (p Pattern) RarityBonus() uint32 {
	switch p.Kind {
	case PatternDiamondHands:
		return tiered(float64(p.Percent), 80, 40, 50, 25, 15)
	case PatternRugPull:
		return tiered(float64(p.Percent), 99, 30, 90, 20, 10)
	case PatternEarlyMint:
		switch {
		case p.MintNumber <= 10:
			return 50
		case p.MintNumber <= 100:
			return 30
		}
		return 15
	case PatternQuickFlip:
		return tiered(float64(p.Percent), 1000, 40, 100, 25, 10)
	case PatternWhaleMove:
		return tiered(p.SolAmount, 1000, 50, 100, 30, 15)
	case PatternColdStorage:
		return 20
	case PatternGenesisTransaction:
		return 35
	case PatternCrashSurvivor:
		if p.Percent > 70 {
			return 45
		}
		return 25
	case PatternAirdropReceiver:
		if p.SolAmount > 10 {
			return 30
		}
		return 10
	case PatternTokenLauncher:
		return 40
	}
	return 0
}

func tiered(v float64, high float64, highBonus uint32, mid float64, midBonus uint32, base uint32) uint32 {
	switch {
	case v > high:
		return highBonus
	case v > mid:
		return midBonus
	}
	return base
}

// Title renders the card title for the pattern
func (p Pattern) Title() string {
	switch p.Kind {
	case PatternDiamondHands:
		return fmt.Sprintf("HELD %s THROUGH %d%% DRAWDOWN", p.Token, p.Percent)
	case PatternRugPull:
		return fmt.Sprintf("%s - RUGGED (%d%% LOSS)", p.Token, p.Percent)
	case PatternEarlyMint:
		return fmt.Sprintf("EARLY MINT #%d - %s", p.MintNumber, p.Collection)
	case PatternQuickFlip:
		return fmt.Sprintf("%s FLIPPED +%d%% IN %dH", p.Token, p.Percent, p.HoldHours)
	case PatternWhaleMove:
		return fmt.Sprintf("%.0f SOL WHALE MOVE", p.SolAmount)
	case PatternColdStorage:
		return fmt.Sprintf("%.0f SOL TO COLD STORAGE", p.SolAmount)
	case PatternGenesisTransaction:
		return "GENESIS - FIRST TRANSACTION"
	case PatternCrashSurvivor:
		return fmt.Sprintf("SURVIVED %d%% CRASH", p.Percent)
	case PatternAirdropReceiver:
		return fmt.Sprintf("%s AIRDROP CLAIMED", p.Token)
	case PatternTokenLauncher:
		return fmt.Sprintf("LAUNCHED %s", p.Token)
	}
	return p.Kind.String()
}

// percent truncates toward zero and saturates at the uint32 range
func percent(v float64) uint32 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(v)
}

// DetectDiamondHands matches a position held through at least a 30%
// drawdown that is still worth half its entry price
func DetectDiamondHands(buy, low, current float64, token string) (Pattern, bool) {
	if buy <= 0 {
		return Pattern{}, false
	}
	drawdown := percent((buy - low) / buy * 100)
	if drawdown < diamondHandsMinDrawdownPct || current < buy*diamondHandsMinRecovery {
		return Pattern{}, false
	}
	return Pattern{
		Kind:    PatternDiamondHands,
		Token:   token,
		Percent: drawdown,
	}, true
}

// DetectRugPull matches a position that lost at least 90% of its value
func DetectRugPull(buy, current float64, token string) (Pattern, bool) {
	if buy <= 0 {
		return Pattern{}, false
	}
	loss := percent((buy - current) / buy * 100)
	if loss < rugPullMinLossPct {
		return Pattern{}, false
	}
	return Pattern{
		Kind:    PatternRugPull,
		Token:   token,
		Percent: loss,
	}, true
}

// DetectQuickFlip matches a sale within a day of purchase at 20% or more profit
func DetectQuickFlip(buy, sell float64, holdSeconds uint64, token string) (Pattern, bool) {
	if buy <= 0 || holdSeconds > quickFlipMaxHoldSeconds {
		return Pattern{}, false
	}
	profit := percent((sell - buy) / buy * 100)
	if profit < quickFlipMinProfitPct {
		return Pattern{}, false
	}
	return Pattern{
		Kind:      PatternQuickFlip,
		Token:     token,
		Percent:   profit,
		HoldHours: uint32(holdSeconds / 3600),
	}, true
}

// DetectEarlyMint matches a mint among the first 1000 of a collection, or
// within the first 1% of its supply. Mint numbers start at 1.
func DetectEarlyMint(collection string, mintNumber, totalSupply uint32) (Pattern, bool) {
	if mintNumber == 0 {
		return Pattern{}, false
	}
	early := mintNumber <= earlyMintMaxNumber ||
		(totalSupply > 0 && uint64(mintNumber)*100 <= uint64(totalSupply)*earlyMintSupplyPct)
	if !early {
		return Pattern{}, false
	}
	return Pattern{
		Kind:        PatternEarlyMint,
		Collection:  collection,
		MintNumber:  mintNumber,
		TotalSupply: totalSupply,
	}, true
}

// DetectWhaleMove matches a single transaction moving more than 100 SOL
func DetectWhaleMove(solAmount float64) (Pattern, bool) {
	if solAmount <= whaleMoveMinSol {
		return Pattern{}, false
	}
	return Pattern{Kind: PatternWhaleMove, SolAmount: solAmount}, true
}

// DetectColdStorage matches a transfer of at least 50 SOL to an address with
// no prior history
func DetectColdStorage(solAmount float64, freshDestination bool) (Pattern, bool) {
	if !freshDestination || solAmount < coldStorageMinSol {
		return Pattern{}, false
	}
	return Pattern{Kind: PatternColdStorage, SolAmount: solAmount}, true
}

// DetectGenesisTransaction matches the first transaction of a wallet
func DetectGenesisTransaction(firstTx bool) (Pattern, bool) {
	if !firstTx {
		return Pattern{}, false
	}
	return Pattern{Kind: PatternGenesisTransaction}, true
}

// DetectCrashSurvivor matches a wallet still holding after a market drawdown
// of at least 50%
func DetectCrashSurvivor(marketDrawdownPct float64, stillHolding bool) (Pattern, bool) {
	drawdown := percent(marketDrawdownPct)
	if !stillHolding || drawdown < crashSurvivorMinDrawdown {
		return Pattern{}, false
	}
	return Pattern{Kind: PatternCrashSurvivor, Percent: drawdown}, true
}

// DetectAirdropReceiver matches tokens of positive value received without
// paying any SOL
func DetectAirdropReceiver(token string, solPaid, valueSol float64) (Pattern, bool) {
	if token == "" || solPaid != 0 || valueSol <= 0 {
		return Pattern{}, false
	}
	return Pattern{
		Kind:      PatternAirdropReceiver,
		Token:     token,
		SolAmount: valueSol,
	}, true
}

// DetectTokenLauncher matches a token created by the wallet that went on to
// trade at least 100 SOL of volume
func DetectTokenLauncher(token string, volumeSol float64) (Pattern, bool) {
	if token == "" || volumeSol < tokenLauncherMinVolumeSol {
		return Pattern{}, false
	}
	return Pattern{
		Kind:      PatternTokenLauncher,
		Token:     token,
		SolAmount: volumeSol,
	}, true
}

// Observation collects everything the scanner knows about one transaction
// and the position around it. Zero values mean "not applicable".
type Observation struct {
	Token string
	// Prices in SOL
	BuyPrice     float64
	LowPrice     float64
	CurrentPrice float64
	SellPrice    float64
	Sold         bool
	HoldSeconds  uint64

	Collection  string
	MintNumber  uint32
	TotalSupply uint32

	SolAmount        float64
	FreshDestination bool
	FirstTx          bool

	MarketDrawdownPct float64
	StillHolding      bool

	AirdropValueSol float64
	SolPaid         float64

	TokenCreated    bool
	LaunchVolumeSol float64
}

// DetectAll runs every detector against o and returns the matches in
// catalogue order. Choosing between matches is left to the caller.
func DetectAll(o Observation) []Pattern {
	var ret []Pattern
	add := func(p Pattern, ok bool) {
		if ok {
			ret = append(ret, p)
		}
	}
	if !o.Sold {
		add(DetectDiamondHands(o.BuyPrice, o.LowPrice, o.CurrentPrice, o.Token))
		add(DetectRugPull(o.BuyPrice, o.CurrentPrice, o.Token))
	}
	add(DetectEarlyMint(o.Collection, o.MintNumber, o.TotalSupply))
	if o.Sold {
		add(DetectQuickFlip(o.BuyPrice, o.SellPrice, o.HoldSeconds, o.Token))
	}
	add(DetectWhaleMove(o.SolAmount))
	add(DetectColdStorage(o.SolAmount, o.FreshDestination))
	add(DetectGenesisTransaction(o.FirstTx))
	add(DetectCrashSurvivor(o.MarketDrawdownPct, o.StillHolding))
	if o.AirdropValueSol > 0 {
		add(DetectAirdropReceiver(o.Token, o.SolPaid, o.AirdropValueSol))
	}
	if o.TokenCreated {
		add(DetectTokenLauncher(o.Token, o.LaunchVolumeSol))
	}
	return ret
}
