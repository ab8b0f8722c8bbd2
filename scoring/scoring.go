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

package scoring

import (
	"fmt"

	"github.com/blinklabs-io/cryptcards/card"
)

// Transaction types understood by the scorer
const (
	TxTypeSwap              = "SWAP"
	TxTypeNftMint           = "NFT_MINT"
	TxTypeCompressedNftMint = "COMPRESSED_NFT_MINT"
	TxTypeNftSale           = "NFT_SALE"
	TxTypeTransfer          = "TRANSFER"
	TxTypeSolTransfer       = "SOL_TRANSFER"
	TxTypeStakeSol          = "STAKE_SOL"
	TxTypeUnstakeSol        = "UNSTAKE_SOL"
	TxTypeTokenMint         = "TOKEN_MINT"
	TxTypeBurn              = "BURN"
	TxTypeBurnNft           = "BURN_NFT"
)

const (
	DefaultRareThreshold      uint32 = 40
	DefaultLegendaryThreshold uint32 = 75

	dustThreshold = 0.01
)

// Features is the per-transaction input to the scorer
type Features struct {
	TxType       string
	SolAmount    float64
	IsMemecoin   bool
	IsDefiSource bool
	NetSol       float64
}

// Result is a score together with its tier and the rules that produced it
type Result struct {
	Score   uint32
	Rarity  card.Rarity
	Factors []string
}

// Scorer maps scores to rarity tiers using configurable thresholds
type Scorer struct {
	RareThreshold      uint32
	LegendaryThreshold uint32
}

func DefaultScorer() Scorer {
	return Scorer{
		RareThreshold:      DefaultRareThreshold,
		LegendaryThreshold: DefaultLegendaryThreshold,
	}
}

func NewScorer(rare uint32, legendary uint32) Scorer {
	return Scorer{
		RareThreshold:      rare,
		LegendaryThreshold: legendary,
	}
}

func (s Scorer) Tier(score uint32) card.Rarity {
	switch {
	case score >= s.LegendaryThreshold:
		return card.RarityLegendary
	case score >= s.RareThreshold:
		return card.RarityRare
	default:
		return card.RarityCommon
	}
}

// Score returns the rarity score for a transaction. It never allocates
// factor strings, which keeps it cheap enough for bulk candidate scans.
func (s Scorer) Score(f Features) uint32 {
	return evaluate(f, nil)
}

// Explain scores a transaction and records one factor per rule that fired
func (s Scorer) Explain(f Features) Result {
	factors := make([]string, 0, 4)
	score := evaluate(f, &factors)
	return Result{
		Score:   score,
		Rarity:  s.Tier(score),
		Factors: factors,
	}
}

// Score evaluates a transaction with the default rules
func Score(
	txType string,
	solAmount float64,
	isMemecoin bool,
	isDefiSource bool,
	netSol float64,
) uint32 {
	return evaluate(
		Features{
			TxType:       txType,
			SolAmount:    solAmount,
			IsMemecoin:   isMemecoin,
			IsDefiSource: isDefiSource,
			NetSol:       netSol,
		},
		nil,
	)
}

// Tier maps a score to a rarity with the default thresholds
func Tier(score uint32) card.Rarity {
	return DefaultScorer().Tier(score)
}

type tally struct {
	score   int32
	factors *[]string
}

func (t *tally) add(points int32, format string, args ...any) {
	t.score += points
	if t.factors != nil {
		*t.factors = append(*t.factors, fmt.Sprintf(format, args...))
	}
}

func evaluate(f Features, factors *[]string) uint32 {
	t := &tally{factors: factors}
	sol := f.SolAmount
	switch f.TxType {
	case TxTypeSwap:
		t.add(25, "Base: SWAP (+25)")
		switch {
		case sol > 100:
			t.add(80, "Whale trade: %.1f SOL (+80)", sol)
		case sol > 50:
			t.add(60, "Large trade: %.1f SOL (+60)", sol)
		case sol > 10:
			t.add(35, "Notable trade: %.1f SOL (+35)", sol)
		case sol > 2:
			t.add(15, "Solid trade: %.1f SOL (+15)", sol)
		case sol > 0.5:
			t.add(5, "Small trade (+5)")
		default:
			t.add(-5, "Dust trade (-5)")
		}
		if f.IsDefiSource {
			t.add(5, "DeFi source (+5)")
		}
		if f.IsMemecoin {
			t.add(25, "Memecoin (+25)")
		}
	case TxTypeNftMint, TxTypeCompressedNftMint:
		t.add(35, "Base: NFT_MINT (+35)")
		switch {
		case sol > 10:
			t.add(40, "Premium mint: %.1f SOL (+40)", sol)
		case sol > 2:
			t.add(20, "Paid mint: %.1f SOL (+20)", sol)
		}
	case TxTypeNftSale:
		t.add(30, "Base: NFT_SALE (+30)")
		switch {
		case sol > 50:
			t.add(70, "Whale sale: %.1f SOL (+70)", sol)
		case sol > 10:
			t.add(40, "Big sale: %.1f SOL (+40)", sol)
		case sol > 2:
			t.add(15, "Sale: %.1f SOL (+15)", sol)
		default:
			t.add(-5, "Small sale (-5)")
		}
		if f.NetSol > 0 {
			t.add(20, "Profit (+20)")
		}
	case TxTypeTransfer, TxTypeSolTransfer:
		switch {
		case sol > 500:
			t.add(80, "Massive: %.0f SOL (+80)", sol)
		case sol > 100:
			t.add(55, "Whale move: %.0f SOL (+55)", sol)
		case sol > 20:
			t.add(25, "Big move: %.0f SOL (+25)", sol)
		case sol > 5:
			t.add(10, "Transfer (+10)")
		default:
			t.add(-15, "Small transfer (-15)")
		}
	case TxTypeStakeSol, TxTypeUnstakeSol:
		switch {
		case sol > 100:
			t.add(50, "Whale stake: %.0f SOL (+50)", sol)
		case sol > 20:
			t.add(25, "Stake: %.0f SOL (+25)", sol)
		default:
			t.add(5, "Small stake (+5)")
		}
	case TxTypeTokenMint:
		t.add(50, "Token creation (+50)")
	case TxTypeBurn, TxTypeBurnNft:
		t.add(20, "Burn (+20)")
	default:
		t.add(-20, "Unknown type: %s (-20)", f.TxType)
	}

	if sol < dustThreshold && !dustExempt(f.TxType) {
		t.add(-25, "Dust penalty (-25)")
	}

	if t.score < 0 {
		return 0
	}
	return uint32(t.score)
}

// Mints and burns are not about value moved
func dustExempt(txType string) bool {
	switch txType {
	case TxTypeNftMint,
		TxTypeCompressedNftMint,
		TxTypeTokenMint,
		TxTypeBurn,
		TxTypeBurnNft:
		return true
	}
	return false
}
