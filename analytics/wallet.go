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

import "fmt"

type Archetype uint8

const (
	ArchetypeNewcomer Archetype = iota
	ArchetypeGhost
	ArchetypeBuilder
	ArchetypeWhale
	ArchetypeDegen
	ArchetypeCollector
	ArchetypeFarmer
	ArchetypeExplorer
)

var archetypeInfo = map[Archetype]struct {
	name   string
	flavor string
}{
	ArchetypeNewcomer: {
		"NEWCOMER",
		"Fresh address. Clean slate. Everything ahead is unwritten.",
	},
	ArchetypeGhost: {
		"GHOST",
		"Long silence between transactions. But when it moves, it means something.",
	},
	ArchetypeBuilder: {
		"BUILDER",
		"From zero to contract address. Creating something from nothing.",
	},
	ArchetypeWhale: {
		"WHALE",
		"The water parts when this wallet moves. Everyone watches. Nobody leads.",
	},
	ArchetypeDegen: {
		"DEGEN",
		"A creature of pure instinct. Charts are suggestions. Sleep is optional.",
	},
	ArchetypeCollector: {
		"COLLECTOR",
		"Every mint is a bet on culture. Every sale is a statement.",
	},
	ArchetypeFarmer: {
		"FARMER",
		"Patient capital. Compounding faith. The long game is the only game.",
	},
	ArchetypeExplorer: {
		"EXPLORER",
		"No pattern. No thesis. Just motion. Sometimes that's enough.",
	},
}

func (a Archetype) String() string {
	if info, ok := archetypeInfo[a]; ok {
		return info.name
	}
	return fmt.Sprintf("Archetype(%d)", uint8(a))
}

// Flavor returns the narration text used on cards for the archetype
func (a Archetype) Flavor() string {
	return archetypeInfo[a].flavor
}

const secondsPerDay = 86400

// WalletStats is the aggregate history of a wallet
type WalletStats struct {
	TotalTxs             uint64
	SwapCount            uint64
	NftCount             uint64
	TransferCount        uint64
	StakeCount           uint64
	TokenCreates         uint64
	Burns                uint64
	MemecoinTrades       uint64
	MaxSolMoved          float64
	TotalSolVolume       float64
	AvgTxValueSol        float64
	UniqueTokensTraded   uint64
	UniqueNftCollections uint64
	FirstTxTimestamp     int64
	LastTxTimestamp      int64
	ActiveDays           uint64
	LongestGapDays       uint64
}

// Classify assigns the wallet an archetype. The rules overlap, so they are
// evaluated in priority order and the first match wins.
func (s WalletStats) Classify() Archetype {
	if s.TotalTxs < 5 {
		return ArchetypeNewcomer
	}
	if s.LongestGapDays > 90 && s.TotalTxs < 20 {
		return ArchetypeGhost
	}
	total := float64(s.TotalTxs)
	swapRatio := float64(s.SwapCount) / total
	nftRatio := float64(s.NftCount) / total
	stakeRatio := float64(s.StakeCount) / total
	var memecoinRatio float64
	if s.SwapCount > 0 {
		memecoinRatio = float64(s.MemecoinTrades) / float64(s.SwapCount)
	}
	switch {
	case s.TokenCreates >= 2:
		return ArchetypeBuilder
	case s.AvgTxValueSol > 50 || s.MaxSolMoved > 500:
		return ArchetypeWhale
	case swapRatio > 0.6 && (memecoinRatio > 0.3 || s.UniqueTokensTraded >= 20):
		return ArchetypeDegen
	case nftRatio > 0.4 || s.UniqueNftCollections > 10:
		return ArchetypeCollector
	case stakeRatio > 0.3:
		return ArchetypeFarmer
	}
	return ArchetypeExplorer
}

// DominantActivity names the most frequent activity. On a tie the later
// entry in TRADING, NFT, TRANSFERS, STAKING order wins. A wallet with no
// counted activity is MIXED.
func (s WalletStats) DominantActivity() string {
	activities := []struct {
		count uint64
		name  string
	}{
		{s.SwapCount, "TRADING"},
		{s.NftCount, "NFT"},
		{s.TransferCount, "TRANSFERS"},
		{s.StakeCount, "STAKING"},
	}
	ret := "MIXED"
	var best uint64
	for _, a := range activities {
		if a.count > 0 && a.count >= best {
			best = a.count
			ret = a.name
		}
	}
	return ret
}

// AgeDays is the number of whole days between the first and last transaction
func (s WalletStats) AgeDays() uint64 {
	if s.LastTxTimestamp <= s.FirstTxTimestamp {
		return 0
	}
	return uint64((s.LastTxTimestamp - s.FirstTxTimestamp) / secondsPerDay)
}

// TxFrequency is the average number of transactions per day of wallet age
func (s WalletStats) TxFrequency() float64 {
	days := max(s.AgeDays(), 1)
	return float64(s.TotalTxs) / float64(days)
}
