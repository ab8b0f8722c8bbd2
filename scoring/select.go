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
	"slices"

	"github.com/blinklabs-io/cryptcards/card"
)

// DefaultSelectCount matches the batch mint limit so a selection can be
// minted in one operation
const DefaultSelectCount = card.MaxBatchSize

// Candidate is a scanned transaction considered for minting
type Candidate struct {
	TxHash    string
	Features  Features
	Platform  string
	Title     string
	Timestamp int64
	Score     uint32
	Rarity    card.Rarity
}

// NewCandidate scores a transaction with s and fills in its default title
func (s Scorer) NewCandidate(
	txHash string,
	f Features,
	platform string,
	timestamp int64,
) Candidate {
	score := s.Score(f)
	return Candidate{
		TxHash:    txHash,
		Features:  f,
		Platform:  platform,
		Title:     BuildTitle(f.TxType, f.SolAmount, platform),
		Timestamp: timestamp,
		Score:     score,
		Rarity:    s.Tier(score),
	}
}

// SelectTop keeps the n best candidates by score. Candidates scoring zero or
// below minRarity are dropped. Ties keep their input order. A non-positive n
// selects DefaultSelectCount.
func SelectTop(candidates []Candidate, n int, minRarity card.Rarity) []Candidate {
	if n <= 0 {
		n = DefaultSelectCount
	}
	ret := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score == 0 || c.Rarity < minRarity {
			continue
		}
		ret = append(ret, c)
	}
	slices.SortStableFunc(ret, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(ret) > n {
		ret = ret[:n]
	}
	return ret
}
