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

import "github.com/blinklabs-io/cryptcards/card"

// CollectionMetrics summarizes the health of a card collection
type CollectionMetrics struct {
	TotalCards             uint64
	ActiveCards            uint64
	BurnedCards            uint64
	UniqueOwners           uint64
	TotalInteractions      uint64
	AvgInteractionsPerCard float64
	Rarity                 RarityDistribution
	Types                  TypeDistribution
	MintsLast24h           uint64
	MintsLast7d            uint64
	TransfersLast24h       uint64
}

// RarityDistribution counts cards per rarity tier
type RarityDistribution struct {
	Common    uint64
	Rare      uint64
	Legendary uint64
}

// Add counts one card of rarity r. Unknown tiers are ignored.
func (d *RarityDistribution) Add(r card.Rarity) {
	switch r {
	case card.RarityCommon:
		d.Common++
	case card.RarityRare:
		d.Rare++
	case card.RarityLegendary:
		d.Legendary++
	}
}

func (d RarityDistribution) Total() uint64 {
	return d.Common + d.Rare + d.Legendary
}

func (d RarityDistribution) Count(r card.Rarity) uint64 {
	switch r {
	case card.RarityCommon:
		return d.Common
	case card.RarityRare:
		return d.Rare
	case card.RarityLegendary:
		return d.Legendary
	}
	return 0
}

// Percent returns the share of cards with rarity r, from 0 to 100
func (d RarityDistribution) Percent(r card.Rarity) float64 {
	total := d.Total()
	if total == 0 {
		return 0
	}
	return float64(d.Count(r)) / float64(total) * 100
}

// TypeDistribution counts cards per card type, indexed by card.Type
type TypeDistribution [card.NumTypes]uint64

func (d *TypeDistribution) Add(t card.Type) {
	if t.Valid() {
		d[t]++
	}
}

func (d TypeDistribution) Total() uint64 {
	var ret uint64
	for _, c := range d {
		ret += c
	}
	return ret
}

// MostCommon returns the card type with the highest count. Ties go to the
// later type. The second return value is false for an empty distribution.
func (d TypeDistribution) MostCommon() (card.Type, bool) {
	var ret card.Type
	var best uint64
	for i, c := range d {
		if c > 0 && c >= best {
			best = c
			ret = card.Type(i)
		}
	}
	return ret, best > 0
}
