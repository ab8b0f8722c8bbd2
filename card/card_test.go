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

package card_test

import (
	"testing"

	"github.com/blinklabs-io/cryptcards/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRarityNames(t *testing.T) {
	assert.Equal(t, "COMMON", card.RarityCommon.String())
	assert.Equal(t, "RARE", card.RarityRare.String())
	assert.Equal(t, "LEGENDARY", card.RarityLegendary.String())
	assert.Equal(t, "RARITY(7)", card.Rarity(7).String())
	assert.False(t, card.Rarity(3).Valid())
}

func TestRarityCanUpgradeTo(t *testing.T) {
	testDefs := []struct {
		from     card.Rarity
		to       card.Rarity
		expected bool
	}{
		{card.RarityCommon, card.RarityRare, true},
		{card.RarityCommon, card.RarityLegendary, true},
		{card.RarityRare, card.RarityLegendary, true},
		{card.RarityRare, card.RarityRare, false},
		{card.RarityLegendary, card.RarityRare, false},
		{card.RarityLegendary, card.Rarity(3), false},
	}
	for _, testDef := range testDefs {
		assert.Equal(
			t,
			testDef.expected,
			testDef.from.CanUpgradeTo(testDef.to),
			"%s -> %s",
			testDef.from,
			testDef.to,
		)
	}
}

func TestParseRarity(t *testing.T) {
	r, err := card.ParseRarity(" legendary ")
	require.NoError(t, err)
	assert.Equal(t, card.RarityLegendary, r)
	_, err = card.ParseRarity("mythic")
	require.Error(t, err)
}

func TestTypeAndInteractionNames(t *testing.T) {
	assert.Equal(t, "DIAMOND_HANDS", card.TypeDiamondHands.String())
	assert.Equal(t, "BIG_MOVE", card.TypeBigMove.String())
	assert.False(t, card.Type(5).Valid())
	assert.Equal(t, "BOOKMARK", card.InteractionBookmark.String())
	assert.True(t, card.InteractionShare.Valid())
	assert.False(t, card.InteractionType(4).Valid())
}
