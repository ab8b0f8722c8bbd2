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

// Traits are the visual parameters read from fixed seed offsets. Offsets,
// moduli and thresholds are part of the card format and must stay stable.
type Traits struct {
	EyeStyle    uint8
	GlowEyes    bool
	HatType     uint8
	GlassesType uint8
	MouthItem   uint8
	NeckItem    uint8
	TeethStyle  uint8
	NoseStyle   uint8
	HasScar     bool
	HasCrack    bool
	HasEyepatch bool
}

var hatNames = [30]string{
	"Cowboy", "Top Hat", "Beanie", "Baseball Cap", "Crown",
	"Pirate Hat", "Sailor Hat", "Trucker Cap", "Fedora", "Wizard Hat",
	"Headband", "Mohawk", "Viking Helmet", "Chef Hat", "Bandana",
	"Halo", "Bucket Hat", "Santa Hat", "Afro", "Devil Horns",
	"Army Helmet", "Sombrero", "Backwards Cap", "Durag", "Bowler Hat",
	"Straw Hat", "Space Helmet", "Fire Crown", "Propeller Hat", "Toque",
}

var glassesNames = [12]string{
	"Pit Vipers", "Aviators", "3D Glasses", "Heart Glasses",
	"Nerd Glasses", "Monocle", "Cyclops Visor", "Thug Life",
	"Star Glasses", "VR Headset", "Laser Eyes", "Lennon Rounds",
}

// ExtractTraits maps a seed to its visual traits
func ExtractTraits(seed Seed) Traits {
	return Traits{
		EyeStyle:    seed[0] % 8,
		GlowEyes:    seed[1] > 102,
		HatType:     seed[2] % 30,
		GlassesType: seed[3] % 12,
		MouthItem:   seed[4] % 8,
		NeckItem:    seed[5] % 6,
		TeethStyle:  seed[6] % 6,
		NoseStyle:   seed[7] % 4,
		HasScar:     seed[8] > 153,
		HasCrack:    seed[9] > 153,
		HasEyepatch: seed[10] > 225,
	}
}

func (t Traits) HatName() string {
	if int(t.HatType) >= len(hatNames) {
		return "None"
	}
	return hatNames[t.HatType]
}

func (t Traits) GlassesName() string {
	if int(t.GlassesType) >= len(glassesNames) {
		return "None"
	}
	return glassesNames[t.GlassesType]
}

// AccessoryCount is the number of optional accessories present, used for
// rarity weighting by renderers
func (t Traits) AccessoryCount() uint8 {
	var count uint8
	for _, present := range []bool{
		t.HatType > 0,
		t.GlassesType > 0,
		t.MouthItem > 0,
		t.NeckItem > 0,
		t.HasScar,
		t.HasCrack,
		t.HasEyepatch,
	} {
		if present {
			count++
		}
	}
	return count
}
