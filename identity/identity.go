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

package identity

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/blinklabs-io/cryptcards/cbor"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/gagliardetto/solana-go"
)

const AddressSize = 32

// Fixed derivation labels
const (
	LabelCollection  = "collection"
	LabelCard        = "card"
	LabelInteraction = "interaction"
)

var (
	ErrNoViableBump = errors.New("unable to find a viable derivation bump")
	ErrTooManySeeds = errors.New("too many derivation seeds")
)

// DefaultProgramID is the owner program used when none is configured
var DefaultProgramID = HashAddress([]byte("crypt:program"))

// Address is a 32-byte identity: a wallet key or a derived record location
type Address [AddressSize]byte

func NewAddressFromBytes(data []byte) (Address, error) {
	var ret Address
	if len(data) != AddressSize {
		return ret, fmt.Errorf(
			"invalid address length: expected %d, got %d",
			AddressSize,
			len(data),
		)
	}
	copy(ret[:], data)
	return ret, nil
}

// ParseAddress decodes the base58 text form of an address
func ParseAddress(s string) (Address, error) {
	decoded := base58.Decode(s)
	if len(decoded) == 0 && s != "" {
		return Address{}, fmt.Errorf("invalid base58 address: %q", s)
	}
	ret, err := NewAddressFromBytes(decoded)
	if err != nil {
		return Address{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	return ret, nil
}

// HashAddress returns the SHA-256 digest of data as an address
func HashAddress(data []byte) Address {
	return Address(sha256.Sum256(data))
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(data []byte) error {
	tmp, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

func (a Address) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(a[:])
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	var tmp []byte
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	addr, err := NewAddressFromBytes(tmp)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// DeriveAddress deterministically derives a record location owned by
// programID from seeds. Candidates are tried with bump values from 255
// downwards and the first one that is not a valid curve point is returned,
// so no private key can exist for a derived address.
//
// Seeds longer than solana.MaxSeedLength are split into consecutive chunks.
// The candidate hash covers the concatenation of all seeds, so splitting
// leaves the derived address unchanged.
func DeriveAddress(programID Address, seeds ...[]byte) (Address, uint8, error) {
	chunks := make([][]byte, 0, len(seeds))
	for _, seed := range seeds {
		for len(seed) > solana.MaxSeedLength {
			chunks = append(chunks, seed[:solana.MaxSeedLength])
			seed = seed[solana.MaxSeedLength:]
		}
		chunks = append(chunks, seed)
	}
	if len(chunks) >= solana.MaxSeeds {
		return Address{}, 0, fmt.Errorf("%w: %d seed chunks", ErrTooManySeeds, len(chunks))
	}
	key, bump, err := solana.FindProgramAddress(chunks, solana.PublicKey(programID))
	if err != nil {
		return Address{}, 0, fmt.Errorf("%w: %w", ErrNoViableBump, err)
	}
	return Address(key), bump, nil
}

func mustDerive(programID Address, seeds ...[]byte) Address {
	addr, _, err := DeriveAddress(programID, seeds...)
	if err != nil {
		// Fixed seed shapes stay well under the chunk limit and roughly
		// half of all candidates are off the curve
		panic(err)
	}
	return addr
}

// CollectionSeeds are the derivation seeds of the collection record
func CollectionSeeds() [][]byte {
	return [][]byte{[]byte(LabelCollection)}
}

// CardSeeds are the derivation seeds of the card minted from txHash by minter
func CardSeeds(txHash string, minter Address) [][]byte {
	return [][]byte{[]byte(LabelCard), []byte(txHash), minter[:]}
}

// InteractionSeeds are the derivation seeds of user's interaction with a card
func InteractionSeeds(cardAddr Address, user Address) [][]byte {
	return [][]byte{[]byte(LabelInteraction), cardAddr[:], user[:]}
}

// CollectionAddress is the singleton collection record location
func CollectionAddress(programID Address) Address {
	return mustDerive(programID, CollectionSeeds()...)
}

// CardAddress is the record location of the card minted from txHash by minter
func CardAddress(programID Address, txHash string, minter Address) Address {
	return mustDerive(programID, CardSeeds(txHash, minter)...)
}

// InteractionAddress is the record location of user's interaction with a card
func InteractionAddress(programID Address, cardAddr Address, user Address) Address {
	return mustDerive(programID, InteractionSeeds(cardAddr, user)...)
}
