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

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/cryptcards/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encodeTestDefinition struct {
	CborHex string
	Object  any
}

var encodeTests = []encodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{1, 2, 3},
	},
	// Map keys are sorted regardless of insertion order
	{
		CborHex: "a2616101616202",
		Object:  map[string]int{"b": 2, "a": 1},
	},
}

func TestEncode(t *testing.T) {
	for _, test := range encodeTests {
		cborData, err := cbor.Encode(test.Object)
		require.NoError(t, err)
		assert.Equal(t, test.CborHex, hex.EncodeToString(cborData))
	}
}

type testRecord struct {
	cbor.StructAsArray
	Id    uint64
	Name  string
	Items []uint64
}

func TestEncodeDecodeStructAsArray(t *testing.T) {
	src := testRecord{Id: 7, Name: "card", Items: []uint64{1, 2}}
	data, err := cbor.Encode(&src)
	require.NoError(t, err)
	// 3-element array header
	assert.Equal(t, byte(0x83), data[0])
	var dest testRecord
	require.NoError(t, cbor.DecodeExact(data, &dest))
	assert.Equal(t, src.Id, dest.Id)
	assert.Equal(t, src.Name, dest.Name)
	assert.Equal(t, src.Items, dest.Items)
}

func TestDecodeExactTrailingData(t *testing.T) {
	var dest []int
	err := cbor.DecodeExact([]byte{0x81, 0x01, 0x02}, &dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")
}

func TestCloneIsDeep(t *testing.T) {
	src := testRecord{Id: 1, Items: []uint64{1, 2, 3}}
	var dest testRecord
	require.NoError(t, cbor.Clone(&dest, &src))
	dest.Items[0] = 99
	assert.Equal(t, uint64(1), src.Items[0])
	assert.Equal(t, src.Id, dest.Id)
}
