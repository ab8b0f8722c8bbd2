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

package cbor

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/jinzhu/copier"
)

var (
	cachedDecMode     _cbor.DecMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once
)

// getDecMode returns a cached DecMode, initializing it on first use.
// Returns the cached error if initialization failed.
func getDecMode() (_cbor.DecMode, error) {
	cachedDecModeOnce.Do(func() {
		decOptions := _cbor.DecOptions{
			ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
		}
		cachedDecMode, cachedDecModeErr = decOptions.DecMode()
	})
	return cachedDecMode, cachedDecModeErr
}

// Decode decodes dataBytes into dest and returns the number of bytes read
func Decode(dataBytes []byte, dest any) (int, error) {
	data := bytes.NewReader(dataBytes)
	decMode, err := getDecMode()
	if err != nil {
		return 0, err
	}
	if decMode == nil {
		return 0, errors.New("CBOR decoder mode not initialized")
	}
	dec := decMode.NewDecoder(data)
	err = dec.Decode(dest)
	return dec.NumBytesRead(), err
}

// DecodeExact decodes dataBytes into dest and fails if any trailing data remains
func DecodeExact(dataBytes []byte, dest any) error {
	n, err := Decode(dataBytes, dest)
	if err != nil {
		return err
	}
	if n != len(dataBytes) {
		return fmt.Errorf(
			"trailing data after CBOR item: %d of %d bytes consumed",
			n,
			len(dataBytes),
		)
	}
	return nil
}

// Clone deep-copies src into dest. Slices and maps are never shared between
// the two values.
func Clone(dest any, src any) error {
	return copier.CopyWithOption(dest, src, copier.Option{DeepCopy: true})
}
