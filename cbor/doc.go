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

// Package cbor wraps github.com/fxamacker/cbor/v2 with the encoding rules used
// for ledger records and projection snapshots.
//
// Encoding is deterministic (core deterministic map key ordering), so two
// values that compare equal always produce identical bytes. Ledger account
// records and indexer checkpoints depend on this for byte-level comparison.
//
// Embeddable types for struct encoding:
//   - StructAsArray: Embed to encode struct fields as CBOR array instead of map
//
// Clone performs deep copies with github.com/jinzhu/copier so readers can be
// handed values that never alias live state.
package cbor
