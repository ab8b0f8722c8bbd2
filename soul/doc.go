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

// Package soul derives the deterministic 32-byte "soul seed" of a card from
// its source transaction identifier, and the visual traits and upgrade
// proofs computed from that seed.
//
// Compute is a pure function of its input and is evaluated both when a card
// is minted and whenever it is verified, so its constants are frozen.
package soul
