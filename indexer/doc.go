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

// Package indexer maintains a read model of the card ledger by following its
// event log.
//
// The Indexer polls an eventlog.Source on a fixed interval, decodes the
// "Program data:" lines of each entry and applies the resulting events to a
// Projection as one unit. The projection records the sequence number of the
// last applied entry, so entries seen again after a retry are ignored and
// counters never double count. Read and decode failures are reported as
// *TransportError and retried on the next poll. An entry that keeps failing
// to decode is skipped after a configurable number of attempts.
//
// Projection state can be saved and restored through a Checkpointer. A
// Snapshot encodes deterministically, so two projections built from the same
// entries have the same Digest.
package indexer
