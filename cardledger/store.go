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

package cardledger

import (
	"fmt"
	"maps"
	"math"
	"sync"

	"github.com/blinklabs-io/cryptcards/cbor"
	"github.com/blinklabs-io/cryptcards/identity"
)

// AccountStore is the key-addressed storage the ledger keeps its records in.
// All access goes through a transaction so that a failed operation leaves no
// trace.
type AccountStore interface {
	Begin() AccountTxn
}

// AccountTxn stages reads and writes against an AccountStore. Changes become
// visible to other transactions only on Commit.
type AccountTxn interface {
	// Get decodes the record at addr into dest and reports whether it exists
	Get(addr identity.Address, dest any) (bool, error)
	Put(addr identity.Address, record any) error
	Delete(addr identity.Address)
	Balance(addr identity.Address) uint64
	TransferValue(from identity.Address, to identity.Address, lamports uint64) error
	Commit()
	Discard()
}

// MemoryStore is an AccountStore held in memory. Records are kept CBOR
// encoded, the same way they would be laid out in account data.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[identity.Address][]byte
	balances map[identity.Address]uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[identity.Address][]byte),
		balances: make(map[identity.Address]uint64),
	}
}

// Deposit credits lamports to an account outside of any ledger operation
func (s *MemoryStore) Deposit(addr identity.Address, lamports uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[addr] = saturatingAdd(s.balances[addr], lamports)
}

func (s *MemoryStore) Balance(addr identity.Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[addr]
}

// RecordCount returns the number of stored records
func (s *MemoryStore) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Begin() AccountTxn {
	return &memoryTxn{
		store:    s,
		toPut:    make(map[identity.Address][]byte),
		toDelete: make(map[identity.Address]struct{}),
		balances: make(map[identity.Address]uint64),
	}
}

type memoryTxn struct {
	store    *MemoryStore
	toPut    map[identity.Address][]byte
	toDelete map[identity.Address]struct{}
	balances map[identity.Address]uint64
	done     bool
}

func (t *memoryTxn) Get(addr identity.Address, dest any) (bool, error) {
	if _, ok := t.toDelete[addr]; ok {
		return false, nil
	}
	data, ok := t.toPut[addr]
	if !ok {
		t.store.mu.RLock()
		data, ok = t.store.records[addr]
		t.store.mu.RUnlock()
	}
	if !ok {
		return false, nil
	}
	if err := cbor.DecodeExact(data, dest); err != nil {
		return true, fmt.Errorf("decode record %s: %w", addr, err)
	}
	return true, nil
}

func (t *memoryTxn) Put(addr identity.Address, record any) error {
	data, err := cbor.Encode(record)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", addr, err)
	}
	delete(t.toDelete, addr)
	t.toPut[addr] = data
	return nil
}

func (t *memoryTxn) Delete(addr identity.Address) {
	delete(t.toPut, addr)
	t.toDelete[addr] = struct{}{}
}

func (t *memoryTxn) Balance(addr identity.Address) uint64 {
	if bal, ok := t.balances[addr]; ok {
		return bal
	}
	return t.store.Balance(addr)
}

func (t *memoryTxn) TransferValue(
	from identity.Address,
	to identity.Address,
	lamports uint64,
) error {
	if lamports == 0 || from == to {
		return nil
	}
	fromBal := t.Balance(from)
	if fromBal < lamports {
		return newError(
			CodeInsufficientFunds,
			"%s has %d lamports, needs %d",
			from,
			fromBal,
			lamports,
		)
	}
	toBal := t.Balance(to)
	if toBal > math.MaxUint64-lamports {
		return fmt.Errorf("balance overflow crediting %s", to)
	}
	t.balances[from] = fromBal - lamports
	t.balances[to] = toBal + lamports
	return nil
}

func (t *memoryTxn) Commit() {
	if t.done {
		return
	}
	t.done = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for addr := range t.toDelete {
		delete(t.store.records, addr)
	}
	maps.Copy(t.store.records, t.toPut)
	for addr, bal := range t.balances {
		if bal == 0 {
			delete(t.store.balances, addr)
			continue
		}
		t.store.balances[addr] = bal
	}
}

func (t *memoryTxn) Discard() {
	t.done = true
	clear(t.toPut)
	clear(t.toDelete)
	clear(t.balances)
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
