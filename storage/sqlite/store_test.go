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

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/cryptcards/card"
	"github.com/blinklabs-io/cryptcards/cardledger"
	"github.com/blinklabs-io/cryptcards/eventlog"
	"github.com/blinklabs-io/cryptcards/indexer"
	"github.com/blinklabs-io/cryptcards/internal/test"
	test_ledger "github.com/blinklabs-io/cryptcards/internal/test/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T, path string) *Store {
	t.Helper()
	if path == "" {
		path = filepath.Join(t.TempDir(), "crypt.db")
	}
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestEventLog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crypt.db")
	store := openTempStore(t, path)

	head, err := store.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), head)
	entries, err := store.EntriesAfter(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = store.EntriesAfter(ctx, 0, 0)
	require.ErrorIs(t, err, eventlog.ErrInvalidLimit)

	for i := range 5 {
		seq, err := store.Append([]string{"Program log: entry", test.MockTxHash(i)})
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), seq) // #nosec G115
	}
	head, err = store.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), head)

	entries, err = store.EntriesAfter(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(3), entries[0].Seq)
	assert.Equal(t, uint64(4), entries[1].Seq)
	assert.Equal(t, []string{"Program log: entry", test.MockTxHash(2)}, entries[0].Logs)

	// Entries survive reopening, and migrations are not applied twice
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	entries, err = reopened.EntriesAfter(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	var applied int
	require.NoError(t, reopened.db.QueryRow(
		"SELECT COUNT(*) FROM "+migrationTable,
	).Scan(&applied))
	assert.Equal(t, 2, applied)
}

func TestCheckpoint(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t, "")

	snap, err := store.LoadCheckpoint(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	h := test_ledger.NewHarness(t)
	h.Initialize(t, test.MockAddress("authority"), 0, 0)
	for i := range 3 {
		_, err := h.Ledger.Mint(
			test.MockAddress("minter"),
			test_ledger.MintArgs(test.MockTxHash(i), card.RarityRare),
		)
		require.NoError(t, err)
	}
	idx := indexer.New(h.Log)
	_, err = idx.Poll(ctx)
	require.NoError(t, err)

	want := idx.Projection().Snapshot()
	require.NoError(t, store.SaveCheckpoint(ctx, want))
	got, err := store.LoadCheckpoint(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Cursor, got.Cursor)
	assert.Equal(t, want.Counters, got.Counters)
	require.Len(t, got.Cards, 3)
	assert.Equal(t, want.Cards[2].TxHash, got.Cards[2].TxHash)
	wantDigest, err := want.Digest()
	require.NoError(t, err)
	gotDigest, err := got.Digest()
	require.NoError(t, err)
	assert.Equal(t, wantDigest, gotDigest)

	// Saving again replaces the row
	require.NoError(t, store.SaveCheckpoint(ctx, &indexer.Snapshot{Cursor: 9}))
	got, err = store.LoadCheckpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got.Cursor)

	_, err = store.db.Exec("UPDATE checkpoints SET digest = ? WHERE id = 1", make([]byte, 32))
	require.NoError(t, err)
	_, err = store.LoadCheckpoint(ctx)
	require.ErrorIs(t, err, ErrCheckpointCorrupt)
}

func TestLedgerAndIndexerOverSqlite(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t, "")
	authority := test.MockAddress("authority")
	minter := test.MockAddress("minter")

	l, err := cardledger.New(cardledger.NewMemoryStore(), store)
	require.NoError(t, err)
	require.NoError(t, l.InitializeCollection(authority, "", 10, 0))
	res, err := l.Mint(minter, test_ledger.MintArgs("abc123", card.RarityCommon))
	require.NoError(t, err)
	require.NoError(t, l.Interact(authority, res.Address, card.InteractionLike, nil))

	idx := indexer.New(store, indexer.WithCheckpointer(store))
	_, err = idx.Poll(ctx)
	require.NoError(t, err)
	require.NoError(t, idx.Checkpoint(ctx))

	c, ok := idx.GetCard(0)
	require.True(t, ok)
	assert.Equal(t, uint64(1), c.InteractionCount)

	resumed := indexer.New(store, indexer.WithCheckpointer(store))
	require.NoError(t, resumed.Restore(ctx))
	assert.Equal(t, idx.Stats().Cursor, resumed.Stats().Cursor)
	c, ok = resumed.GetCard(0)
	require.True(t, ok)
	assert.Equal(t, minter, c.Owner)
}
