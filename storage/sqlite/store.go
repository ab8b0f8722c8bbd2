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
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/blinklabs-io/cryptcards/cbor"
	"github.com/blinklabs-io/cryptcards/eventlog"
	"github.com/blinklabs-io/cryptcards/indexer"
	"github.com/blinklabs-io/cryptcards/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const dsnParams = "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

var ErrCheckpointCorrupt = errors.New("checkpoint digest mismatch")

// Store is a SQLite-backed event log and indexer checkpoint store
type Store struct {
	db *sql.DB
}

var (
	_ eventlog.Log         = (*Store)(nil)
	_ indexer.Checkpointer = (*Store)(nil)
)

// Open opens the database at path, creating it if needed, and applies
// migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	db, err := sql.Open("sqlite", filepath.Clean(path)+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append stores the log lines of one operation as a new entry
func (s *Store) Append(logs []string) (uint64, error) {
	data, err := cbor.Encode(logs)
	if err != nil {
		return 0, fmt.Errorf("encode log entry: %w", err)
	}
	res, err := s.db.Exec(
		"INSERT INTO event_log (logs, appended_at) VALUES (?, ?)",
		data,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("append log entry: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append log entry: %w", err)
	}
	return uint64(seq), nil // #nosec G115
}

func (s *Store) EntriesAfter(
	ctx context.Context,
	after uint64,
	limit int,
) ([]eventlog.Entry, error) {
	if limit <= 0 {
		return nil, eventlog.ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT seq, logs FROM event_log WHERE seq > ? ORDER BY seq LIMIT ?",
		int64(after), // #nosec G115
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("read log entries: %w", err)
	}
	defer rows.Close()
	var ret []eventlog.Entry
	for rows.Next() {
		var seq int64
		var data []byte
		if err := rows.Scan(&seq, &data); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entry := eventlog.Entry{Seq: uint64(seq)} // #nosec G115
		if err := cbor.DecodeExact(data, &entry.Logs); err != nil {
			return nil, fmt.Errorf("decode log entry %d: %w", seq, err)
		}
		ret = append(ret, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read log entries: %w", err)
	}
	return ret, nil
}

func (s *Store) Head(ctx context.Context) (uint64, error) {
	var head int64
	err := s.db.QueryRowContext(
		ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM event_log",
	).Scan(&head)
	if err != nil {
		return 0, fmt.Errorf("read log head: %w", err)
	}
	return uint64(head), nil // #nosec G115
}

// SaveCheckpoint replaces the stored projection snapshot
func (s *Store) SaveCheckpoint(ctx context.Context, snap *indexer.Snapshot) error {
	data, err := cbor.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	digest, err := snap.Digest()
	if err != nil {
		return fmt.Errorf("digest checkpoint: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO checkpoints (id, cursor, snapshot, digest, saved_at)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    cursor = excluded.cursor,
    snapshot = excluded.snapshot,
    digest = excluded.digest,
    saved_at = excluded.saved_at
`,
		int64(snap.Cursor), // #nosec G115
		data,
		digest[:],
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint returns the stored snapshot, or nil if none was saved. The
// snapshot is checked against the digest stored with it.
func (s *Store) LoadCheckpoint(ctx context.Context) (*indexer.Snapshot, error) {
	var data, digest []byte
	err := s.db.QueryRowContext(
		ctx,
		"SELECT snapshot, digest FROM checkpoints WHERE id = 1",
	).Scan(&data, &digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	snap := &indexer.Snapshot{}
	if err := cbor.DecodeExact(data, snap); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	got, err := snap.Digest()
	if err != nil {
		return nil, fmt.Errorf("digest checkpoint: %w", err)
	}
	if !bytes.Equal(got[:], digest) {
		return nil, ErrCheckpointCorrupt
	}
	return snap, nil
}
