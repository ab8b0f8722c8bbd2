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
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

// applyMigrations runs each embedded .sql file once, in name order. Only the
// "-- +migrate Up" section of a file is executed.
func applyMigrations(ctx context.Context, db *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	_, err = db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	for _, file := range files {
		if err := applyMigration(ctx, db, migrationFS, file); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, migrationFS fs.FS, file string) error {
	var found int
	err := db.QueryRowContext(
		ctx,
		"SELECT 1 FROM "+migrationTable+" WHERE name = ?",
		file,
	).Scan(&found)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check migration %s: %w", file, err)
	}
	content, err := fs.ReadFile(migrationFS, file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	upSQL := upSection(string(content))
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", file, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if strings.TrimSpace(upSQL) != "" {
		if _, err := tx.ExecContext(ctx, upSQL); err != nil {
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
	}
	_, err = tx.ExecContext(
		ctx,
		"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		file,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record migration %s: %w", file, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", file, err)
	}
	return nil
}

func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	upIdx := strings.Index(content, up)
	if upIdx == -1 {
		return content
	}
	content = content[upIdx+len(up):]
	if downIdx := strings.Index(content, down); downIdx != -1 {
		content = content[:downIdx]
	}
	return content
}
