// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package database records the history of vecmap runs.
package database

import (
	"context"
	"database/sql"
	"encoding/xml"
	"fmt"
	"log/slog"
	"time"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

const (
	applicationId = int32(0x7665636d)
	userVersion   = int32(1)
)

type Database struct {
	db *sql.DB
}

func New(ctx context.Context) (*Database, error) {
	filePath, err := xdg.CacheFile("vecmap.db")
	if err != nil {
		return nil, fmt.Errorf("failed to determine database file path: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+filePath+"?mode=rwc&cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	return wrap(ctx, db)
}

// Create an empty in-memory database for testing.
func NewTesting(ctx context.Context) (*Database, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	return wrap(ctx, db)
}

// wrap an opened handle, initializing it.  The handle is closed if
// initialization fails.
func wrap(ctx context.Context, db *sql.DB) (*Database, error) {
	d := &Database{
		db: db,
	}

	if err := d.initialize(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return d, nil
}

// initialize the database, performing migrations as necessary.
func (d *Database) initialize(ctx context.Context) error {
	var version int32
	_, err := d.db.ExecContext(ctx, fmt.Sprintf("PRAGMA application_id = %d", applicationId))
	if err != nil {
		return fmt.Errorf("failed to set database application id: %w", err)
	}

	for _, stmt := range []string{
		"PRAGMA auto_vacuum = 1",
		"PRAGMA encoding = 'UTF-8'",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute pragma %q: %w", stmt, err)
		}
	}

	err = d.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to get database version: %w", err)
	}
	if version == userVersion {
		return nil
	}
	slog.DebugContext(ctx, "Re-initializing database", "stored version", version, "required version", userVersion)

	// The history is only informational, so an old schema is simply dropped.
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS runs`,
		`CREATE TABLE runs (` +
			`id INTEGER PRIMARY KEY AUTOINCREMENT, ` +
			`source TEXT, ` +
			`operation TEXT, ` +
			`length INTEGER, ` +
			`capacity INTEGER, ` +
			`reused BOOLEAN, ` +
			`error TEXT, ` +
			`time DATE` +
			`)`,
		`CREATE INDEX runs_operation ON runs (operation)`,
	} {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize database: %q: %w", stmt, err)
		}
	}

	_, err = d.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", userVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Run is one application of an operation to one source.
type Run struct {
	XMLName   xml.Name  `json:"-" xml:"run"`
	Source    string    `json:"source" xml:"source,attr"`
	Operation string    `json:"operation" xml:"operation,attr"`
	Length    int       `json:"length" xml:"length,attr"`
	Capacity  int       `json:"capacity" xml:"capacity,attr"`
	Reused    bool      `json:"reused" xml:"reused,attr"`
	Error     string    `json:"error,omitempty" xml:"error,attr,omitempty"`
	Time      time.Time `json:"time" xml:"time,attr"`
	Values    []string  `json:"values,omitempty" xml:"value,omitempty"`
}

// Record the given runs in a single transaction.
func (d *Database) RecordRuns(ctx context.Context, runs []Run) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// If we return before the commit, do a rollback.  This is a no-op if we have
	// already committed.
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO runs (source, operation, length, capacity, reused, error, time) `+
			`VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	for _, run := range runs {
		_, err := stmt.ExecContext(ctx,
			run.Source, run.Operation, run.Length, run.Capacity, run.Reused, run.Error, run.Time.UTC())
		if err != nil {
			return fmt.Errorf("failed to record run of %s on %s: %w", run.Operation, run.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error commiting runs: %w", err)
	}
	return nil
}

// List the most recent runs, newest first.  If operation is not empty, only
// runs of that operation are returned.
func (d *Database) ListRuns(ctx context.Context, operation string, limit int) ([]Run, error) {
	query := `SELECT source, operation, length, capacity, reused, error, time FROM runs`
	var args []any
	if operation != "" {
		query += ` WHERE operation = ?`
		args = append(args, operation)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	slog.DebugContext(ctx, "Listing runs", "operation", operation, "limit", limit, "query", query)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var results []Run
	for rows.Next() {
		var result Run
		if err := rows.Scan(&result.Source, &result.Operation, &result.Length, &result.Capacity, &result.Reused, &result.Error, &result.Time); err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		result.Time = result.Time.UTC()
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading query results: %w", err)
	}

	return results, nil
}
