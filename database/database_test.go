package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"gotest.tools/v3/assert"
)

func TestNew(t *testing.T) {
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	xdg.Reload()
	db, err := New(t.Context())
	assert.NilError(t, err)
	assert.Check(t, db != nil, "no database")
	assert.NilError(t, db.Close())
}

func TestRuns(t *testing.T) {
	db, err := NewTesting(t.Context())
	assert.NilError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	when := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	err = db.RecordRuns(t.Context(), []Run{
		{Source: "a.txt", Operation: "double", Length: 3, Capacity: 3, Reused: true, Time: when},
		{Source: "b.txt", Operation: "widen", Length: 2, Capacity: 2, Time: when},
		{Source: "c.txt", Operation: "double", Error: "boom", Time: when.Add(time.Minute)},
	})
	assert.NilError(t, err)

	runs, err := db.ListRuns(t.Context(), "", 10)
	assert.NilError(t, err)
	assert.Equal(t, len(runs), 3)
	assert.Equal(t, runs[0].Source, "c.txt")
	assert.Equal(t, runs[0].Error, "boom")
	assert.Check(t, runs[0].Time.Equal(when.Add(time.Minute)))
	assert.Equal(t, runs[2].Source, "a.txt")
	assert.Check(t, runs[2].Reused)
	assert.Equal(t, runs[2].Capacity, 3)

	runs, err = db.ListRuns(t.Context(), "double", 1)
	assert.NilError(t, err)
	assert.Equal(t, len(runs), 1)
	assert.Equal(t, runs[0].Source, "c.txt")
}

func TestInitializeFailureClosesHandle(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	assert.NilError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = wrap(ctx, db)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorContains(t, db.Ping(), "database is closed")
}
