package transform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mook-as/recycle/config"
	"github.com/mook-as/recycle/database"
	"gotest.tools/v3/assert"
)

func TestRun(t *testing.T) {
	db, err := database.NewTesting(t.Context())
	assert.NilError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	dir := t.TempDir()
	small := filepath.Join(dir, "small.txt")
	large := filepath.Join(dir, "large.txt")
	assert.NilError(t, os.WriteFile(small, []byte("1 2 3"), 0o644))
	assert.NilError(t, os.WriteFile(large, []byte("1 2000000000"), 0o644))

	cfg := &config.Config{Operation: "checked-double", History: true}
	runs, err := New().Run(t.Context(), cfg, db, []string{small, large})
	assert.NilError(t, err)
	assert.Equal(t, len(runs), 2)

	assert.Equal(t, runs[0].Source, small)
	assert.DeepEqual(t, runs[0].Values, []string{"2", "4", "6"})
	assert.Check(t, runs[0].Reused)
	assert.Equal(t, runs[0].Error, "")

	assert.Equal(t, runs[1].Source, large)
	assert.Equal(t, runs[1].Error, "doubling 2000000000 overflows")
	assert.Check(t, runs[1].Values == nil)

	recorded, err := db.ListRuns(t.Context(), "checked-double", 10)
	assert.NilError(t, err)
	assert.Equal(t, len(recorded), 2)
}

func TestRunWithoutHistory(t *testing.T) {
	p := filepath.Join(t.TempDir(), "values.txt")
	assert.NilError(t, os.WriteFile(p, []byte("1 2"), 0o644))

	runs, err := New().Run(t.Context(), &config.Config{Operation: "widen"}, nil, []string{p})
	assert.NilError(t, err)
	assert.Equal(t, len(runs), 1)
	assert.Check(t, !runs[0].Reused)
	assert.DeepEqual(t, runs[0].Values, []string{"4294967296", "8589934592"})
}

func TestRunErrors(t *testing.T) {
	_, err := New().Run(t.Context(), &config.Config{Operation: "double"}, nil, nil)
	assert.ErrorContains(t, err, "usage")

	_, err = New().Run(t.Context(), &config.Config{Operation: "cube"}, nil, []string{"x"})
	assert.ErrorContains(t, err, "unknown operation")
}
