// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Command `vecmap map` applies an operation to the values in each source.
package transform

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mook-as/recycle/cmd"
	"github.com/mook-as/recycle/config"
	"github.com/mook-as/recycle/database"
	"github.com/mook-as/recycle/ops"
	"github.com/mook-as/recycle/source"
)

func New() cmd.CommandRunner {
	return &command{}
}

type command struct {
}

func (c *command) AddFlags() {
}

// Run the `vecmap map` command.  A source the operation fails on is reported
// in its row rather than failing the command.
func (c *command) Run(ctx context.Context, cfg *config.Config, db *database.Database, args []string) ([]database.Run, error) {
	if len(args) == 0 {
		return nil, errors.New("usage: vecmap map [-op operation] source...")
	}
	op, err := ops.Lookup(cfg.Operation)
	if err != nil {
		return nil, err
	}

	sources, err := source.Load(ctx, args...)
	if err != nil {
		return nil, err
	}

	var results []database.Run
	for _, src := range sources {
		run := database.Run{
			Source:    src.Name,
			Operation: cfg.Operation,
			Time:      time.Now().UTC(),
		}
		outcome, err := op(src.Values)
		src.Values = nil
		if err != nil {
			slog.WarnContext(ctx, "Operation failed", "source", src.Name, "operation", cfg.Operation, "error", err)
			run.Error = err.Error()
		} else {
			slog.DebugContext(ctx, "Operation succeeded",
				"source", src.Name, "operation", cfg.Operation,
				"length", outcome.Length, "capacity", outcome.Capacity, "reused", outcome.Reused)
			run.Length = outcome.Length
			run.Capacity = outcome.Capacity
			run.Reused = outcome.Reused
			run.Values = outcome.Values
		}
		results = append(results, run)
	}

	if db != nil {
		if err := db.RecordRuns(ctx, results); err != nil {
			return nil, err
		}
	}

	return results, nil
}
