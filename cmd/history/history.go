// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Command `vecmap history` lists previous runs of `vecmap map`.
package history

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/mook-as/recycle/cmd"
	"github.com/mook-as/recycle/config"
	"github.com/mook-as/recycle/database"
)

func New() cmd.CommandRunner {
	return &command{}
}

type command struct {
	limit int
}

func (c *command) AddFlags() {
	flag.IntVar(&c.limit, "limit", 20, "Maximum number of runs to list")
}

// Run the `vecmap history` command.  Runs are filtered by the configured
// operation, if any.
func (c *command) Run(ctx context.Context, cfg *config.Config, db *database.Database, args []string) ([]database.Run, error) {
	if db == nil {
		return nil, errors.New("history is disabled")
	}
	if len(args) > 0 {
		return nil, errors.New("usage: vecmap history [-limit n] [-op operation]")
	}
	if c.limit <= 0 {
		return nil, fmt.Errorf("invalid limit %d", c.limit)
	}
	return db.ListRuns(ctx, cfg.Operation, c.limit)
}
