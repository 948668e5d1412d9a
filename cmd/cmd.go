// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package cmd defines the interface all commands must implement
package cmd

import (
	"context"

	"github.com/mook-as/recycle/config"
	"github.com/mook-as/recycle/database"
)

type CommandRunner interface {
	// Add any flags this command requires.
	AddFlags()
	// Run the command, with the given options and positional arguments.  The
	// database may be nil if history is disabled.
	Run(
		context.Context,
		*config.Config,
		*database.Database,
		[]string,
	) ([]database.Run, error)
}
