// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

package main

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mook-as/recycle/cmd"
	"github.com/mook-as/recycle/cmd/history"
	"github.com/mook-as/recycle/cmd/transform"
	"github.com/mook-as/recycle/config"
	"github.com/mook-as/recycle/database"
	"github.com/mook-as/recycle/itertools"
)

// command picks the subcommand from the first argument, defaulting to `map`.
func command(args []string) (string, cmd.CommandRunner, []string) {
	if len(args) > 0 {
		switch args[0] {
		case "map":
			return args[0], transform.New(), args[1:]
		case "history":
			return args[0], history.New(), args[1:]
		}
	}
	return "map", transform.New(), args
}

func writeResults(results []database.Run, format config.OutputFormat) error {
	switch format {
	case config.OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case config.OutputFormatXML:
		encoder := xml.NewEncoder(os.Stdout)
		encoder.Indent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
		_, err := fmt.Fprintln(os.Stdout)
		return err
	}

	type field struct {
		Name  string
		Value func(result database.Run) string
	}
	writer := tabwriter.NewWriter(os.Stdout, 3, 8, 2, ' ', 0)
	fields := []field{
		{
			Name:  "Source",
			Value: func(result database.Run) string { return result.Source },
		},
		{
			Name:  "Operation",
			Value: func(result database.Run) string { return result.Operation },
		},
		{
			Name:  "Length",
			Value: func(result database.Run) string { return strconv.Itoa(result.Length) },
		},
		{
			Name:  "Capacity",
			Value: func(result database.Run) string { return strconv.Itoa(result.Capacity) },
		},
		{
			Name:  "Reused",
			Value: func(result database.Run) string { return strconv.FormatBool(result.Reused) },
		},
		{
			Name: "Result",
			Value: func(result database.Run) string {
				if result.Error != "" {
					return "error: " + result.Error
				}
				return strings.Join(result.Values, " ")
			},
		},
	}
	writeLine := func(f func(field) string) error {
		_, err := fmt.Fprintf(writer, "%s\n", strings.Join(itertools.Map(fields, f), "\t"))
		return err
	}

	if err := writeLine(func(f field) string { return f.Name }); err != nil {
		return err
	}
	if err := writeLine(func(f field) string { return "---" }); err != nil {
		return err
	}
	for _, result := range results {
		if err := writeLine(func(f field) string { return f.Value(result) }); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func run(ctx context.Context) error {
	name, runner, args := command(os.Args[1:])

	config.AddFlags()
	runner.AddFlags()
	if err := flag.CommandLine.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	if name == "history" && !config.FlagSet("op") {
		// The configured default operation only applies to `map`.
		cfg.Operation = ""
	}

	var logOptions slog.HandlerOptions
	if cfg.Verbose {
		logOptions.Level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &logOptions)))

	var db *database.Database
	if cfg.History {
		db, err = database.New(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()
	}

	results, err := runner.Run(ctx, cfg, db, flag.Args())
	if err != nil {
		return err
	}

	if len(results) == 0 {
		return fmt.Errorf("no results found")
	}

	return writeResults(results, cfg.Format)
}

func main() {
	err := run(context.Background())
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
