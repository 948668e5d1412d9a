// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package config handles configuration and loading it from disk.
package config

import (
	"context"
	"flag"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
	"gopkg.in/ini.v1"
)

type OutputFormat string

const (
	OutputFormatHuman = OutputFormat("human")
	OutputFormatJSON  = OutputFormat("json")
	OutputFormatXML   = OutputFormat("xml")

	configPath  = "vecmap.conf"
	sectionName = "vecmap"

	DefaultOperation = "double"
)

type Config struct {
	Verbose   bool
	Format    OutputFormat
	Operation string
	// Whether runs are recorded in, and listed from, the history database.
	History bool
}

var configFromFlags struct {
	verbose   bool
	json      bool
	xml       bool
	operation string
	history   bool
}

func AddFlags() {
	flag.BoolVar(&configFromFlags.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&configFromFlags.json, "json", false, "Enable JSON output")
	flag.BoolVar(&configFromFlags.xml, "xml", false, "Enable XML output")
	flag.StringVar(&configFromFlags.operation, "op", DefaultOperation, "Operation to apply to each source")
	flag.BoolVar(&configFromFlags.history, "history", true, "Record runs in the history database")
}

// Paths returns the configuration files to read, least important first.
func Paths() []string {
	var filePaths []string

	// ini.LoadOptions takes the later paths as more important, but the XDG paths
	// are reversed and the first path is more important; therefore, we need to
	// iterate over some of these backwards.
	for _, dir := range slices.Backward(xdg.DataDirs) {
		filePaths = append(filePaths, filepath.Join(dir, "etc", configPath))
	}
	for _, dir := range slices.Backward(xdg.ConfigDirs) {
		filePaths = append(filePaths, filepath.Join(dir, configPath))
	}
	for _, dir := range []string{"/etc", xdg.ConfigHome} {
		filePaths = append(filePaths, filepath.Join(dir, configPath))
	}
	return filePaths
}

// Read the configuration from disk, then apply any flags that were set.
func Read(ctx context.Context) (*Config, error) {
	result, err := Load(ctx, Paths()...)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose":
			result.Verbose = configFromFlags.verbose
		case "json":
			if configFromFlags.json {
				result.Format = OutputFormatJSON
			} else {
				result.Format = OutputFormatHuman
			}
		case "xml":
			if configFromFlags.xml {
				result.Format = OutputFormatXML
			} else {
				result.Format = OutputFormatHuman
			}
		case "op":
			result.Operation = configFromFlags.operation
		case "history":
			result.History = configFromFlags.history
		}
	})

	return result, nil
}

// FlagSet reports whether the named flag was given on the command line.
func FlagSet(name string) bool {
	return isSet(flag.CommandLine, name)
}

func isSet(flags *flag.FlagSet, name string) bool {
	set := false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// Load the configuration from the given files; missing files are skipped.
func Load(ctx context.Context, paths ...string) (*Config, error) {
	sources := make([]any, 0, len(paths)+1)
	// ini.LoadSources needs at least one source.
	sources = append(sources, []byte{})
	for _, p := range paths {
		sources = append(sources, p)
	}
	opts := ini.LoadOptions{Loose: true, Insensitive: true}
	iniFile, err := ini.LoadSources(opts, sources[0], sources[1:]...)
	if err != nil {
		return nil, err
	}

	section := iniFile.Section(sectionName)
	result := Config{
		Verbose:   section.Key("verbose").MustBool(false),
		Format:    OutputFormat(section.Key("format").MustString("")),
		Operation: section.Key("operation").MustString(DefaultOperation),
		History:   section.Key("history").MustBool(true),
	}
	switch result.Format {
	case OutputFormatJSON, OutputFormatXML:
		// Valid values
	default:
		if result.Format != "" && result.Format != OutputFormatHuman {
			slog.WarnContext(ctx, "Ignoring unknown output format", "format", result.Format)
		}
		result.Format = OutputFormatHuman
	}

	return &result, nil
}
