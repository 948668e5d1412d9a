// SPDX-License-Identifier: GPL-2.0-or-later
// SPDX-FileCopyrightText: SUSE LLC

// Package source loads lists of integers from files and URLs.
package source

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/mook-as/recycle/vec"
	"golang.org/x/sync/errgroup"
)

// Source is a named list of values.
type Source struct {
	Name   string
	Values []int32
}

type fetchType func(ctx context.Context, name string) (io.ReadCloser, error)

func fetchHttp(ctx context.Context, name string) (io.ReadCloser, error) {
	slog.DebugContext(ctx, "Fetching source", "url", name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to construct HTTP request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: status code %d (%s)", name, resp.StatusCode, resp.Status)
	}
	if resp.Body == nil {
		return nil, fmt.Errorf("failed to fetch %s: no body", name)
	}
	return resp.Body, nil
}

func fetchFile(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	slog.DebugContext(ctx, "Reading source", "path", name)
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

func fetcherFor(name string) fetchType {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return fetchHttp
	}
	return fetchFile
}

// extension returns the file extension of a path or of the path of a URL.
func extension(name string) string {
	if u, err := url.Parse(name); err == nil && u.Scheme != "" {
		return path.Ext(u.Path)
	}
	return path.Ext(name)
}

// Parse reads whitespace-separated base 10 integers.
func Parse(r io.Reader) ([]int32, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vec.TryMap(tokens, func(token string) (int32, error) {
		v, err := strconv.ParseInt(token, 10, 32)
		if err != nil {
			return 0, err
		}
		return int32(v), nil
	})
}

func load(ctx context.Context, name string, fetch fetchType) (*Source, error) {
	body, err := fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = body.Close()
	}()

	var reader io.Reader = body
	switch extension(name) {
	case ".gz":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", name, err)
		}
		defer func() {
			_ = gz.Close()
		}()
		reader = gz
	case ".zst":
		decoder, err := zstd.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", name, err)
		}
		defer decoder.Close()
		reader = decoder
	}

	values, err := Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	slog.DebugContext(ctx, "Loaded source", "source", name, "values", len(values))
	return &Source{Name: name, Values: values}, nil
}

// Load reads every named source concurrently.  The results are in the same
// order as the names; the first failure cancels the remaining loads.
func Load(ctx context.Context, names ...string) ([]*Source, error) {
	results := make([]*Source, len(names))
	wg, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		wg.Go(func() error {
			result, err := load(ctx, name, fetcherFor(name))
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
