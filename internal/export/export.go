// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package export writes optimized matrix configs and generated
// re-encode scripts to disk for later download.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mwrenn/avsignallab/internal/logging"
	"github.com/mwrenn/avsignallab/internal/metrics"
)

// ErrNotFound is returned by Open for filenames with no export on disk.
var ErrNotFound = errors.New("export file not found")

// Store writes export artifacts under a single directory and serves
// them back by bare filename. Filenames carry a random suffix so
// concurrent exports never collide and names are not guessable.
type Store struct {
	dir string
}

// NewStore ensures the export directory exists.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("export directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the export directory path.
func (s *Store) Dir() string { return s.dir }

// WriteConfig marshals v as indented JSON under a generated filename
// like "vrroom_optimized_3fa85f64.json" and returns that filename.
func (s *Store) WriteConfig(prefix string, v interface{}) (string, error) {
	if err := validatePrefix(prefix); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling config export: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", prefix, randomSuffix())
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o640); err != nil {
		return "", fmt.Errorf("writing config export: %w", err)
	}

	metrics.RecordExport("json")
	logging.Debug().Str("filename", name).Msg("config export written")
	return name, nil
}

// WriteScript writes a shell script of re-encode commands and returns
// its generated filename.
func (s *Store) WriteScript(prefix string, commands []string) (string, error) {
	if err := validatePrefix(prefix); err != nil {
		return "", err
	}
	if len(commands) == 0 {
		return "", errors.New("no commands to export")
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Generated re-encode commands. Review paths before running.\n\n")
	for _, cmd := range commands {
		b.WriteString(cmd)
		b.WriteString("\n\n")
	}

	name := fmt.Sprintf("%s_%s.sh", prefix, randomSuffix())
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(b.String()), 0o750); err != nil {
		return "", fmt.Errorf("writing script export: %w", err)
	}

	metrics.RecordExport("commands")
	logging.Debug().Str("filename", name).Msg("script export written")
	return name, nil
}

// Open resolves a previously returned filename for download. The name
// is reduced to its base component so traversal sequences cannot
// escape the export directory.
func (s *Store) Open(filename string) (*os.File, error) {
	base := filepath.Base(filepath.Clean(filename))
	if base == "." || base == ".." || base == string(os.PathSeparator) {
		return nil, ErrNotFound
	}

	path := filepath.Join(s.dir, base)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening export %q: %w", base, err)
	}
	return f, nil
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return errors.New("export prefix must not be empty")
	}
	for _, r := range prefix {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_' {
			return fmt.Errorf("export prefix %q contains invalid characters", prefix)
		}
	}
	return nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
