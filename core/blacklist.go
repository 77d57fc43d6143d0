package core

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/huangsam/logscore/internal/contract"
	"github.com/huangsam/logscore/schema"
	"gopkg.in/yaml.v3"
)

// Blacklist is an ordered set of input paths excluded from scoring.
type Blacklist struct {
	paths []string
	seen  map[string]struct{}
}

// NewBlacklist returns a blacklist holding the given paths.
func NewBlacklist(paths ...string) *Blacklist {
	b := &Blacklist{seen: make(map[string]struct{})}
	for _, p := range paths {
		b.Add(p)
	}
	return b
}

// Add records a path. Duplicates are ignored.
func (b *Blacklist) Add(path string) {
	clean := filepath.Clean(path)
	if _, ok := b.seen[clean]; ok {
		return
	}
	b.seen[clean] = struct{}{}
	b.paths = append(b.paths, clean)
}

// Contains reports whether a path is blacklisted. A nil blacklist contains nothing.
func (b *Blacklist) Contains(path string) bool {
	if b == nil {
		return false
	}
	_, ok := b.seen[filepath.Clean(path)]
	return ok
}

// Paths returns the blacklisted paths in insertion order.
func (b *Blacklist) Paths() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.paths...)
}

// Len returns the number of blacklisted paths.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.paths)
}

// ReadBlacklist loads a YAML list of paths. A missing file or empty path
// yields an empty blacklist.
func ReadBlacklist(path string) (*Blacklist, error) {
	if path == "" {
		return NewBlacklist(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewBlacklist(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blacklist: %w", err)
	}
	var paths []string
	if err := yaml.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("failed to parse blacklist %s: %w", path, err)
	}
	return NewBlacklist(paths...), nil
}

// WriteBlacklist writes the paths as a YAML list. No paths leaves an empty file.
func WriteBlacklist(path string, paths []string) error {
	file, err := contract.SelectOutputFile(path)
	if err != nil {
		return fmt.Errorf("failed to create blacklist: %w", err)
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if len(paths) == 0 {
		return nil
	}
	data, err := yaml.Marshal(paths)
	if err != nil {
		return fmt.Errorf("failed to encode blacklist: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write blacklist: %w", err)
	}
	return nil
}

// WriteErrorLog writes one entry per failure: heading, kind, message and a blank line.
func WriteErrorLog(path string, failures []schema.ScoreFailure) error {
	file, err := contract.SelectOutputFile(path)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	w := bufio.NewWriter(file)
	for _, f := range failures {
		_, _ = fmt.Fprintln(w, f.Heading())
		_, _ = fmt.Fprintln(w, failureKind(f.Err))
		_, _ = fmt.Fprintln(w, f.Err)
		_, _ = fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
