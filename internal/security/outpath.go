// Package security guards the files the command-line tools write.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoots is returned for output paths that resolve outside every
// allowed root.
var ErrOutsideRoots = errors.New("output path escapes the allowed directories")

// canonical resolves symlinks in the longest existing prefix of an
// absolute path and re-attaches the part that does not exist yet, so
// "safe/link-to-etc/new.txt" resolves through the link.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	existing, rest := abs, ""
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(existing), rest)
		existing = parent
	}
}

// WithinDirectory reports an error unless path, after resolving symlinks,
// lies inside dir.
func WithinDirectory(path, dir string) error {
	p, err := canonical(path)
	if err != nil {
		return err
	}
	d, err := canonical(dir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(d, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s is not inside %s", ErrOutsideRoots, path, dir)
	}
	return nil
}

// ValidateOutputPath checks that path lies inside one of roots. With no
// roots it allows the working directory and the temp directory.
func ValidateOutputPath(path string, roots ...string) error {
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		roots = []string{cwd, os.TempDir()}
	}
	for _, root := range roots {
		if WithinDirectory(path, root) == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (allowed: %s)", ErrOutsideRoots, path, strings.Join(roots, ", "))
}
