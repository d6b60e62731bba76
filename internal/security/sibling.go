package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscapes = errors.New("path escapes directory")
	ErrEmptyPath   = errors.New("empty path not allowed")
	ErrSamePath    = errors.New("derived path equals source")
)

// SiblingPath returns the path of a file named prefix+base(path) in the same
// directory as path. The derived name must be a plain local file name, so a
// crafted prefix cannot place the file anywhere else.
func SiblingPath(path, prefix string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %s", ErrEmptyPath, path)
	}

	name := prefix + base
	if !filepath.IsLocal(name) || strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}

	sibling := filepath.Join(filepath.Dir(path), name)
	if filepath.Clean(sibling) == filepath.Clean(path) {
		return "", fmt.Errorf("%w: %s", ErrSamePath, sibling)
	}
	return sibling, nil
}

// Contained reports whether target resolves inside dir. Both paths are made
// absolute first.
func Contained(dir, target string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("failed to get absolute path: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, fmt.Errorf("failed to get absolute path: %w", err)
	}

	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return false, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel), nil
}
