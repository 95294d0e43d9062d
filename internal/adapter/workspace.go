package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	m "github.com/mordant-dev/mordant/internal/model"
)

// Workspace abstracts the filesystem operations the engine needs around a
// project under test: scanning sources, finding the module root and
// staging temporary mutated copies. Hiding direct `os` access keeps the
// domain logic testable without touching the disk.
type Workspace interface {
	// FindProjectRoot walks up from start looking for a go.mod file.
	FindProjectRoot(start m.Path) (m.Path, error)

	// Sources enumerates the mutable Go source files under root,
	// pairing each with its companion test file when one exists.
	// Files matching any exclude regex are skipped.
	Sources(root m.Path, exclude []string) ([]m.Source, error)

	// ReadFile loads a file from disk.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// Stage copies the project at root into a fresh temporary directory
	// and returns its path.
	Stage(ctx context.Context, root m.Path) (m.Path, error)

	// Apply writes mutated content over file's counterpart inside the
	// staged copy.
	Apply(ctx context.Context, root, staged, file m.Path, content []byte) error

	// Discard removes a staged copy, logging failures instead of
	// propagating them.
	Discard(ctx context.Context, staged m.Path)
}

// LocalWorkspace is the os-backed Workspace implementation.
type LocalWorkspace struct{}

// NewLocalWorkspace constructs a LocalWorkspace.
func NewLocalWorkspace() *LocalWorkspace {
	return &LocalWorkspace{}
}

// FindProjectRoot searches for a go.mod file walking up the directory tree.
func (w *LocalWorkspace) FindProjectRoot(start m.Path) (m.Path, error) {
	dir := string(start)

	if info, err := os.Stat(dir); err != nil {
		return "", err
	} else if !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory of %s", start)
		}

		dir = parent
	}
}

// Sources walks root collecting non-test Go files and their companion
// test files.
func (w *LocalWorkspace) Sources(root m.Path, exclude []string) ([]m.Source, error) {
	excluded, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	var sources []m.Source

	walkErr := filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if base == ".git" || base == "vendor" || base == "testdata" {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		for _, pattern := range excluded {
			if pattern.MatchString(path) {
				return nil
			}
		}

		source, err := w.sourceFor(m.Path(path))
		if err != nil {
			return err
		}

		sources = append(sources, source)

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return sources, nil
}

func (w *LocalWorkspace) sourceFor(path m.Path) (m.Source, error) {
	hash, err := hashFile(string(path))
	if err != nil {
		return m.Source{}, fmt.Errorf("hash %s: %w", path, err)
	}

	source := m.Source{Origin: &m.File{Path: path, Hash: hash}}

	testPath := strings.TrimSuffix(string(path), ".go") + "_test.go"
	if _, err := os.Stat(testPath); err == nil {
		testHash, err := hashFile(testPath)
		if err != nil {
			return m.Source{}, fmt.Errorf("hash %s: %w", testPath, err)
		}

		source.Test = &m.File{Path: m.Path(testPath), Hash: testHash}
	}

	return source, nil
}

// ReadFile loads file contents from disk.
func (w *LocalWorkspace) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (w *LocalWorkspace) HashFile(path m.Path) (string, error) {
	return hashFile(string(path))
}

// Stage copies the project into a fresh temp dir.
func (w *LocalWorkspace) Stage(ctx context.Context, root m.Path) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	staged, err := os.MkdirTemp("", "mordant-run-*")
	if err != nil {
		return "", err
	}

	if err := copyDir(string(root), staged); err != nil {
		w.Discard(ctx, m.Path(staged))
		return "", err
	}

	return m.Path(staged), nil
}

// Apply writes mutated content to file's path relative to root, inside the
// staged copy.
func (w *LocalWorkspace) Apply(_ context.Context, root, staged, file m.Path, content []byte) error {
	rel, err := filepath.Rel(string(root), string(file))
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(string(staged), rel), content, 0o600)
}

// Discard removes the staged copy, logging errors if cleanup fails.
func (w *LocalWorkspace) Discard(_ context.Context, staged m.Path) {
	if err := os.RemoveAll(string(staged)); err != nil {
		slog.Error("failed to discard staged workspace", "staged", staged, "error", err)
	}
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

// copyDir recursively copies a directory tree, skipping directories that
// never matter to a test run.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if base == ".git" || base == "node_modules" {
				return filepath.SkipDir
			}
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}

		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}

	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
