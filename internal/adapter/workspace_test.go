package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mordant-dev/mordant/internal/model"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return dir
}

func TestLocalWorkspace_FindProjectRoot(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"go.mod":        "module example.com/demo\n",
		"pkg/deep/f.go": "package deep\n",
	})

	workspace := NewLocalWorkspace()

	root, err := workspace.FindProjectRoot(m.Path(filepath.Join(dir, "pkg", "deep", "f.go")))
	require.NoError(t, err)
	require.Equal(t, m.Path(dir), root)
}

func TestLocalWorkspace_FindProjectRootMissingGoMod(t *testing.T) {
	dir := writeTree(t, map[string]string{"f.go": "package p\n"})

	_, err := NewLocalWorkspace().FindProjectRoot(m.Path(filepath.Join(dir, "f.go")))

	// The walk stops at the filesystem root; dir itself has no go.mod and
	// neither should the temp parents.
	if err == nil {
		t.Skip("a parent directory carries a go.mod; environment-dependent")
	}

	require.ErrorContains(t, err, "go.mod not found")
}

func TestLocalWorkspace_SourcesPairsTestFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"go.mod":       "module example.com/demo\n",
		"calc.go":      "package demo\n",
		"calc_test.go": "package demo\n",
		"lone.go":      "package demo\n",
		"doc.txt":      "not go\n",
	})

	sources, err := NewLocalWorkspace().Sources(m.Path(dir), nil)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	byName := map[string]m.Source{}
	for _, source := range sources {
		byName[filepath.Base(string(source.Origin.Path))] = source
	}

	require.NotNil(t, byName["calc.go"].Test)
	require.Equal(t, "calc_test.go", filepath.Base(string(byName["calc.go"].Test.Path)))
	require.Nil(t, byName["lone.go"].Test)
	require.NotEmpty(t, byName["calc.go"].Origin.Hash)
}

func TestLocalWorkspace_SourcesHonoursExcludes(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"keep.go":         "package demo\n",
		"generated_gen.go": "package demo\n",
	})

	sources, err := NewLocalWorkspace().Sources(m.Path(dir), []string{`_gen\.go$`})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	require.Equal(t, "keep.go", filepath.Base(string(sources[0].Origin.Path)))
}

func TestLocalWorkspace_SourcesRejectsBadExcludePattern(t *testing.T) {
	_, err := NewLocalWorkspace().Sources(m.Path(t.TempDir()), []string{"("})
	require.ErrorContains(t, err, "invalid exclude pattern")
}

func TestLocalWorkspace_StageApplyDiscard(t *testing.T) {
	ctx := context.Background()
	dir := writeTree(t, map[string]string{
		"go.mod":     "module example.com/demo\n",
		"pkg/f.go":   "package pkg\n\nvar x = 1\n",
		"pkg/g.go":   "package pkg\n",
	})

	workspace := NewLocalWorkspace()

	staged, err := workspace.Stage(ctx, m.Path(dir))
	require.NoError(t, err)

	// The copy is complete and separate from the original.
	copied, err := os.ReadFile(filepath.Join(string(staged), "pkg", "f.go"))
	require.NoError(t, err)
	require.Contains(t, string(copied), "var x = 1")

	mutated := []byte("package pkg\n\nvar x = 2\n")
	require.NoError(t, workspace.Apply(ctx, m.Path(dir), staged, m.Path(filepath.Join(dir, "pkg", "f.go")), mutated))

	applied, err := os.ReadFile(filepath.Join(string(staged), "pkg", "f.go"))
	require.NoError(t, err)
	require.Equal(t, mutated, applied)

	original, err := os.ReadFile(filepath.Join(dir, "pkg", "f.go"))
	require.NoError(t, err)
	require.Contains(t, string(original), "var x = 1")

	workspace.Discard(ctx, staged)

	_, statErr := os.Stat(string(staged))
	require.True(t, os.IsNotExist(statErr))
}

func TestLocalWorkspace_HashFileIsStable(t *testing.T) {
	dir := writeTree(t, map[string]string{"f.go": "package p\n"})

	workspace := NewLocalWorkspace()
	path := m.Path(filepath.Join(dir, "f.go"))

	first, err := workspace.HashFile(path)
	require.NoError(t, err)

	second, err := workspace.HashFile(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, os.WriteFile(string(path), []byte("package q\n"), 0o600))

	third, err := workspace.HashFile(path)
	require.NoError(t, err)
	require.NotEqual(t, first, third)
}
