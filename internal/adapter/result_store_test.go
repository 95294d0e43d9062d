package adapter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mordant-dev/mordant/internal/model"
)

func TestYAMLResultStore_SaveAndLoad(t *testing.T) {
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))
	store := NewYAMLResultStore()

	verdicts := []m.Verdict{
		{MutantID: 2, Type: m.MutationBoolean, File: "b.go", Line: 4, Status: "survived"},
		{MutantID: 1, Type: m.MutationArithmetic, File: "a.go", Line: 2, Status: "killed"},
	}

	require.NoError(t, store.Save(dir, verdicts))

	loaded, err := store.Load(dir)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Stored sorted by mutant id.
	require.Equal(t, uint(1), loaded[0].MutantID)
	require.Equal(t, uint(2), loaded[1].MutantID)
	require.Equal(t, "killed", loaded[0].Status)
}

func TestYAMLResultStore_LoadMissingIsEmpty(t *testing.T) {
	loaded, err := NewYAMLResultStore().Load(m.Path(t.TempDir()))

	require.NoError(t, err)
	require.Empty(t, loaded)
}
