package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	m "github.com/mordant-dev/mordant/internal/model"
)

const verdictsFileName = "verdicts.yaml"

// ResultStore persists per-mutant verdicts between runs so they can be
// inspected later without re-testing.
type ResultStore interface {
	Save(dir m.Path, verdicts []m.Verdict) error
	Load(dir m.Path) ([]m.Verdict, error)
}

// YAMLResultStore stores verdicts as a single YAML document under the
// output directory.
type YAMLResultStore struct{}

// NewYAMLResultStore constructs a YAMLResultStore.
func NewYAMLResultStore() *YAMLResultStore {
	return &YAMLResultStore{}
}

// Save writes the verdicts, sorted by mutant id for stable diffs.
func (s *YAMLResultStore) Save(dir m.Path, verdicts []m.Verdict) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	sorted := make([]m.Verdict, len(verdicts))
	copy(sorted, verdicts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MutantID < sorted[j].MutantID })

	raw, err := yaml.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("encode verdicts: %w", err)
	}

	path := filepath.Join(string(dir), verdictsFileName)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// Load reads previously saved verdicts. A missing file is not an error; it
// yields an empty result.
func (s *YAMLResultStore) Load(dir m.Path) ([]m.Verdict, error) {
	path := filepath.Join(string(dir), verdictsFileName)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var verdicts []m.Verdict
	if err := yaml.Unmarshal(raw, &verdicts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return verdicts, nil
}
