package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry records one generated file.
type Entry struct {
	Class  string `yaml:"class" json:"class"`
	Kind   string `yaml:"kind" json:"kind"`
	Source string `yaml:"source" json:"source"`
	Output string `yaml:"output" json:"output"`
	Schema string `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Run is one generation pass.
type Run struct {
	Version string    `yaml:"version" json:"version"`
	Time    time.Time `yaml:"time" json:"time"`
	Entries []Entry   `yaml:"entries" json:"entries"`
}

// Manifest tracks the files produced by successive generation runs.
type Manifest struct {
	CurrentVersion  string `yaml:"current_version" json:"current_version"`
	PreviousVersion string `yaml:"previous_version" json:"previous_version"`
	Runs            []Run  `yaml:"runs" json:"runs"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// AddRun records a run and moves the version pointers. A run with an already
// recorded version replaces the earlier one.
func (m *Manifest) AddRun(r Run) {
	if m.CurrentVersion != "" && m.CurrentVersion != r.Version {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = r.Version

	for i := range m.Runs {
		if m.Runs[i].Version == r.Version {
			m.Runs[i] = r
			return
		}
	}

	m.Runs = append(m.Runs, r)
}

// Run returns the run recorded under version, if present.
func (m *Manifest) Run(version string) (Run, bool) {
	for _, r := range m.Runs {
		if r.Version == version {
			return r, true
		}
	}
	return Run{}, false
}

// Stale lists outputs of the previous run that the current run no longer
// produced, typically because the model was deleted or renamed.
func (m *Manifest) Stale() []string {
	prev, ok := m.Run(m.PreviousVersion)
	if !ok || m.PreviousVersion == m.CurrentVersion {
		return nil
	}
	cur, _ := m.Run(m.CurrentVersion)

	seen := make(map[string]bool, len(cur.Entries))
	for _, e := range cur.Entries {
		seen[filepath.Clean(e.Output)] = true
	}
	var out []string
	for _, e := range prev.Entries {
		if !seen[filepath.Clean(e.Output)] {
			out = append(out, e.Output)
		}
	}
	return out
}
