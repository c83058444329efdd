package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(version string, outputs ...string) Run {
	r := Run{Version: version, Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	for _, o := range outputs {
		r.Entries = append(r.Entries, Entry{Class: filepath.Base(o), Kind: "class", Output: o})
	}
	return r
}

func TestLoad_Missing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, m.Runs)
	assert.Empty(t, m.CurrentVersion)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: [oops"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "unmarshal manifest")
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.yaml")
	m := &Manifest{}
	m.AddRun(run("v1", "out/A.ts"))
	m.AddRun(run("v2", "out/A.ts", "out/B.ts"))
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestAddRun(t *testing.T) {
	m := &Manifest{}
	m.AddRun(run("v1", "a"))
	assert.Equal(t, "v1", m.CurrentVersion)
	assert.Empty(t, m.PreviousVersion)

	m.AddRun(run("v2", "a"))
	assert.Equal(t, "v2", m.CurrentVersion)
	assert.Equal(t, "v1", m.PreviousVersion)

	// re-running a version replaces it and keeps the pointers
	m.AddRun(run("v2", "a", "b"))
	assert.Equal(t, "v1", m.PreviousVersion)
	require.Len(t, m.Runs, 2)
	r, ok := m.Run("v2")
	require.True(t, ok)
	assert.Len(t, r.Entries, 2)

	_, ok = m.Run("v9")
	assert.False(t, ok)
}

func TestStale(t *testing.T) {
	m := &Manifest{}
	assert.Nil(t, m.Stale())

	m.AddRun(run("v1", "out/A.ts", "out/B.ts", "out/./C.ts"))
	assert.Nil(t, m.Stale())

	m.AddRun(run("v2", "out/A.ts", "out/C.ts"))
	assert.Equal(t, []string{"out/B.ts"}, m.Stale())
}
