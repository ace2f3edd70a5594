package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitcalc/exprlang/internal/limits"
)

func TestSaveLoad_RoundTripIsLossless(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.toml")

	want := limits.Limits{
		MaxTokenCount:              12345,
		MaxStackDepth:              678,
		MaxParsingSteps:            9,
		MaxStatesDuringBuild:       42,
		MaxMergeIterationsPerState: 3,
		MaxConcurrentParses:        2,
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_FillsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_stack_depth = 5\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaxStackDepth)
	assert.Equal(t, limits.Default().MaxTokenCount, got.MaxTokenCount)
}

func TestWatcher_ReloadsWithoutDisruptingAlreadyReadValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.toml")
	require.NoError(t, Save(path, limits.Default()))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	before := w.Current()
	assert.Equal(t, limits.Default().MaxStackDepth, before.MaxStackDepth)

	updated := limits.Default()
	updated.MaxStackDepth = 1
	require.NoError(t, Save(path, updated))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.Current().MaxStackDepth == 1 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.Equal(t, 1, w.Current().MaxStackDepth)

	// before is a value copy: it must not have changed underfoot.
	assert.Equal(t, limits.Default().MaxStackDepth, before.MaxStackDepth)
}
