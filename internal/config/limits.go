// Package config loads internal/limits.Limits from a TOML file and can
// watch that file for edits, republishing a fresh Limits value without
// disturbing any parse already in flight. Grounded in the teacher's
// internal/tqw package (toml.Unmarshal over a byte slice read with
// os.ReadFile) for loading, and cmd/moxie/watch.go's debounced
// fsnotify.Watcher for the reload half.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/admitcalc/exprlang/internal/limits"
)

// Load reads and parses a TOML limits file, filling in defaults for any
// field the file omits (a zero value after decode is indistinguishable
// from "not set", so we decode onto a copy of Default() rather than a
// zero Limits).
func Load(path string) (limits.Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return limits.Limits{}, fmt.Errorf("reading limits file %s: %w", path, err)
	}

	lim := limits.Default()
	if err := toml.Unmarshal(data, &lim); err != nil {
		return limits.Limits{}, fmt.Errorf("parsing limits file %s: %w", path, err)
	}
	return lim, nil
}

// Save writes lim to path as TOML, for tooling that wants to emit a
// starting-point config a user can then hand-edit.
func Save(path string, lim limits.Limits) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating limits file %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(lim); err != nil {
		return fmt.Errorf("encoding limits file %s: %w", path, err)
	}
	return nil
}
