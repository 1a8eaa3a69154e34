package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// TrackedChange is a changelist created and shelved by p.
type TrackedChange struct {
	Change      string    `yaml:"change" json:"change"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Created     time.Time `yaml:"created" json:"created"`
}

// Tracked is the persisted list of tracked changelists, oldest first.
type Tracked struct {
	path    string
	Changes []TrackedChange `yaml:"changes"`
}

// LoadTracked reads path. A missing file yields an empty list.
func LoadTracked(path string) (*Tracked, error) {
	t := &Tracked{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tracked changelists: %w", err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return t, nil
}

// Save writes the list back to the file it was loaded from.
func (t *Tracked) Save() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tracked changelists: %w", err)
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write tracked changelists: %w", err)
	}
	return os.Rename(tmp, t.path)
}

// Contains reports whether change is tracked.
func (t *Tracked) Contains(change string) bool {
	return t.index(change) >= 0
}

// Add tracks change. It returns false when change was already tracked.
func (t *Tracked) Add(change, description string, now time.Time) bool {
	if t.Contains(change) {
		return false
	}
	t.Changes = append(t.Changes, TrackedChange{Change: change, Description: description, Created: now.UTC()})
	return true
}

// Remove untracks every listed change and returns how many were removed.
func (t *Tracked) Remove(changes ...string) int {
	before := len(t.Changes)
	t.Changes = slices.DeleteFunc(t.Changes, func(c TrackedChange) bool {
		return slices.Contains(changes, c.Change)
	})
	return before - len(t.Changes)
}

// IDs returns the tracked changelist numbers in order.
func (t *Tracked) IDs() []string {
	ids := make([]string, len(t.Changes))
	for i, c := range t.Changes {
		ids[i] = c.Change
	}
	return ids
}

func (t *Tracked) index(change string) int {
	return slices.IndexFunc(t.Changes, func(c TrackedChange) bool { return c.Change == change })
}
