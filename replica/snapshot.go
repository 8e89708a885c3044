package replica

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/tempomesh/go-tempomesh/timeline"
)

// Snapshot is the persisted form of a replica register.
type Snapshot struct {
	Origin  uuid.UUID      `json:"origin"`
	Lamport uint64         `json:"lamport"`
	State   timeline.State `json:"state"`
	SavedAt time.Time      `json:"savedAt"`
}

// Snapshot captures the register at now. It returns false if nothing was written yet.
func (r *Replica) Snapshot(now time.Time) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return Snapshot{}, false
	}
	return Snapshot{
		Origin:  r.latest.Origin,
		Lamport: r.latest.Lamport,
		State:   r.latest.State.Clone(),
		SavedAt: now.UTC(),
	}, true
}

// SaveSnapshot writes snap to path as JSON. The file is written next to its
// destination and renamed, so readers never observe a partial snapshot.
func SaveSnapshot(fs afero.Fs, path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads and validates a snapshot written by SaveSnapshot.
func LoadSnapshot(fs afero.Fs, path string) (Snapshot, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if err := ValidateSchema(data); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot %s: %w", path, err)
	}
	if err := snap.State.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return snap, nil
}
