package annotate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoDraft is returned by Load when no draft file exists on disk.
var ErrNoDraft = errors.New("no annotation in progress")

// DraftStore persists the pending draft between command invocations, which
// is what lets marks accumulate across separate CLI runs. A single draft
// file also means at most one annotation is in progress per workspace.
type DraftStore interface {
	Save(d Draft) error
	Load() (Draft, error) // returns ErrNoDraft if none exists
	Delete() error
}

// diskStore is the concrete DraftStore that writes into the workspace state
// directory.
type diskStore struct {
	path string // full path to draft.json
}

// NewDraftStore returns a DraftStore backed by draft.json inside stateDir.
// Nothing is created on disk until the first Save.
func NewDraftStore(stateDir string) DraftStore {
	return &diskStore{path: filepath.Join(stateDir, "draft.json")}
}

// Save marshals d to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(draft Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to persist draft state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("failed to persist draft state: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "draft-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist draft state: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist draft state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist draft state: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist draft state: %w", err)
	}
	return nil
}

// Load reads and unmarshals the draft file.
// Returns ErrNoDraft if the file does not exist.
func (d *diskStore) Load() (Draft, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Draft{}, ErrNoDraft
		}
		return Draft{}, fmt.Errorf("failed to read draft state: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return Draft{}, fmt.Errorf("failed to parse draft state: %w", err)
	}
	return draft, nil
}

// Delete removes the draft file from disk.
func (d *diskStore) Delete() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete draft state: %w", err)
	}
	return nil
}
