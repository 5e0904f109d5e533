package client

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Marker is the durable record of the room the client believes it is
// in. It survives restarts so a relaunched client can offer to resume.
type Marker struct {
	RoomID    string `json:"room_id"`
	ViewState string `json:"view_state"`
}

// Store persists the marker as a small JSON file.
type Store struct {
	path string
}

// NewStore creates a store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStorePath returns the marker path under the user config dir,
// falling back to the working directory.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".numberhunt.json"
	}
	return filepath.Join(dir, "numberhunt", "session.json")
}

// Save writes the marker, creating parent directories as needed.
func (s *Store) Save(m Marker) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load reads the marker. A missing or corrupt file returns ok=false;
// corruption is treated the same as absence.
func (s *Store) Load() (Marker, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Marker{}, false, nil
	}
	if err != nil {
		return Marker{}, false, err
	}
	var m Marker
	if err := json.Unmarshal(data, &m); err != nil || m.RoomID == "" {
		return Marker{}, false, nil
	}
	return m, true, nil
}

// Clear removes the marker.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
