package notes

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-notes/model"
)

// Storage holds the serialized note collection in a single slot. Load
// reads it wholesale, Save overwrites it wholesale.
type Storage interface {
	Load() ([]model.Note, error)
	Save(notes []model.Note) error
}

// FileStorage keeps the collection as a JSON array in one file.
type FileStorage struct {
	Path string
}

// NewFileStorage returns a FileStorage for path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

// Load returns the stored notes. A missing or empty file is an empty collection.
func (s *FileStorage) Load() ([]model.Note, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Note{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read notes")
	}
	if len(data) == 0 {
		return []model.Note{}, nil
	}

	var items []model.Note
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrapf(err, "decode notes from %s", s.Path)
	}
	if items == nil {
		items = []model.Note{}
	}
	return items, nil
}

// Save replaces the file contents through a temp file and rename.
func (s *FileStorage) Save(items []model.Note) error {
	if items == nil {
		items = []model.Note{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode notes")
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, "create notes directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write notes")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "replace notes file")
	}
	return nil
}

// MemoryStorage keeps the serialized slot in memory.
type MemoryStorage struct {
	mu    sync.Mutex
	data  []byte
	Saves int
}

// Load decodes the last saved snapshot.
func (m *MemoryStorage) Load() ([]model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) == 0 {
		return []model.Note{}, nil
	}
	var items []model.Note
	if err := json.Unmarshal(m.data, &items); err != nil {
		return nil, errors.Wrap(err, "decode notes")
	}
	return items, nil
}

// Save stores a serialized snapshot so later mutation of items has no effect.
func (m *MemoryStorage) Save(items []model.Note) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encode notes")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.Saves++
	return nil
}
