package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// FileStore keeps the key space in a single JSON file. Every mutation is
// written through before the call returns, so a process restart observes the
// latest state. Writes go via a temp file and rename.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStore loads (or initializes) the store backed by path.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		values: map[string]string{},
	}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] read")
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &fs.values); err != nil {
			return nil, errors.Wrap(err, "[NewFileStore] unmarshal")
		}
	}
	return fs, nil
}

func (fs *FileStore) Get(key string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	v, ok := fs.values[key]
	if !ok {
		return "", NotFoundErr
	}
	return v, nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.values[key] = value
	return fs.persistLocked()
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.values[key]; !ok {
		return nil
	}
	delete(fs.values, key)
	return fs.persistLocked()
}

func (fs *FileStore) persistLocked() error {
	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, "[FileStore.persist] mkdir")
		}
	}

	b, err := json.MarshalIndent(fs.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.persist] marshal")
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.persist] write tmp")
	}

	if err := os.Rename(tmp, fs.path); err == nil {
		return nil
	}

	defer os.Remove(tmp)
	if runtime.GOOS == "windows" {
		_ = os.Remove(fs.path)
	}
	return errors.Wrap(os.Rename(tmp, fs.path), "[FileStore.persist] rename")
}

var _ Store = (*FileStore)(nil)
