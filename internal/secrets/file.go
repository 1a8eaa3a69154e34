package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const secretsFile = "secrets.yaml"
const secretsFileMode = 0o600

// fileStore keeps secrets in a YAML map readable only by the owner.
type fileStore struct {
	mu   sync.Mutex
	path string
}

func newFileStore(dir string) *fileStore {
	return &fileStore{path: filepath.Join(dir, secretsFile)}
}

func (f *fileStore) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", err
	}
	val, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (f *fileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	return f.save(data)
}

func (f *fileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

func (f *fileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}
	data := make(map[string]string)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return make(map[string]string), nil // corrupt file, start fresh
	}
	return data, nil
}

func (f *fileStore) save(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create secrets dir: %w", err)
	}
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode secrets: %w", err)
	}
	return os.WriteFile(f.path, raw, secretsFileMode)
}
