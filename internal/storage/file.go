package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

type fileStore struct {
	root string
}

// NewFileProvider stores the catalog and tables as json files under root.
func NewFileProvider(root string) Provider {
	return &blobProvider{store: &fileStore{root: root}}
}

func (s *fileStore) String() string { return s.root }

func (s *fileStore) get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (s *fileStore) put(_ context.Context, key string, data []byte) error {
	file_path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(file_path), 0755); err != nil {
		return err
	}
	return os.WriteFile(file_path, data, 0644)
}
