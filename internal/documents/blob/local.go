package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore keeps PDF bytes under a directory on disk. Used when no S3
// bucket is configured.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return "local:" + path, nil
}

func (s *LocalStore) Delete(_ context.Context, location string) error {
	scheme, path, err := SplitLocation(location)
	if err != nil {
		return err
	}
	if scheme != "local" {
		return fmt.Errorf("location %q is not a local location", location)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	return nil
}
