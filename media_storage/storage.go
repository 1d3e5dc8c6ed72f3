package media_storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage materializes fetched media bytes on disk so results survive the
// request that produced them.
type Storage interface {
	Save(ownerID string, name string, data []byte) (string, error)
}

type storageImpl struct {
	mediaDir string
}

type Config struct {
	MediaDir string
}

func New(cfg Config) (Storage, error) {
	if cfg.MediaDir == "" {
		return nil, errors.New("missing media directory")
	}

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return nil, err
	}

	return &storageImpl{mediaDir: cfg.MediaDir}, nil
}

// Save writes data under a uuid-suffixed filename so repeated saves of the
// same name never collide, and returns the file's path.
func (s *storageImpl) Save(ownerID string, name string, data []byte) (string, error) {
	if ownerID == "" {
		return "", errors.New("missing owner ID")
	}

	storedName := fmt.Sprintf("%s_%s_%s", ownerID, uuid.New().String(), filepath.Base(name))
	path := filepath.Join(s.mediaDir, storedName)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file %s: %w", path, err)
	}

	return path, nil
}
