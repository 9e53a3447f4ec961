package incident

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage persists attachment bytes and returns a URL reference for the
// stored object. The incident service only ever sees the reference.
type Storage interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// diskStorage writes attachments to a local directory served as static files
// under /uploads.
type diskStorage struct {
	dir string
}

// NewDiskStorage creates a Storage writing into dir, creating it if needed.
func NewDiskStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &diskStorage{dir: dir}, nil
}

// Save stores the bytes under a fresh uuid name, keeping only the original
// extension so a hostile filename cannot traverse out of the directory.
func (s *diskStorage) Save(_ context.Context, filename string, data []byte) (string, error) {
	name := uuid.Must(uuid.NewV7()).String() + filepath.Ext(filepath.Base(filename))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return "/uploads/" + name, nil
}
