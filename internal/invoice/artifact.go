package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

// ArtifactStore keeps the durable copies of rendered invoices.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) error
}

// ArtifactKey names the durable copy for an order.
func ArtifactKey(orderID uuid.UUID) string {
	return fmt.Sprintf("invoice-%s.txt", orderID)
}

// FSArtifactStore writes artifacts under a single invoices directory.
type FSArtifactStore struct {
	dir string
}

func NewFSArtifactStore(dir string) (*FSArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create invoices dir: %w", err)
	}
	return &FSArtifactStore{dir: dir}, nil
}

func (s *FSArtifactStore) Put(_ context.Context, key string, data []byte) error {
	path := filepath.Join(s.dir, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &domain.PersistenceError{Op: "write invoice artifact", Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		// Don't leave partial files behind.
		os.Remove(tmp)
		return &domain.PersistenceError{Op: "rename invoice artifact", Err: err}
	}
	return nil
}
