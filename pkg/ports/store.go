package ports

import (
	"context"

	"github.com/aretw0/gensyn/pkg/domain"
)

// PatchStore defines the interface for persisting engine snapshots ("patches").
type PatchStore interface {
	PatchLoader

	// Save persists the snapshot under id, replacing any previous version.
	Save(ctx context.Context, id string, snap *domain.Snapshot) error

	// Delete removes a patch. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}
