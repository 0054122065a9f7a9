package ports

import (
	"context"

	"github.com/aretw0/gensyn/pkg/domain"
)

// PatchLoader provides read access to saved patches.
// This allows patch libraries (Loam vaults, directories, caches) to be decoupled from the engine.
type PatchLoader interface {
	// Load retrieves the snapshot stored under id.
	// Returns domain.ErrPatchNotFound if the patch does not exist.
	Load(ctx context.Context, id string) (*domain.Snapshot, error)

	// List returns the IDs of every stored patch.
	List(ctx context.Context) ([]string, error)
}
