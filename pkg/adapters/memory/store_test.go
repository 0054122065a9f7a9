package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/gensyn/pkg/adapters/memory"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunPatchStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	snap := &domain.Snapshot{Gates: []domain.GateState{{Name: "a", Type: "T", Params: map[string]string{"x": "1"}}}}
	store := memory.NewFromSnapshots(map[string]*domain.Snapshot{"p": snap})

	snap.Gates[0].Params["x"] = "2"
	loaded, err := store.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "1", loaded.Gates[0].Params["x"])

	loaded.Gates[0].Name = "mutated"
	again, err := store.Load(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Gates[0].Name)
}
