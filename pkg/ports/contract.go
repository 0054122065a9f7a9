package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Version:    domain.SnapshotVersion,
		SampleRate: 44100,
		Gates: []domain.GateState{
			{Name: domain.OutputGateName, Type: domain.OutputGateClass},
			{Name: "lfo", Type: "Simple_LFO", Params: map[string]string{"hz": "0.25", "raw": "not-a-number"}},
		},
		Connections: []domain.ConnectionState{
			{Connection: domain.Connection{From: "lfo", FromPort: "out", To: domain.OutputGateName, ToPort: "waveform"}, Role: "out:waveform"},
		},
	}
}

// RunPatchStoreContract runs a suite of tests to verify that a PatchStore implementation
// adheres to the defined interface contract.
func RunPatchStoreContract(t *testing.T, store PatchStore) {
	ctx := context.Background()
	patchID := "contract-test-patch-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot()

		err := store.Save(ctx, patchID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, patchID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.GateNames(), loaded.GateNames())
		assert.Equal(t, snap.SampleRate, loaded.SampleRate)
		assert.Equal(t, "not-a-number", loaded.Gates[1].Params["raw"], "raw parameter text must survive")
		require.Len(t, loaded.Connections, 1)
		assert.Equal(t, snap.Connections[0], loaded.Connections[0])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		snap := contractSnapshot()
		snap.Gates = snap.Gates[:1]
		snap.Connections = nil
		require.NoError(t, store.Save(ctx, patchID, snap))

		loaded, err := store.Load(ctx, patchID)
		require.NoError(t, err)
		assert.Equal(t, []string{domain.OutputGateName}, loaded.GateNames())
		assert.Empty(t, loaded.Connections)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+patchID)
		assert.ErrorIs(t, err, domain.ErrPatchNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, patchID, contractSnapshot())
		require.NoError(t, err)

		err = store.Delete(ctx, patchID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, patchID)
		assert.ErrorIs(t, err, domain.ErrPatchNotFound, "Load after Delete should return ErrPatchNotFound")

		assert.NoError(t, store.Delete(ctx, patchID), "Delete is idempotent")
	})

	t.Run("List", func(t *testing.T) {
		id1 := patchID + "-1"
		id2 := patchID + "-2"
		_ = store.Save(ctx, id1, contractSnapshot())
		_ = store.Save(ctx, id2, contractSnapshot())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		patches, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, patches, id1)
		assert.Contains(t, patches, id2)
	})
}
