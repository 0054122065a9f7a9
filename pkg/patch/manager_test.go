package patch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/gensyn/pkg/adapters/memory"
	"github.com/aretw0/gensyn/pkg/adapters/redis"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/patch"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	time.Sleep(time.Millisecond)
	return s.Store.Load(ctx, id)
}

func addGate(name string) func(context.Context, *domain.Snapshot) (*domain.Snapshot, error) {
	return func(_ context.Context, snap *domain.Snapshot) (*domain.Snapshot, error) {
		snap.Gates = append(snap.Gates, domain.GateState{Name: name, Type: "Simple_Input"})
		return snap, nil
	}
}

func TestManager_UpdateIsSerialized(t *testing.T) {
	mgr := patch.NewManager(SlowStore{memory.NewStore()})
	ctx := context.Background()

	_, err := mgr.LoadOrCreate(ctx, "race")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := mgr.Update(ctx, "race", addGate(fmt.Sprintf("g%d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := mgr.Load(ctx, "race")
	require.NoError(t, err)
	assert.Len(t, snap.Gates, 21, "no update may be lost")
}

func TestManager_LoadOrCreate(t *testing.T) {
	mgr := patch.NewManager(memory.NewStore())
	ctx := context.Background()

	snap, err := mgr.LoadOrCreate(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.OutputGateName}, snap.GateNames())

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, ids)
}

func TestManager_UpdateAbortsOnError(t *testing.T) {
	mgr := patch.NewManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Update(ctx, "missing", addGate("x"))
	assert.ErrorIs(t, err, domain.ErrPatchNotFound)

	require.NoError(t, mgr.Save(ctx, "p", patch.NewSnapshot()))
	boom := errors.New("boom")
	_, err = mgr.Update(ctx, "p", func(context.Context, *domain.Snapshot) (*domain.Snapshot, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	snap, err := mgr.Load(ctx, "p")
	require.NoError(t, err)
	assert.Len(t, snap.Gates, 1)
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	mgr := patch.NewManager(memory.NewStore(),
		patch.WithLocker(redis.NewLocker(client, "test:")),
		patch.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	err := mgr.WithLock(ctx, "p", func(ctx context.Context) error {
		assert.True(t, mr.Exists("test:lock:p"))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:lock:p"))
}
