package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
	"github.com/arywk40-hue/governance-budget-allocator/internal/storage"
)

func TestEmptyStoreReportsNotFound(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	_, err := store.GetOwner(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetOperators(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetBudget(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveSnapshotRoundTrip(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	budget := models.BudgetState{
		Current: models.Int128FromInt64(1000),
		Min:     models.Int128FromInt64(0),
		Max:     models.Int128FromInt64(10000),
	}
	operators := []models.Principal{"p1", "p2"}

	require.NoError(t, store.SaveSnapshot(ctx, "owner", operators, budget))

	owner, err := store.GetOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Principal("owner"), owner)

	gotOperators, err := store.GetOperators(ctx)
	require.NoError(t, err)
	assert.Equal(t, operators, gotOperators)

	gotBudget, err := store.GetBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, gotBudget.Current.Cmp(budget.Current))
	assert.Equal(t, 0, gotBudget.Min.Cmp(budget.Min))
	assert.Equal(t, 0, gotBudget.Max.Cmp(budget.Max))
}

func TestIndividualSetters(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, store.SetOwner(ctx, "owner"))
	require.NoError(t, store.SetOperators(ctx, nil))

	operators, err := store.GetOperators(ctx)
	require.NoError(t, err)
	assert.Empty(t, operators)

	budget := models.BudgetState{
		Current: models.Int128FromInt64(5),
		Min:     models.Int128FromInt64(-10),
		Max:     models.Int128FromInt64(10),
	}
	require.NoError(t, store.SetBudget(ctx, budget))

	got, err := store.GetBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Current.Cmp(budget.Current))
}

func TestReturnedSlicesAreIndependent(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	require.NoError(t, store.SetOperators(ctx, []models.Principal{"p1", "p2"}))

	first, err := store.GetOperators(ctx)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := store.GetOperators(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Principal{"p1", "p2"}, second)
}
