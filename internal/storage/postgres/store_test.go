package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
	"github.com/arywk40-hue/governance-budget-allocator/internal/storage"
)

// openTestDB skips unless TEST_DATABASE_URL points at a disposable database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	store := NewPostgresStateStore(db)
	require.NoError(t, store.EnsureSchema(ctx))

	_, err := db.ExecContext(ctx, `TRUNCATE ledger_records`)
	require.NoError(t, err)

	_, err = store.GetOwner(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	budget := models.BudgetState{
		Current: models.Int128FromInt64(1000),
		Min:     models.Int128FromInt64(0),
		Max:     models.Int128FromInt64(10000),
	}
	require.NoError(t, store.SaveSnapshot(ctx, "owner", []models.Principal{"p1"}, budget))

	owner, err := store.GetOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Principal("owner"), owner)

	operators, err := store.GetOperators(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Principal{"p1"}, operators)

	got, err := store.GetBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Current.Cmp(budget.Current))

	// Upsert path: overwriting an existing record keeps a single row per key.
	budget.Current = models.Int128FromInt64(1500)
	require.NoError(t, store.SetBudget(ctx, budget))

	got, err = store.GetBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Current.Cmp(models.Int128FromInt64(1500)))

	var rows int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM ledger_records`).Scan(&rows))
	assert.Equal(t, 3, rows)
}
