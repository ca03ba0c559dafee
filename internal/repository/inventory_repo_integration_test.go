//go:build integration

package repository

// Integration tests for the inventory reservation guards against a real
// Postgres via testcontainers. The single-statement WHERE guards and the
// reserved-bounds check constraint only exist in SQL, so they are proven
// here rather than against the in-memory fakes.
// Run with: go test -tags integration ./internal/repository/... -v

import (
	"context"
	"sync"
	"testing"

	"otica/internal/infra"
	"otica/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("otica_test"),
		tcPostgres.WithUsername("otica"),
		tcPostgres.WithPassword("otica"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	return db
}

func seedLevel(t *testing.T, db *gorm.DB, qty int) *model.InventoryLevel {
	t.Helper()
	l := &model.InventoryLevel{
		OrganizationID: "org-it",
		StoreID:        uuid.New(),
		ProductFrameID: uuid.New(),
		Quantity:       qty,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) *model.InventoryLevel {
	t.Helper()
	var l model.InventoryLevel
	require.NoError(t, db.First(&l, "id = ?", id).Error)
	return &l
}

// Concurrent reservations contend for 3 units, 2 at a time. The WHERE guard
// must let exactly one through; everyone else sees ok=false, never an error
// and never an oversold row.
func TestReserveFrameGuardUnderContention(t *testing.T) {
	db := setupPostgres(t)
	repo := NewInventoryRepository(db)
	level := seedLevel(t, db, 3)

	const workers = 8
	results := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.ReserveFrame(context.Background(), db, level.ID, 2)
			assert.NoError(t, err)
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	after := reload(t, db, level.ID)
	assert.Equal(t, 2, after.ReservedQuantity)
	assert.Equal(t, 3, after.Quantity)
}

func TestReserveReleaseCommitAgainstRealRow(t *testing.T) {
	db := setupPostgres(t)
	repo := NewInventoryRepository(db)
	level := seedLevel(t, db, 5)
	ctx := context.Background()

	ok, err := repo.ReserveFrame(ctx, db, level.ID, 4)
	require.NoError(t, err)
	require.True(t, ok)

	// Releasing more than held is refused by the guard.
	ok, err = repo.ReleaseFrame(ctx, db, level.ID, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ReleaseFrame(ctx, db, level.ID, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.CommitFrame(ctx, db, level.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	after := reload(t, db, level.ID)
	assert.Equal(t, 2, after.Quantity)
	assert.Equal(t, 0, after.ReservedQuantity)
}

func TestExitGuardProtectsHeldUnits(t *testing.T) {
	db := setupPostgres(t)
	repo := NewInventoryRepository(db)
	level := seedLevel(t, db, 5)
	ctx := context.Background()

	ok, err := repo.ReserveFrame(ctx, db, level.ID, 4)
	require.NoError(t, err)
	require.True(t, ok)

	// Only 1 unit is free; a 2-unit exit must not land.
	ok, err = repo.AdjustFrame(ctx, db, level.ID, -2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.AdjustFrame(ctx, db, level.ID, -1)
	require.NoError(t, err)
	assert.True(t, ok)
}

// The check constraint is the last line of defense: even a raw update cannot
// push reserved past quantity.
func TestReservedBoundsConstraint(t *testing.T) {
	db := setupPostgres(t)
	level := seedLevel(t, db, 2)

	err := db.Exec(
		"UPDATE inventory_levels SET reserved_quantity = quantity + 1 WHERE id = ?",
		level.ID,
	).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chk_inventory_reserved_bounds")
}
