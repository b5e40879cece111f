package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/pdv-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pdv-backend/pkg/errors"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&models.Product{}))

	repo := NewRepository(conn)
	for _, p := range DemoProducts() {
		_, err := repo.Upsert(context.Background(), p)
		require.NoError(t, err)
	}
	return repo
}

func TestRepositoryLookups(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p, err := repo.FindByBarcode(ctx, "7891234567891")
	require.NoError(t, err)
	assert.Equal(t, "2", p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("30")))

	_, err = repo.FindByID(ctx, "404")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepositoryListAndLowStock(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	found, err := repo.List(ctx, Filter{Query: "coca"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "3", found[0].ID)

	found, err = repo.List(ctx, Filter{Query: "7891234"})
	require.NoError(t, err)
	assert.Len(t, found, 4)

	low, err := repo.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "4", low[0].ID)
}

func TestRepositoryListsInMemoryCatalogOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	mem, err := NewMemoryCatalog(DemoProducts()...)
	require.NoError(t, err)

	for _, filter := range []Filter{{}, {Category: "lanches"}, {Query: "especial"}} {
		fromSQL, err := repo.List(ctx, filter)
		require.NoError(t, err)
		fromMemory, err := mem.List(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, productIDs(fromMemory), productIDs(fromSQL), "filter %+v", filter)
	}
	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1", "2", "3"}, productIDs(all))
}

func productIDs(products []Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestRepositoryUpsertKeepsInactiveFlag(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	p.Active = false
	p.Name = "Cerveja Heineken 600ml (fora de linha)"
	_, err = repo.Upsert(ctx, p)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, p.Name, got.Name)

	active, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestRepositoryDecrementStock(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	err := repo.DecrementStock(ctx, []StockMove{{ProductID: "1", Quantity: 5}, {ProductID: "4", Quantity: 3}})
	var shortage *InsufficientStockError
	require.True(t, errors.As(err, &shortage), "expected shortage, got %v", err)
	assert.Equal(t, []string{"4"}, shortage.ProductIDs())
	assert.Equal(t, 2, shortage.Shortages[0].Available)

	p, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 150, p.StockQuantity, "rolled back transaction must leave stock untouched")

	require.NoError(t, repo.DecrementStock(ctx, []StockMove{{ProductID: "1", Quantity: 5}, {ProductID: "4", Quantity: 2}}))
	p, _ = repo.FindByID(ctx, "4")
	assert.Equal(t, 0, p.StockQuantity)
}

func TestRepositoryAdjustStock(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p, err := repo.AdjustStock(ctx, "3", -30)
	require.NoError(t, err)
	assert.Equal(t, 50, p.StockQuantity)

	_, err = repo.AdjustStock(ctx, "3", -51)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = repo.AdjustStock(ctx, "missing", 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}
