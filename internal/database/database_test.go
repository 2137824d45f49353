package database

import (
	"context"
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderbuilder/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	n, err := SeedCatalog(db, DefaultCatalog())
	require.NoError(t, err)
	require.Equal(t, len(DefaultCatalog()), n)
	return db
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	n, err := SeedCatalog(db, DefaultCatalog())
	require.NoError(t, err)
	assert.Zero(t, n)

	items, err := NewCatalogRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, len(DefaultCatalog()))
}

func TestDefaultCatalogCoversEveryCategory(t *testing.T) {
	counts := map[models.Category]int{}
	for _, item := range DefaultCatalog() {
		require.True(t, item.Category.Valid(), item.ID)
		assert.NotEmpty(t, item.Images(), item.ID)
		counts[item.Category]++
	}
	assert.Positive(t, counts[models.CategoryFrame])
	assert.Positive(t, counts[models.CategoryFillingSolid])
	assert.Positive(t, counts[models.CategoryFillingSauce])
}

func TestCatalogFindByIDs(t *testing.T) {
	db := setupTestDB(t)

	found, err := NewCatalogRepository(db).FindByIDs(context.Background(), []string{"crater-bun", "missing", "space-sauce"})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "Crater bun", found["crater-bun"].Name)
}

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db, nil)
	ctx := context.Background()

	ids := []string{"crater-bun", "meteorite-patty", "spicy-x-sauce", "meteorite-patty", "crater-bun"}
	first, err := repo.Create(ctx, ids)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "Crater Meteorite Spicy-X burger", first.Name)
	assert.Equal(t, string(models.OrderStatusPending), first.Status)
	assert.NotEmpty(t, first.PublicID)

	second, err := repo.Create(ctx, []string{"fluorescent-bun", "space-sauce", "fluorescent-bun"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)

	stored, err := repo.FindByNumber(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ids, stored.IngredientIDs())
}

func TestCreateOrderRejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db, nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, nil)
	assert.ErrorIs(t, err, models.ErrEmptyOrder)

	_, err = repo.Create(ctx, []string{"crater-bun", "ghost-pepper"})
	assert.ErrorIs(t, err, models.ErrUnknownIngredient)
	assert.Contains(t, err.Error(), "ghost-pepper")

	snapshot, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, snapshot.Total)
}

func TestRecentOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, []string{"crater-bun", "mineral-salad", "crater-bun"})
		require.NoError(t, err)
	}

	snapshot, err := repo.Recent(ctx, 2)
	require.NoError(t, err)

	require.Len(t, snapshot.Orders, 2)
	assert.Equal(t, 3, snapshot.Orders[0].Number)
	assert.Equal(t, 2, snapshot.Orders[1].Number)
	assert.Equal(t, []string{"crater-bun", "mineral-salad", "crater-bun"}, snapshot.Orders[0].Ingredients)
	assert.Equal(t, 3, snapshot.Total)
	assert.Equal(t, 3, snapshot.TotalToday)

	repo.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	snapshot, err = repo.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, snapshot.TotalToday)
}

func TestRecentOrdersEmpty(t *testing.T) {
	db := setupTestDB(t)

	snapshot, err := NewOrderRepository(db, nil).Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, snapshot.Orders)
	assert.Empty(t, snapshot.Orders)
}

func TestFindByNumberNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewOrderRepository(db, nil).FindByNumber(context.Background(), 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db, nil)
	ctx := context.Background()

	created, err := repo.Create(ctx, []string{"crater-bun", "saturn-rings", "crater-bun"})
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, created.Number, models.OrderStatus("burnt"))
	assert.Error(t, err)

	updated, err := repo.UpdateStatus(ctx, created.Number, models.OrderStatusDone)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusDone), updated.Status)

	stored, err := repo.FindByNumber(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusDone), stored.Status)
}

func TestCanceledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCatalogRepository(db).List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
