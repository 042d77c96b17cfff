package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/config"
	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	cfg := config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "pos.db")}
	s, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleOrder(id string, at time.Time) domain.Order {
	price := decimal.NewFromInt(15000)
	lines := []domain.CartLine{{
		Product:  domain.Product{ID: "p1", Name: "Coffee", Price: price, Category: "Beverages", Owner: "Kitchen"},
		Quantity: 2,
		Note:     "less sugar",
	}}
	totals := domain.ComputeTotals(lines, decimal.NewFromInt(11))
	return domain.Order{
		ID:            id,
		Items:         lines,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		TaxRate:       decimal.NewFromInt(11),
		Total:         totals.Total,
		Date:          at,
		PaymentMethod: domain.PaymentCash,
	}
}

func TestSQLite_ProductUpsertAndList(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	p := domain.Product{ID: "p1", Name: "Tea", Price: decimal.RequireFromString("8000.50"), Category: "Beverages", Owner: "Kitchen", Image: "img", Description: "hot"}
	require.NoError(t, s.Products.Put(ctx, p))
	p.Name = "Iced Tea"
	require.NoError(t, s.Products.Put(ctx, p))
	require.NoError(t, s.Products.Put(ctx, domain.Product{ID: "p2", Name: "Coffee", Price: decimal.NewFromInt(15000)}))

	list, err := s.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Coffee", list[0].Name)
	assert.Equal(t, "Iced Tea", list[1].Name)
	assert.True(t, list[1].Price.Equal(decimal.RequireFromString("8000.5")))

	got, err := s.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Beverages", got.Category)

	require.NoError(t, s.Products.Delete(ctx, "p1"))
	require.NoError(t, s.Products.Delete(ctx, "p1"), "deleting a missing id is a no-op")
	_, err = s.Products.Get(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLite_CategoryAndOwnerUpsert(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.Categories.Put(ctx, domain.CategoryItem{ID: "beverages", Name: "Beverages"}))
	require.NoError(t, s.Categories.Put(ctx, domain.CategoryItem{ID: "beverages", Name: "beverages"}))
	cats, err := s.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "beverages", cats[0].Name)

	require.NoError(t, s.Owners.Put(ctx, domain.OwnerItem{ID: "kitchen", Name: "Kitchen"}))
	owners, err := s.Owners.List(ctx)
	require.NoError(t, err)
	require.Len(t, owners, 1)

	require.NoError(t, s.Owners.Delete(ctx, "missing"))
	_, err = s.Owners.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLite_CategoryAndOwnerListByID(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.Categories.Put(ctx, domain.CategoryItem{ID: "banana", Name: "Banana"}))
	require.NoError(t, s.Categories.Put(ctx, domain.CategoryItem{ID: "apple", Name: "apple"}))
	cats, err := s.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, []string{"apple", "banana"}, []string{cats[0].ID, cats[1].ID})

	require.NoError(t, s.Owners.Put(ctx, domain.OwnerItem{ID: "zed", Name: "zed"}))
	require.NoError(t, s.Owners.Put(ctx, domain.OwnerItem{ID: "bar", Name: "Bar"}))
	owners, err := s.Owners.List(ctx)
	require.NoError(t, err)
	require.Len(t, owners, 2)
	assert.Equal(t, "Bar", owners[0].Name)
}

func TestSQLite_OrdersStrictInsertAndOrdering(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Orders.Add(ctx, sampleOrder("o1", base)))
	require.NoError(t, s.Orders.Add(ctx, sampleOrder("o2", base.Add(time.Hour))))

	err := s.Orders.Add(ctx, sampleOrder("o1", base))
	assert.True(t, errors.Is(err, domain.ErrAlreadyExists), "got %v", err)

	list, err := s.Orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o2", list[0].ID)

	got, err := s.Orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(33300)), "total %s", got.Total)
	assert.True(t, got.Date.Equal(base))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "less sugar", got.Items[0].Note)
	assert.Equal(t, domain.PaymentCash, got.PaymentMethod)
}

func TestSQLite_ResetAllEmptiesEverything(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.Products.Put(ctx, domain.Product{ID: "p1", Name: "Tea", Price: decimal.NewFromInt(1)}))
	require.NoError(t, s.Categories.Put(ctx, domain.CategoryItem{ID: "a", Name: "A"}))
	require.NoError(t, s.Owners.Put(ctx, domain.OwnerItem{ID: "b", Name: "B"}))
	require.NoError(t, s.Orders.Add(ctx, sampleOrder("o1", time.Now().UTC())))

	require.NoError(t, s.ResetAll(ctx))

	products, err := s.Products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	cats, err := s.Categories.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
	owners, err := s.Owners.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, owners)
	orders, err := s.Orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "pos.db")}

	s, err := Open(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, s.Orders.Add(ctx, sampleOrder("o1", time.Now().UTC())))
	require.NoError(t, s.Close())

	s, err = Open(ctx, cfg, nil)
	require.NoError(t, err)
	defer s.Close()
	orders, err := s.Orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgress")
	_, err := Open(context.Background(), config.FromEnv(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store driver "postgress"`)
}

func TestPostgres_ResetAll(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, config.Config{StoreDriver: config.DriverPostgres, DBConnString: dsn}, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ResetAll(ctx))
	require.NoError(t, s.Orders.Add(ctx, sampleOrder("o1", time.Now().UTC().Truncate(time.Microsecond))))
	err = s.Orders.Add(ctx, sampleOrder("o1", time.Now().UTC()))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	require.NoError(t, s.ResetAll(ctx))
	orders, err := s.Orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
