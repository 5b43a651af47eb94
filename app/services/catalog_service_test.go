package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productNames(page *ProductPage) []string {
	names := make([]string, 0, len(page.Products))
	for _, p := range page.Products {
		names = append(names, p.Name)
	}
	return names
}

func TestCatalogService_CategoryFilterIncludesSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.category(t, "Шары", nil)
	child := f.category(t, "Сердца", root)
	grandchild := f.category(t, "Красные", child)
	other := f.category(t, "Другое", nil)
	f.product(t, "a", 100, root)
	f.product(t, "b", 200, grandchild)
	f.product(t, "c", 300, other)

	page, err := f.app.Catalog.ListProducts(ctx, ProductListQuery{CategoryID: root.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, productNames(page))

	page, err = f.app.Catalog.ListProducts(ctx, ProductListQuery{CategoryID: child.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, productNames(page))
}

func TestCatalogService_UnknownCategoryIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", 100)

	page, err := f.app.Catalog.ListProducts(context.Background(), ProductListQuery{CategoryID: "missing"})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, int64(0), page.Pagination.Total)
}

func TestCatalogService_FiltersAndSorting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "a", 100)
	f.product(t, "b", 500)
	f.product(t, "c", 900)
	hidden := f.product(t, "d", 300)
	hidden.IsActive = false
	require.NoError(t, f.repos.Products.Update(ctx, hidden))

	lo, hi := decimal.NewFromInt(200), decimal.NewFromInt(900)
	page, err := f.app.Catalog.ListProducts(ctx, ProductListQuery{MinPrice: &lo, MaxPrice: &hi, SortBy: "price", SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, productNames(page))

	page, err = f.app.Catalog.ListProducts(ctx, ProductListQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, productNames(page))
}

func TestCatalogService_Pagination(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		f.product(t, name, 100)
	}

	page, err := f.app.Catalog.ListProducts(context.Background(), ProductListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, productNames(page))
	assert.Equal(t, Pagination{Page: 2, Limit: 2, Total: 5, TotalPages: 3}, page.Pagination)

	page, err = f.app.Catalog.ListProducts(context.Background(), ProductListQuery{Page: -1, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, MaxPageSize, page.Pagination.Limit)

	page, err = f.app.Catalog.ListProducts(context.Background(), ProductListQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.Pagination.Limit)
}

func TestCatalogService_GetProductCountsViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "shar", 100)

	got, err := f.app.Catalog.GetProduct(ctx, "shar")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	got, err = f.app.Catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestCatalogService_GetProductHidesInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "shar", 100)
	p.IsActive = false
	require.NoError(t, f.repos.Products.Update(ctx, p))

	_, err := f.app.Catalog.GetProduct(ctx, "shar")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_Home(t *testing.T) {
	f := newFixture(t)
	root := f.category(t, "Шары", nil)
	f.product(t, "a", 100, root)

	home, err := f.app.Catalog.Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, home.Featured, 1)
	require.Len(t, home.Categories, 1)
	assert.Equal(t, int64(1), home.Categories[0].ProductCount)
}
