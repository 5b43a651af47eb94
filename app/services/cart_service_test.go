package services

import (
	"context"
	"testing"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddMergesQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "shar", 1200)

	items, err := f.app.Cart.AddItemToCart(ctx, nil, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Qty)
	assert.Equal(t, "shar", items[0].Slug)
	assert.True(t, decimal.NewFromInt(1200).Equal(items[0].PriceNumeric))

	items, err = f.app.Cart.AddItemToCart(ctx, items, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Qty)

	items, err = f.app.Cart.AddItemToCart(ctx, items, p.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, 999, items[0].Qty)
}

func TestCartService_AddRefreshesPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "shar", 1200)
	stale := []models.CartItem{{ProductID: p.ID, Name: "old", PriceNumeric: decimal.NewFromInt(10), Qty: 1}}

	items, err := f.app.Cart.AddItemToCart(ctx, stale, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "shar", items[0].Name)
	assert.True(t, decimal.NewFromInt(1200).Equal(items[0].PriceNumeric))
}

func TestCartService_AddRejectsUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "shar", 1200)
	p.InStock = false
	require.NoError(t, f.repos.Products.Update(ctx, p))

	_, err := f.app.Cart.AddItemToCart(ctx, nil, p.ID, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = f.app.Cart.AddItemToCart(ctx, nil, "missing", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddFallsBackToPriceLabel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := &models.Product{Name: "Букет", Price: "1 500 ₽", InStock: true, IsActive: true}
	require.NoError(t, f.repos.Products.Create(ctx, p))

	items, err := f.app.Cart.AddItemToCart(ctx, nil, p.ID, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(items[0].PriceNumeric))
	assert.Equal(t, p.ID, items[0].Slug)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	items := []models.CartItem{
		{ProductID: "a", Qty: 1},
		{ProductID: "b", Qty: 2},
	}

	updated, err := f.app.Cart.UpdateItemQty(items, "b", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated[1].Qty)

	_, err = f.app.Cart.UpdateItemQty(items, "b", 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.app.Cart.UpdateItemQty(items, "c", 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	remaining, err := f.app.Cart.RemoveItem(items, "a")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].ProductID)

	_, err = f.app.Cart.RemoveItem(remaining, "a")
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestSummarizeCart(t *testing.T) {
	cart := SummarizeCart([]models.CartItem{
		{ProductID: "a", PriceNumeric: decimal.NewFromInt(1200), Qty: 2},
		{ProductID: "b", PriceNumeric: decimal.NewFromInt(350), Qty: 3},
	})

	assert.Equal(t, 5, cart.TotalQty)
	assert.True(t, decimal.NewFromInt(3450).Equal(cart.GrandTotal))
	assert.Equal(t, "3 450 ₽", cart.TotalLabel)

	empty := SummarizeCart(nil)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, "0 ₽", empty.TotalLabel)
}
