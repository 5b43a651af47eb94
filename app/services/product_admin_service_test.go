package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestProductAdminService_CreateWithRelations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hearts := f.category(t, "Сердца", nil)

	p, err := f.app.Products.Create(ctx, ProductInput{
		Name:       "Шар сердце",
		Slug:       "shar-serdtse",
		Price:      "1 500 ₽",
		Categories: []IDRef{{ID: hearts.ID}, {ID: hearts.ID}},
		Images: []ImageRef{
			{URL: "https://example.com/images/uploads/products/a.png?v=2"},
			{RelativePath: "uploads/products/b.png"},
			{URL: " "},
		},
	})
	require.NoError(t, err)

	assert.True(t, p.IsActive)
	assert.True(t, p.InStock)
	assert.Equal(t, "1500", p.PriceNumeric.Decimal.String())
	assert.Equal(t, "шар сердце", p.SearchText)
	require.Len(t, p.Categories, 1)
	assert.Equal(t, hearts.ID, p.Categories[0].ID)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "/images/uploads/products/a.png?v=2", p.PrimaryImagePath())
	assert.Equal(t, "b.png", p.Images[1].Filename)
}

func TestProductAdminService_GetIncludesImportBreadcrumb(t *testing.T) {
	f := newFixture(t)
	importRecords(t, f, ImportMerge, models.RawProduct{Name: "Шар сердце", Price: "1500 ₽", Category: "По форме > Сердца"})
	imported := productBySlug(t, f, "shar-serdtse")

	p, err := f.app.Products.Get(context.Background(), imported.ID)
	require.NoError(t, err)
	require.Len(t, p.CategoryPaths, 2)
	assert.Equal(t, "По форме", p.CategoryPaths[0].PathPart)
	assert.Equal(t, "Сердца", p.CategoryPaths[1].PathPart)

	_, err = f.app.Products.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductAdminService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "taken", 100)

	_, err := f.app.Products.Create(ctx, ProductInput{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.app.Products.Create(ctx, ProductInput{Name: "Шар", Slug: "taken"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = f.app.Products.Create(ctx, ProductInput{Name: "Шар", Categories: []IDRef{{ID: "ghost"}}})
	assert.ErrorIs(t, err, ErrValidation)

	all, err := f.repos.Products.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductAdminService_UpdateReplacesRelations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hearts := f.category(t, "Сердца", nil)
	stars := f.category(t, "Звезды", nil)
	p := f.product(t, "shar", 100, hearts)
	inactive := false

	updated, err := f.app.Products.Update(ctx, p.ID, ProductInput{
		Name:       "Шар звезда",
		Slug:       "shar",
		Price:      "700 ₽",
		IsActive:   &inactive,
		Categories: []IDRef{{ID: stars.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Шар звезда", updated.Name)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.InStock)
	assert.Equal(t, []string{stars.ID}, f.categoryIDsOf(t, p.ID))

	_, err = f.app.Products.Update(ctx, "missing", ProductInput{Name: "X"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductAdminService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	imported := importRecords(t, f, ImportMerge, models.RawProduct{Name: "Один", Price: "100", Category: "Шары > Латекс"})
	require.Equal(t, 1, imported.Imported)
	p := productBySlug(t, f, "odin")

	require.NoError(t, f.app.Products.Delete(ctx, p.ID))

	gone, err := f.repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.ErrorIs(t, f.app.Products.Delete(ctx, p.ID), ErrProductNotFound)
}

func TestProductAdminService_ListSearch(t *testing.T) {
	f := newFixture(t)
	hearts := f.category(t, "Сердца", nil)
	f.product(t, "serdtse-bolshoe", 100, hearts)
	f.product(t, "zvezda", 100)

	page, err := f.app.Products.List(context.Background(), "serdtse", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, []string{"Сердца"}, page.Products[0].CategoryNames)
	assert.Equal(t, 1, page.Page)
}

func TestNormalizeImagePath(t *testing.T) {
	assert.Equal(t, "/images/a.png", NormalizeImagePath("https://cdn.example.com/images/a.png"))
	assert.Equal(t, "/a.png?w=10", NormalizeImagePath("http://x/a.png?w=10"))
	assert.Equal(t, "uploads/a.png", NormalizeImagePath(" uploads/a.png "))
}

func TestExportService_WriteCatalog(t *testing.T) {
	f := newFixture(t)
	root := f.category(t, "Шары", nil)
	child := f.category(t, "Сердца", root)
	f.product(t, "shar", 1200, child)

	var buf bytes.Buffer
	require.NoError(t, f.app.Export.WriteCatalog(context.Background(), &buf))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	products, err := book.GetRows("Товары")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Название", products[0][2])
	assert.Equal(t, "shar", products[1][2])
	assert.Equal(t, "Сердца", products[1][7])

	categories, err := book.GetRows("Категории")
	require.NoError(t, err)
	require.Len(t, categories, 3)
}
