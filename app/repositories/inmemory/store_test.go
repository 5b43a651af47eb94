package inmemory

import (
	"context"
	"errors"
	"testing"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTransactor_RollsBackOnError(t *testing.T) {
	store := NewStore()
	repos := store.Set()
	ctx := context.Background()
	kept := &models.Category{Name: "Шары", Slug: "shary"}
	require.NoError(t, repos.Categories.Create(ctx, kept))

	boom := errors.New("boom")
	err := repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.Categories.Create(ctx, &models.Category{Name: "Сердца", Slug: "serdtsa"}))
		require.NoError(t, repos.Categories.Delete(ctx, kept.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := repos.Categories.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)
}

func TestTransactor_Commits(t *testing.T) {
	repos := NewStore().Set()
	ctx := context.Background()

	require.NoError(t, repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return repos.Categories.Create(ctx, &models.Category{Name: "Шары", Slug: "shary"})
	}))

	c, err := repos.Categories.GetByIDOrSlug(ctx, "shary")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCategories_Constraints(t *testing.T) {
	repos := NewStore().Set()
	ctx := context.Background()
	root := &models.Category{Name: "Шары", Slug: "shary"}
	require.NoError(t, repos.Categories.Create(ctx, root))

	err := repos.Categories.Create(ctx, &models.Category{Name: "Дубль", Slug: "shary"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	missing := "missing"
	err = repos.Categories.Create(ctx, &models.Category{Name: "Сирота", Slug: "sirota", ParentID: &missing})
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)

	child := &models.Category{Name: "Сердца", Slug: "serdtsa", ParentID: &root.ID}
	require.NoError(t, repos.Categories.Create(ctx, child))
	assert.ErrorIs(t, repos.Categories.Delete(ctx, root.ID), ErrForeignKey)

	found, err := repos.Categories.GetByIDOrSlug(ctx, "shary")
	require.NoError(t, err)
	require.Len(t, found.Children, 1)
	assert.Equal(t, child.ID, found.Children[0].ID)
}

func TestLinks_RequireBothSides(t *testing.T) {
	repos := NewStore().Set()
	ctx := context.Background()
	p := &models.Product{Name: "Шар"}
	require.NoError(t, repos.Products.Create(ctx, p))

	assert.ErrorIs(t, repos.Links.Add(ctx, p.ID, "missing"), ErrForeignKey)

	c := &models.Category{Name: "Шары", Slug: "shary"}
	require.NoError(t, repos.Categories.Create(ctx, c))
	require.NoError(t, repos.Links.Add(ctx, p.ID, c.ID))
	require.NoError(t, repos.Links.Add(ctx, p.ID, c.ID))

	count, err := repos.Links.CountByCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.ErrorIs(t, repos.Products.Delete(ctx, p.ID), ErrForeignKey)
}

func TestProducts_SlugUniqueness(t *testing.T) {
	repos := NewStore().Set()
	ctx := context.Background()
	slug := "shar"
	require.NoError(t, repos.Products.Create(ctx, &models.Product{Name: "Шар", Slug: &slug}))

	dup := "shar"
	assert.ErrorIs(t, repos.Products.Create(ctx, &models.Product{Name: "Шар 2", Slug: &dup}), ErrDuplicateKey)
	assert.NoError(t, repos.Products.Create(ctx, &models.Product{Name: "Без слага"}))
	assert.NoError(t, repos.Products.Create(ctx, &models.Product{Name: "Тоже без слага"}))
}
