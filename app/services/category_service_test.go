package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateDerivesSlug(t *testing.T) {
	f := newFixture(t)

	c := f.category(t, "Шары на День рождения", nil)

	assert.Equal(t, "shary-na-den-rozhdeniya", c.Slug)
	assert.Nil(t, c.ParentID)
	assert.NotEmpty(t, c.ID)
}

func TestCategoryService_CreateRejectsDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	f.category(t, "Сердца", nil)

	_, err := f.app.Categories.Create(context.Background(), CategoryInput{Name: "Сердца"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCategoryService_CreateUnknownParent(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Categories.Create(context.Background(), CategoryInput{Name: "Сердца", ParentID: ptr("missing")})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_CreateBlankParentIsRoot(t *testing.T) {
	f := newFixture(t)

	c, err := f.app.Categories.Create(context.Background(), CategoryInput{Name: "Цифры", ParentID: ptr("  ")})
	require.NoError(t, err)
	assert.Nil(t, c.ParentID)
}

func TestCategoryService_UpdateRejectsCycles(t *testing.T) {
	f := newFixture(t)
	root := f.category(t, "Шары", nil)
	child := f.category(t, "Латекс", root)
	grandchild := f.category(t, "Пастель", child)
	ctx := context.Background()

	_, err := f.app.Categories.Update(ctx, root.ID, CategoryInput{Name: "Шары", ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	_, err = f.app.Categories.Update(ctx, root.ID, CategoryInput{Name: "Шары", ParentID: &grandchild.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	stored, err := f.repos.Categories.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ParentID)
}

func TestCategoryService_UpdateMovesSubtree(t *testing.T) {
	f := newFixture(t)
	a := f.category(t, "Шары", nil)
	b := f.category(t, "Оформление", nil)
	child := f.category(t, "Арки", a)
	ctx := context.Background()

	updated, err := f.app.Categories.Update(ctx, child.ID, CategoryInput{Name: "Арки из шаров", Slug: "arki", ParentID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, "arki", updated.Slug)
	assert.Equal(t, b.ID, *updated.ParentID)

	ids, err := f.app.Categories.SubtreeIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, child.ID}, ids)
}

func TestCategoryService_UpdateSlugTakenBySibling(t *testing.T) {
	f := newFixture(t)
	f.category(t, "Сердца", nil)
	stars := f.category(t, "Звезды", nil)

	_, err := f.app.Categories.Update(context.Background(), stars.ID, CategoryInput{Name: "Звезды", Slug: "serdtsa"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCategoryService_UpdateNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Categories.Update(context.Background(), "missing", CategoryInput{Name: "X"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_SubtreeIDsParentsFirst(t *testing.T) {
	f := newFixture(t)
	root := f.category(t, "Шары", nil)
	a := f.category(t, "А", root)
	b := f.category(t, "Б", root)
	a1 := f.category(t, "А1", a)

	ids, err := f.app.Categories.SubtreeIDs(context.Background(), root.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{root.ID, a.ID, a1.ID, b.ID}, ids)
}

func TestCategoryService_SubtreeIDsLeaf(t *testing.T) {
	f := newFixture(t)
	root := f.category(t, "Шары", nil)
	leaf := f.category(t, "Гелий", root)

	ids, err := f.app.Categories.SubtreeIDs(context.Background(), leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{leaf.ID}, ids)
}

func TestCategoryService_SubtreeIDsStopsOnCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.category(t, "А", nil)
	b := f.category(t, "Б", a)
	require.NoError(t, f.repos.Categories.UpdateParent(ctx, a.ID, &b.ID))

	ids, err := f.app.Categories.SubtreeIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids)

	ids, err = f.app.Categories.SubtreeIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestCategoryService_DeleteBlockPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	root := f.category(t, "Шары", nil)
	f.category(t, "Сердца", root)
	withProduct := f.category(t, "Звезды", nil)
	f.product(t, "zvezda", 500, withProduct)
	empty := f.category(t, "Пустая", nil)

	assert.ErrorIs(t, f.app.Categories.Delete(ctx, root.ID, DeleteBlock), ErrCategoryNotEmpty)
	assert.ErrorIs(t, f.app.Categories.Delete(ctx, withProduct.ID, DeleteBlock), ErrCategoryNotEmpty)
	require.NoError(t, f.app.Categories.Delete(ctx, empty.ID, DeleteBlock))

	gone, err := f.repos.Categories.GetByID(ctx, empty.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCategoryService_DeleteReparent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	top := f.category(t, "Шары", nil)
	middle := f.category(t, "Фольга", top)
	leaf := f.category(t, "Цифры", middle)
	p := f.product(t, "tsifra-1", 700, middle)

	require.NoError(t, f.app.Categories.Delete(ctx, middle.ID, DeleteReparent))

	moved, err := f.repos.Categories.GetByID(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, top.ID, *moved.ParentID)
	assert.Equal(t, []string{top.ID}, f.categoryIDsOf(t, p.ID))
}

func TestCategoryService_DeleteReparentRoot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	top := f.category(t, "Шары", nil)
	child := f.category(t, "Фольга", top)
	p := f.product(t, "shar", 300, top)

	require.NoError(t, f.app.Categories.Delete(ctx, top.ID, DeleteReparent))

	promoted, err := f.repos.Categories.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, promoted.ParentID)
	assert.Empty(t, f.categoryIDsOf(t, p.ID))
}

func TestCategoryService_DeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	top := f.category(t, "Шары", nil)
	child := f.category(t, "Фольга", top)
	leaf := f.category(t, "Цифры", child)
	other := f.category(t, "Другое", nil)
	p := f.product(t, "tsifra-2", 700, leaf, other)

	require.NoError(t, f.app.Categories.Delete(ctx, top.ID, DeleteCascade))

	for _, id := range []string{top.ID, child.ID, leaf.ID} {
		c, err := f.repos.Categories.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, c)
	}
	assert.Equal(t, []string{other.ID}, f.categoryIDsOf(t, p.ID))

	kept, err := f.repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestCategoryService_DeleteNotFound(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.app.Categories.Delete(context.Background(), "missing", DeleteCascade), ErrCategoryNotFound)
}

func TestParseDeletePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want DeletePolicy
	}{
		{"", DeleteBlock},
		{"block", DeleteBlock},
		{" Reparent ", DeleteReparent},
		{"CASCADE", DeleteCascade},
	}
	for _, tt := range tests {
		got, err := ParseDeletePolicy(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseDeletePolicy("purge")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryService_MoveAllProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	source := f.category(t, "Старое", nil)
	target := f.category(t, "Новое", nil)
	child := f.category(t, "Вложенная", source)
	p1 := f.product(t, "p1", 100, source)
	p2 := f.product(t, "p2", 200, source, target)

	result, err := f.app.Categories.MoveAllProducts(ctx, source.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, &MoveResult{Moved: 2, Total: 2}, result)

	assert.Equal(t, []string{target.ID}, f.categoryIDsOf(t, p1.ID))
	assert.Equal(t, []string{target.ID}, f.categoryIDsOf(t, p2.ID))

	kept, err := f.repos.Categories.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, source.ID, *kept.ParentID)
}

func TestCategoryService_MoveAllProductsEmptySource(t *testing.T) {
	f := newFixture(t)
	source := f.category(t, "Пустая", nil)
	target := f.category(t, "Новое", nil)

	result, err := f.app.Categories.MoveAllProducts(context.Background(), source.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
}

func TestCategoryService_MoveAllProductsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	source := f.category(t, "Старое", nil)

	_, err := f.app.Categories.MoveAllProducts(ctx, source.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.app.Categories.MoveAllProducts(ctx, source.ID, source.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.app.Categories.MoveAllProducts(ctx, source.ID, "missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_GetDetailBySlug(t *testing.T) {
	f := newFixture(t)
	root := f.category(t, "Шары", nil)
	child := f.category(t, "Сердца", root)
	f.product(t, "serdtse", 400, child)

	detail, err := f.app.Categories.GetDetail(context.Background(), "serdtsa")
	require.NoError(t, err)
	assert.Equal(t, child.ID, detail.ID)
	require.NotNil(t, detail.Parent)
	assert.Equal(t, root.ID, detail.Parent.ID)
	assert.Len(t, detail.Products, 1)

	_, err = f.app.Categories.GetDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_TreeCountsProducts(t *testing.T) {
	f := newFixture(t)
	root := f.category(t, "Шары", nil)
	child := f.category(t, "Сердца", root)
	f.product(t, "a", 100, child)
	f.product(t, "b", 100, child)

	tree, err := f.app.Categories.Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, int64(0), tree[0].ProductCount)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, int64(2), tree[0].Children[0].ProductCount)
}
