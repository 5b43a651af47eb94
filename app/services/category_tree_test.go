package services

import (
	"testing"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestBuildCategoryTree(t *testing.T) {
	rows := []models.CategoryWithCount{
		{ID: "a", Name: "Шары"},
		{ID: "b", Name: "Латексные", ParentID: ptr("a")},
		{ID: "c", Name: "Фольгированные", ParentID: ptr("a")},
		{ID: "d", Name: "С гелием", ParentID: ptr("b")},
		{ID: "e", Name: "Оформление"},
	}

	roots := BuildCategoryTree(rows)

	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].ID)
	assert.Equal(t, "e", roots[1].ID)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "b", roots[0].Children[0].ID)
	assert.Equal(t, "c", roots[0].Children[1].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "d", roots[0].Children[0].Children[0].ID)
	assert.NotNil(t, roots[1].Children)
	assert.Empty(t, roots[1].Children)
}

func TestBuildCategoryTree_MissingParentBecomesRoot(t *testing.T) {
	roots := BuildCategoryTree([]models.CategoryWithCount{
		{ID: "x", Name: "Сироты", ParentID: ptr("gone")},
	})

	require.Len(t, roots, 1)
	assert.Equal(t, "x", roots[0].ID)
}

func TestBuildCategoryTree_CycleDoesNotHideNodes(t *testing.T) {
	roots := BuildCategoryTree([]models.CategoryWithCount{
		{ID: "a", Name: "A", ParentID: ptr("b")},
		{ID: "b", Name: "B", ParentID: ptr("a")},
	})

	count := 0
	var walk func(nodes []*CategoryNode)
	walk = func(nodes []*CategoryNode) {
		for _, n := range nodes {
			count++
			walk(n.Children)
		}
	}
	walk(roots)
	assert.Equal(t, 2, count)
}

func TestBuildCategoryTree_KeepsCounts(t *testing.T) {
	roots := BuildCategoryTree([]models.CategoryWithCount{
		{ID: "a", Name: "Шары", ProductCount: 3},
		{ID: "b", Name: "Сердца", ParentID: ptr("a"), ProductCount: 7},
	})

	require.Len(t, roots, 1)
	assert.Equal(t, int64(3), roots[0].ProductCount)
	assert.Equal(t, int64(7), roots[0].Children[0].ProductCount)
}

func TestBuildCategoryTree_Empty(t *testing.T) {
	roots := BuildCategoryTree(nil)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}
