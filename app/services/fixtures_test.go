package services

import (
	"context"
	"testing"

	"github.com/sharikirostov/balloon-store/app/configs"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/repositories/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repos repositories.Set
	app   *Container
	sent  *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := inmemory.NewStore().Set()
	sent := &recordingNotifier{}
	env := configs.ENV{AdminJWTSecret: "test-secret", ImagesDir: t.TempDir()}
	return &fixture{
		repos: repos,
		app:   NewContainer(repos, env, configs.DefaultPricingRules(), sent),
		sent:  sent,
	}
}

func (f *fixture) category(t *testing.T, name string, parent *models.Category) *models.Category {
	t.Helper()
	in := CategoryInput{Name: name}
	if parent != nil {
		in.ParentID = &parent.ID
	}
	c, err := f.app.Categories.Create(context.Background(), in)
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, name string, price int64, categories ...*models.Category) *models.Product {
	t.Helper()
	slug := name
	p := &models.Product{
		Name:         name,
		Slug:         &slug,
		Price:        decimal.NewFromInt(price).String() + " ₽",
		PriceNumeric: decimal.NullDecimal{Decimal: decimal.NewFromInt(price), Valid: true},
		InStock:      true,
		IsActive:     true,
	}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	for _, c := range categories {
		require.NoError(t, f.repos.Links.Add(context.Background(), p.ID, c.ID))
	}
	return p
}

func (f *fixture) categoryIDsOf(t *testing.T, productID string) []string {
	t.Helper()
	ids, err := f.repos.Links.CategoryIDsByProduct(context.Background(), productID)
	require.NoError(t, err)
	return ids
}

type recordingNotifier struct {
	kinds    []string
	texts    []string
	markdown []bool
	err      error
}

func (n *recordingNotifier) Send(ctx context.Context, kind, text string, markdown bool) error {
	if n.err != nil {
		return n.err
	}
	n.kinds = append(n.kinds, kind)
	n.texts = append(n.texts, text)
	n.markdown = append(n.markdown, markdown)
	return nil
}
