package seeders

import (
	"context"
	"testing"

	"github.com/sharikirostov/balloon-store/app/configs"
	"github.com/sharikirostov/balloon-store/app/repositories/inmemory"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *services.Container {
	t.Helper()
	env := configs.ENV{AdminJWTSecret: "seed-secret", ImagesDir: t.TempDir()}
	return services.NewContainer(inmemory.NewStore().Set(), env, configs.DefaultPricingRules(), nil)
}

func TestDBSeed_CategoriesOnce(t *testing.T) {
	app := newContainer(t)
	ctx := context.Background()

	require.NoError(t, DBSeed(ctx, app, AdminSeed{}))
	first, err := app.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 10)

	require.NoError(t, DBSeed(ctx, app, AdminSeed{}))
	second, err := app.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, len(first))

	detail, err := app.Categories.GetDetail(ctx, "vozdushnye-shary")
	require.NoError(t, err)
	assert.Equal(t, "Воздушные шары", detail.Name)
}

func TestDBSeed_Admin(t *testing.T) {
	app := newContainer(t)
	ctx := context.Background()

	assert.Len(t, SeedersRegister(app, AdminSeed{Email: "admin@example.com"}), 1)

	require.NoError(t, DBSeed(ctx, app, AdminSeed{Email: "admin@example.com", Password: "secret-pass"}))
	_, err := app.Auth.Login(ctx, services.LoginInput{Email: "admin@example.com", Password: "secret-pass"})
	assert.NoError(t, err)
}
