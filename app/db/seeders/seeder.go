package seeders

import (
	"context"
	"fmt"

	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"go.uber.org/zap"
)

type Seeder struct {
	Name string
	Run  func(ctx context.Context) error
}

type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// starterTree is the category skeleton of an empty storefront.
var starterTree = []struct {
	Name     string
	Slug     string
	Children []string
}{
	{Name: "Воздушные шары", Slug: "vozdushnye-shary", Children: []string{"Латексные шары", "Фольгированные шары", "По форме"}},
	{Name: "Композиции", Slug: "kompozicii", Children: []string{"Фонтаны из шаров", "Букеты из шаров"}},
	{Name: "Оформление", Slug: "oformlenie", Children: []string{"Арки", "Гирлянды"}},
}

func SeedersRegister(app *services.Container, admin AdminSeed) []Seeder {
	seeders := []Seeder{
		{Name: "categories", Run: func(ctx context.Context) error { return seedCategories(ctx, app.Categories) }},
	}
	if admin.Email != "" && admin.Password != "" {
		seeders = append(seeders, Seeder{Name: "admin", Run: func(ctx context.Context) error {
			_, err := app.Auth.ResetAdmin(ctx, services.RegisterInput{Email: admin.Email, Password: admin.Password, Name: admin.Name})
			return err
		}})
	}
	return seeders
}

func DBSeed(ctx context.Context, app *services.Container, admin AdminSeed) error {
	log := logger.GetLogger()
	for _, seeder := range SeedersRegister(app, admin) {
		if err := seeder.Run(ctx); err != nil {
			return fmt.Errorf("seeder %s: %w", seeder.Name, err)
		}
		log.Info("seeder completed", zap.String("seeder", seeder.Name))
	}
	return nil
}

// seedCategories creates the starter tree only on an empty catalog.
func seedCategories(ctx context.Context, categories *services.CategoryService) error {
	existing, err := categories.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.GetLogger().Info("categories already present, skipping", zap.Int("count", len(existing)))
		return nil
	}

	for _, root := range starterTree {
		parent, err := categories.Create(ctx, services.CategoryInput{Name: root.Name, Slug: root.Slug})
		if err != nil {
			return err
		}
		for _, child := range root.Children {
			if _, err := categories.Create(ctx, services.CategoryInput{Name: child, ParentID: &parent.ID}); err != nil {
				return err
			}
		}
	}
	return nil
}
