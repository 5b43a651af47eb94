package services

import (
	"github.com/sharikirostov/balloon-store/app/configs"
	"github.com/sharikirostov/balloon-store/app/repositories"
)

// Container wires every service over one repository set.
type Container struct {
	Categories *CategoryService
	Catalog    *CatalogService
	Bulk       *BulkCategoryService
	Products   *ProductAdminService
	Import     *ImportService
	Export     *ExportService
	Auth       *AuthService
	Cart       *CartService
	Orders     *OrderService
	Images     *ImageStorage
}

func NewContainer(repos repositories.Set, env configs.ENV, rules configs.PricingRules, notifier Notifier) *Container {
	categories := NewCategoryService(repos.Categories, repos.Links, repos.Products, repos.Tx)
	return &Container{
		Categories: categories,
		Catalog:    NewCatalogService(repos.Products, categories),
		Bulk:       NewBulkCategoryService(repos.Products, repos.Categories, repos.Links, repos.Tx),
		Products:   NewProductAdminService(repos.Products, repos.Categories, repos.Links, repos.Images, repos.Paths, repos.Tx),
		Import:     NewImportService(repos.Products, repos.Categories, repos.Links, repos.Images, repos.Paths, repos.Tx, rules),
		Export:     NewExportService(repos.Products, repos.Categories),
		Auth:       NewAuthService(repos.Admins, env.AdminJWTSecret),
		Cart:       NewCartService(repos.Products),
		Orders:     NewOrderService(notifier),
		Images:     NewImageStorage(env.ImagesDir),
	}
}
