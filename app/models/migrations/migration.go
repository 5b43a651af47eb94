package migrations

import (
	"github.com/sharikirostov/balloon-store/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Category{},
		&models.Product{},
		&models.ProductCategory{},
		&models.ProductCategoryPath{},
		&models.ProductImage{},
	)
}
