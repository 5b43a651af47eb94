package repositories

import (
	"context"

	"github.com/sharikirostov/balloon-store/app/models"
	"gorm.io/gorm"
)

type CategoryPathRepositoryImpl interface {
	Create(ctx context.Context, path *models.ProductCategoryPath) error
	ListByProduct(ctx context.Context, productID string) ([]models.ProductCategoryPath, error)
	DeleteByProduct(ctx context.Context, productID string) error
	DeleteAll(ctx context.Context) error
}

type categoryPathRepository struct {
	db *gorm.DB
}

func NewCategoryPathRepository(db *gorm.DB) CategoryPathRepositoryImpl {
	return &categoryPathRepository{db: db}
}

func (r *categoryPathRepository) Create(ctx context.Context, path *models.ProductCategoryPath) error {
	return conn(ctx, r.db).Create(path).Error
}

func (r *categoryPathRepository) ListByProduct(ctx context.Context, productID string) ([]models.ProductCategoryPath, error) {
	var paths []models.ProductCategoryPath
	err := conn(ctx, r.db).Where("product_id = ?", productID).Order("path_order ASC").Find(&paths).Error
	return paths, err
}

func (r *categoryPathRepository) DeleteByProduct(ctx context.Context, productID string) error {
	return conn(ctx, r.db).Where("product_id = ?", productID).Delete(&models.ProductCategoryPath{}).Error
}

func (r *categoryPathRepository) DeleteAll(ctx context.Context) error {
	return conn(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ProductCategoryPath{}).Error
}
