package repositories

import (
	"context"

	"github.com/sharikirostov/balloon-store/app/models"
	"gorm.io/gorm"
)

type ProductImageRepositoryImpl interface {
	AddMany(ctx context.Context, images []models.ProductImage) error
	DeleteByProduct(ctx context.Context, productID string) error
	DeleteAll(ctx context.Context) error
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepositoryImpl {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) AddMany(ctx context.Context, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&images).Error
}

func (r *productImageRepository) DeleteByProduct(ctx context.Context, productID string) error {
	return conn(ctx, r.db).Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error
}

func (r *productImageRepository) DeleteAll(ctx context.Context) error {
	return conn(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ProductImage{}).Error
}
