package repositories

import (
	"context"

	"github.com/sharikirostov/balloon-store/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductCategoryRepositoryImpl manages the product <-> category join rows.
type ProductCategoryRepositoryImpl interface {
	Exists(ctx context.Context, productID, categoryID string) (bool, error)
	Add(ctx context.Context, productID, categoryID string) error
	AddMany(ctx context.Context, links []models.ProductCategory) error
	Remove(ctx context.Context, productID string, categoryIDs []string) error
	RemoveAllForProduct(ctx context.Context, productID string) error
	RemoveAllForCategories(ctx context.Context, categoryIDs []string) error
	ProductIDsByCategory(ctx context.Context, categoryID string) ([]string, error)
	CategoryIDsByProduct(ctx context.Context, productID string) ([]string, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	DeleteAll(ctx context.Context) error
}

type productCategoryRepository struct {
	db *gorm.DB
}

func NewProductCategoryRepository(db *gorm.DB) ProductCategoryRepositoryImpl {
	return &productCategoryRepository{db: db}
}

func (r *productCategoryRepository) Exists(ctx context.Context, productID, categoryID string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.ProductCategory{}).
		Where("product_id = ? AND category_id = ?", productID, categoryID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productCategoryRepository) Add(ctx context.Context, productID, categoryID string) error {
	link := models.ProductCategory{ProductID: productID, CategoryID: categoryID}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *productCategoryRepository) AddMany(ctx context.Context, links []models.ProductCategory) error {
	if len(links) == 0 {
		return nil
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *productCategoryRepository) Remove(ctx context.Context, productID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).
		Where("product_id = ? AND category_id IN ?", productID, categoryIDs).
		Delete(&models.ProductCategory{}).Error
}

func (r *productCategoryRepository) RemoveAllForProduct(ctx context.Context, productID string) error {
	return conn(ctx, r.db).Where("product_id = ?", productID).Delete(&models.ProductCategory{}).Error
}

func (r *productCategoryRepository) RemoveAllForCategories(ctx context.Context, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Where("category_id IN ?", categoryIDs).Delete(&models.ProductCategory{}).Error
}

func (r *productCategoryRepository) ProductIDsByCategory(ctx context.Context, categoryID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&models.ProductCategory{}).
		Where("category_id = ?", categoryID).
		Order("product_id ASC").
		Pluck("product_id", &ids).Error
	return ids, err
}

func (r *productCategoryRepository) CategoryIDsByProduct(ctx context.Context, productID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&models.ProductCategory{}).
		Where("product_id = ?", productID).
		Order("category_id ASC").
		Pluck("category_id", &ids).Error
	return ids, err
}

func (r *productCategoryRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.ProductCategory{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *productCategoryRepository) DeleteAll(ctx context.Context) error {
	return conn(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ProductCategory{}).Error
}
