package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByIDOrSlug(ctx context.Context, key string) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetAllWithCounts(ctx context.Context) ([]models.CategoryWithCount, error)
	ListChildren(ctx context.Context, parentID string) ([]models.Category, error)
	ListRoots(ctx context.Context) ([]models.Category, error)
	FindRootBySlug(ctx context.Context, slug string) (*models.Category, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Update(ctx context.Context, category *models.Category) error
	UpdateParent(ctx context.Context, id string, parentID *string) error
	ReparentChildren(ctx context.Context, fromParentID string, toParentID *string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return conn(ctx, r.db).Omit("Parent", "Children", "Products").Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := conn(ctx, r.db).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetByIDOrSlug(ctx context.Context, key string) (*models.Category, error) {
	var category models.Category
	err := conn(ctx, r.db).
		Preload("Parent").
		Preload("Children", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("id = ? OR slug = ?", key, key).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	defer metrics.TrackDBOperation("category_list")(time.Now())

	var categories []models.Category
	if err := conn(ctx, r.db).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetAllWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	defer metrics.TrackDBOperation("category_counts")(time.Now())

	var rows []models.CategoryWithCount
	err := conn(ctx, r.db).
		Model(&models.Category{}).
		Select("categories.id, categories.name, categories.slug, categories.parent_id, categories.description, COUNT(pc.product_id) AS product_count").
		Joins("LEFT JOIN product_categories pc ON pc.category_id = categories.id").
		Group("categories.id, categories.name, categories.slug, categories.parent_id, categories.description").
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count products per category: %w", err)
	}
	return rows, nil
}

func (r *categoryRepository) ListChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	defer metrics.TrackDBOperation("category_children")(time.Now())

	var children []models.Category
	if err := conn(ctx, r.db).Where("parent_id = ?", parentID).Order("name ASC").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

func (r *categoryRepository) ListRoots(ctx context.Context) ([]models.Category, error) {
	var roots []models.Category
	if err := conn(ctx, r.db).Where("parent_id IS NULL").Order("name ASC").Find(&roots).Error; err != nil {
		return nil, err
	}
	return roots, nil
}

func (r *categoryRepository) FindRootBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := conn(ctx, r.db).Where("slug = ? AND parent_id IS NULL", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	q := conn(ctx, r.db).Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return conn(ctx, r.db).Omit("Parent", "Children", "Products").Save(category).Error
}

func (r *categoryRepository) UpdateParent(ctx context.Context, id string, parentID *string) error {
	return conn(ctx, r.db).Model(&models.Category{}).Where("id = ?", id).Update("parent_id", parentID).Error
}

func (r *categoryRepository) ReparentChildren(ctx context.Context, fromParentID string, toParentID *string) error {
	return conn(ctx, r.db).Model(&models.Category{}).Where("parent_id = ?", fromParentID).Update("parent_id", toParentID).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Delete(&models.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) DeleteAll(ctx context.Context) error {
	db := conn(ctx, r.db).Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := db.Model(&models.Category{}).Update("parent_id", nil).Error; err != nil {
		return err
	}
	return db.Delete(&models.Category{}).Error
}
