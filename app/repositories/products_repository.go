package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows the public product listing. A nil CategoryIDs means
// no category restriction.
type ProductFilter struct {
	CategoryIDs     []string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	InStock         *bool
	IncludeInactive bool
	SortBy          string
	SortOrder       string
	Offset          int
	Limit           int
}

var productSortColumns = map[string]string{
	"name":    "name",
	"price":   "price_numeric",
	"created": "created_at",
	"popular": "views",
}

// OrderClause maps the filter's sort options to a column, defaulting to name ascending.
func (f ProductFilter) OrderClause() (string, bool) {
	column, ok := productSortColumns[f.SortBy]
	if !ok {
		column = "name"
	}
	return column, strings.EqualFold(f.SortOrder, "desc")
}

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlugOrID(ctx context.Context, key string, activeOnly bool) (*models.Product, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	AdminList(ctx context.Context, search string, skip, take int) ([]models.Product, int64, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	PreviewByCategory(ctx context.Context, categoryID string, limit int) ([]models.Product, error)
	IncrementViews(ctx context.Context, id string) error
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	All(ctx context.Context) ([]models.Product, error)
	DeleteAll(ctx context.Context) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db: db}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("image_order ASC")
}

func primaryImage(db *gorm.DB) *gorm.DB {
	return db.Where("is_primary = ?", true).Order("image_order ASC")
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return conn(ctx, p.db).Omit(clause.Associations).Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := conn(ctx, p.db).
		Preload("Categories").
		Preload("Images", orderedImages).
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlugOrID(ctx context.Context, key string, activeOnly bool) (*models.Product, error) {
	defer metrics.TrackDBOperation("product_detail")(time.Now())

	var product models.Product
	query := conn(ctx, p.db).
		Preload("Categories.Parent").
		Preload("Images", orderedImages).
		Preload("CategoryPaths", func(db *gorm.DB) *gorm.DB { return db.Order("path_order ASC") }).
		Where("slug = ? OR id = ?", key, key)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	query := conn(ctx, p.db).Model(&models.Product{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return conn(ctx, p.db).Omit(clause.Associations).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return conn(ctx, p.db).Delete(&models.Product{}, "id = ?", id).Error
}

func (p *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	defer metrics.TrackDBOperation("product_list")(time.Now())

	var products []models.Product
	var total int64

	query := conn(ctx, p.db).Model(&models.Product{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.InStock != nil {
		query = query.Where("in_stock = ?", *filter.InStock)
	}
	if filter.CategoryIDs != nil {
		sub := conn(ctx, p.db).Model(&models.ProductCategory{}).
			Select("product_id").
			Where("category_id IN ?", filter.CategoryIDs)
		query = query.Where("id IN (?)", sub)
	}
	if filter.MinPrice != nil {
		query = query.Where("price_numeric >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price_numeric <= ?", *filter.MaxPrice)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description_text) LIKE ? OR search_text LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, desc := filter.OrderClause()
	err := query.
		Preload("Categories").
		Preload("Images", primaryImage).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (p *productRepository) AdminList(ctx context.Context, search string, skip, take int) ([]models.Product, int64, error) {
	defer metrics.TrackDBOperation("product_admin_list")(time.Now())

	var products []models.Product
	var total int64

	query := conn(ctx, p.db).Model(&models.Product{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR slug LIKE ?", like, like)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Categories").
		Preload("Images", primaryImage).
		Order("created_at DESC").
		Offset(skip).
		Limit(take).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (p *productRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := conn(ctx, p.db).
		Where("is_active = ?", true).
		Preload("Images", primaryImage).
		Order("views DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (p *productRepository) PreviewByCategory(ctx context.Context, categoryID string, limit int) ([]models.Product, error) {
	var products []models.Product
	sub := conn(ctx, p.db).Model(&models.ProductCategory{}).
		Select("product_id").
		Where("category_id = ?", categoryID)
	err := conn(ctx, p.db).
		Where("is_active = ?", true).
		Where("id IN (?)", sub).
		Preload("Images", primaryImage).
		Order("name ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (p *productRepository) IncrementViews(ctx context.Context, id string) error {
	return conn(ctx, p.db).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (p *productRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	err := conn(ctx, p.db).Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

func (p *productRepository) All(ctx context.Context) ([]models.Product, error) {
	defer metrics.TrackDBOperation("product_export")(time.Now())

	var products []models.Product
	err := conn(ctx, p.db).
		Preload("Categories").
		Preload("Images", orderedImages).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (p *productRepository) DeleteAll(ctx context.Context) error {
	return conn(ctx, p.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error
}
