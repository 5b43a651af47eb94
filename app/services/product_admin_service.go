package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type IDRef struct {
	ID string `json:"id"`
}

type ImageRef struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	RelativePath string `json:"relativePath"`
	Filename     string `json:"filename"`
}

// ProductInput is the admin create/update payload. Categories and images
// replace the product's current sets.
type ProductInput struct {
	Name             string                 `json:"name" validate:"required,max=255"`
	Slug             string                 `json:"slug" validate:"max=255"`
	Price            string                 `json:"price" validate:"max=64"`
	PriceNumeric     *decimal.Decimal       `json:"priceNumeric"`
	DescriptionText  string                 `json:"descriptionText"`
	DescriptionItems []string               `json:"descriptionItems"`
	CompositionItems []string               `json:"compositionItems"`
	Specifications   []models.Specification `json:"specifications"`
	SearchText       string                 `json:"searchText"`
	IsActive         *bool                  `json:"isActive"`
	InStock          *bool                  `json:"inStock"`
	Categories       []IDRef                `json:"categories"`
	Images           []ImageRef             `json:"images"`
}

type AdminProductRow struct {
	models.Product
	PrimaryImage  *string  `json:"primaryImage"`
	CategoryNames []string `json:"categoryNames"`
}

type AdminProductPage struct {
	Products []AdminProductRow `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
}

type ProductAdminService struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	linkRepo     repositories.ProductCategoryRepositoryImpl
	imageRepo    repositories.ProductImageRepositoryImpl
	pathRepo     repositories.CategoryPathRepositoryImpl
	tx           repositories.Transactor
	log          *zap.Logger
}

func NewProductAdminService(
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	linkRepo repositories.ProductCategoryRepositoryImpl,
	imageRepo repositories.ProductImageRepositoryImpl,
	pathRepo repositories.CategoryPathRepositoryImpl,
	tx repositories.Transactor,
) *ProductAdminService {
	return &ProductAdminService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		linkRepo:     linkRepo,
		imageRepo:    imageRepo,
		pathRepo:     pathRepo,
		tx:           tx,
		log:          logger.GetLogger(),
	}
}

func (s *ProductAdminService) List(ctx context.Context, search string, skip, take int) (*AdminProductPage, error) {
	if skip < 0 {
		skip = 0
	}
	_, take = normalizePaging(1, take)

	products, total, err := s.productRepo.AdminList(ctx, search, skip, take)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	rows := make([]AdminProductRow, 0, len(products))
	for _, p := range products {
		row := AdminProductRow{Product: p, CategoryNames: []string{}}
		if primary := p.PrimaryImagePath(); primary != "" {
			row.PrimaryImage = &primary
		}
		for _, c := range p.Categories {
			row.CategoryNames = append(row.CategoryNames, c.Name)
		}
		rows = append(rows, row)
	}
	return &AdminProductPage{Products: rows, Total: total, Page: skip/take + 1}, nil
}

func (s *ProductAdminService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	paths, err := s.pathRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load breadcrumb of product %s: %w", id, err)
	}
	product.CategoryPaths = paths
	return product, nil
}

func (s *ProductAdminService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{IsActive: true, InStock: true}
	if err := applyProductInput(product, in); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkSlug(ctx, product.Slug, ""); err != nil {
			return err
		}
		categoryIDs, err := s.checkCategories(ctx, in.Categories)
		if err != nil {
			return err
		}
		if err := s.productRepo.Create(ctx, product); err != nil {
			return err
		}
		return s.replaceRelations(ctx, product.ID, categoryIDs, in.Images)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordProductOperation("create")
	s.log.Info("product created", zap.String("product_id", product.ID))
	return s.Get(ctx, product.ID)
}

func (s *ProductAdminService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if err := applyProductInput(product, in); err != nil {
			return err
		}
		if err := s.checkSlug(ctx, product.Slug, id); err != nil {
			return err
		}
		categoryIDs, err := s.checkCategories(ctx, in.Categories)
		if err != nil {
			return err
		}
		if err := s.productRepo.Update(ctx, product); err != nil {
			return err
		}
		return s.replaceRelations(ctx, id, categoryIDs, in.Images)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordProductOperation("update")
	s.log.Info("product updated", zap.String("product_id", id))
	return s.Get(ctx, id)
}

// Delete removes the product with its category links, breadcrumb paths and
// images.
func (s *ProductAdminService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if err := s.linkRepo.RemoveAllForProduct(ctx, id); err != nil {
			return err
		}
		if err := s.imageRepo.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := s.pathRepo.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return s.productRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	metrics.RecordProductOperation("delete")
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

func applyProductInput(product *models.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("product name is required: %w", ErrValidation)
	}
	product.Name = name

	product.Slug = nil
	if slug := strings.TrimSpace(in.Slug); slug != "" {
		product.Slug = &slug
	}

	product.Price = strings.TrimSpace(in.Price)
	product.PriceNumeric = decimal.NullDecimal{}
	if in.PriceNumeric != nil {
		product.PriceNumeric = decimal.NullDecimal{Decimal: *in.PriceNumeric, Valid: true}
	} else if value, ok := helpers.ParsePrice(product.Price); ok {
		product.PriceNumeric = decimal.NullDecimal{Decimal: value, Valid: true}
	}

	product.DescriptionText = in.DescriptionText
	product.DescriptionItems = in.DescriptionItems
	product.CompositionItems = in.CompositionItems
	product.Specifications = in.Specifications
	product.SearchText = strings.TrimSpace(in.SearchText)
	if product.SearchText == "" {
		product.SearchText = searchText(name, in.DescriptionText, in.CompositionItems)
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if in.InStock != nil {
		product.InStock = *in.InStock
	}
	return nil
}

func (s *ProductAdminService) checkSlug(ctx context.Context, slug *string, excludeID string) error {
	if slug == nil {
		return nil
	}
	taken, err := s.productRepo.SlugExists(ctx, *slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("product slug %q: %w", *slug, ErrSlugTaken)
	}
	return nil
}

func (s *ProductAdminService) checkCategories(ctx context.Context, refs []IDRef) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	ids = uniqueIDs(ids)
	for _, id := range ids {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, fmt.Errorf("unknown category %s: %w", id, ErrValidation)
		}
	}
	return ids, nil
}

func (s *ProductAdminService) replaceRelations(ctx context.Context, productID string, categoryIDs []string, images []ImageRef) error {
	if err := s.linkRepo.RemoveAllForProduct(ctx, productID); err != nil {
		return err
	}
	links := make([]models.ProductCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, models.ProductCategory{ProductID: productID, CategoryID: categoryID})
	}
	if err := s.linkRepo.AddMany(ctx, links); err != nil {
		return err
	}

	if err := s.imageRepo.DeleteByProduct(ctx, productID); err != nil {
		return err
	}
	rows := make([]models.ProductImage, 0, len(images))
	for _, img := range images {
		relativePath := img.URL
		if relativePath == "" {
			relativePath = img.RelativePath
		}
		relativePath = NormalizeImagePath(relativePath)
		if relativePath == "" {
			continue
		}
		filename := img.Filename
		if filename == "" {
			filename = path.Base(relativePath)
		}
		rows = append(rows, models.ProductImage{
			ProductID:    productID,
			RelativePath: relativePath,
			Filename:     filename,
			ImageOrder:   len(rows),
			IsPrimary:    len(rows) == 0,
		})
	}
	return s.imageRepo.AddMany(ctx, rows)
}

// NormalizeImagePath reduces an absolute http(s) URL to its path and query.
func NormalizeImagePath(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
