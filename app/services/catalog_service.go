package services

import (
	"context"
	"fmt"
	"math"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultPageSize  = 20
	MaxPageSize      = 100
	featuredProducts = 8
)

type ProductListQuery struct {
	CategoryID      string
	Search          string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	InStock         *bool
	IncludeInactive bool
	SortBy          string
	SortOrder       string
	Page            int
	Limit           int
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ProductPage struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

type HomePage struct {
	Featured   []models.Product `json:"featured"`
	Categories []*CategoryNode  `json:"categories"`
}

type CatalogService struct {
	productRepo repositories.ProductRepositoryImpl
	categories  *CategoryService
	log         *zap.Logger
}

func NewCatalogService(productRepo repositories.ProductRepositoryImpl, categories *CategoryService) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		categories:  categories,
		log:         logger.GetLogger(),
	}
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductListQuery) (*ProductPage, error) {
	page, limit := normalizePaging(q.Page, q.Limit)
	filter := repositories.ProductFilter{
		Search:          q.Search,
		MinPrice:        q.MinPrice,
		MaxPrice:        q.MaxPrice,
		InStock:         q.InStock,
		IncludeInactive: q.IncludeInactive,
		SortBy:          q.SortBy,
		SortOrder:       q.SortOrder,
		Offset:          (page - 1) * limit,
		Limit:           limit,
	}
	if q.CategoryID != "" {
		ids, err := s.categories.SubtreeIDs(ctx, q.CategoryID)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = ids
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &ProductPage{
		Products: products,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}

// GetProduct returns an active product by slug or id and counts the view.
func (s *CatalogService) GetProduct(ctx context.Context, key string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlugOrID(ctx, key, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", key, err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if err := s.productRepo.IncrementViews(ctx, product.ID); err != nil {
		s.log.Warn("failed to count product view", zap.String("product_id", product.ID), zap.Error(err))
	} else {
		product.Views++
		metrics.RecordProductView()
	}
	return product, nil
}

func (s *CatalogService) Home(ctx context.Context) (*HomePage, error) {
	featured, err := s.productRepo.Featured(ctx, featuredProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to load featured products: %w", err)
	}
	tree, err := s.categories.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return &HomePage{Featured: featured, Categories: tree}, nil
}
