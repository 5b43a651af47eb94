package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"go.uber.org/zap"
)

type BulkAction string

const (
	BulkAdd     BulkAction = "add"
	BulkRemove  BulkAction = "remove"
	BulkReplace BulkAction = "replace"
)

type BulkCategoryInput struct {
	ProductIDs  []string   `json:"productIds" validate:"required,min=1,dive,required"`
	CategoryIDs []string   `json:"categoryIds" validate:"required,min=1,dive,required"`
	Action      BulkAction `json:"action" validate:"required,oneof=add remove replace"`
}

type BulkResult struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

type BulkCategoryService struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	linkRepo     repositories.ProductCategoryRepositoryImpl
	tx           repositories.Transactor
	log          *zap.Logger
}

func NewBulkCategoryService(productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl, linkRepo repositories.ProductCategoryRepositoryImpl, tx repositories.Transactor) *BulkCategoryService {
	return &BulkCategoryService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		linkRepo:     linkRepo,
		tx:           tx,
		log:          logger.GetLogger(),
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Apply runs action for every product in one transaction. Any failure rolls
// the whole batch back.
func (s *BulkCategoryService) Apply(ctx context.Context, in BulkCategoryInput) (*BulkResult, error) {
	switch in.Action {
	case BulkAdd, BulkRemove, BulkReplace:
	default:
		return nil, fmt.Errorf("unknown action %q: %w", in.Action, ErrValidation)
	}
	productIDs := uniqueIDs(in.ProductIDs)
	categoryIDs := uniqueIDs(in.CategoryIDs)
	if len(productIDs) == 0 {
		return nil, fmt.Errorf("product ids are required: %w", ErrValidation)
	}
	if len(categoryIDs) == 0 {
		return nil, fmt.Errorf("category ids are required: %w", ErrValidation)
	}

	// Repeated ids are applied once but still count as requested.
	requested := 0
	for _, id := range in.ProductIDs {
		if strings.TrimSpace(id) != "" {
			requested++
		}
	}
	result := &BulkResult{Total: requested}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureExist(ctx, productIDs, categoryIDs); err != nil {
			return err
		}

		for _, productID := range productIDs {
			links := make([]models.ProductCategory, 0, len(categoryIDs))
			for _, categoryID := range categoryIDs {
				links = append(links, models.ProductCategory{ProductID: productID, CategoryID: categoryID})
			}

			var err error
			switch in.Action {
			case BulkAdd:
				err = s.linkRepo.AddMany(ctx, links)
			case BulkRemove:
				err = s.linkRepo.Remove(ctx, productID, categoryIDs)
			case BulkReplace:
				if err = s.linkRepo.RemoveAllForProduct(ctx, productID); err == nil {
					err = s.linkRepo.AddMany(ctx, links)
				}
			}
			if err != nil {
				return fmt.Errorf("failed to %s categories of product %s: %w", in.Action, productID, err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn("bulk categorization rolled back", zap.String("action", string(in.Action)), zap.Error(err))
		return nil, err
	}

	result.Updated = result.Total
	metrics.RecordBulkCategorization(string(in.Action), len(productIDs))
	s.log.Info("bulk categorization applied",
		zap.String("action", string(in.Action)),
		zap.Int("products", len(productIDs)),
		zap.Int("categories", len(categoryIDs)),
	)
	return result, nil
}

func (s *BulkCategoryService) ensureExist(ctx context.Context, productIDs, categoryIDs []string) error {
	found, err := s.productRepo.ExistingIDs(ctx, productIDs)
	if err != nil {
		return err
	}
	if missing := difference(productIDs, found); len(missing) > 0 {
		return fmt.Errorf("unknown products %s: %w", strings.Join(missing, ", "), ErrValidation)
	}

	var unknown []string
	for _, id := range categoryIDs {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown categories %s: %w", strings.Join(unknown, ", "), ErrValidation)
	}
	return nil
}

func difference(want, have []string) []string {
	present := make(map[string]bool, len(have))
	for _, id := range have {
		present[id] = true
	}
	var missing []string
	for _, id := range want {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
