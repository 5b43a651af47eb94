package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"go.uber.org/zap"
)

type DeletePolicy string

const (
	DeleteBlock    DeletePolicy = "block"
	DeleteReparent DeletePolicy = "reparent"
	DeleteCascade  DeletePolicy = "cascade"
)

const categoryPreviewLimit = 10

func ParseDeletePolicy(raw string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DeleteBlock:
		return DeleteBlock, nil
	case DeleteReparent:
		return DeleteReparent, nil
	case DeleteCascade:
		return DeleteCascade, nil
	}
	return "", fmt.Errorf("unknown delete policy %q: %w", raw, ErrValidation)
}

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"max=255"`
	ParentID    *string `json:"parentId"`
	Description *string `json:"description"`
}

type MoveResult struct {
	Moved int `json:"moved"`
	Total int `json:"total"`
}

// CategoryDetail is a category with its parent, ordered children and a few
// active products for preview.
type CategoryDetail struct {
	*models.Category
	Products []models.Product `json:"products"`
}

type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryImpl
	linkRepo     repositories.ProductCategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	tx           repositories.Transactor
	log          *zap.Logger
}

func NewCategoryService(categoryRepo repositories.CategoryRepositoryImpl, linkRepo repositories.ProductCategoryRepositoryImpl, productRepo repositories.ProductRepositoryImpl, tx repositories.Transactor) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		linkRepo:     linkRepo,
		productRepo:  productRepo,
		tx:           tx,
		log:          logger.GetLogger(),
	}
}

func (s *CategoryService) List(ctx context.Context) ([]models.CategoryWithCount, error) {
	rows, err := s.categoryRepo.GetAllWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return rows, nil
}

func (s *CategoryService) Tree(ctx context.Context) ([]*CategoryNode, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(rows), nil
}

func (s *CategoryService) GetDetail(ctx context.Context, key string) (*CategoryDetail, error) {
	category, err := s.categoryRepo.GetByIDOrSlug(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", key, err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	products, err := s.productRepo.PreviewByCategory(ctx, category.ID, categoryPreviewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load products of category %s: %w", category.ID, err)
	}
	return &CategoryDetail{Category: category, Products: products}, nil
}

// SubtreeIDs returns id followed by the ids of every descendant, parents
// before children.
func (s *CategoryService) SubtreeIDs(ctx context.Context, id string) ([]string, error) {
	visited := map[string]bool{}
	var ids []string

	var walk func(id string) error
	walk = func(id string) error {
		if visited[id] {
			return nil
		}
		visited[id] = true
		ids = append(ids, id)

		children, err := s.categoryRepo.ListChildren(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list children of %s: %w", id, err)
		}
		for _, child := range children {
			if err := walk(child.ID); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(id); err != nil {
		return nil, err
	}
	return ids, nil
}

func normalizeParentID(parentID *string) *string {
	if parentID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*parentID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *CategoryService) resolveSlug(in CategoryInput) (string, error) {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = helpers.GenerateSlug(in.Name)
	}
	if slug == "" {
		return "", fmt.Errorf("slug cannot be derived from name %q: %w", in.Name, ErrValidation)
	}
	return slug, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrValidation)
	}
	slug, err := s.resolveSlug(in)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:     name,
		Slug:     slug,
		ParentID: normalizeParentID(in.ParentID),
	}
	if in.Description != nil {
		category.Description = *in.Description
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		taken, err := s.categoryRepo.SlugExists(ctx, slug, "")
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("category slug %q: %w", slug, ErrSlugTaken)
		}
		if category.ParentID != nil {
			parent, err := s.categoryRepo.GetByID(ctx, *category.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return fmt.Errorf("parent %s: %w", *category.ParentID, ErrCategoryNotFound)
			}
		}
		return s.categoryRepo.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCategoryOperation("create")
	s.log.Info("category created", zap.String("category_id", category.ID), zap.String("slug", slug))
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrValidation)
	}
	slug, err := s.resolveSlug(in)
	if err != nil {
		return nil, err
	}
	parentID := normalizeParentID(in.ParentID)

	var updated *models.Category
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}

		taken, err := s.categoryRepo.SlugExists(ctx, slug, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("category slug %q: %w", slug, ErrSlugTaken)
		}
		if parentID != nil {
			if err := s.ensureNotDescendant(ctx, id, *parentID); err != nil {
				return err
			}
		}

		category.Name = name
		category.Slug = slug
		category.ParentID = parentID
		if in.Description != nil {
			category.Description = *in.Description
		}
		if err := s.categoryRepo.Update(ctx, category); err != nil {
			return err
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCategoryOperation("update")
	s.log.Info("category updated", zap.String("category_id", id), zap.String("slug", slug))
	return updated, nil
}

// ensureNotDescendant fails when parentID does not exist, is id itself, or
// lies in id's subtree.
func (s *CategoryService) ensureNotDescendant(ctx context.Context, id, parentID string) error {
	if parentID == id {
		return ErrCategoryCycle
	}
	parent, err := s.categoryRepo.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("parent %s: %w", parentID, ErrCategoryNotFound)
	}
	reaches, err := chainReaches(ctx, s.categoryRepo, parentID, id)
	if err != nil {
		return err
	}
	if reaches {
		return ErrCategoryCycle
	}
	return nil
}

// chainReaches reports whether startID or one of its ancestors is targetID.
func chainReaches(ctx context.Context, repo repositories.CategoryRepositoryImpl, startID, targetID string) (bool, error) {
	visited := map[string]bool{}
	current := startID
	for !visited[current] {
		if current == targetID {
			return true, nil
		}
		visited[current] = true

		category, err := repo.GetByID(ctx, current)
		if err != nil {
			return false, err
		}
		if category == nil || category.ParentID == nil {
			return false, nil
		}
		current = *category.ParentID
	}
	return false, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string, policy DeletePolicy) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrCategoryNotFound
		}

		switch policy {
		case DeleteReparent:
			return s.deleteReparent(ctx, category)
		case DeleteCascade:
			return s.deleteCascade(ctx, category)
		default:
			return s.deleteBlocking(ctx, category)
		}
	})
	if err != nil {
		return err
	}

	metrics.RecordCategoryOperation("delete_" + string(policy))
	s.log.Info("category deleted", zap.String("category_id", id), zap.String("policy", string(policy)))
	return nil
}

func (s *CategoryService) deleteBlocking(ctx context.Context, category *models.Category) error {
	children, err := s.categoryRepo.ListChildren(ctx, category.ID)
	if err != nil {
		return err
	}
	products, err := s.linkRepo.CountByCategory(ctx, category.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 || products > 0 {
		return fmt.Errorf("category %s has %d children and %d products: %w", category.ID, len(children), products, ErrCategoryNotEmpty)
	}
	return s.categoryRepo.Delete(ctx, category.ID)
}

func (s *CategoryService) deleteReparent(ctx context.Context, category *models.Category) error {
	if err := s.categoryRepo.ReparentChildren(ctx, category.ID, category.ParentID); err != nil {
		return err
	}

	if category.ParentID != nil {
		productIDs, err := s.linkRepo.ProductIDsByCategory(ctx, category.ID)
		if err != nil {
			return err
		}
		links := make([]models.ProductCategory, 0, len(productIDs))
		for _, productID := range productIDs {
			links = append(links, models.ProductCategory{ProductID: productID, CategoryID: *category.ParentID})
		}
		if err := s.linkRepo.AddMany(ctx, links); err != nil {
			return err
		}
	}

	if err := s.linkRepo.RemoveAllForCategories(ctx, []string{category.ID}); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, category.ID)
}

func (s *CategoryService) deleteCascade(ctx context.Context, category *models.Category) error {
	ids, err := s.SubtreeIDs(ctx, category.ID)
	if err != nil {
		return err
	}
	if err := s.linkRepo.RemoveAllForCategories(ctx, ids); err != nil {
		return err
	}
	// Descendants come after their ancestors in ids.
	for i := len(ids) - 1; i >= 0; i-- {
		if err := s.categoryRepo.Delete(ctx, ids[i]); err != nil {
			return err
		}
	}
	return nil
}

// MoveAllProducts relinks every product of sourceID to targetID. The tree is
// left untouched.
func (s *CategoryService) MoveAllProducts(ctx context.Context, sourceID, targetID string) (*MoveResult, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return nil, fmt.Errorf("target category is required: %w", ErrValidation)
	}
	if sourceID == targetID {
		return nil, fmt.Errorf("source and target category are the same: %w", ErrValidation)
	}

	result := &MoveResult{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, id := range []string{sourceID, targetID} {
			category, err := s.categoryRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if category == nil {
				return fmt.Errorf("category %s: %w", id, ErrCategoryNotFound)
			}
		}

		productIDs, err := s.linkRepo.ProductIDsByCategory(ctx, sourceID)
		if err != nil {
			return err
		}
		result.Total = len(productIDs)

		for _, productID := range productIDs {
			if err := s.linkRepo.Remove(ctx, productID, []string{sourceID}); err != nil {
				return err
			}
			exists, err := s.linkRepo.Exists(ctx, productID, targetID)
			if err != nil {
				return err
			}
			if !exists {
				if err := s.linkRepo.Add(ctx, productID, targetID); err != nil {
					return err
				}
			}
			result.Moved++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCategoryOperation("move_products")
	s.log.Info("category products moved",
		zap.String("source_id", sourceID),
		zap.String("target_id", targetID),
		zap.Int("moved", result.Moved),
	)
	return result, nil
}
