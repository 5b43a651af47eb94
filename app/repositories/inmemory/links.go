package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sharikirostov/balloon-store/app/models"
)

type productCategoryRepository struct {
	store *Store
}

func (d *dataset) checkLink(link models.ProductCategory) error {
	if _, ok := d.products[link.ProductID]; !ok {
		return fmt.Errorf("product %s: %w", link.ProductID, ErrForeignKey)
	}
	if _, ok := d.categories[link.CategoryID]; !ok {
		return fmt.Errorf("category %s: %w", link.CategoryID, ErrForeignKey)
	}
	return nil
}

func (r *productCategoryRepository) Exists(ctx context.Context, productID, categoryID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.data.links[models.ProductCategory{ProductID: productID, CategoryID: categoryID}]
	return ok, nil
}

func (r *productCategoryRepository) Add(ctx context.Context, productID, categoryID string) error {
	return r.AddMany(ctx, []models.ProductCategory{{ProductID: productID, CategoryID: categoryID}})
}

func (r *productCategoryRepository) AddMany(ctx context.Context, links []models.ProductCategory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	for _, link := range links {
		if err := d.checkLink(link); err != nil {
			return err
		}
	}
	for _, link := range links {
		d.links[link] = struct{}{}
	}
	return nil
}

func (r *productCategoryRepository) Remove(ctx context.Context, productID string, categoryIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range categoryIDs {
		delete(r.store.data.links, models.ProductCategory{ProductID: productID, CategoryID: id})
	}
	return nil
}

func (r *productCategoryRepository) RemoveAllForProduct(ctx context.Context, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for link := range r.store.data.links {
		if link.ProductID == productID {
			delete(r.store.data.links, link)
		}
	}
	return nil
}

func (r *productCategoryRepository) RemoveAllForCategories(ctx context.Context, categoryIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range categoryIDs {
		for link := range r.store.data.links {
			if link.CategoryID == id {
				delete(r.store.data.links, link)
			}
		}
	}
	return nil
}

func (r *productCategoryRepository) ProductIDsByCategory(ctx context.Context, categoryID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var ids []string
	for link := range r.store.data.links {
		if link.CategoryID == categoryID {
			ids = append(ids, link.ProductID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *productCategoryRepository) CategoryIDsByProduct(ctx context.Context, productID string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var ids []string
	for link := range r.store.data.links {
		if link.ProductID == productID {
			ids = append(ids, link.CategoryID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *productCategoryRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	ids, _ := r.ProductIDsByCategory(ctx, categoryID)
	return int64(len(ids)), nil
}

func (r *productCategoryRepository) DeleteAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.links = make(map[models.ProductCategory]struct{})
	return nil
}

type productImageRepository struct {
	store *Store
}

func (r *productImageRepository) AddMany(ctx context.Context, images []models.ProductImage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	for i := range images {
		if _, ok := d.products[images[i].ProductID]; !ok {
			return fmt.Errorf("image product %s: %w", images[i].ProductID, ErrForeignKey)
		}
	}
	for i := range images {
		if images[i].ID == "" {
			images[i].ID = uuid.New().String()
		}
		images[i].CreatedAt = time.Now()
		d.images[images[i].ID] = images[i]
	}
	return nil
}

func (r *productImageRepository) DeleteByProduct(ctx context.Context, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, img := range r.store.data.images {
		if img.ProductID == productID {
			delete(r.store.data.images, id)
		}
	}
	return nil
}

func (r *productImageRepository) DeleteAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.images = make(map[string]models.ProductImage)
	return nil
}

type categoryPathRepository struct {
	store *Store
}

func (r *categoryPathRepository) Create(ctx context.Context, path *models.ProductCategoryPath) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	if _, ok := d.products[path.ProductID]; !ok {
		return fmt.Errorf("path product %s: %w", path.ProductID, ErrForeignKey)
	}
	if path.ID == "" {
		path.ID = uuid.New().String()
	}
	d.paths[path.ID] = *path
	return nil
}

func (r *categoryPathRepository) ListByProduct(ctx context.Context, productID string) ([]models.ProductCategoryPath, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.data.pathsOf(productID), nil
}

func (r *categoryPathRepository) DeleteByProduct(ctx context.Context, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, path := range r.store.data.paths {
		if path.ProductID == productID {
			delete(r.store.data.paths, id)
		}
	}
	return nil
}

func (r *categoryPathRepository) DeleteAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.paths = make(map[string]models.ProductCategoryPath)
	return nil
}
