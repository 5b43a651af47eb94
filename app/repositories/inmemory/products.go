package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/shopspring/decimal"
)

type productRepository struct {
	store *Store
}

func stripProduct(p models.Product) models.Product {
	p.Categories = nil
	p.Images = nil
	p.CategoryPaths = nil
	return p
}

func (d *dataset) productSlugTaken(slug *string, excludeID string) bool {
	if slug == nil {
		return false
	}
	for id, p := range d.products {
		if p.Slug != nil && *p.Slug == *slug && id != excludeID {
			return true
		}
	}
	return false
}

func (d *dataset) categoriesOf(productID string, withParent bool) []models.Category {
	categories := []models.Category{}
	for link := range d.links {
		if link.ProductID != productID {
			continue
		}
		c, ok := d.categories[link.CategoryID]
		if !ok {
			continue
		}
		if withParent && c.ParentID != nil {
			if parent, ok := d.categories[*c.ParentID]; ok {
				c.Parent = &parent
			}
		}
		categories = append(categories, c)
	}
	sortCategoriesByName(categories)
	return categories
}

func (d *dataset) imagesOf(productID string, primaryOnly bool) []models.ProductImage {
	images := []models.ProductImage{}
	for _, img := range d.images {
		if img.ProductID == productID && (!primaryOnly || img.IsPrimary) {
			images = append(images, img)
		}
	}
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].ImageOrder != images[j].ImageOrder {
			return images[i].ImageOrder < images[j].ImageOrder
		}
		return images[i].ID < images[j].ID
	})
	return images
}

func (d *dataset) pathsOf(productID string) []models.ProductCategoryPath {
	paths := []models.ProductCategoryPath{}
	for _, path := range d.paths {
		if path.ProductID == productID {
			paths = append(paths, path)
		}
	}
	sort.SliceStable(paths, func(i, j int) bool { return paths[i].Order < paths[j].Order })
	return paths
}

func (d *dataset) inCategories(productID string, categoryIDs []string) bool {
	for _, id := range categoryIDs {
		if _, ok := d.links[models.ProductCategory{ProductID: productID, CategoryID: id}]; ok {
			return true
		}
	}
	return false
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := d.products[product.ID]; exists {
		return fmt.Errorf("product %s: %w", product.ID, ErrDuplicateKey)
	}
	if d.productSlugTaken(product.Slug, "") {
		return fmt.Errorf("product slug %s: %w", *product.Slug, ErrDuplicateKey)
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	d.products[product.ID] = stripProduct(*product)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d := r.store.data

	p, ok := d.products[id]
	if !ok {
		return nil, nil
	}
	p.Categories = d.categoriesOf(id, false)
	p.Images = d.imagesOf(id, false)
	return &p, nil
}

func (r *productRepository) GetBySlugOrID(ctx context.Context, key string, activeOnly bool) (*models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d := r.store.data

	p, ok := d.products[key]
	if !ok {
		for _, candidate := range d.products {
			if candidate.Slug != nil && *candidate.Slug == key {
				p, ok = candidate, true
				break
			}
		}
	}
	if !ok || (activeOnly && !p.IsActive) {
		return nil, nil
	}
	p.Categories = d.categoriesOf(p.ID, true)
	p.Images = d.imagesOf(p.ID, false)
	p.CategoryPaths = d.pathsOf(p.ID)
	return &p, nil
}

func (r *productRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.data.productSlugTaken(&slug, excludeID), nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	if d.productSlugTaken(product.Slug, product.ID) {
		return fmt.Errorf("product slug %s: %w", *product.Slug, ErrDuplicateKey)
	}
	product.UpdatedAt = time.Now()
	d.products[product.ID] = stripProduct(*product)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	for link := range d.links {
		if link.ProductID == id {
			return fmt.Errorf("product %s has categories: %w", id, ErrForeignKey)
		}
	}
	for _, img := range d.images {
		if img.ProductID == id {
			return fmt.Errorf("product %s has images: %w", id, ErrForeignKey)
		}
	}
	for _, path := range d.paths {
		if path.ProductID == id {
			return fmt.Errorf("product %s has category paths: %w", id, ErrForeignKey)
		}
	}
	delete(d.products, id)
	return nil
}

func priceOf(p models.Product) decimal.Decimal {
	if p.PriceNumeric.Valid {
		return p.PriceNumeric.Decimal
	}
	return decimal.Zero
}

func lessBy(column string, a, b models.Product) (less bool, equal bool) {
	switch column {
	case "price_numeric":
		cmp := priceOf(a).Cmp(priceOf(b))
		return cmp < 0, cmp == 0
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
	case "views":
		return a.Views < b.Views, a.Views == b.Views
	default:
		return a.Name < b.Name, a.Name == b.Name
	}
}

func sortProducts(products []models.Product, column string, desc bool) {
	sort.SliceStable(products, func(i, j int) bool {
		less, equal := lessBy(column, products[i], products[j])
		if equal {
			return products[i].ID < products[j].ID
		}
		if desc {
			return !less
		}
		return less
	})
}

func page(products []models.Product, offset, limit int) []models.Product {
	if offset >= len(products) {
		return []models.Product{}
	}
	products = products[offset:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products
}

func matchesSearch(p models.Product, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.DescriptionText), search) ||
		strings.Contains(p.SearchText, search)
}

func (r *productRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d := r.store.data

	matched := []models.Product{}
	for _, p := range d.products {
		if !filter.IncludeInactive && !p.IsActive {
			continue
		}
		if filter.InStock != nil && p.InStock != *filter.InStock {
			continue
		}
		if filter.CategoryIDs != nil && !d.inCategories(p.ID, filter.CategoryIDs) {
			continue
		}
		if filter.MinPrice != nil && (!p.PriceNumeric.Valid || p.PriceNumeric.Decimal.LessThan(*filter.MinPrice)) {
			continue
		}
		if filter.MaxPrice != nil && (!p.PriceNumeric.Valid || p.PriceNumeric.Decimal.GreaterThan(*filter.MaxPrice)) {
			continue
		}
		if !matchesSearch(p, filter.Search) {
			continue
		}
		matched = append(matched, p)
	}

	column, desc := filter.OrderClause()
	sortProducts(matched, column, desc)
	result := page(matched, filter.Offset, filter.Limit)
	for i := range result {
		result[i].Categories = d.categoriesOf(result[i].ID, false)
		result[i].Images = d.imagesOf(result[i].ID, true)
	}
	return result, int64(len(matched)), nil
}

func (r *productRepository) AdminList(ctx context.Context, search string, skip, take int) ([]models.Product, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d := r.store.data

	search = strings.ToLower(strings.TrimSpace(search))
	matched := []models.Product{}
	for _, p := range d.products {
		if search != "" {
			inName := strings.Contains(strings.ToLower(p.Name), search)
			inSlug := p.Slug != nil && strings.Contains(*p.Slug, search)
			if !inName && !inSlug {
				continue
			}
		}
		matched = append(matched, p)
	}
	sortProducts(matched, "created_at", true)
	result := page(matched, skip, take)
	for i := range result {
		result[i].Categories = d.categoriesOf(result[i].ID, false)
		result[i].Images = d.imagesOf(result[i].ID, true)
	}
	return result, int64(len(matched)), nil
}

func (r *productRepository) Featured(ctx context.Context, limit int) ([]models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d := r.store.data

	active := []models.Product{}
	for _, p := range d.products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	sortProducts(active, "views", true)
	result := page(active, 0, limit)
	for i := range result {
		result[i].Images = d.imagesOf(result[i].ID, true)
	}
	return result, nil
}

func (r *productRepository) PreviewByCategory(ctx context.Context, categoryID string, limit int) ([]models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d := r.store.data

	matched := []models.Product{}
	for _, p := range d.products {
		if p.IsActive && d.inCategories(p.ID, []string{categoryID}) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, "name", false)
	result := page(matched, 0, limit)
	for i := range result {
		result[i].Images = d.imagesOf(result[i].ID, true)
	}
	return result, nil
}

func (r *productRepository) IncrementViews(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if p, ok := r.store.data.products[id]; ok {
		p.Views++
		r.store.data.products[id] = p
	}
	return nil
}

func (r *productRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var found []string
	for _, id := range ids {
		if _, ok := r.store.data.products[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (r *productRepository) All(ctx context.Context) ([]models.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d := r.store.data

	products := make([]models.Product, 0, len(d.products))
	for _, p := range d.products {
		p.Categories = d.categoriesOf(p.ID, false)
		p.Images = d.imagesOf(p.ID, false)
		products = append(products, p)
	}
	sortProducts(products, "name", false)
	return products, nil
}

func (r *productRepository) DeleteAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	if len(d.links) > 0 || len(d.images) > 0 || len(d.paths) > 0 {
		return fmt.Errorf("products still referenced: %w", ErrForeignKey)
	}
	d.products = make(map[string]models.Product)
	return nil
}
