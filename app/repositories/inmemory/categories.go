package inmemory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sharikirostov/balloon-store/app/models"
)

type categoryRepository struct {
	store *Store
}

func stripCategory(c models.Category) models.Category {
	c.Parent = nil
	c.Children = nil
	c.Products = nil
	return c
}

func sortCategoriesByName(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})
}

func (d *dataset) slugTaken(slug, excludeID string) bool {
	for id, c := range d.categories {
		if c.Slug == slug && id != excludeID {
			return true
		}
	}
	return false
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if _, exists := d.categories[category.ID]; exists {
		return fmt.Errorf("category %s: %w", category.ID, ErrDuplicateKey)
	}
	if d.slugTaken(category.Slug, "") {
		return fmt.Errorf("category slug %s: %w", category.Slug, ErrDuplicateKey)
	}
	if category.ParentID != nil {
		if _, ok := d.categories[*category.ParentID]; !ok {
			return fmt.Errorf("category parent %s: %w", *category.ParentID, ErrForeignKey)
		}
	}
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	d.categories[category.ID] = stripCategory(*category)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.data.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepository) GetByIDOrSlug(ctx context.Context, key string) (*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d := r.store.data

	c, ok := d.categories[key]
	if !ok {
		for _, candidate := range d.categories {
			if candidate.Slug == key {
				c, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		return nil, nil
	}
	if c.ParentID != nil {
		if parent, ok := d.categories[*c.ParentID]; ok {
			c.Parent = &parent
		}
	}
	c.Children = d.childrenOf(c.ID)
	return &c, nil
}

func (d *dataset) childrenOf(parentID string) []models.Category {
	children := []models.Category{}
	for _, child := range d.categories {
		if child.ParentID != nil && *child.ParentID == parentID {
			children = append(children, child)
		}
	}
	sortCategoriesByName(children)
	return children
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.store.data.categories))
	for _, c := range r.store.data.categories {
		categories = append(categories, c)
	}
	sortCategoriesByName(categories)
	return categories, nil
}

func (r *categoryRepository) GetAllWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	all, _ := r.GetAll(ctx)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[string]int64)
	for link := range r.store.data.links {
		counts[link.CategoryID]++
	}
	rows := make([]models.CategoryWithCount, 0, len(all))
	for _, c := range all {
		rows = append(rows, models.CategoryWithCount{
			ID:           c.ID,
			Name:         c.Name,
			Slug:         c.Slug,
			ParentID:     c.ParentID,
			Description:  c.Description,
			ProductCount: counts[c.ID],
		})
	}
	return rows, nil
}

func (r *categoryRepository) ListChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.data.childrenOf(parentID), nil
}

func (r *categoryRepository) ListRoots(ctx context.Context) ([]models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	roots := []models.Category{}
	for _, c := range r.store.data.categories {
		if c.IsRoot() {
			roots = append(roots, c)
		}
	}
	sortCategoriesByName(roots)
	return roots, nil
}

func (r *categoryRepository) FindRootBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.data.categories {
		if c.Slug == slug && c.IsRoot() {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.data.slugTaken(slug, excludeID), nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	if d.slugTaken(category.Slug, category.ID) {
		return fmt.Errorf("category slug %s: %w", category.Slug, ErrDuplicateKey)
	}
	if category.ParentID != nil {
		if _, ok := d.categories[*category.ParentID]; !ok {
			return fmt.Errorf("category parent %s: %w", *category.ParentID, ErrForeignKey)
		}
	}
	category.UpdatedAt = time.Now()
	d.categories[category.ID] = stripCategory(*category)
	return nil
}

func (r *categoryRepository) UpdateParent(ctx context.Context, id string, parentID *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	c, ok := d.categories[id]
	if !ok {
		return nil
	}
	if parentID != nil {
		if _, ok := d.categories[*parentID]; !ok {
			return fmt.Errorf("category parent %s: %w", *parentID, ErrForeignKey)
		}
	}
	c.ParentID = parentID
	c.UpdatedAt = time.Now()
	d.categories[id] = c
	return nil
}

func (r *categoryRepository) ReparentChildren(ctx context.Context, fromParentID string, toParentID *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	for id, c := range d.categories {
		if c.ParentID != nil && *c.ParentID == fromParentID {
			c.ParentID = toParentID
			d.categories[id] = c
		}
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d := r.store.data

	for _, c := range d.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return fmt.Errorf("category %s has children: %w", id, ErrForeignKey)
		}
	}
	for link := range d.links {
		if link.CategoryID == id {
			return fmt.Errorf("category %s has products: %w", id, ErrForeignKey)
		}
	}
	delete(d.categories, id)
	return nil
}

func (r *categoryRepository) DeleteAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if len(r.store.data.links) > 0 {
		return fmt.Errorf("categories still linked to products: %w", ErrForeignKey)
	}
	r.store.data.categories = make(map[string]models.Category)
	return nil
}
