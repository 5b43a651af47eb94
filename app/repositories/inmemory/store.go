// Package inmemory keeps the catalog in process memory. It implements every
// repository interface and backs the service tests and the dry-run import.
package inmemory

import (
	"context"
	"sync"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"gorm.io/gorm"
)

// Constraint failures use the same sentinels GORM reports with TranslateError.
var (
	ErrDuplicateKey = gorm.ErrDuplicatedKey
	ErrForeignKey   = gorm.ErrForeignKeyViolated
)

type dataset struct {
	categories map[string]models.Category
	products   map[string]models.Product
	links      map[models.ProductCategory]struct{}
	images     map[string]models.ProductImage
	paths      map[string]models.ProductCategoryPath
	admins     map[string]models.Admin
}

func newDataset() *dataset {
	return &dataset{
		categories: make(map[string]models.Category),
		products:   make(map[string]models.Product),
		links:      make(map[models.ProductCategory]struct{}),
		images:     make(map[string]models.ProductImage),
		paths:      make(map[string]models.ProductCategoryPath),
		admins:     make(map[string]models.Admin),
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k := range d.links {
		c.links[k] = struct{}{}
	}
	for k, v := range d.images {
		c.images[k] = v
	}
	for k, v := range d.paths {
		c.paths[k] = v
	}
	for k, v := range d.admins {
		c.admins[k] = v
	}
	return c
}

// Store is the shared state behind the in-memory repositories.
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) Categories() repositories.CategoryRepositoryImpl {
	return &categoryRepository{store: s}
}

func (s *Store) Products() repositories.ProductRepositoryImpl {
	return &productRepository{store: s}
}

func (s *Store) ProductCategories() repositories.ProductCategoryRepositoryImpl {
	return &productCategoryRepository{store: s}
}

func (s *Store) ProductImages() repositories.ProductImageRepositoryImpl {
	return &productImageRepository{store: s}
}

func (s *Store) CategoryPaths() repositories.CategoryPathRepositoryImpl {
	return &categoryPathRepository{store: s}
}

func (s *Store) Admins() repositories.AdminRepositoryImpl {
	return &adminRepository{store: s}
}

func (s *Store) Transactor() repositories.Transactor {
	return &transactor{store: s}
}

// Set returns every repository backed by this store.
func (s *Store) Set() repositories.Set {
	return repositories.Set{
		Categories: s.Categories(),
		Products:   s.Products(),
		Links:      s.ProductCategories(),
		Images:     s.ProductImages(),
		Paths:      s.CategoryPaths(),
		Admins:     s.Admins(),
		Tx:         s.Transactor(),
	}
}

type transactor struct {
	store *Store
}

// WithinTransaction snapshots the store and restores it when fn fails.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.RLock()
	snapshot := t.store.data.clone()
	t.store.mu.RUnlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.data = snapshot
		t.store.mu.Unlock()
		return err
	}
	return nil
}
