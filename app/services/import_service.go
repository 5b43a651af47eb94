package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sharikirostov/balloon-store/app/configs"
	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/utils/calc"
	"github.com/sharikirostov/balloon-store/app/utils/format"
	"github.com/sharikirostov/balloon-store/app/utils/htmltext"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ImportMode string

const (
	ImportMerge        ImportMode = "merge"
	ImportSkipExisting ImportMode = "skip-existing"
	ImportReset        ImportMode = "reset"
)

const (
	untitledProduct  = "Без названия"
	fallbackCategory = "category"
)

func ParseImportMode(raw string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ImportMerge:
		return ImportMerge, nil
	case ImportSkipExisting:
		return ImportSkipExisting, nil
	case ImportReset:
		return ImportReset, nil
	}
	return "", fmt.Errorf("unknown import mode %q: %w", raw, ErrValidation)
}

type ImportResult struct {
	Imported       int `json:"imported"`
	Skipped        int `json:"skipped"`
	PriceAdjusted  int `json:"priceAdjusted"`
	ShapePreserved int `json:"shapePreserved"`
}

type categoryKey struct {
	parentID string
	slug     string
}

// categoryCache remembers resolved breadcrumb segments for one run. Entries
// found while importing a record are staged until its transaction commits.
type categoryCache struct {
	committed map[categoryKey]string
	staged    map[categoryKey]string
}

func newCategoryCache() *categoryCache {
	return &categoryCache{
		committed: make(map[categoryKey]string),
		staged:    make(map[categoryKey]string),
	}
}

func (c *categoryCache) get(key categoryKey) (string, bool) {
	if id, ok := c.staged[key]; ok {
		return id, true
	}
	id, ok := c.committed[key]
	return id, ok
}

func (c *categoryCache) put(key categoryKey, id string) {
	c.staged[key] = id
}

func (c *categoryCache) forget(key categoryKey) {
	delete(c.staged, key)
	delete(c.committed, key)
}

func (c *categoryCache) commit() {
	for k, v := range c.staged {
		c.committed[k] = v
	}
	c.staged = make(map[categoryKey]string)
}

func (c *categoryCache) discard() {
	c.staged = make(map[categoryKey]string)
}

type recordOutcome int

const (
	outcomeImported recordOutcome = iota
	outcomeSkipped
)

type pricing struct {
	label    string
	numeric  decimal.NullDecimal
	adjusted bool
	shape    bool
}

type ImportService struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	linkRepo     repositories.ProductCategoryRepositoryImpl
	imageRepo    repositories.ProductImageRepositoryImpl
	pathRepo     repositories.CategoryPathRepositoryImpl
	tx           repositories.Transactor
	rules        configs.PricingRules
	log          *zap.Logger
}

func NewImportService(
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	linkRepo repositories.ProductCategoryRepositoryImpl,
	imageRepo repositories.ProductImageRepositoryImpl,
	pathRepo repositories.CategoryPathRepositoryImpl,
	tx repositories.Transactor,
	rules configs.PricingRules,
) *ImportService {
	return &ImportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		linkRepo:     linkRepo,
		imageRepo:    imageRepo,
		pathRepo:     pathRepo,
		tx:           tx,
		rules:        rules,
		log:          logger.GetLogger(),
	}
}

func DecodeRawProducts(r io.Reader) ([]models.RawProduct, error) {
	var records []models.RawProduct
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode product records: %w", err)
	}
	return records, nil
}

func (s *ImportService) ImportFile(ctx context.Context, path string, mode ImportMode) (*ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	records, err := DecodeRawProducts(file)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, records, mode)
}

// Import loads records one by one, each in its own transaction. A failing
// record is logged and counted as skipped.
func (s *ImportService) Import(ctx context.Context, records []models.RawProduct, mode ImportMode) (*ImportResult, error) {
	if mode == ImportReset {
		if err := s.resetCatalog(ctx); err != nil {
			return nil, err
		}
	}

	s.log.Info("import started", zap.Int("records", len(records)), zap.String("mode", string(mode)))

	result := &ImportResult{}
	cache := newCategoryCache()
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var price pricing
		var outcome recordOutcome
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			outcome, price, err = s.importRecord(ctx, record, mode, cache)
			return err
		})
		if err != nil {
			cache.discard()
			result.Skipped++
			metrics.RecordImportRecord("failed")
			s.log.Error("import record failed", zap.Int("index", i), zap.String("name", record.Name), zap.Error(err))
			continue
		}
		cache.commit()

		if outcome == outcomeSkipped {
			result.Skipped++
			metrics.RecordImportRecord("skipped")
			continue
		}

		result.Imported++
		metrics.RecordImportRecord("imported")
		if price.adjusted {
			result.PriceAdjusted++
		} else if price.shape {
			result.ShapePreserved++
		}
		if result.Imported%100 == 0 {
			s.log.Info("import progress", zap.Int("imported", result.Imported))
		}
	}

	s.log.Info("import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("price_adjusted", result.PriceAdjusted),
		zap.Int("shape_preserved", result.ShapePreserved),
	)
	return result, nil
}

func (s *ImportService) resetCatalog(ctx context.Context) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.linkRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.imageRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.pathRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.productRepo.DeleteAll(ctx); err != nil {
			return err
		}
		return s.categoryRepo.DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to reset catalog: %w", err)
	}
	s.log.Info("catalog cleared before import")
	return nil
}

func (s *ImportService) importRecord(ctx context.Context, record models.RawProduct, mode ImportMode, cache *categoryCache) (recordOutcome, pricing, error) {
	name := strings.TrimSpace(record.Name)
	if name == "" {
		name = untitledProduct
	}
	baseSlug := helpers.Transliterate(name)
	if baseSlug == "" {
		baseSlug = helpers.Transliterate(untitledProduct)
	}

	if mode == ImportSkipExisting {
		exists, err := s.productRepo.SlugExists(ctx, baseSlug, "")
		if err != nil {
			return outcomeSkipped, pricing{}, err
		}
		if exists {
			s.log.Debug("product already imported", zap.String("slug", baseSlug))
			return outcomeSkipped, pricing{}, nil
		}
	}

	slug, err := s.freeProductSlug(ctx, baseSlug)
	if err != nil {
		return outcomeSkipped, pricing{}, err
	}

	price := s.priceFor(record)
	descriptionText := record.DescriptionText
	if descriptionText == "" {
		descriptionText = htmltext.Text(record.DescriptionHTML)
	}
	composition := []string(record.Composition)

	product := &models.Product{
		Name:             name,
		Slug:             &slug,
		Price:            price.label,
		PriceNumeric:     price.numeric,
		InStock:          true,
		IsActive:         true,
		DescriptionText:  descriptionText,
		DescriptionItems: htmltext.ListItems(record.DescriptionHTML),
		CompositionItems: composition,
		SearchText:       searchText(name, descriptionText, composition),
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return outcomeSkipped, price, fmt.Errorf("failed to create product: %w", err)
	}

	var parentID *string
	for _, segment := range helpers.SplitBreadcrumb(record.Category) {
		categoryID, err := s.resolveCategory(ctx, segment.Name, parentID, cache)
		if err != nil {
			return outcomeSkipped, price, fmt.Errorf("failed to resolve category %q: %w", segment.Name, err)
		}
		path := &models.ProductCategoryPath{ProductID: product.ID, PathPart: segment.Name, Order: segment.Index}
		if err := s.pathRepo.Create(ctx, path); err != nil {
			return outcomeSkipped, price, fmt.Errorf("failed to record category path: %w", err)
		}
		parentID = &categoryID
	}
	if parentID != nil {
		if err := s.linkRepo.Add(ctx, product.ID, *parentID); err != nil {
			return outcomeSkipped, price, fmt.Errorf("failed to link product to category: %w", err)
		}
	}

	images := make([]models.ProductImage, 0, len(record.LocalImages))
	for i, img := range record.LocalImages {
		order := i
		if img.ImageOrder != nil && *img.ImageOrder != 0 {
			order = *img.ImageOrder
		}
		images = append(images, models.ProductImage{
			ProductID:    product.ID,
			LocalPath:    img.ImagePath,
			RelativePath: img.ImageRelativePath,
			Filename:     img.ImageFilename,
			ImageOrder:   order,
			IsPrimary:    i == 0,
		})
	}
	if err := s.imageRepo.AddMany(ctx, images); err != nil {
		return outcomeSkipped, price, fmt.Errorf("failed to save images: %w", err)
	}

	return outcomeImported, price, nil
}

func (s *ImportService) freeProductSlug(ctx context.Context, base string) (string, error) {
	for n := 0; ; n++ {
		candidate := helpers.SuffixedSlug(base, n)
		taken, err := s.productRepo.SlugExists(ctx, candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func (s *ImportService) freeCategorySlug(ctx context.Context, base string) (string, error) {
	for n := 0; ; n++ {
		candidate := helpers.SuffixedSlug(base, n)
		taken, err := s.categoryRepo.SlugExists(ctx, candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func (s *ImportService) priceFor(record models.RawProduct) pricing {
	p := pricing{label: record.Price}
	if p.label == "" {
		p.label = "0 ₽"
	}
	p.shape = helpers.IsShapeBreadcrumb(record.Category, s.rules.Shape.Phrases, s.rules.Shape.Words)

	value, ok := helpers.ParsePrice(record.Price)
	if !ok {
		return p
	}
	p.numeric = decimal.NullDecimal{Decimal: value, Valid: true}
	if s.rules.Markup.Enabled && !p.shape && !value.IsZero() {
		adjusted := calc.ApplyMarkup(value, s.rules.MarkupPercent())
		p.numeric.Decimal = adjusted
		p.label = format.PriceLabel(adjusted)
		p.adjusted = true
	}
	return p
}

// resolveCategory finds or creates the category for one breadcrumb segment
// under parentID.
func (s *ImportService) resolveCategory(ctx context.Context, name string, parentID *string, cache *categoryCache) (string, error) {
	slug := helpers.Transliterate(name)
	if slug == "" {
		slug = fallbackCategory
	}
	key := categoryKey{slug: slug}
	if parentID != nil {
		key.parentID = *parentID
	}
	if id, ok := cache.get(key); ok {
		return id, nil
	}

	var siblings []models.Category
	var err error
	if parentID != nil {
		siblings, err = s.categoryRepo.ListChildren(ctx, *parentID)
	} else {
		siblings, err = s.categoryRepo.ListRoots(ctx)
	}
	if err != nil {
		return "", err
	}
	for _, sibling := range siblings {
		if sibling.Slug == slug || helpers.Transliterate(sibling.Name) == slug {
			cache.put(key, sibling.ID)
			return sibling.ID, nil
		}
	}

	if parentID != nil {
		orphan, err := s.categoryRepo.FindRootBySlug(ctx, slug)
		if err != nil {
			return "", err
		}
		if orphan != nil {
			cycle, err := chainReaches(ctx, s.categoryRepo, *parentID, orphan.ID)
			if err != nil {
				return "", err
			}
			if !cycle {
				if err := s.categoryRepo.UpdateParent(ctx, orphan.ID, parentID); err != nil {
					return "", err
				}
				s.log.Info("orphan category attached",
					zap.String("category_id", orphan.ID),
					zap.String("parent_id", *parentID),
				)
				cache.forget(categoryKey{slug: slug})
				cache.put(key, orphan.ID)
				return orphan.ID, nil
			}
		}
	}

	finalSlug, err := s.freeCategorySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	category := &models.Category{Name: strings.TrimSpace(name), Slug: finalSlug, ParentID: parentID}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return "", err
	}
	cache.put(key, category.ID)
	return category.ID, nil
}

func searchText(name, description string, composition []string) string {
	parts := []string{strings.ToLower(name)}
	if description != "" {
		parts = append(parts, strings.ToLower(htmltext.Text(description)))
	}
	if len(composition) > 0 {
		parts = append(parts, strings.ToLower(strings.Join(composition, " ")))
	}
	return htmltext.CollapseSpaces(strings.Join(parts, " "))
}
