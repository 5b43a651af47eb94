package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	productsSheet   = "Товары"
	categoriesSheet = "Категории"
)

var productColumns = []string{"ID", "Slug", "Название", "Цена", "Цена (число)", "В наличии", "Активен", "Категории", "Просмотры", "Изображение"}

var categoryColumns = []string{"ID", "Slug", "Название", "Родитель", "Товаров"}

type ExportService struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	log          *zap.Logger
}

func NewExportService(productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl) *ExportService {
	return &ExportService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		log:          logger.GetLogger(),
	}
}

// WriteCatalog writes a workbook with one sheet of products and one of categories.
func (s *ExportService) WriteCatalog(ctx context.Context, w io.Writer) error {
	products, err := s.productRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	categories, err := s.categoryRepo.GetAllWithCounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return err
	}

	if err := writeRow(f, productsSheet, 1, toCells(productColumns)); err != nil {
		return err
	}
	for i, p := range products {
		if err := writeRow(f, productsSheet, i+2, productRow(p)); err != nil {
			return err
		}
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	if err := writeRow(f, categoriesSheet, 1, toCells(categoryColumns)); err != nil {
		return err
	}
	for i, c := range categories {
		parent := ""
		if c.ParentID != nil {
			parent = names[*c.ParentID]
		}
		row := []any{c.ID, c.Slug, c.Name, parent, c.ProductCount}
		if err := writeRow(f, categoriesSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(productsSheet, "C", "C", 48); err != nil {
		return err
	}
	if err := f.SetColWidth(productsSheet, "H", "H", 40); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.log.Info("catalog exported", zap.Int("products", len(products)), zap.Int("categories", len(categories)))
	return nil
}

func productRow(p models.Product) []any {
	var numeric any = ""
	if p.PriceNumeric.Valid {
		numeric = p.PriceNumeric.Decimal.InexactFloat64()
	}
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	slug := ""
	if p.Slug != nil {
		slug = *p.Slug
	}
	return []any{p.ID, slug, p.Name, p.Price, numeric, yesNo(p.InStock), yesNo(p.IsActive), strings.Join(names, ", "), p.Views, p.PrimaryImagePath()}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func yesNo(v bool) string {
	if v {
		return "да"
	}
	return "нет"
}
