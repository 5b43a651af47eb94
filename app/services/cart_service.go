package services

import (
	"context"
	"fmt"

	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/repositories"
	"github.com/sharikirostov/balloon-store/app/utils/calc"
	"github.com/sharikirostov/balloon-store/app/utils/format"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxCartItemQty = 999

type AddCartItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=999"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=999"`
}

// CartService works on the item list held in the visitor's session.
// It never writes to the database.
type CartService struct {
	productRepo repositories.ProductRepositoryImpl
	log         *zap.Logger
}

func NewCartService(productRepo repositories.ProductRepositoryImpl) *CartService {
	return &CartService{
		productRepo: productRepo,
		log:         logger.GetLogger(),
	}
}

func (s *CartService) AddItemToCart(ctx context.Context, items []models.CartItem, productID string, qty int) ([]models.CartItem, error) {
	if qty <= 0 {
		qty = 1
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}
	if !product.IsActive || !product.InStock {
		return nil, fmt.Errorf("product %s: %w", productID, ErrProductUnavailable)
	}

	snapshot := cartItemFromProduct(product)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Qty = min(items[i].Qty+qty, maxCartItemQty)
			items[i].Name = snapshot.Name
			items[i].Slug = snapshot.Slug
			items[i].Price = snapshot.Price
			items[i].PriceNumeric = snapshot.PriceNumeric
			items[i].Image = snapshot.Image
			return items, nil
		}
	}

	snapshot.Qty = min(qty, maxCartItemQty)
	s.log.Debug("cart item added", zap.String("product_id", productID), zap.Int("qty", snapshot.Qty))
	return append(items, snapshot), nil
}

func (s *CartService) UpdateItemQty(items []models.CartItem, productID string, qty int) ([]models.CartItem, error) {
	if qty < 1 || qty > maxCartItemQty {
		return nil, fmt.Errorf("quantity %d out of range: %w", qty, ErrValidation)
	}
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Qty = qty
			return items, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", productID, ErrCartItemNotFound)
}

func (s *CartService) RemoveItem(items []models.CartItem, productID string) ([]models.CartItem, error) {
	for i := range items {
		if items[i].ProductID == productID {
			return append(items[:i:i], items[i+1:]...), nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", productID, ErrCartItemNotFound)
}

// Summarize computes the cart totals for the given items.
func (s *CartService) Summarize(items []models.CartItem) *models.Cart {
	return SummarizeCart(items)
}

func SummarizeCart(items []models.CartItem) *models.Cart {
	if items == nil {
		items = []models.CartItem{}
	}
	total := decimal.Zero
	qty := 0
	for _, item := range items {
		total = total.Add(calc.LineTotal(item.PriceNumeric, item.Qty))
		qty += item.Qty
	}
	return &models.Cart{
		Items:      items,
		TotalQty:   qty,
		GrandTotal: total,
		TotalLabel: format.FormatRouble(total),
	}
}

func cartItemFromProduct(product *models.Product) models.CartItem {
	price := decimal.Zero
	if product.PriceNumeric.Valid {
		price = product.PriceNumeric.Decimal
	} else if parsed, ok := helpers.ParsePrice(product.Price); ok {
		price = parsed
	}

	return models.CartItem{
		ProductID:    product.ID,
		Name:         product.Name,
		Slug:         product.SlugOrID(),
		Price:        product.Price,
		PriceNumeric: price,
		Image:        product.PrimaryImagePath(),
	}
}
