package models

import (
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID    string          `json:"id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Slug         string          `json:"slug"`
	Price        string          `json:"price"`
	PriceNumeric decimal.Decimal `json:"priceNumeric"`
	Qty          int             `json:"quantity" validate:"min=1"`
	Image        string          `json:"image"`
}

// Subtotal is the line total for the item.
func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.PriceNumeric.Mul(decimal.NewFromInt(int64(ci.Qty)))
}
