package models

import "github.com/shopspring/decimal"

// Cart is the session-held shopping cart. It is never persisted to the database.
type Cart struct {
	Items      []CartItem      `json:"items"`
	TotalQty   int             `json:"totalQty"`
	GrandTotal decimal.Decimal `json:"total"`
	TotalLabel string          `json:"totalLabel"`
}
