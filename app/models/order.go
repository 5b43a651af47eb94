package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ContactTelegram = "telegram"
	ContactWhatsApp = "whatsapp"
	ContactCall     = "call"
)

// OrderCustomer is the checkout form filled in by the buyer.
type OrderCustomer struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Phone         string `json:"phone" validate:"required,min=5,max=32"`
	ContactMethod string `json:"contactMethod" validate:"omitempty,oneof=telegram whatsapp call"`
	DeliveryDate  string `json:"deliveryDate" validate:"required"`
	DeliveryTime  string `json:"deliveryTime" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Comment       string `json:"comment"`
}

// Order is a checkout request. Orders are delivered to the merchant as
// notifications and are not stored.
type Order struct {
	OrderID   string          `json:"orderId"`
	OrderDate time.Time       `json:"orderDate"`
	Customer  OrderCustomer   `json:"customer"`
	Items     []CartItem      `json:"cart"`
	Total     decimal.Decimal `json:"total"`
}

// CancelledOrder is what the storefront posts when the buyer cancels an active order.
type CancelledOrder struct {
	OrderID   string        `json:"orderId" validate:"required"`
	OrderDate string        `json:"orderDate"`
	Customer  OrderCustomer `json:"customer"`
}

// ContactRequest is the event enquiry form on the landing page.
type ContactRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Phone     string `json:"phone" validate:"required,min=5,max=32"`
	Email     string `json:"email" validate:"omitempty,email"`
	EventType string `json:"eventType"`
	EventDate string `json:"eventDate"`
	EventTime string `json:"eventTime"`
	Message   string `json:"message"`
}
