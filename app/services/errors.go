package services

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrSlugTaken             = errors.New("slug already in use")
	ErrCategoryCycle         = errors.New("category cannot be moved under itself or its descendants")
	ErrCategoryNotEmpty      = errors.New("category has children or products")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrProductUnavailable    = errors.New("product is not available")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotifierNotConfigured = errors.New("notifier is not configured")
)
