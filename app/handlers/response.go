package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/renderer"
	"github.com/unrolled/render"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxJSONBody = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// StatusFor maps a service error to an HTTP status and a client-facing message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnsupportedImageType), errors.Is(err, services.ErrEmptyCart):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "Неверный email или пароль"
	case errors.Is(err, services.ErrForbiddenPath):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, services.ErrCategoryNotFound):
		return http.StatusNotFound, "Category not found"
	case errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, services.ErrCartItemNotFound):
		return http.StatusNotFound, "Cart item not found"
	case errors.Is(err, services.ErrSlugTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, "Slug already exists"
	case errors.Is(err, services.ErrCategoryCycle):
		return http.StatusConflict, "Category cannot be its own ancestor"
	case errors.Is(err, services.ErrCategoryNotEmpty):
		return http.StatusConflict, "Category has subcategories or products"
	case errors.Is(err, services.ErrProductUnavailable):
		return http.StatusConflict, "Product is not available"
	}
	return http.StatusInternalServerError, "Internal server error"
}

// RespondError logs unexpected failures and writes the mapped error body.
func RespondError(rn *render.Render, w http.ResponseWriter, r *http.Request, err error) {
	status, message := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.GetLogger().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	renderer.Error(rn, w, status, message)
}

// DecodeJSON reads a JSON body into dst and runs struct validation on it.
// It writes the error response itself and reports whether decoding succeeded.
func DecodeJSON(rn *render.Render, validate *validator.Validate, w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		renderer.Error(rn, w, http.StatusBadRequest, fmt.Sprintf("%s: %v", errInvalidBody, err))
		return false
	}
	if validate == nil {
		return true
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			renderer.ValidationError(rn, w, "validation failed", helpers.FormatValidationErrors(verrs))
			return false
		}
		renderer.Error(rn, w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// QueryInt parses an integer query parameter, falling back on absence or garbage.
func QueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func QueryBool(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
