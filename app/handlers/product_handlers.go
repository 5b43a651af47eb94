package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	catalog *services.CatalogService
	render  *render.Render
}

func NewProductHandler(catalog *services.CatalogService, r *render.Render) *ProductHandler {
	return &ProductHandler{catalog: catalog, render: r}
}

// Products serves GET /api/products.
func (h *ProductHandler) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := services.ProductListQuery{
		CategoryID:      strings.TrimSpace(q.Get("categoryId")),
		Search:          strings.TrimSpace(q.Get("search")),
		MinPrice:        queryPrice(r, "minPrice"),
		MaxPrice:        queryPrice(r, "maxPrice"),
		InStock:         QueryBool(r, "inStock"),
		IncludeInactive: q.Get("includeInactive") == "true",
		SortBy:          q.Get("sortBy"),
		SortOrder:       q.Get("sortOrder"),
		Page:            QueryInt(r, "page", 1),
		Limit:           QueryInt(r, "limit", services.DefaultPageSize),
	}

	page, err := h.catalog.ListProducts(r.Context(), query)
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, page)
}

// ProductDetail serves GET /api/products/{slug}; the key may also be an id.
func (h *ProductHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["slug"]

	product, err := h.catalog.GetProduct(r.Context(), key)
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func queryPrice(r *http.Request, key string) *decimal.Decimal {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, ok := helpers.ParsePrice(raw)
	if !ok {
		return nil
	}
	return &v
}
