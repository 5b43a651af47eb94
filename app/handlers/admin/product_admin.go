package admin

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sharikirostov/balloon-store/app/handlers"
	"github.com/sharikirostov/balloon-store/app/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type bulkUpdateResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
	Total   int    `json:"total"`
}

// GetProducts serves GET /api/admin/products?skip&take&search.
func (h *AdminHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	skip := handlers.QueryInt(r, "skip", 0)
	take := handlers.QueryInt(r, "take", services.DefaultPageSize)
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	page, err := h.productSvc.List(r.Context(), search, skip, take)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, page)
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *AdminHandler) AddProductPost(w http.ResponseWriter, r *http.Request) {
	var form services.ProductInput
	if !handlers.DecodeJSON(h.render, h.validator, w, r, &form) {
		return
	}

	product, err := h.productSvc.Create(r.Context(), form)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

// EditProductPost replaces the product fields along with its full category
// and image sets.
func (h *AdminHandler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	var form services.ProductInput
	if !handlers.DecodeJSON(h.render, h.validator, w, r, &form) {
		return
	}

	product, err := h.productSvc.Update(r.Context(), mux.Vars(r)["id"], form)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProductPost(w http.ResponseWriter, r *http.Request) {
	if err := h.productSvc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) BulkUpdateCategories(w http.ResponseWriter, r *http.Request) {
	var form services.BulkCategoryInput
	if !handlers.DecodeJSON(h.render, h.validator, w, r, &form) {
		return
	}

	result, err := h.bulkSvc.Apply(r.Context(), form)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, bulkUpdateResponse{
		Message: fmt.Sprintf("Updated %d products", result.Updated),
		Updated: result.Updated,
		Total:   result.Total,
	})
}

// ExportProducts serves GET /api/admin/products/export as an XLSX download.
func (h *AdminHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.exportSvc.WriteCatalog(r.Context(), &buf); err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
