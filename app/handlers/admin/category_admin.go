package admin

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sharikirostov/balloon-store/app/handlers"
	"github.com/sharikirostov/balloon-store/app/services"
)

type MoveProductsForm struct {
	TargetCategoryID string `json:"targetCategoryId" validate:"required"`
}

type moveProductsResponse struct {
	Message string `json:"message"`
	Moved   int    `json:"moved"`
	Total   int    `json:"total"`
}

func (h *AdminHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categorySvc.List(r.Context())
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, categories)
}

func (h *AdminHandler) GetCategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categorySvc.Tree(r.Context())
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, tree)
}

func (h *AdminHandler) AddCategoryPost(w http.ResponseWriter, r *http.Request) {
	var form services.CategoryInput
	if !handlers.DecodeJSON(h.render, h.validator, w, r, &form) {
		return
	}

	category, err := h.categorySvc.Create(r.Context(), form)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, category)
}

func (h *AdminHandler) EditCategoryPost(w http.ResponseWriter, r *http.Request) {
	var form services.CategoryInput
	if !handlers.DecodeJSON(h.render, h.validator, w, r, &form) {
		return
	}

	category, err := h.categorySvc.Update(r.Context(), mux.Vars(r)["id"], form)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, category)
}

// DeleteCategoryPost serves DELETE /api/admin/categories/{id}?policy=block|reparent|cascade.
func (h *AdminHandler) DeleteCategoryPost(w http.ResponseWriter, r *http.Request) {
	policy, err := services.ParseDeletePolicy(r.URL.Query().Get("policy"))
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}

	if err := h.categorySvc.Delete(r.Context(), mux.Vars(r)["id"], policy); err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) MoveCategoryProducts(w http.ResponseWriter, r *http.Request) {
	var form MoveProductsForm
	if !handlers.DecodeJSON(h.render, h.validator, w, r, &form) {
		return
	}

	result, err := h.categorySvc.MoveAllProducts(r.Context(), mux.Vars(r)["id"], form.TargetCategoryID)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}

	message := fmt.Sprintf("Moved %d products", result.Moved)
	if result.Total == 0 {
		message = "No products found in this category"
	}
	h.render.JSON(w, http.StatusOK, moveProductsResponse{
		Message: message,
		Moved:   result.Moved,
		Total:   result.Total,
	})
}
