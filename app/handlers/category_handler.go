package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	categories *services.CategoryService
	render     *render.Render
}

func NewCategoryHandler(categories *services.CategoryService, r *render.Render) *CategoryHandler {
	return &CategoryHandler{categories: categories, render: r}
}

// Categories serves GET /api/categories: a flat list with direct product counts.
func (h *CategoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.categories.List(r.Context())
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, rows)
}

func (h *CategoryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categories.Tree(r.Context())
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, tree)
}

// CategoryDetail serves GET /api/categories/{id}; the key may also be a slug.
func (h *CategoryHandler) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.categories.GetDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, detail)
}
