package handlers

import (
	"net/http"

	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/unrolled/render"
)

type HomeHandler struct {
	render  *render.Render
	catalog *services.CatalogService
}

func NewHomeHandler(r *render.Render, catalog *services.CatalogService) *HomeHandler {
	return &HomeHandler{
		render:  r,
		catalog: catalog,
	}
}

// Home serves GET /api/home: the most viewed products and the category tree.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.catalog.Home(r.Context())
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, home)
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
