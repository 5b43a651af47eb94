package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/renderer"
	"github.com/unrolled/render"
)

type ImageHandler struct {
	storage *services.ImageStorage
	render  *render.Render
}

func NewImageHandler(storage *services.ImageStorage, r *render.Render) *ImageHandler {
	return &ImageHandler{storage: storage, render: r}
}

// ServeImage serves GET /images/{path}.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	full, err := h.storage.Resolve(mux.Vars(r)["path"])
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			RespondError(h.render, w, r, err)
			return
		}
		renderer.Error(h.render, w, http.StatusNotFound, "Image not found")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, full)
}
