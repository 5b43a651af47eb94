package admin

import (
	"errors"
	"net/http"

	"github.com/sharikirostov/balloon-store/app/handlers"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/renderer"
)

// UploadImage serves POST /api/admin/images/upload with a multipart "file" field.
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		renderer.Error(h.render, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			renderer.Error(h.render, w, http.StatusBadRequest, "No file provided")
			return
		}
		renderer.Error(h.render, w, http.StatusBadRequest, "Invalid file part")
		return
	}
	defer file.Close()

	uploaded, err := h.images.Save(header.Filename, file)
	if err != nil {
		handlers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, uploaded)
}
