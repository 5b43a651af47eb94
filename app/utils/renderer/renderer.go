package renderer

import (
	"net/http"

	"github.com/unrolled/render"
)

func New(development bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    development,
		UnEscapeHTML:  true,
		IsDevelopment: development,
	})
}

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// Error writes {"error": message} with the given status.
func Error(rn *render.Render, w http.ResponseWriter, status int, message string) {
	_ = rn.JSON(w, status, errorBody{Error: message})
}

// ValidationError writes a 400 with per-field messages.
func ValidationError(rn *render.Render, w http.ResponseWriter, message string, details map[string]string) {
	_ = rn.JSON(w, http.StatusBadRequest, errorBody{Error: message, Details: details})
}
