package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render    *render.Render
	authSvc   *services.AuthService
	validator *validator.Validate
}

func NewAuthHandler(r *render.Render, authSvc *services.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		render:    r,
		authSvc:   authSvc,
		validator: validate,
	}
}

// LoginPostHandler serves POST /api/admin/auth/login.
func (h *AuthHandler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !DecodeJSON(h.render, h.validator, w, r, &in) {
		return
	}

	result, err := h.authSvc.Login(r.Context(), in)
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}

// RegisterPostHandler serves POST /api/admin/auth/register.
func (h *AuthHandler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !DecodeJSON(h.render, h.validator, w, r, &in) {
		return
	}

	admin, err := h.authSvc.Register(r.Context(), in)
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"admin": admin})
}
