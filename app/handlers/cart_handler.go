package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/sessions"
	"github.com/unrolled/render"
)

type CartHandler struct {
	cartSvc   *services.CartService
	store     sessions.SessionStore
	render    *render.Render
	validator *validator.Validate
}

func NewCartHandler(cartSvc *services.CartService, store sessions.SessionStore, r *render.Render, validate *validator.Validate) *CartHandler {
	return &CartHandler{cartSvc: cartSvc, store: store, render: r, validator: validate}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	items := h.store.GetCartItems(r)
	h.render.JSON(w, http.StatusOK, h.cartSvc.Summarize(items))
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var in services.AddCartItemInput
	if !DecodeJSON(h.render, h.validator, w, r, &in) {
		return
	}

	items, err := h.cartSvc.AddItemToCart(r.Context(), h.store.GetCartItems(r), in.ProductID, in.Quantity)
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.save(w, r, items)
}

func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateCartItemInput
	if !DecodeJSON(h.render, h.validator, w, r, &in) {
		return
	}

	items, err := h.cartSvc.UpdateItemQty(h.store.GetCartItems(r), mux.Vars(r)["id"], in.Quantity)
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.save(w, r, items)
}

func (h *CartHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	items, err := h.cartSvc.RemoveItem(h.store.GetCartItems(r), mux.Vars(r)["id"])
	if err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.save(w, r, items)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearCart(w, r); err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, h.cartSvc.Summarize(nil))
}

// CSRFToken serves GET /api/csrf for clients that post to the cart and order routes.
func (h *CartHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token := csrf.Token(r)
	w.Header().Set("X-CSRF-Token", token)
	h.render.JSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

func (h *CartHandler) save(w http.ResponseWriter, r *http.Request, items []models.CartItem) {
	if err := h.store.SetCartItems(w, r, items); err != nil {
		RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, h.cartSvc.Summarize(items))
}
