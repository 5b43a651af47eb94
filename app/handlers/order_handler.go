package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/sessions"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type notificationResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *models.Order `json:"order,omitempty"`
}

type OrderHandler struct {
	orderSvc  *services.OrderService
	store     sessions.SessionStore
	render    *render.Render
	validator *validator.Validate
}

func NewOrderHandler(orderSvc *services.OrderService, store sessions.SessionStore, r *render.Render, validate *validator.Validate) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc, store: store, render: r, validator: validate}
}

// PlaceOrder serves POST /api/order. The session cart wins over a posted one.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var in services.PlaceOrderInput
	if !DecodeJSON(h.render, h.validator, w, r, &in) {
		return
	}

	items := h.store.GetCartItems(r)
	if len(items) == 0 {
		items = in.Cart
	}

	order, err := h.orderSvc.PlaceOrder(r.Context(), in.Customer, items)
	if err != nil {
		h.fail(w, r, err, "Ошибка при оформлении заказа")
		return
	}

	if err := h.store.ClearCart(w, r); err != nil {
		logger.GetLogger().Warn("failed to clear cart after order", zap.String("order_id", order.OrderID), zap.Error(err))
	}

	h.render.JSON(w, http.StatusOK, notificationResponse{
		Success: true,
		Message: "Заказ успешно оформлен!",
		Order:   order,
	})
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var in services.CancelOrderInput
	if !DecodeJSON(h.render, nil, w, r, &in) {
		return
	}
	if in.Order.OrderID == "" {
		h.render.JSON(w, http.StatusBadRequest, notificationResponse{Message: "Не указан номер заказа"})
		return
	}

	if err := h.orderSvc.CancelOrder(r.Context(), in.Order); err != nil {
		h.fail(w, r, err, "Ошибка при отмене заказа")
		return
	}
	h.render.JSON(w, http.StatusOK, notificationResponse{Success: true, Message: "Заказ отменен"})
}

func (h *OrderHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var in models.ContactRequest
	if !DecodeJSON(h.render, h.validator, w, r, &in) {
		return
	}

	if err := h.orderSvc.SubmitContact(r.Context(), in); err != nil {
		h.fail(w, r, err, "Ошибка при отправке заявки. Попробуйте позже.")
		return
	}
	h.render.JSON(w, http.StatusOK, notificationResponse{Success: true, Message: "Заявка успешно отправлена!"})
}

func (h *OrderHandler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := http.StatusInternalServerError
	if errors.Is(err, services.ErrEmptyCart) {
		status = http.StatusBadRequest
		message = "Корзина пуста"
	}
	logger.GetLogger().Error("notification request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err))
	h.render.JSON(w, status, notificationResponse{Success: false, Message: message})
}
