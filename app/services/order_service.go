package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/utils/calc"
	"github.com/sharikirostov/balloon-store/app/utils/format"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"go.uber.org/zap"
)

const (
	NotificationOrder   = "order"
	NotificationCancel  = "cancel"
	NotificationContact = "contact"

	siteURL          = "https://шарикиростов.рф"
	ruDateTimeLayout = "02.01.2006, 15:04:05"
)

type PlaceOrderInput struct {
	Customer models.OrderCustomer `json:"customer"`
	Cart     []models.CartItem    `json:"cart" validate:"omitempty,dive"`
}

type CancelOrderInput struct {
	Order models.CancelledOrder `json:"order"`
}

// OrderService turns checkout, cancellation and contact forms into
// merchant notifications. Nothing is stored.
type OrderService struct {
	notifier Notifier
	now      func() time.Time
	log      *zap.Logger
}

func NewOrderService(notifier Notifier) *OrderService {
	return &OrderService{
		notifier: notifier,
		now:      time.Now,
		log:      logger.GetLogger(),
	}
}

func (s *OrderService) PlaceOrder(ctx context.Context, customer models.OrderCustomer, items []models.CartItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	cart := SummarizeCart(items)
	order := &models.Order{
		OrderID:   newOrderID(),
		OrderDate: s.now(),
		Customer:  customer,
		Items:     cart.Items,
		Total:     cart.GrandTotal,
	}

	if err := s.notifier.Send(ctx, NotificationOrder, OrderMessage(order), true); err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("order_id", order.OrderID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.String()))
	return order, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, order models.CancelledOrder) error {
	if err := s.notifier.Send(ctx, NotificationCancel, CancelMessage(order), false); err != nil {
		return err
	}
	s.log.Info("order cancelled", zap.String("order_id", order.OrderID))
	return nil
}

func (s *OrderService) SubmitContact(ctx context.Context, req models.ContactRequest) error {
	if err := s.notifier.Send(ctx, NotificationContact, ContactMessage(req, s.now()), true); err != nil {
		return err
	}
	s.log.Info("contact request sent", zap.String("event_type", req.EventType))
	return nil
}

func OrderMessage(order *models.Order) string {
	c := order.Customer

	var b strings.Builder
	b.WriteString("🛒 *НОВЫЙ ЗАКАЗ*\n\n")
	fmt.Fprintf(&b, "👤 *Клиент:* %s\n", c.Name)
	fmt.Fprintf(&b, "📞 *Телефон:* %s\n", c.Phone)
	fmt.Fprintf(&b, "💬 *Связь:* %s\n", contactMethodLabel(c.ContactMethod))
	fmt.Fprintf(&b, "📅 *Дата доставки:* %s\n", c.DeliveryDate)
	fmt.Fprintf(&b, "⏰ *Время доставки:* %s\n", c.DeliveryTime)
	fmt.Fprintf(&b, "📍 *Адрес:* %s\n", c.Address)
	if c.Comment != "" {
		fmt.Fprintf(&b, "📝 *Комментарий:* %s\n", c.Comment)
	}

	b.WriteString("\n🛍 *СОСТАВ ЗАКАЗА:*\n")
	for i, item := range order.Items {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, item.Name)
		fmt.Fprintf(&b, "   Цена: %s\n", item.Price)
		fmt.Fprintf(&b, "   Количество: %d шт.\n", item.Qty)
		fmt.Fprintf(&b, "   Сумма: %s\n", format.FormatRouble(calc.LineTotal(item.PriceNumeric, item.Qty)))
	}

	fmt.Fprintf(&b, "\n💰 *ИТОГО:* %s", format.FormatRouble(order.Total))
	return b.String()
}

func CancelMessage(order models.CancelledOrder) string {
	c := order.Customer

	var b strings.Builder
	b.WriteString("❌ ОТМЕНА ЗАКАЗА\n\n")
	fmt.Fprintf(&b, "🆔 Номер заказа: %s\n", order.OrderID)
	fmt.Fprintf(&b, "📅 Дата заказа: %s\n\n", order.OrderDate)
	fmt.Fprintf(&b, "👤 Клиент: %s\n", c.Name)
	fmt.Fprintf(&b, "📞 Телефон: %s\n", c.Phone)
	fmt.Fprintf(&b, "📍 Адрес: %s\n\n", c.Address)
	b.WriteString("⚠️ Клиент отменил заказ через корзину")
	return b.String()
}

func ContactMessage(req models.ContactRequest, at time.Time) string {
	var b strings.Builder
	b.WriteString("🎈 *Новая заявка с сайта ШарикиРостов.рф*\n\n")
	fmt.Fprintf(&b, "👤 *Имя:* %s\n", req.Name)
	fmt.Fprintf(&b, "📱 *Телефон:* %s\n", req.Phone)
	fmt.Fprintf(&b, "📧 *Email:* %s\n", orDefault(req.Email, "Не указан"))
	fmt.Fprintf(&b, "🎉 *Тип мероприятия:* %s\n", orDefault(req.EventType, "Не указан"))
	fmt.Fprintf(&b, "📅 *Дата мероприятия:* %s\n", orDefault(req.EventDate, "Не указана"))
	fmt.Fprintf(&b, "⏰ *Время мероприятия:* %s\n", orDefault(req.EventTime, "Не указано"))
	fmt.Fprintf(&b, "💬 *Сообщение:* %s\n\n", orDefault(req.Message, "Не указано"))
	fmt.Fprintf(&b, "⏰ *Время заявки:* %s\n", at.Format(ruDateTimeLayout))
	fmt.Fprintf(&b, "🌐 *Источник:* %s", siteURL)
	return b.String()
}

func contactMethodLabel(method string) string {
	switch method {
	case models.ContactTelegram:
		return "Telegram"
	case models.ContactWhatsApp:
		return "WhatsApp"
	default:
		return "Позвонить"
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func newOrderID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
