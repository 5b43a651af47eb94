package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCustomer = models.OrderCustomer{
	Name:          "Анна",
	Phone:         "+79001234567",
	ContactMethod: models.ContactWhatsApp,
	DeliveryDate:  "2024-05-01",
	DeliveryTime:  "10:00-12:00",
	Address:       "Ростов-на-Дону, ул. Садовая, 1",
}

var testItems = []models.CartItem{
	{ProductID: "a", Name: "Шар сердце", Price: "1200 ₽", PriceNumeric: decimal.NewFromInt(1200), Qty: 2},
	{ProductID: "b", Name: "Цифра 5", Price: "900 ₽", PriceNumeric: decimal.NewFromInt(900), Qty: 1},
}

func TestOrderService_PlaceOrder(t *testing.T) {
	f := newFixture(t)

	order, err := f.app.Orders.PlaceOrder(context.Background(), testCustomer, testItems)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), order.OrderID)
	assert.True(t, decimal.NewFromInt(3300).Equal(order.Total))
	require.Len(t, f.sent.kinds, 1)
	assert.Equal(t, NotificationOrder, f.sent.kinds[0])
	assert.True(t, f.sent.markdown[0])
	assert.Contains(t, f.sent.texts[0], "💰 *ИТОГО:* 3 300 ₽")
}

func TestOrderService_PlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Orders.PlaceOrder(context.Background(), testCustomer, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.sent.kinds)
}

func TestOrderService_NotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.sent.err = ErrNotifierNotConfigured

	_, err := f.app.Orders.PlaceOrder(context.Background(), testCustomer, testItems)
	assert.ErrorIs(t, err, ErrNotifierNotConfigured)

	f.sent.err = errors.New("boom")
	assert.Error(t, f.app.Orders.CancelOrder(context.Background(), models.CancelledOrder{OrderID: "ABCD1234"}))
}

func TestOrderMessage(t *testing.T) {
	customer := testCustomer
	customer.Comment = "Позвонить за час"
	order := &models.Order{Customer: customer, Items: testItems, Total: decimal.NewFromInt(3300)}

	want := "🛒 *НОВЫЙ ЗАКАЗ*\n\n" +
		"👤 *Клиент:* Анна\n" +
		"📞 *Телефон:* +79001234567\n" +
		"💬 *Связь:* WhatsApp\n" +
		"📅 *Дата доставки:* 2024-05-01\n" +
		"⏰ *Время доставки:* 10:00-12:00\n" +
		"📍 *Адрес:* Ростов-на-Дону, ул. Садовая, 1\n" +
		"📝 *Комментарий:* Позвонить за час\n" +
		"\n🛍 *СОСТАВ ЗАКАЗА:*\n" +
		"\n1. Шар сердце\n" +
		"   Цена: 1200 ₽\n" +
		"   Количество: 2 шт.\n" +
		"   Сумма: 2 400 ₽\n" +
		"\n2. Цифра 5\n" +
		"   Цена: 900 ₽\n" +
		"   Количество: 1 шт.\n" +
		"   Сумма: 900 ₽\n" +
		"\n💰 *ИТОГО:* 3 300 ₽"
	assert.Equal(t, want, OrderMessage(order))
}

func TestOrderMessage_ContactMethodLabels(t *testing.T) {
	for method, label := range map[string]string{
		models.ContactTelegram: "Telegram",
		models.ContactWhatsApp: "WhatsApp",
		models.ContactCall:     "Позвонить",
		"":                     "Позвонить",
	} {
		customer := testCustomer
		customer.ContactMethod = method
		msg := OrderMessage(&models.Order{Customer: customer})
		assert.Contains(t, msg, "💬 *Связь:* "+label+"\n")
		assert.NotContains(t, msg, "Комментарий")
	}
}

func TestCancelMessage(t *testing.T) {
	msg := CancelMessage(models.CancelledOrder{
		OrderID:   "ABCD1234",
		OrderDate: "01.05.2024, 09:15:00",
		Customer:  testCustomer,
	})

	want := "❌ ОТМЕНА ЗАКАЗА\n\n" +
		"🆔 Номер заказа: ABCD1234\n" +
		"📅 Дата заказа: 01.05.2024, 09:15:00\n\n" +
		"👤 Клиент: Анна\n" +
		"📞 Телефон: +79001234567\n" +
		"📍 Адрес: Ростов-на-Дону, ул. Садовая, 1\n\n" +
		"⚠️ Клиент отменил заказ через корзину"
	assert.Equal(t, want, msg)
}

func TestOrderService_CancelIsPlainText(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.app.Orders.CancelOrder(context.Background(), models.CancelledOrder{OrderID: "ABCD1234"}))
	assert.Equal(t, []string{NotificationCancel}, f.sent.kinds)
	assert.Equal(t, []bool{false}, f.sent.markdown)
}

func TestContactMessage_Defaults(t *testing.T) {
	at := time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC)
	msg := ContactMessage(models.ContactRequest{Name: "Олег", Phone: "89001112233"}, at)

	want := "🎈 *Новая заявка с сайта ШарикиРостов.рф*\n\n" +
		"👤 *Имя:* Олег\n" +
		"📱 *Телефон:* 89001112233\n" +
		"📧 *Email:* Не указан\n" +
		"🎉 *Тип мероприятия:* Не указан\n" +
		"📅 *Дата мероприятия:* Не указана\n" +
		"⏰ *Время мероприятия:* Не указано\n" +
		"💬 *Сообщение:* Не указано\n\n" +
		"⏰ *Время заявки:* 01.05.2024, 14:30:05\n" +
		"🌐 *Источник:* https://шарикиростов.рф"
	assert.Equal(t, want, msg)
}

func TestOrderService_SubmitContact(t *testing.T) {
	f := newFixture(t)
	f.app.Orders.now = func() time.Time { return time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC) }

	err := f.app.Orders.SubmitContact(context.Background(), models.ContactRequest{
		Name:      "Олег",
		Phone:     "89001112233",
		Email:     "oleg@example.com",
		EventType: "Свадьба",
	})
	require.NoError(t, err)
	require.Len(t, f.sent.texts, 1)
	assert.Equal(t, NotificationContact, f.sent.kinds[0])
	assert.Contains(t, f.sent.texts[0], "📧 *Email:* oleg@example.com\n")
	assert.Contains(t, f.sent.texts[0], "🎉 *Тип мероприятия:* Свадьба\n")
	assert.Contains(t, f.sent.texts[0], "01.05.2024, 14:30:05")
}
