package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"github.com/sharikirostov/balloon-store/app/utils/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const telegramAPIBaseURL = "https://api.telegram.org"

type Notifier interface {
	Send(ctx context.Context, kind, text string, markdown bool) error
}

type TelegramNotifier struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	log := logger.GetLogger()
	return &TelegramNotifier{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: telegramAPIBaseURL,
		token:   token,
		chatID:  chatID,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "telegram",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Warn("circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
		log: log,
	}
}

// WithBaseURL points the notifier at another Bot API host.
func (n *TelegramNotifier) WithBaseURL(baseURL string) *TelegramNotifier {
	n.baseURL = strings.TrimRight(baseURL, "/")
	return n
}

func (n *TelegramNotifier) Configured() bool {
	return n.token != "" && n.chatID != ""
}

func (n *TelegramNotifier) Send(ctx context.Context, kind, text string, markdown bool) error {
	if !n.Configured() {
		n.log.Error("telegram credentials are missing", zap.String("kind", kind))
		metrics.RecordNotification(kind, "not_configured")
		return ErrNotifierNotConfigured
	}

	msg := telegramMessage{ChatID: n.chatID, Text: text}
	if markdown {
		msg.ParseMode = "Markdown"
	}

	_, err := n.breaker.Execute(func() (any, error) {
		return nil, n.post(ctx, msg)
	})
	if err != nil {
		n.log.Error("failed to send telegram message", zap.String("kind", kind), zap.Error(err))
		metrics.RecordNotification(kind, "error")
		return fmt.Errorf("failed to send %s notification: %w", kind, err)
	}

	metrics.RecordNotification(kind, "sent")
	return nil
}

func (n *TelegramNotifier) post(ctx context.Context, msg telegramMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request to telegram: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result telegramResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}
