package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var got telegramMessage
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		got = telegramMessage{}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := NewTelegramNotifier("123:abc", "-100500").WithBaseURL(server.URL + "/")

	require.NoError(t, n.Send(context.Background(), NotificationOrder, "*hi*", true))
	assert.Equal(t, "/bot123:abc/sendMessage", path)
	assert.Equal(t, telegramMessage{ChatID: "-100500", Text: "*hi*", ParseMode: "Markdown"}, got)

	require.NoError(t, n.Send(context.Background(), NotificationCancel, "plain", false))
	assert.Empty(t, got.ParseMode)
}

func TestTelegramNotifier_NotConfigured(t *testing.T) {
	n := NewTelegramNotifier("", "")

	assert.False(t, n.Configured())
	assert.ErrorIs(t, n.Send(context.Background(), NotificationContact, "x", true), ErrNotifierNotConfigured)
}

func TestTelegramNotifier_APIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http status", http.StatusBadRequest, `{"ok":false,"description":"Bad Request: chat not found"}`},
		{"not ok", http.StatusOK, `{"ok":false,"description":"Forbidden"}`},
		{"garbage", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			n := NewTelegramNotifier("t", "c").WithBaseURL(server.URL)
			assert.Error(t, n.Send(context.Background(), NotificationOrder, "x", true))
		})
	}
}

func TestTelegramNotifier_BreakerOpensAfterFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewTelegramNotifier("t", "c").WithBaseURL(server.URL)
	for i := 0; i < 5; i++ {
		assert.Error(t, n.Send(context.Background(), NotificationOrder, "x", true))
	}
	assert.Equal(t, 3, calls)
}
