package sessions

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/sharikirostov/balloon-store/app/models"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"go.uber.org/zap"
)

const (
	sessionCookieName = "balloon-session"

	cartItemsSessionKey = "cartItems"
)

type SessionStore interface {
	GetCartItems(r *http.Request) []models.CartItem
	SetCartItems(w http.ResponseWriter, r *http.Request, items []models.CartItem) error
	ClearCart(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		// A cookie signed with rotated keys yields a fresh session.
		logger.GetLogger().Debug("discarding unreadable session", zap.Error(err))
	}
	return session
}

func (c *CookieSessionStore) GetCartItems(r *http.Request) []models.CartItem {
	session := c.getSession(r)
	raw, ok := session.Values[cartItemsSessionKey].(string)
	if !ok || raw == "" {
		return []models.CartItem{}
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.GetLogger().Warn("invalid cart in session", zap.Error(err))
		return []models.CartItem{}
	}
	return items
}

func (c *CookieSessionStore) SetCartItems(w http.ResponseWriter, r *http.Request, items []models.CartItem) error {
	session := c.getSession(r)
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	session.Values[cartItemsSessionKey] = string(raw)
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearCart(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, cartItemsSessionKey)
	return session.Save(r, w)
}
