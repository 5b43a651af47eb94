package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/sharikirostov/balloon-store/app/helpers"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/renderer"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type TokenValidator interface {
	ValidateToken(tokenString string) (*services.AdminClaims, error)
}

// AdminAuthMiddleware admits requests carrying a valid admin bearer token and
// puts the admin id and email into the request context.
func AdminAuthMiddleware(validator TokenValidator, rn *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := LoggerFrom(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("missing authorization header", zap.String("path", r.URL.Path))
				renderer.Error(rn, w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("invalid authorization header format", zap.String("path", r.URL.Path))
				renderer.Error(rn, w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				log.Warn("invalid admin token", zap.Error(err))
				renderer.Error(rn, w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyAdminID, claims.AdminID)
			ctx = context.WithValue(ctx, helpers.ContextKeyAdminEmail, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
