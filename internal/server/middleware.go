package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/services"
	"github.com/desertthunder/prima/internal/studio"
)

type contextKey struct{}

// UserFrom returns the operator attached by the identity middleware.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(contextKey{}).(models.User)
	return u, ok
}

func withUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

func loggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// staticIdentity answers an already verified user.
type staticIdentity models.User

func (s staticIdentity) Identity(context.Context) (models.User, error) {
	return models.User(s), nil
}

// identityMiddleware resolves the operator for every request.
//
// With a bot token configured the request must carry "Authorization: tma <initData>" signed by that
// bot; without one every request acts as the placeholder user.
func (a *API) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var host studio.IdentityProvider = services.PlaceholderIdentity{}

		if a.Auth.BotToken != "" {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "tma ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing init data")
				return
			}

			verified := &services.TelegramIdentity{
				InitData: raw,
				BotToken: a.Auth.BotToken,
				MaxAge:   a.Auth.MaxAge,
				Now:      a.now,
			}
			u, err := verified.Identity(r.Context())
			if err != nil {
				a.Logger.Debug("rejected init data", "error", err)
				writeDomainError(w, err)
				return
			}
			host = staticIdentity(u)
		}

		user := studio.Login(r.Context(), host, a.Roles, a.Logger)
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := UserFrom(r.Context()); !ok || u.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
