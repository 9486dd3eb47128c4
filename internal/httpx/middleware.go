package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/metrics"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey struct{}

// WithActor stores the authenticated caller in ctx.
func WithActor(ctx context.Context, a orders.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func ActorFrom(ctx context.Context) (orders.Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(orders.Actor)
	return a, ok
}

// Authenticate checks the bearer token and that its user still exists.
func Authenticate(accounts Accounts) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeMessage(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			claims, err := accounts.ParseToken(strings.TrimSpace(token))
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			u, err := accounts.FindByID(r.Context(), claims.UserID)
			if apperr.Is(err, apperr.CodeNotFound) {
				writeMessage(w, http.StatusUnauthorized, "User not found")
				return
			}
			if err != nil {
				writeError(w, r, err)
				return
			}
			actor := orders.Actor{UserID: u.ID, Role: orders.Role(u.Role)}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func RequireSeller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a, ok := ActorFrom(r.Context()); !ok || !a.IsSeller() {
			writeMessage(w, http.StatusForbidden, "Access denied. Seller privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Instrument records request count and latency per chi route pattern.
func Instrument(m *metrics.ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(route, r.Method).Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}
