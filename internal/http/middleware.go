package http

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
)

// userIDHeader carries the authenticated user id, injected by the session
// layer fronting this service. This core trusts the id but re-checks role
// and email against its own state.
const userIDHeader = "X-User-ID"

type userIDCtxKey struct{}

func userIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDCtxKey{}).(int64)
	return id, ok
}

func (rtr *router) panicMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				rtr.log.Error("panic recovered",
					"error", err,
					"stack", debug.Stack(),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (rtr *router) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rtr.log.Info("request",
			slog.String("method", r.Method),
			slog.String("url", r.URL.String()),
			slog.String("remote_addr", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

func (rtr *router) identityMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "missing user identity"))
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			rtr.handleError(w, newResponseError(ErrCodeUnauthenticated, "bad user identity"))
			return
		}
		ctx := context.WithValue(r.Context(), userIDCtxKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
