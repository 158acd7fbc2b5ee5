package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

const panicBody = `{"error":"internal server error"}` + "\n"

// Recovery returns middleware that turns a handler panic into a logged
// 500 carrying the API's JSON error envelope. http.ErrAbortHandler is
// re-raised so the server aborts the connection as usual.
func Recovery(logger *slog.Logger) Middleware {
	logger = logger.With("component", "recovery")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				attrs := []any{
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}
				if id := ctxutil.RequestIDFromCtx(r.Context()); id != "" {
					attrs = append(attrs, slog.String("request_id", id))
				}
				if userID, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
					attrs = append(attrs, slog.String("user_id", userID.String()))
				}
				logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(panicBody))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
