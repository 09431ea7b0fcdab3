package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/volunteer"
)

const callerKey contextKey = "caller"

// Gate turns a bearer token into a caller.
type Gate interface {
	Authorize(ctx context.Context, token string, elevated bool) (volunteer.Caller, error)
}

// ErrorResponder writes a failed authorization to the client.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

func WithCaller(ctx context.Context, caller volunteer.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFrom(ctx context.Context) (volunteer.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(volunteer.Caller)
	return caller, ok
}

// bearerToken returns "" when the header is absent or not of the form "Bearer <token>".
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func authorize(gate Gate, respond ErrorResponder, elevated bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := gate.Authorize(r.Context(), bearerToken(r), elevated)
			if err != nil {
				logger.Warn("HTTP: authorization failed",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("path", r.URL.Path),
					zap.Bool("elevated", elevated),
					zap.Error(err))
				respond(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// Authenticate admits any registered caller.
func Authenticate(gate Gate, respond ErrorResponder) func(http.Handler) http.Handler {
	return authorize(gate, respond, false)
}

// RequireElevated admits Domain Heads and Super Admins only.
func RequireElevated(gate Gate, respond ErrorResponder) func(http.Handler) http.Handler {
	return authorize(gate, respond, true)
}
