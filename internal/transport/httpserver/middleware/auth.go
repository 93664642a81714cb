package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"family-finance-go/internal/domain/access"
	"family-finance-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type contextKey int

const principalKey contextKey = iota

type TokenParser interface {
	ParseAccess(token string) (access.Principal, error)
}

// BearerAuth resolves the Authorization header into an access.Principal.
type BearerAuth struct {
	tokens TokenParser
	log    logger.Logger
}

func NewBearerAuth(tokens TokenParser, log logger.Logger) *BearerAuth {
	return &BearerAuth{tokens: tokens, log: log}
}

func (a *BearerAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		principal, err := a.tokens.ParseAccess(token)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err, "path", r.URL.Path)
			unauthorized(w)
			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		reqLog := a.log.With("user_id", principal.UserID, "role", string(principal.Role), "request_id", chimw.GetReqID(ctx))
		ctx = logger.IntoContext(ctx, reqLog)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithPrincipal(ctx context.Context, principal access.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (access.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(access.Principal)
	if !ok || principal.UserID == "" {
		return access.Principal{}, false
	}
	return principal, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
