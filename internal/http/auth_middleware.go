package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/slipway-sh/slipway/internal/domain"
)

type authContextKey string

type authInfo struct {
	UserID string
	Email  string
}

const contextKeyAuth authContextKey = "slipway-auth-info"

// requireAuth ensures the request carries a valid bearer token before
// invoking the handler.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, _, ok := r.ensureAuth(w, req)
		if !ok {
			return
		}
		next(w, req.WithContext(ctx))
	}
}

// ensureAuth validates the Authorization header and enriches the context.
func (r *Router) ensureAuth(w http.ResponseWriter, req *http.Request) (context.Context, authInfo, bool) {
	token, err := bearerToken(req.Header.Get("Authorization"))
	if err != nil {
		r.logger.Warn("authorization header invalid", "error", err, "path", req.URL.Path)
		writeError(w, http.StatusUnauthorized, "authentication required")
		return req.Context(), authInfo{}, false
	}
	user, _, err := r.auth.Authorize(req.Context(), token)
	if err != nil {
		r.logger.Warn("token validation failed", "error", err, "path", req.URL.Path)
		writeError(w, http.StatusUnauthorized, "authentication failed")
		return req.Context(), authInfo{}, false
	}
	info := authInfo{UserID: user.ID, Email: user.Email}
	ctx := context.WithValue(req.Context(), contextKeyAuth, info)
	return ctx, info, true
}

// sessionUser resolves the current user from the session cookie. Returns nil
// when the request is unauthenticated or the session is invalid.
func (r *Router) sessionUser(req *http.Request) *domain.User {
	cookie, err := req.Cookie(r.sessionCookie)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return nil
	}
	user, _, err := r.auth.Authorize(req.Context(), cookie.Value)
	if err != nil {
		r.logger.Warn("session cookie rejected", "error", err, "path", req.URL.Path)
		return nil
	}
	return user
}

// setSession attaches the session cookie browser flows rely on.
func (r *Router) setSession(w http.ResponseWriter, accessToken string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     r.sessionCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// authInfoFromContext extracts auth metadata from context.
func authInfoFromContext(ctx context.Context) (authInfo, bool) {
	value := ctx.Value(contextKeyAuth)
	if value == nil {
		return authInfo{}, false
	}
	info, ok := value.(authInfo)
	return info, ok
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
