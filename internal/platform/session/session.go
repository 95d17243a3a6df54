package session

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// CookieName is the browser cookie carrying the anonymous session identifier.
const CookieName = "vibe_session"

// HeaderName lets non-browser clients pin a session explicitly.
const HeaderName = "X-Session-ID"

const cookieMaxAge = 30 * 24 * time.Hour

type contextKey string

const sessionContextKey contextKey = "github.com/vibe-commerce/api/internal/platform/session"

// Session identifies one storefront visitor. All cart, wishlist, wallet and
// order state is keyed by ID.
type Session struct {
	ID  string
	New bool
}

// FromContext retrieves the session established by the middleware.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	sess, ok := ctx.Value(sessionContextKey).(Session)
	if !ok || sess.ID == "" {
		return Session{}, false
	}
	return sess, true
}

// ContextWithSession stores the session on the context. Exposed for tests and
// internal callers that bypass the middleware.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey, sess)
}

// Middleware resolves the visitor session from the request. The header wins
// over the cookie; when neither is present a fresh identifier is minted and
// set as a cookie on the response.
func Middleware(newID func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := resolve(r, newID)
			if sess.New {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    sess.ID,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolve(r *http.Request, newID func() string) Session {
	if id := sanitizeID(r.Header.Get(HeaderName)); id != "" {
		return Session{ID: id}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if id := sanitizeID(cookie.Value); id != "" {
			return Session{ID: id}
		}
	}
	return Session{ID: newID(), New: true}
}

// sanitizeID rejects identifiers that could corrupt storage keys or logs.
func sanitizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > 64 {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == '_':
		default:
			return ""
		}
	}
	return id
}
