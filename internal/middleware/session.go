package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookie = "nb_session"
	SessionHeader = "X-Session-ID"
	sessionMaxAge = 30 * 24 * time.Hour
)

type sessionCtxKey int

const sessionKey sessionCtxKey = 3

// Session guarantees every request carries an anonymous session id. The id
// comes from the cookie, then the X-Session-ID header, else a new one is
// minted and set as a cookie.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil && validSessionID(c.Value) {
			id = c.Value
		} else if h := r.Header.Get(SessionHeader); validSessionID(h) {
			id = h
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
		}
		w.Header().Set(SessionHeader, id)
		ctx := context.WithValue(r.Context(), sessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKey).(string); ok {
		return v
	}
	return ""
}
