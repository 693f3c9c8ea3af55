package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const sessionContextKey contextKey = "salescope_session"

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	return s, ok
}

// carrier extracts the (token, username) pair from a request. The primary
// carrier is the `auth` and `user` query parameters, round-tripped via the
// page address so a reload can re-present them; an Authorization bearer
// header with X-Auth-User is accepted as an equivalent.
func carrier(r *http.Request) (token, username string) {
	q := r.URL.Query()
	token = q.Get("auth")
	username = q.Get("user")
	if token != "" && username != "" {
		return token, username
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
		username = r.Header.Get("X-Auth-User")
	}
	return token, username
}

// SessionMiddleware gates a handler on a valid session. Expired, mismatched
// and absent sessions are all answered with a bare 401 so a caller cannot
// distinguish expiry from never having logged in.
func SessionMiddleware(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, username := carrier(r)
			sess, err := sessions.Validate(username, token)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
