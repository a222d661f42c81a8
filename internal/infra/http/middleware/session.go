package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the portal session cookie name.
const SessionCookie = "flowtada_session"

type contextKey string

const sessionEmailKey contextKey = "session_email"

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionManager mints and verifies the signed session cookie used by the
// portal. Claims carry only the account email; everything else is looked up
// per request.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

// IssueCookie creates a session for the given email and returns the cookie
// to set on the response.
func (m *SessionManager) IssueCookie(email string) (*http.Cookie, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	}, nil
}

// ClearCookie returns an expired cookie that removes the session.
func (m *SessionManager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// Verify parses the signed cookie value and returns the session email.
func (m *SessionManager) Verify(value string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

// RequireSession guards portal routes. Requests without a valid session get
// a 401 JSON body.
func (m *SessionManager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			unauthorized(w)
			return
		}

		email, err := m.Verify(cookie.Value)
		if err != nil || email == "" {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), sessionEmailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionEmail returns the authenticated email set by RequireSession.
func SessionEmail(ctx context.Context) string {
	email, _ := ctx.Value(sessionEmailKey).(string)
	return email
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"status":"error","message":"Authentication required"}`))
}
