package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

type UserIDKey struct{}

// GetUserIDFromContext retrieves the user ID from the context.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey{}).(string)
	return userID, ok && userID != ""
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey{}, userID)
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// SessionClaims are the claims of a DailyDiff session token. Subject is the user id.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessionManager creates a SessionManager. secure enables Secure + SameSite=None
// cookies for cross-site production deployments.
func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

// Issue signs a token for user and sets it as the session cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, user *models.User) (string, error) {
	now := m.now()
	claims := SessionClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "dailydiff",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	http.SetCookie(w, m.cookie(token, int(m.ttl.Seconds())))
	return token, nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if m.secure {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

var errNoSession = errors.New("no session")

// Parse extracts and verifies the session from the cookie or an Authorization: Bearer header.
func (m *SessionManager) Parse(r *http.Request) (*SessionClaims, error) {
	tokenString := ""
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		tokenString = c.Value
	} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		tokenString = strings.TrimPrefix(h, "Bearer ")
	}
	if tokenString == "" {
		return nil, errNoSession
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// アルゴリズムがHMACであることを確認
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// RequireAuth rejects requests without a valid session.
func (m *SessionManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.Parse(r)
		if err != nil {
			if !errors.Is(err, errNoSession) {
				log.WithError(err).Debug("AuthMiddleware: rejected session")
			}
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
	})
}

// OptionalAuth attaches the user id when a valid session is present and never rejects.
func (m *SessionManager) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := m.Parse(r); err == nil {
			r = r.WithContext(WithUserID(r.Context(), claims.Subject))
		}
		next.ServeHTTP(w, r)
	})
}
