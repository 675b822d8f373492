package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

var ErrInvalidToken = errors.New("invalid session token")

// SessionAuth issues and checks the bearer tokens that bind a client to one
// study session. There are no user accounts: holding the token is holding
// the session.
type SessionAuth struct {
	Secret []byte
	TTL    time.Duration
}

func NewSessionAuth(secret string, ttl time.Duration) *SessionAuth {
	return &SessionAuth{Secret: []byte(secret), TTL: ttl}
}

// IssueToken creates a JWT that expires together with the session
func (a *SessionAuth) IssueToken(sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"session_id": sessionID.String(),
		"exp":        now.Add(a.TTL).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.Secret)
}

// ParseToken verifies tokenStr and returns the session it was issued for.
// Expired tokens yield an error wrapping jwt.ErrTokenExpired.
func (a *SessionAuth) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	idStr, ok := claims["session_id"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// Middleware validates the bearer token and attaches session_id to context
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		// Must be Bearer format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		sessionID, err := a.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "Session has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts session_id from request context
func GetSessionID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(SessionIDKey).(uuid.UUID)
	return id
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
