package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestSessionAuth_RoundTrip(t *testing.T) {
	auth := NewSessionAuth("secret", time.Hour)
	sessionID := uuid.New()

	token, err := auth.IssueToken(sessionID)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var seen uuid.UUID
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if seen != sessionID {
		t.Errorf("Expected session %s, got %s", sessionID, seen)
	}
}

func TestSessionAuth_Rejects(t *testing.T) {
	auth := NewSessionAuth("secret", time.Hour)
	other := NewSessionAuth("other-secret", time.Hour)
	expired := NewSessionAuth("secret", -time.Minute)

	foreign, _ := other.IssueToken(uuid.New())
	stale, _ := expired.IssueToken(uuid.New())
	noSession, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "UNAUTHORIZED"},
		{"not bearer", "Basic abc", "UNAUTHORIZED"},
		{"garbage", "Bearer not-a-token", "UNAUTHORIZED"},
		{"wrong secret", "Bearer " + foreign, "UNAUTHORIZED"},
		{"no session claim", "Bearer " + noSession, "UNAUTHORIZED"},
		{"expired", "Bearer " + stale, "SESSION_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			auth.Middleware(okHandler()).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("Expected 401, got %d", rec.Code)
			}
			if code := errorCode(t, rec); code != tt.code {
				t.Errorf("Expected code %q, got %q", tt.code, code)
			}
		})
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		rl.Middleware(okHandler()).ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:1001"); code != http.StatusOK {
		t.Fatalf("second request: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:1002"); code != http.StatusTooManyRequests {
		t.Errorf("third request: expected 429, got %d", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("other client: expected 200, got %d", code)
	}
}

func TestRateLimiter_KeysBySession(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	send := func(sessionID uuid.UUID) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		req = req.WithContext(context.WithValue(req.Context(), SessionIDKey, sessionID))
		rec := httptest.NewRecorder()
		rl.Middleware(okHandler()).ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(uuid.New()); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if code := send(uuid.New()); code != http.StatusOK {
		t.Errorf("Expected a second session behind the same IP to pass, got %d", code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("Expected generated id to be set on request and response, got %q / %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "abc" {
		t.Errorf("Expected client id to be kept, got %q", seen)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS("http://localhost:5173")(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for foreign origin, got %q", got)
	}
}

func TestRateLimiter_StopEndsCleanup(t *testing.T) {
	before := runtime.NumGoroutine()

	rl := NewRateLimiter(1, time.Millisecond)
	rl.Stop()
	rl.Stop()

	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := runtime.NumGoroutine(); got > before {
		t.Errorf("Expected cleanup goroutine to exit, have %d goroutines (was %d)", got, before)
	}
}
