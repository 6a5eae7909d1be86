package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T, userID string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID:   userID,
		Username: "tester",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JWTKey())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestJWTKeyStable(t *testing.T) {
	// Signing and verification both go through JWTKey, so the key must
	// be identical across calls no matter which package asked first.
	if !bytes.Equal(JWTKey(), JWTKey()) {
		t.Fatal("JWTKey returned different keys on consecutive calls")
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{
			name:       "valid token",
			wantStatus: http.StatusOK,
			wantUser:   "user-1",
		},
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			header := tc.header
			switch tc.name {
			case "valid token":
				header = "Bearer " + signToken(t, "user-1", time.Hour)
			case "expired token":
				header = "Bearer " + signToken(t, "user-1", -time.Hour)
			}

			var gotUser string
			handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req, nil)

			if rec.Code != tc.wantStatus {
				t.Errorf("got status %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantUser != "" && gotUser != tc.wantUser {
				t.Errorf("got user %q, want %q", gotUser, tc.wantUser)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	var gotUser string
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser, _ = r.Context().Value(globals.UserIDKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	// Anonymous request passes through with no user id.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous request got status %d", rec.Code)
	}
	if gotUser != "" {
		t.Errorf("anonymous request got user %q", gotUser)
	}

	// Authenticated request carries the user id.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-2", time.Hour))
	rec = httptest.NewRecorder()
	handler(rec, req, nil)
	if gotUser != "user-2" {
		t.Errorf("got user %q, want user-2", gotUser)
	}
}
