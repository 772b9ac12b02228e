package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodapp/internal/models"
	"foodapp/internal/services"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type fakeValidator struct {
	claims *services.Claims
	err    error
}

func (f fakeValidator) ValidateToken(token string) (*services.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return f.claims, f.err
}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return resp
}

func TestAuthentication(t *testing.T) {
	v := fakeValidator{claims: &services.Claims{UserID: "u1", Role: "SELLER"}}
	var seenID string
	h := Authentication(v, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = GetUserID(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, "missing_authorization"},
		{"malformed", "Token good", http.StatusUnauthorized, "invalid_authorization"},
		{"invalid", "Bearer bad", http.StatusUnauthorized, "invalid_token"},
		{"valid", "Bearer good", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.code != "" {
				if resp := decodeError(t, rec); resp.Error != tt.code || resp.Success {
					t.Errorf("body = %+v", resp)
				}
			}
		})
	}
	if seenID != "u1" {
		t.Errorf("user id in context = %q", seenID)
	}
}

func TestRequireRole(t *testing.T) {
	h := Authentication(fakeValidator{claims: &services.Claims{UserID: "u1", Role: "CUSTOMER"}}, zerolog.Nop())(
		RequireRole(models.RoleSeller)(noContent),
	)
	req := httptest.NewRequest(http.MethodPost, "/add-food-item", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequestValidation(t *testing.T) {
	h := RequestValidation("application/json")(noContent)
	tests := []struct {
		ctype  string
		status int
	}{
		{"application/json; charset=utf-8", http.StatusNoContent},
		{"text/plain", http.StatusUnsupportedMediaType},
		{"", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{}"))
		if tt.ctype != "" {
			req.Header.Set("Content-Type", tt.ctype)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("Content-Type %q: status = %d, want %d", tt.ctype, rec.Code, tt.status)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	h := NewRateLimiter(rate.Limit(0), 1).Middleware()(noContent)
	codes := make([]int, 2)
	for i := range codes {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestErrorHandlingRecovers(t *testing.T) {
	h := ErrorHandling(zerolog.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequestLoggingSetsRequestID(t *testing.T) {
	h := RequestLogging(zerolog.Nop())(noContent)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}
