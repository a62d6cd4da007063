package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dberzins/authsvc/internal/common"
	"github.com/dberzins/authsvc/internal/logging"
	"github.com/dberzins/authsvc/internal/server/auth"
	"github.com/dberzins/authsvc/internal/server/models"
	"github.com/dberzins/authsvc/internal/server/services"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeSessions struct {
	regUser *models.User
	regErr  error

	loginResp *services.TokenPair
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	revokeErr error
}

func (f *fakeSessions) Register(ctx context.Context, email, password string) (*models.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return f.regUser, nil
}

func (f *fakeSessions) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeSessions) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}

func (f *fakeSessions) Revoke(ctx context.Context, refreshToken string) error {
	return f.revokeErr
}

func (f *fakeSessions) WhoAmI(claims *auth.Claims) string {
	return claims.Email
}

// ---- helpers ----

func newTestRouter(s sessionService, issuer *auth.TokenIssuer) http.Handler {
	h := NewHandler(s, issuer, nopLogger{})
	return NewServer("127.0.0.1:0", h, nopLogger{}).Router()
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func testIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
}

// ---- tests ----

func TestPing_OK(t *testing.T) {
	router := newTestRouter(&fakeSessions{}, testIssuer())
	rec := doJSON(t, router, http.MethodGet, "/api/auth/ping", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"OK"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRegister_OK(t *testing.T) {
	s := &fakeSessions{regUser: &models.User{ID: "u-1", Email: "a@x.com"}}
	router := newTestRouter(s, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"email":"a@x.com","password":"pw1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s := &fakeSessions{regErr: common.ErrDuplicateIdentity}
	router := newTestRouter(s, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"email":"a@x.com","password":"pw1"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", rec.Code)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	router := newTestRouter(&fakeSessions{}, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register",
		`{"email":"a@x.com"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestRegister_BadJSON(t *testing.T) {
	router := newTestRouter(&fakeSessions{}, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", `{notjson`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestLogin_OK(t *testing.T) {
	s := &fakeSessions{loginResp: &services.TokenPair{AccessToken: "a", RefreshToken: "r"}}
	router := newTestRouter(s, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"pw1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"access_token":"a"`) || !strings.Contains(body, `"refresh_token":"r"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := &fakeSessions{loginErr: common.ErrInvalidCredentials}
	router := newTestRouter(s, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestRefresh_OK(t *testing.T) {
	s := &fakeSessions{refreshResp: &services.TokenPair{AccessToken: "a2", RefreshToken: "r"}}
	router := newTestRouter(s, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"r"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"refresh_token":"r"`) {
		t.Fatalf("refresh token must be returned unchanged: %s", rec.Body.String())
	}
}

func TestRefresh_Invalid(t *testing.T) {
	s := &fakeSessions{refreshErr: common.ErrInvalidOrExpiredToken}
	router := newTestRouter(s, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh",
		`{"refresh_token":"bad"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestRevoke_OK(t *testing.T) {
	router := newTestRouter(&fakeSessions{}, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/revoke",
		`{"refresh_token":"r"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestRevoke_NotFound(t *testing.T) {
	s := &fakeSessions{revokeErr: common.ErrTokenNotFound}
	router := newTestRouter(s, testIssuer())

	rec := doJSON(t, router, http.MethodPost, "/api/auth/revoke",
		`{"refresh_token":"ghost"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestMe_WithValidToken(t *testing.T) {
	issuer := testIssuer()
	router := newTestRouter(&fakeSessions{}, issuer)

	tok, err := issuer.IssueAccessToken("u-1", "a@x.com", "user")
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", "",
		map[string]string{"Authorization": "Bearer " + tok})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "a@x.com") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMe_WithoutToken(t *testing.T) {
	router := newTestRouter(&fakeSessions{}, testIssuer())

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}
