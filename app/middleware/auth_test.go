package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/middleware"
	"github.com/vibast-solutions/ms-go-accounts/app/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type stubValidator struct {
	claims *service.Claims
	err    error
}

func (s *stubValidator) ValidateAccessToken(string) (*service.Claims, error) {
	return s.claims, s.err
}

func invoke(t *testing.T, validator *stubValidator, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	called := false
	handler := middleware.NewAuthMiddleware(validator).RequireAuth(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(ctx); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, ctx, called
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	rec, _, called := invoke(t, &stubValidator{}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatalf("handler must not run without credentials")
	}
}

func TestRequireAuth_BadHeaderFormat(t *testing.T) {
	rec, _, called := invoke(t, &stubValidator{}, "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatalf("handler must not run with a non-bearer header")
	}
}

func TestRequireAuth_MalformedAndExpiredAreDistinct(t *testing.T) {
	malformedRec, _, _ := invoke(t, &stubValidator{err: service.ErrTokenMalformed}, "Bearer bad")
	if malformedRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed token, got %d", malformedRec.Code)
	}
	if !strings.Contains(malformedRec.Body.String(), "malformed") {
		t.Fatalf("expected malformed guidance, got %s", malformedRec.Body.String())
	}

	expiredRec, _, _ := invoke(t, &stubValidator{err: service.ErrTokenExpired}, "Bearer stale")
	if expiredRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", expiredRec.Code)
	}
	if !strings.Contains(expiredRec.Body.String(), "expired") {
		t.Fatalf("expected expired guidance, got %s", expiredRec.Body.String())
	}

	if malformedRec.Body.String() == expiredRec.Body.String() {
		t.Fatalf("expired and malformed tokens must be reported differently")
	}
}

func TestRequireAuth_SetsClaimsInContext(t *testing.T) {
	claims := &service.Claims{
		UserID: 7,
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	rec, ctx, called := invoke(t, &stubValidator{claims: claims}, "Bearer good")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Fatalf("expected handler to run")
	}
	if got, _ := ctx.Get("user_id").(uint64); got != 7 {
		t.Fatalf("expected user_id 7 in context, got %v", ctx.Get("user_id"))
	}
	if got, _ := ctx.Get("user_email").(string); got != "alice@example.com" {
		t.Fatalf("expected user_email in context, got %v", ctx.Get("user_email"))
	}
}
