package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestActorExtractor(t *testing.T) {
	e := echo.New()
	e.HideBanner = true
	e.Use(ActorExtractor())
	e.POST("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, ActorID(c))
	})

	actor := strings.Repeat("c", 32)
	req := httptest.NewRequest(http.MethodPost, "/ping", nil)
	req.Header.Set("X-Actor-Id", actor)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != actor {
		t.Fatalf("code=%d body=%q", rec.Code, rec.Body.String())
	}

	// missing header
	req = httptest.NewRequest(http.MethodPost, "/ping", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: code = %d, want 401", rec.Code)
	}

	// malformed id
	req = httptest.NewRequest(http.MethodPost, "/ping", nil)
	req.Header.Set("X-Actor-Id", "bob")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad id: code = %d, want 401", rec.Code)
	}
}

func TestActorID_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if got := ActorID(c); got != "" {
		t.Fatalf("ActorID on bare context = %q, want empty", got)
	}
}
