package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newLoggedServer(buf *bytes.Buffer, h echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(buf)))
	e.Use(Metrics())
	e.GET("/loans/:id", h)
	return e
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestRequestLogger_KeepsHandlerErrorBehindMetrics(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedServer(&buf, func(c echo.Context) error {
		return errors.New("mongo: connection refused")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/loans/abc", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	entry := lastEntry(t, &buf)
	if entry["level"] != "error" {
		t.Errorf("expected error level, got %v", entry["level"])
	}
	if entry["error"] != "mongo: connection refused" {
		t.Errorf("expected handler error in access log, got %v", entry["error"])
	}
	if entry["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("expected status 500, got %v", entry["status"])
	}
}

func TestRequestLogger_ClientErrorStaysInfo(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedServer(&buf, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Loan not found")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/loans/abc", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	entry := lastEntry(t, &buf)
	if entry["level"] != "info" {
		t.Errorf("expected info level, got %v", entry["level"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("expected status 404, got %v", entry["status"])
	}
	if _, ok := entry["error"]; !ok {
		t.Error("expected the handler error to be attached")
	}
}
