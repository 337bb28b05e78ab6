package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"urungetir/internal/service"
)

func TestGreetingEndpoints(t *testing.T) {
	r := setupAuthRouter(newMockUserRepo(), service.NewJWTService("test-secret", time.Hour), nil)

	decodeMessage := func(t *testing.T, data []byte, key string) string {
		t.Helper()
		var body map[string]string
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return body[key]
	}

	t.Run("root greeting", func(t *testing.T) {
		rec := performRequest(r, http.MethodGet, "/", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if msg := decodeMessage(t, rec.Body.Bytes(), "message"); msg != "UrunGetir backend ayakta 🚀" {
			t.Fatalf("unexpected root message: %q", msg)
		}
	})

	t.Run("hello greeting", func(t *testing.T) {
		rec := performRequest(r, http.MethodGet, "/hello", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if msg := decodeMessage(t, rec.Body.Bytes(), "message"); msg != "Merhaba Hakan! Backend çalışıyor 😎" {
			t.Fatalf("unexpected hello message: %q", msg)
		}
	})

	t.Run("health", func(t *testing.T) {
		rec := performRequest(r, http.MethodGet, "/health", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if status := decodeMessage(t, rec.Body.Bytes(), "status"); status != "ok" {
			t.Fatalf("unexpected health status: %q", status)
		}
	})
}
