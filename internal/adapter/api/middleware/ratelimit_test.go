package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(h http.Handler, host string) int {
		req := httptest.NewRequest(http.MethodGet, "/reward/some-rule", nil)
		req.Host = host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("Burst Exhaustion Returns 429", func(t *testing.T) {
		h := RateLimit(1, 2, logger)(next)

		if code := send(h, "acme.example"); code != http.StatusOK {
			t.Fatalf("first request: status = %d, want 200", code)
		}
		if code := send(h, "acme.example"); code != http.StatusOK {
			t.Fatalf("second request: status = %d, want 200", code)
		}
		if code := send(h, "acme.example"); code != http.StatusTooManyRequests {
			t.Errorf("third request: status = %d, want 429", code)
		}
	})

	t.Run("Limits Are Per Origin", func(t *testing.T) {
		h := RateLimit(1, 1, logger)(next)

		if code := send(h, "acme.example"); code != http.StatusOK {
			t.Fatalf("first tenant: status = %d, want 200", code)
		}
		if code := send(h, "other.example"); code != http.StatusOK {
			t.Errorf("second tenant must have its own bucket: status = %d, want 200", code)
		}
	})
}
