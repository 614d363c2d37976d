package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/workspace-engine/internal/domain"
)

// MockResetService is a mock implementation of ResetService.
type MockResetService struct {
	ResetErr  error
	GotOrigin string
}

func (m *MockResetService) Reset(ctx context.Context, origin string) error {
	m.GotOrigin = origin
	return m.ResetErr
}

func TestResetHandler_Reset(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newRequest := func(host string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/reset", nil)
		req.Host = host
		return req
	}

	t.Run("Successful Reset", func(t *testing.T) {
		service := &MockResetService{}
		h := NewResetHandler(service, logger)

		rec := httptest.NewRecorder()
		h.Reset(rec, newRequest("acme.example"))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["message"] != "Database reset successful" {
			t.Errorf("unexpected message %q", body["message"])
		}
		if service.GotOrigin != "acme.example" {
			t.Errorf("origin = %q, want %q", service.GotOrigin, "acme.example")
		}
	})

	t.Run("Tenant Unresolved", func(t *testing.T) {
		service := &MockResetService{ResetErr: domain.ErrTenantUnresolved}
		h := NewResetHandler(service, logger)

		rec := httptest.NewRecorder()
		h.Reset(rec, newRequest("unknown.example"))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("Partial Failure Names The Stage", func(t *testing.T) {
		service := &MockResetService{ResetErr: &domain.LifecycleError{
			Stage: domain.LifecycleStageInit,
			Err:   errors.New("fixture insert failed"),
		}}
		h := NewResetHandler(service, logger)

		rec := httptest.NewRecorder()
		h.Reset(rec, newRequest("acme.example"))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
		}
		var body errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode error response: %v", err)
		}
		if body.Code != "lifecycle_failed" {
			t.Errorf("error code = %q, want %q", body.Code, "lifecycle_failed")
		}
		if body.Message != "reset failed during init" {
			t.Errorf("message = %q, want stage named", body.Message)
		}
	})
}
