package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/user/workspace-engine/internal/domain"
)

// MockEvaluateService is a mock implementation of EvaluateService.
type MockEvaluateService struct {
	EvaluateFunc func(ctx context.Context, origin, ruleName string) (domain.Result, error)
	GotOrigin    string
	GotRule      string
}

func (m *MockEvaluateService) Evaluate(ctx context.Context, origin, ruleName string) (domain.Result, error) {
	m.GotOrigin = origin
	m.GotRule = ruleName
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, origin, ruleName)
	}
	return domain.Result{RuleName: ruleName, Score: 0}, nil
}

func newRewardRequest(host, rule string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/reward/"+rule, nil)
	req.Host = host
	req.SetPathValue("ruleName", rule)
	return req
}

func TestRewardHandler_GetReward(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		rule           string
		serviceErr     error
		serviceResult  domain.Result
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Successful Evaluation",
			rule:           "rename-slb-to-schlumberger",
			serviceResult:  domain.Result{RuleName: "rename-slb-to-schlumberger", Score: 10},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unknown Rule",
			rule:           "no-such-rule",
			serviceErr:     domain.ErrUnknownRule,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "unknown_rule",
		},
		{
			name:           "Tenant Unresolved",
			rule:           "chegg-only",
			serviceErr:     domain.ErrTenantUnresolved,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "tenant_unresolved",
		},
		{
			name:           "Connection Unavailable Is Retryable",
			rule:           "chegg-only",
			serviceErr:     domain.ErrConnectionUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "connection_unavailable",
		},
		{
			name:           "Schema Missing",
			rule:           "chegg-only",
			serviceErr:     domain.ErrSchemaMissing,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "schema_missing",
		},
		{
			name:           "Rule Execution Failure Hides Backend Detail",
			rule:           "chegg-only",
			serviceErr:     &domain.RuleExecutionError{Rule: "chegg-only", Err: errors.New("pq: relation \"person\" does not exist")},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "rule_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockEvaluateService{
				EvaluateFunc: func(ctx context.Context, origin, ruleName string) (domain.Result, error) {
					if tt.serviceErr != nil {
						return domain.Result{}, tt.serviceErr
					}
					return tt.serviceResult, nil
				},
			}
			h := NewRewardHandler(service, logger)

			rec := httptest.NewRecorder()
			h.GetReward(rec, newRewardRequest("acme.example", tt.rule))

			if rec.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}

			if tt.expectedStatus == http.StatusOK {
				var result domain.Result
				if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if result != tt.serviceResult {
					t.Errorf("result = %+v, want %+v", result, tt.serviceResult)
				}
				return
			}

			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if body.Code != tt.expectedCode {
				t.Errorf("error code = %q, want %q", body.Code, tt.expectedCode)
			}
			if strings.Contains(body.Message, "pq:") {
				t.Errorf("error message leaks backend internals: %q", body.Message)
			}
		})
	}

	t.Run("Origin Derived From Host Header", func(t *testing.T) {
		service := &MockEvaluateService{}
		h := NewRewardHandler(service, logger)

		rec := httptest.NewRecorder()
		h.GetReward(rec, newRewardRequest("Acme.Example:8443", "some-rule"))

		if service.GotOrigin != "acme.example" {
			t.Errorf("origin = %q, want %q", service.GotOrigin, "acme.example")
		}
		if service.GotRule != "some-rule" {
			t.Errorf("rule = %q, want %q", service.GotRule, "some-rule")
		}
	})
}
