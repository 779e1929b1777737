package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/taxbridge/internal/domain"
	"github.com/dukerupert/taxbridge/internal/settings"
)

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.EUNAVAILABLE, http.StatusBadGateway},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ErrorCodeToHTTPStatus(tt.code); got != tt.status {
			t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.status)
		}
	}
}

func TestErrorResponse_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/webhooks/order-calculate-taxes", nil)

	ErrorResponse(w, r, domain.Invalid("payload.parse", "malformed tax base payload"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Error.Code != domain.EINVALID {
		t.Errorf("code = %q, want %q", body.Error.Code, domain.EINVALID)
	}
	if body.Error.Message != "malformed tax base payload" {
		t.Errorf("message = %q", body.Error.Message)
	}
}

func TestErrorResponse_CodedError(t *testing.T) {
	// Package-local coded errors map through their own code, not the
	// generic internal fallback.
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/webhooks/checkout-calculate-taxes", nil)

	ErrorResponse(w, r, settings.ErrNotActive)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestErrorResponse_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	ErrorResponse(w, r, errors.New("pq: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	// Internal details must not leak to the caller.
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("internal error details leaked: %s", w.Body.String())
	}
}
