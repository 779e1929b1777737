package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/taxbridge/internal/domain"
)

// codedError is implemented by package-local error types (tax,
// settings, payload, taxjar) that mirror domain error codes without
// importing the domain package.
type codedError interface {
	ErrorCode() string
	ErrorMessage() string
}

// ErrorCodeToHTTPStatus maps an application error code to an HTTP
// status code.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode resolves the application error code for any error,
// preferring package-local coded errors over the domain wrapper.
func ErrorCode(err error) string {
	var coded codedError
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return domain.ErrorCode(err)
}

// ErrorResponse writes a structured JSON error response:
//
//	{"error": {"code": "...", "message": "..."}}
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)

	var coded codedError
	if errors.As(err, &coded) {
		code = coded.ErrorCode()
		message = coded.ErrorMessage()
	}

	status := ErrorCodeToHTTPStatus(code)
	slog.Default().Warn("request failed",
		"error", err.Error(),
		"code", code,
		"status", status,
		"path", r.URL.Path,
	)

	JSONResponse(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// JSONResponse writes v as JSON with the given status code.
func JSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}
