package web

// errors.go turns errors into JSON responses.
//
// Every error goes through core.MapError: the technical error is logged with
// the request id, and the client receives the user message, the suggested
// action and the support code. The HTTP status is derived from the code.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/logging"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// respondError logs err and writes the mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)
	status := statusFor(msg.Code)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	writeJSON(w, r, status, ErrorResponse{
		Error:  msg.Message,
		Action: msg.Action,
		Code:   msg.Code,
	})
}

// statusFor maps a support code to an HTTP status.
func statusFor(code string) int {
	switch {
	case strings.HasPrefix(code, "VAL"):
		return http.StatusBadRequest
	case code == "REC001", code == "UNIT001":
		return http.StatusNotFound
	case code == "UNIT002":
		return http.StatusBadRequest
	case code == "EXP001":
		return http.StatusServiceUnavailable
	case code == "RATE001":
		return http.StatusTooManyRequests
	case code == "REQ002":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
