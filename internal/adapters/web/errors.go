package web

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"salesflow/internal/app"
)

type errorResponse struct {
	Error             string `json:"error"`
	Code              string `json:"code"`
	RequestID         string `json:"request_id,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps application-layer errors onto HTTP responses.
// Cooldowns become 429 with a retry hint, validation failures 400,
// rejected credentials 401, anything else 502 (the boundary is upstream).
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var cooldown *app.CooldownError
	if errors.As(err, &cooldown) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(errorResponse{
			Error:             cooldown.Error(),
			Code:              "LOGIN_COOLDOWN",
			RequestID:         requestIDFromContext(r.Context()),
			RetryAfterSeconds: int(math.Ceil(cooldown.Remaining.Seconds())),
		})
		return
	}

	var valErr *app.ValidationError
	if errors.As(err, &valErr) {
		writeError(w, r, valErr.Error(), "VALIDATION", http.StatusBadRequest)
		return
	}

	var authErr *app.AuthError
	if errors.As(err, &authErr) {
		writeError(w, r, authErr.Message, "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	writeError(w, r, "upstream call failed", "UPSTREAM_ERROR", http.StatusBadGateway)
}
