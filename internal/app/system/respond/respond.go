// internal/app/system/respond/respond.go

// Package respond writes the JSON envelope every API endpoint uses.
//
// Success responses are {"success":true, ...payload}; failures are
// {"success":false,"message":...} with a status code that encodes the
// category (400 validation, 401 authentication, 403 authorization,
// 404 not found, 409 conflict, 500 unexpected). Callers never leak internal
// error text to clients; the wrapped error goes to the log only.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Payload is the extra fields merged into a success envelope.
type Payload map[string]any

// OK writes a 200 success envelope with the given payload fields.
func OK(w http.ResponseWriter, payload Payload) {
	writeSuccess(w, http.StatusOK, payload)
}

// Created writes a 201 success envelope with the given payload fields.
func Created(w http.ResponseWriter, payload Payload) {
	writeSuccess(w, http.StatusCreated, payload)
}

func writeSuccess(w http.ResponseWriter, status int, payload Payload) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Fail writes a failure envelope with an arbitrary status. Prefer the
// category helpers below so status codes stay consistent.
func Fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// SoftFail writes success=false with a 200 status. Used where clients treat
// the condition as an outcome to inspect rather than an HTTP error, such as
// an empty report export.
func SoftFail(w http.ResponseWriter, message string) {
	Fail(w, http.StatusOK, message)
}

// BadRequest reports missing or malformed input (400).
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, message)
}

// Unauthorized reports bad or missing credentials (401).
func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, message)
}

// Forbidden reports a role or approval-gate rejection (403).
func Forbidden(w http.ResponseWriter, message string) {
	Fail(w, http.StatusForbidden, message)
}

// NotFound reports an unknown id (404).
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, message)
}

// Conflict reports a duplicate or an invalid state transition (409).
func Conflict(w http.ResponseWriter, message string) {
	Fail(w, http.StatusConflict, message)
}

// ServerError logs the underlying error and reports a generic 500. The
// client sees only the supplied message, never err.
func ServerError(w http.ResponseWriter, log *zap.Logger, op string, err error, message string) {
	if log != nil {
		log.Error(op, zap.Error(err))
	}
	Fail(w, http.StatusInternalServerError, message)
}
