// Package response writes JSON HTTP responses.
//
// Unlike a wrapped envelope, payloads are written as-is so the REST surface
// matches what the storefront client expects (e.g. a bare Product object, or
// {"products": [...], "total": n}). Errors are always {"message": "..."}.
package response

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes v as the response body with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success writes a 200 response with v.
func Success(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Created writes a 201 response with v.
func Created(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusCreated, v)
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a JSON error response {"message": ...}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Message: message})
}

// ValidationError writes a 400 with the message and field-level errors.
func ValidationError(w http.ResponseWriter, message string, errs map[string]string) {
	JSON(w, http.StatusBadRequest, errorBody{Message: message, Errors: errs})
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// ServerError writes a generic 500. Internal detail is never sent to the
// client; callers log it server-side.
func ServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
