package httputil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ParseJSON decodes a JSON request body into v.
func ParseJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// PathVar returns a path variable from the request (chi.URLParam wrapper)
func PathVar(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// OkJSON writes a JSON response with 200 OK status
func OkJSON(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error writes a 400 error response
func Error(w http.ResponseWriter, err error) {
	ErrorWithCode(w, http.StatusBadRequest, err.Error())
}

// ErrorWithCode writes an error response with a specific status code
func ErrorWithCode(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{Code: code, Message: message})
}

// Unauthorized writes a 401 unauthorized response
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "unauthorized"
	}
	ErrorWithCode(w, http.StatusUnauthorized, message)
}

// NotFound writes a 404 not found response
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "not found"
	}
	ErrorWithCode(w, http.StatusNotFound, message)
}

// InternalError writes a 500 internal server error response
func InternalError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "internal server error"
	}
	ErrorWithCode(w, http.StatusInternalServerError, message)
}
