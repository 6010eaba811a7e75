package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/feefines/internal/adapter/http/dto"
	"github.com/iho/feefines/internal/adapter/http/middleware"
	"github.com/iho/feefines/internal/domain"
)

const maxBodyBytes = 1 << 20

// Error codes carried in ErrorResponse.Error.
const (
	codeBadRequest = "bad_request"
	codeValidation = "validation_failed"
	codeNotFound   = "not_found"
	codeConflict   = "conflict"
	codeInternal   = "internal_error"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeDomainError maps err to a status and writes it with the action context
// when err is a domain.ActionError.
func writeDomainError(w http.ResponseWriter, err error) {
	status := mapDomainError(err)
	writeJSON(w, status, dto.ErrorFromAction(errorCode(status), err))
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageConflict):
		return http.StatusConflict
	case domain.IsValidationError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusConflict:
		return codeConflict
	case http.StatusUnprocessableEntity:
		return codeValidation
	default:
		return codeInternal
	}
}

// decodeJSON decodes a bounded request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// withStaff fills the acting staff member from the token when the body left it out.
func withStaff(r *http.Request, meta domain.ActionMetadata) domain.ActionMetadata {
	if meta.UserName != "" {
		return meta
	}
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		meta.UserName = user.UserName
	}
	return meta
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
