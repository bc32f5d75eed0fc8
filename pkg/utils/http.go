// Package utils holds small HTTP helpers shared by handlers and clients.
package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

func WriteJSON(w http.ResponseWriter, payload any, code int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(payload)
}

func DecodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, message string, code int) error {
	return WriteJSON(w, ErrorResponse{Message: message}, code)
}

// ValidationErrorResponse extends ErrorResponse with per-field failure
// tags, e.g. {"price": "gte=0"}.
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func WriteValidationError(w http.ResponseWriter, err error) error {
	res := ValidationErrorResponse{
		Message: "invalid request",
		Fields:  validationFields(err),
	}
	return WriteJSON(w, res, http.StatusBadRequest)
}

func validationFields(err error) map[string]string {
	fields := make(map[string]string)

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fields
	}
	for _, fe := range ve {
		tag := fe.Tag()
		if param := fe.Param(); param != "" {
			tag += "=" + param
		}
		fields[fe.Field()] = tag
	}
	return fields
}
